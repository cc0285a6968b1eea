package app

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Blackdeer1524/FrameDB/src"
	"github.com/Blackdeer1524/FrameDB/src/bufferpool"
	"github.com/Blackdeer1524/FrameDB/src/storage/registry"
)

// Smoke drives a short in-memory workload through the whole stack:
// registry, page files and the buffer pool. Useful as a post-build
// sanity run; it touches no real files.
func Smoke(ctx context.Context, poolSize uint64, log src.Logger) error {
	files, err := registry.Open(afero.NewMemMapFs(), "smoke")
	if err != nil {
		return fmt.Errorf("failed to open file registry: %w", err)
	}

	pool := bufferpool.NewDebugManager(bufferpool.New(poolSize, log))

	eg, _ := errgroup.WithContext(ctx)
	for worker := range 4 {
		name := fmt.Sprintf("smoke_%d.db", worker)

		file, err := files.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}

		eg.Go(func() error {
			for i := range 64 {
				pageID, pg, err := pool.AllocatePage(file)
				if err != nil {
					return fmt.Errorf("failed to allocate in %s: %w", name, err)
				}

				copy(pg.Payload(), fmt.Sprintf("%s: page %d", name, i))
				if err := pool.UnpinPage(file, pageID, true); err != nil {
					return err
				}

				if i%3 == 0 {
					if err := pool.DisposePage(file, pageID); err != nil {
						return err
					}

					ok, err := file.Exists(pageID)
					if err != nil {
						return err
					}
					if ok {
						return fmt.Errorf("page %d of %s survived disposal", pageID, name)
					}

					continue
				}

				pg, err = pool.FetchPage(file, pageID)
				if err != nil {
					return fmt.Errorf("failed to refetch page %d of %s: %w", pageID, name, err)
				}
				if pg.PageID() != pageID {
					return fmt.Errorf("page %d of %s came back as %d", pageID, name, pg.PageID())
				}
				if err := pool.UnpinPage(file, pageID, false); err != nil {
					return err
				}
			}

			return pool.FlushFile(file)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	if err := pool.EnsureAllPagesUnpinned(); err != nil {
		return err
	}

	log.Infof("smoke run passed: %d files, diagnostics %+v",
		len(files.Names()), pool.Diagnostics().ValidFrames)

	return pool.Close()
}

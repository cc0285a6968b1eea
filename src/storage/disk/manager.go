package disk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/Blackdeer1524/FrameDB/src/pkg/common"
	"github.com/Blackdeer1524/FrameDB/src/storage/page"
)

var ErrNoSuchPage = errors.New("no such page")

const PageSize = page.Size

// File is one durable page file. Page number i lives at offset i*PageSize;
// the header of every slot embeds the page's own identity, a deleted slot
// carries the invalid identity.
type File struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
	id   common.FileID
}

var _ common.PageStore = (*File)(nil)

// OpenFile opens or creates a page file on the given filesystem.
func OpenFile(fs afero.Fs, path string, id common.FileID) (*File, error) {
	f, err := fs.OpenFile(filepath.Clean(path), os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open page file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close page file %s: %w", path, err)
	}

	return &File{
		fs:   fs,
		path: path,
		id:   id,
	}, nil
}

func (f *File) ID() common.FileID {
	return f.id
}

func (f *File) Filename() string {
	return f.path
}

func (f *File) ReadPage(pageID common.PageID, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("read buffer must be %d bytes, got %d", PageSize, len(buf))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := f.fs.Open(filepath.Clean(f.path))
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", f.path, err)
	}
	defer file.Close()

	//nolint:gosec
	offset := int64(pageID) * PageSize

	if _, err := file.ReadAt(buf, offset); err != nil {
		return errors.Join(err, ErrNoSuchPage)
	}

	return nil
}

// WritePage persists buf under the page identity embedded in its header.
func (f *File) WritePage(buf []byte) error {
	pg := page.Wrap(buf)
	pageID := pg.PageID()
	if pageID == common.InvalidPageID {
		return fmt.Errorf("page has no embedded identity: %w", ErrNoSuchPage)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.writeAt(pageID, buf)
}

func (f *File) writeAt(pageID common.PageID, buf []byte) error {
	file, err := f.fs.OpenFile(filepath.Clean(f.path), os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", f.path, err)
	}
	defer file.Close()

	//nolint:gosec
	offset := int64(pageID) * PageSize

	if _, err := file.WriteAt(buf, offset); err != nil {
		return fmt.Errorf("failed to write at file %s: %w", f.path, err)
	}

	return nil
}

func (f *File) AllocatePage() (common.PageID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	size, err := f.size()
	if err != nil {
		return common.InvalidPageID, err
	}

	pageID := common.PageID(size / PageSize) //nolint:gosec

	fresh := page.New()
	fresh.SetPageID(pageID)
	if err := f.writeAt(pageID, fresh.Data()); err != nil {
		return common.InvalidPageID, err
	}

	return pageID, nil
}

// DeletePage rewrites the slot with a zero page carrying the invalid
// identity. The slot itself stays claimed, truncation is not attempted.
func (f *File) DeletePage(pageID common.PageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	size, err := f.size()
	if err != nil {
		return err
	}

	//nolint:gosec
	if int64(pageID)*PageSize >= size {
		return fmt.Errorf("cannot delete page %d of %s: %w", pageID, f.path, ErrNoSuchPage)
	}

	tomb := page.New()

	return f.writeAt(pageID, tomb.Data())
}

func (f *File) Exists(pageID common.PageID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	size, err := f.size()
	if err != nil {
		return false, err
	}

	//nolint:gosec
	if int64(pageID)*PageSize >= size {
		return false, nil
	}

	file, err := f.fs.Open(filepath.Clean(f.path))
	if err != nil {
		return false, fmt.Errorf("failed to open file %s: %w", f.path, err)
	}
	defer file.Close()

	slot := make([]byte, page.Size)
	//nolint:gosec
	if _, err := file.ReadAt(slot, int64(pageID)*PageSize); err != nil {
		return false, errors.Join(err, ErrNoSuchPage)
	}

	return page.Wrap(slot).PageID() != common.InvalidPageID, nil
}

func (f *File) size() (int64, error) {
	info, err := f.fs.Stat(f.path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file %s: %w", f.path, err)
	}

	return info.Size(), nil
}

// Manager opens page files on a single filesystem and keeps them unique per
// file id.
type Manager struct {
	mu    sync.RWMutex
	fs    afero.Fs
	files map[common.FileID]*File
}

func NewManager(fs afero.Fs) *Manager {
	return &Manager{
		fs:    fs,
		files: make(map[common.FileID]*File),
	}
}

func (m *Manager) Open(path string, id common.FileID) (*File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.files[id]; ok {
		if f.path != path {
			return nil, fmt.Errorf(
				"file id %d is already bound to %s, requested %s",
				id, f.path, path,
			)
		}

		return f, nil
	}

	f, err := OpenFile(m.fs, path, id)
	if err != nil {
		return nil, err
	}
	m.files[id] = f

	return f, nil
}

func (m *Manager) Get(id common.FileID) (*File, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[id]

	return f, ok
}

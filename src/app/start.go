package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Blackdeer1524/FrameDB/src"
	"github.com/Blackdeer1524/FrameDB/src/bufferpool"
	"github.com/Blackdeer1524/FrameDB/src/delivery"
	"github.com/Blackdeer1524/FrameDB/src/pkg/utils"
	"github.com/Blackdeer1524/FrameDB/src/storage/registry"
)

const CloseTimeout = 15 * time.Second

// APIEntrypoint wires the registry, the buffer pool and the HTTP surface
// into one process.
type APIEntrypoint struct {
	Env envVars

	s     *delivery.Server
	pool  *bufferpool.Manager
	files *registry.Manager
	log   src.Logger
}

func (e *APIEntrypoint) Init(_ context.Context) error {
	e.Env = mustLoadEnv()

	var log src.Logger
	if e.Env.Environment == EnvDev {
		log = utils.Must(zap.NewDevelopment()).Sugar()
	} else {
		log = utils.Must(zap.NewProduction()).Sugar()
	}

	e.log = log

	files, err := registry.Open(afero.NewOsFs(), e.Env.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open file registry: %w", err)
	}
	e.files = files

	if e.Env.TraceLocks {
		e.pool = bufferpool.NewTraced(e.Env.PoolSize, log)
	} else {
		e.pool = bufferpool.New(e.Env.PoolSize, log)
	}

	handler := &delivery.APIHandler{
		Pool:   e.pool,
		Files:  files,
		Logger: log,
	}

	e.s = delivery.NewServer(e.Env.ServerHost, e.Env.ServerPort, handler.Mux(), log)

	return nil
}

func (e *APIEntrypoint) Run(_ context.Context) error {
	return e.s.Run()
}

func (e *APIEntrypoint) Close() (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), CloseTimeout)
	defer cancel()

	if e.s != nil {
		err = e.s.Close(ctx)
	}

	if e.pool != nil {
		if poolErr := e.pool.Close(); poolErr != nil {
			if err != nil {
				err = fmt.Errorf("%w, %w", err, poolErr)
			} else {
				err = poolErr
			}
		}
	}

	if e.log != nil {
		if err != nil {
			e.log.Error("failed to close server", zap.Error(err))
		}

		logErr := e.log.Sync()
		if logErr != nil && err != nil {
			err = fmt.Errorf("%w, %w", err, logErr)
		} else if logErr != nil {
			err = logErr
		}
	}

	return
}

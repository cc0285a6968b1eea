package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Blackdeer1524/FrameDB/src/app"
	"github.com/Blackdeer1524/FrameDB/src/pkg/utils"
)

func main() {
	root := &cobra.Command{
		Use:   "framedb",
		Short: "Page cache for disk-resident page files",
	}

	root.AddCommand(serveCmd(), smokeCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server over the configured data directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(
				cmd.Context(),
				os.Interrupt,
				syscall.SIGTERM,
			)
			defer cancel()

			e := &app.APIEntrypoint{}
			if err := e.Init(ctx); err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- e.Run(ctx)
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			return e.Close()
		},
	}
}

func smokeCmd() *cobra.Command {
	var poolSize uint64

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run a short in-memory workload and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := utils.Must(zap.NewDevelopment()).Sugar()
			defer logger.Sync() //nolint:errcheck

			return app.Smoke(cmd.Context(), poolSize, logger)
		},
	}

	cmd.Flags().Uint64Var(&poolSize, "pool-size", 16, "number of frames in the pool")

	return cmd
}

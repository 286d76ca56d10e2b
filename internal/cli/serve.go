package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tilestack-labs/tilestack/internal/composite"
	"github.com/tilestack-labs/tilestack/internal/server"
	"github.com/tilestack-labs/tilestack/pkg/driver"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the tile server",
		Example: `  # Serve with settings from tilestack.yaml
  tilestack serve

  # Serve on a custom port with debug logging
  tilestack serve --port 8080 -v`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			tileSize, err := cfg.TileSize()
			if err != nil {
				return err
			}

			drv, err := driver.Open(cfg.Driver, cfg.DriverPath)
			if err != nil {
				return fmt.Errorf("opening driver: %w", err)
			}

			svc := composite.NewService(composite.Config{
				Driver:          drv,
				DefaultTileSize: tileSize,
				Logger:          logger,
			})

			srv := server.New(server.Config{
				Service: svc,
				Port:    cfg.Port,
				Logger:  logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Serve(ctx)
		},
	}
}

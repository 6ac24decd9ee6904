package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/celaltas/lanshare-go/internal/logger"
	"github.com/celaltas/lanshare-go/internal/server"
	"github.com/celaltas/lanshare-go/pkg/config"
	"github.com/celaltas/lanshare-go/pkg/session"
	"github.com/celaltas/lanshare-go/pkg/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lanshare transfer server",
	Long: `Run the lanshare transfer server.

The server listens for incoming connections, each carrying a single file
transfer. Received bytes are staged under the configured store directory
and only committed to their final location once the declared SHA-256
digest has been verified.

Examples:
  # Start with default config location
  lanshare serve

  # Start with a custom config file
  lanshare serve --config /etc/lanshare/config.yaml

  # Override settings via environment variables
  LANSHARE_LOGGING_LEVEL=DEBUG lanshare serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	logger.Info("lanshare server starting",
		"listen_addr", cfg.Server.ListenAddr,
		"store_base_dir", cfg.Store.BaseDir)

	st, err := store.Open(store.Config{
		BaseDir:             cfg.Store.BaseDir,
		MetaPersistInterval: cfg.Transfer.MetaPersistInterval,
	})
	if err != nil {
		return err
	}

	controller := session.New(st, cfg.Transfer.IngestBufferBytes)
	srv := server.New(controller, cfg.Server.ShutdownTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(ctx, cfg.Server.ListenAddr) }()

	logger.Info("server is running, press Ctrl+C to stop")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()
		return <-serveDone
	case err := <-serveDone:
		signal.Stop(sigChan)
		return err
	}
}

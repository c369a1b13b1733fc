package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"pointsrv/internal/app"
	"pointsrv/internal/shared/config"
	"pointsrv/internal/shared/logger"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Serve point-combination requests one client at a time",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.Flags().StringVar(&configDir, "configdir", "configs", "Path to config directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	iniPath := filepath.Join(configDir, "pointsrv.ini")

	cfg := config.Default()
	if err := config.LoadIni(cfg, iniPath); err != nil {
		// logger is not initialized yet
		return fmt.Errorf("failed to load config file '%s': %w", iniPath, err)
	}

	closer, err := logger.Init(cfg.LogConf)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appServer := app.New(cfg)
	if _, err := appServer.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
	if err := appServer.Run(ctx); err != nil {
		return err
	}
	logger.Info().Msg("Server exited cleanly.")
	return nil
}

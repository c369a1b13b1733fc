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

var (
	configDir string
	count     int
)

var rootCmd = &cobra.Command{
	Use:           "clients",
	Short:         "Run simulated clients against the point-combination server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClients,
}

func init() {
	rootCmd.Flags().StringVar(&configDir, "configdir", "configs", "Path to config directory")
	rootCmd.Flags().IntVar(&count, "count", 0, "Number of clients (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}

func runClients(cmd *cobra.Command, args []string) error {
	iniPath := filepath.Join(configDir, "pointsrv.ini")

	cfg := config.Default()
	if err := config.LoadIni(cfg, iniPath); err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", iniPath, err)
	}
	if cmd.Flags().Changed("count") {
		if count < 1 {
			return fmt.Errorf("--count must be at least 1, got %d", count)
		}
		cfg.ClientConf.Count = count
	}

	closer, err := logger.Init(cfg.LogConf)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := app.RunClients(ctx, cfg, cfg.ClientConf.Count)
	for _, r := range reports {
		ev := logger.Info().Str("client", r.Name).Int("steps", r.Sent).Int("rejected", r.Rejected).Dur("elapsed", r.Elapsed)
		if r.Err != nil {
			ev = ev.Str("error", r.Err.Error())
		}
		ev.Msg("Client summary")
	}
	return err
}

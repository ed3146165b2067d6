package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirerelay-server/internal/app"
	"github.com/vovakirdan/wirerelay-server/internal/config"
	"github.com/vovakirdan/wirerelay-server/internal/log"
)

type flags struct {
	configPath string
	logLevel   string
	port       int
	host       string
	frontend   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:          "wirerelay-server",
		Short:        "WebRTC signaling relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), f)
		},
	}

	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().IntVarP(&f.port, "port", "p", 0, "HTTP listen port")
	root.PersistentFlags().StringVar(&f.host, "host", "", "HTTP listen host")
	root.PersistentFlags().StringVar(&f.frontend, "frontend-url", "", "allowed browser origin, or * for any")

	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(f)
			if err != nil {
				return err
			}
			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	return root
}

func loadConfig(f *flags) (config.Config, string, error) {
	bootstrap := log.New("warn", "console")

	cfg, path, err := config.Load(bootstrap, f.configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("load config: %w", err)
	}
	cfg.UpdateFrom(config.Config{
		Host:        f.host,
		Port:        f.port,
		FrontendURL: f.frontend,
		LogLevel:    f.logLevel,
	})
	return cfg, path, nil
}

func runServer(parent context.Context, f *flags) error {
	cfg, path, err := loadConfig(f)
	if err != nil {
		return err
	}

	logger := log.New(cfg.LogLevel, cfg.LogFormat)
	logger.Debug().Str("path", path).Msg("config resolved")

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("frontend_url", cfg.FrontendURL).
		Msg("starting wirerelay server")
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

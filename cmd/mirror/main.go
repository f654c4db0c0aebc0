// Package main provides the mirror binary entry point: the interactive
// terminal client for answering self-assessment questions and browsing
// the consistency graph.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mirror-client/infrastructure/config"
	"mirror-client/infrastructure/di"
)

const version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:          "mirror",
		Short:        "Answer self-assessment questions and watch your contradictions surface",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	// Optional config watcher: log level changes apply without restart.
	if path := os.Getenv("MIRROR_CONFIG_FILE"); path != "" {
		watcher, err := config.NewWatcher(path, container.Logger)
		if err != nil {
			container.Logger.Warn("Config watcher disabled", zap.Error(err))
		} else {
			watcher.OnChange(func(next *config.Config) {
				if level, err := zapcore.ParseLevel(next.LogLevel); err == nil {
					container.LogLevel.SetLevel(level)
				}
			})
			watcher.Start()
			defer watcher.Stop()
		}
	}

	// Optional debug metrics listener.
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", container.Metrics.Handler())
			container.Logger.Info("Metrics listener started", zap.String("address", cfg.MetricsAddr))
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				container.Logger.Warn("Metrics listener stopped", zap.Error(err))
			}
		}()
	}

	container.Logger.Info("Starting mirror client",
		zap.String("api_url", cfg.APIBaseURL),
		zap.String("session_id", container.Identity.ID()),
	)

	return container.App.Run(ctx)
}

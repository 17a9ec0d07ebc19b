package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/cli"
	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/server"
	"mercator-hq/saturn/pkg/telemetry/metrics"
	"mercator-hq/saturn/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CQL analysis service",
	Long: `Start the HTTP service that tokenizes, validates, and completes CQL for
browser-based editors.

Examples:
  # Start with default config
  saturn serve

  # Start with custom config
  saturn serve --config /etc/saturn/saturn.yaml

  # Override listen address
  saturn serve --listen 0.0.0.0:8080

  # Validate config and grammars without starting the server
  saturn serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.MustGetConfig()

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return fmt.Errorf("failed to load grammars: %w", err)
	}
	logger.Info("grammars loaded",
		"versions", registry.SupportedVersions(),
		"default", cfg.Analyzer.DefaultVersion,
	)

	tracing.ServiceVersion = Version
	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	if cfg.Telemetry.Metrics.Enabled {
		promRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	srv, err := server.NewServer(cfg, registry,
		server.WithLogger(logger.Slog()),
		server.WithMetrics(metrics.NewCollector(&cfg.Telemetry.Metrics, promRegistry)),
		server.WithTracer(tracer),
		server.WithBuildInfo(buildInfo()),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	logger.Info("starting saturn",
		"version", Version,
		"listen_address", cfg.Server.ListenAddress,
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", tracer.Enabled(),
	)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("saturn stopped")
	return nil
}

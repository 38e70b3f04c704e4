package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	catalyst "github.com/tata1mg/catalyst-go"
	"github.com/tata1mg/catalyst-go/internal/errors"
	"github.com/tata1mg/catalyst-go/pkg/middleware"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
		devMode    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve built assets for preview",
		Long: `Serve the project's build outputs: static files, a /metrics
endpoint, and a /healthz probe. Pages are Go functions compiled into
your application binary, so this command serves assets only; use it to
verify a build or front it with a CDN origin check.

In dev mode the hot reload endpoint is mounted and the output
directory is watched for changes.

Examples:
  catalyst serve
  catalyst serve --port=8080 --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, port, host, devMode)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "catalyst.json", "Config file path")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to bind (default from catalyst.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind (default from catalyst.json)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "Enable hot reload and per-request asset reloads")

	return cmd
}

func runServe(configPath string, port int, host string, devMode bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, fileCfg, err := catalyst.ConfigFromFile(ctx, configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		fileCfg.Server.Port = port
	}
	if host != "" {
		fileCfg.Server.Host = host
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	cfg.DevMode = devMode
	cfg.Metrics = reg
	cfg.Middleware = []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.Prometheus(middleware.WithRegistry(reg)),
	}

	app := catalyst.New(cfg)
	if err := app.Initialize(ctx); err != nil {
		return err
	}
	if devMode {
		app.EnableHotReload(ctx, fileCfg.OutputPath())
	}

	app.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	app.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	srv := &http.Server{
		Addr:    fileCfg.Address(),
		Handler: app,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	success("serving on http://%s", fileCfg.Address())

	select {
	case err := <-errCh:
		return errors.New("E401").Wrap(err)
	case <-ctx.Done():
	}

	info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

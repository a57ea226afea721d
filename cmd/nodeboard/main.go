package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"nodeboard/internal/config"
	apphttp "nodeboard/internal/http"
	"nodeboard/internal/logging"
	"nodeboard/internal/metrics"
	"nodeboard/internal/node"
	"nodeboard/internal/web"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	path := os.Getenv("NODEBOARD_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	// Everything that can fail happens before the listener exists.
	srv, err := setup(path, os.LookupEnv)
	if err != nil {
		slog.Error("startup", "err", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("http.starting", "addr", srv.Addr, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http.listen", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http.shutting_down")
	_ = srv.Shutdown(ctx)
	slog.Info("http.stopped")
}

func setup(path string, lookup config.LookupFunc) (*http.Server, error) {
	cfg, err := config.Load(path, lookup)
	if err != nil && cfg == nil {
		return nil, err
	}

	l := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	slog.SetDefault(l)

	if err != nil {
		slog.Warn("Could not read the config file. Will run with default values", "path", path)
	}
	if cfg.Security.PasswordHash == "" {
		slog.Warn("Dashboard basic auth is disabled. Anyone who can reach the port can view the connect string.")
	}

	m := metrics.New()
	rend, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	d := apphttp.Deps{
		Config:  cfg,
		Node:    node.New(cfg.Node, node.WithObserver(m)),
		TPL:     rend,
		Metrics: m,
		Version: Version,
	}
	mux, err := apphttp.NewMux(d)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      apphttp.WithStandardMiddleware(mux, d),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

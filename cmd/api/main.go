package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/habitflow/userhub/internal/config"
	httpx "github.com/habitflow/userhub/internal/http"
	"github.com/habitflow/userhub/internal/live"
	"github.com/habitflow/userhub/internal/observability"
	"github.com/habitflow/userhub/internal/repo"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	ctx := context.Background()

	// tracing
	shutdownTracer, err := observability.InitTracer(ctx, "userhub", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracer init failed, continuing without tracing", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	// metrics registry
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(promReg)

	// user store: mongo or postgres when configured and reachable,
	// otherwise the flat file
	store := repo.WithMetrics(repo.Select(ctx, cfg, log), prom)

	// live-update channel for admin streams
	hub := live.NewHub(log)
	hub.SetCounters(
		func() { prom.LiveEventsTotal.WithLabelValues("delivered").Inc() },
		func() { prom.LiveEventsTotal.WithLabelValues("dropped").Inc() },
	)
	hub.SetSubscriberCount(func(n int) { prom.LiveSubscribers.Set(float64(n)) })

	// set up routers
	router := httpx.NewRouter(log, cfg, store, hub, prom, promReg)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// WriteTimeout would cut long-lived event streams, so requests get
		// their own storage timeouts instead
		IdleTimeout: 60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	// closing the hub drops every subscriber so their stream handlers return
	hub.Close()

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctxTimeOut := 10 * time.Second

		sctx, cancel := config.WithTimeout(ctxTimeOut)

		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}

	if err := store.Close(); err != nil {
		log.Error("store close failed", "err", err)
	}

	if err := shutdownTracer(context.Background()); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}
}

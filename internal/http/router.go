package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/habitflow/userhub/internal/config"
	"github.com/habitflow/userhub/internal/http/handlers"
	"github.com/habitflow/userhub/internal/http/middlewares"
	"github.com/habitflow/userhub/internal/live"
	"github.com/habitflow/userhub/internal/observability"
	"github.com/habitflow/userhub/internal/repo"
)

const serviceName = "userhub"

func NewRouter(
	log *slog.Logger,
	cfg config.Config,
	store repo.UserStore,
	hub *live.Hub,
	prom *observability.Prom,
	promReg *prometheus.Registry,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(1 << 20)) // 1 MiB

	// health
	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return store.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	// wire up handlers
	usersHandler := handlers.NewUsersHandler(store, hub)
	eventsHandler := handlers.NewEventsHandler(hub)

	limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	r.GET("/users", usersHandler.ListUsers)
	r.POST("/users", limiter.RateLimiterMiddleware(), usersHandler.Register)
	r.DELETE("/users/:id", usersHandler.DeleteUser)

	// admin live-update stream
	r.GET("/events", eventsHandler.Stream)

	return r
}

// Router API service entry point: wires configuration, logging, the
// optional route cache, the provider adapters and the HTTP server, and runs
// until a shutdown signal arrives.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"curve-frontend/router-api/internal/adapters"
	"curve-frontend/router-api/internal/curvesdk"
	"curve-frontend/router-api/internal/handlers"
	"curve-frontend/router-api/internal/middleware"
	"curve-frontend/router-api/internal/services"
	"curve-frontend/router-api/internal/types"
	"curve-frontend/router-api/pkg/cache"
	"curve-frontend/router-api/pkg/config"
)

const version = "1.0.0"

// Application bundles the service's long-lived components.
type Application struct {
	Config *config.Config
	Cache  cache.RouteCache
	Server *http.Server
	Logger *logrus.Logger
}

func main() {
	app, err := NewApplication()
	if err != nil {
		logrus.Fatalf("failed to create router api application: %v", err)
	}
	if err := app.Run(); err != nil {
		logrus.Fatalf("router api exited: %v", err)
	}
}

// NewApplication builds the full dependency graph from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := initLogger(cfg)
	logger.WithFields(logrus.Fields{
		"service":     cfg.ServiceName,
		"environment": cfg.Environment,
	}).Info("starting router api")

	routeCache := cache.RouteCache(cache.NewNoop())
	if cfg.CacheEnabled() {
		routeCache, err = cache.NewRedisCache(&cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.CacheTTL,
			Prefix:   cfg.CachePrefix,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init route cache: %w", err)
		}
		logger.Info("route cache enabled")
	}

	// The on-chain SDK client is provided by the deployment; without a
	// factory the curve provider reports the chain as unconfigured.
	registry := curvesdk.NewRegistry(nil)

	adapterSet := map[types.Provider]adapters.Adapter{
		types.ProviderCurve: adapters.NewCurveAdapter(registry, logger),
		types.ProviderEnso:  adapters.NewEnsoAdapter(cfg.EnsoAPIURL, logger),
		types.ProviderOdos:  adapters.NewOdosAdapter(cfg.OdosAPIURL, logger),
	}

	aggregator := services.NewAggregator(adapterSet, cfg.ProviderTimeout, routeCache, logger)
	handler := handlers.NewRoutesHandler(aggregator, logger, cfg.ServiceName, cfg.Environment, version)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, handler, logger)

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return &Application{Config: cfg, Cache: routeCache, Server: server, Logger: logger}, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then drains
// connections gracefully.
func (app *Application) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		app.Logger.Infof("listening on %s", app.Server.Addr)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatalf("http server failed: %v", err)
		}
	}()

	<-quit
	app.Logger.Info("shutdown signal received")
	return app.Shutdown()
}

// Shutdown drains the HTTP server and closes the cache connection.
func (app *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Logger.Errorf("http server shutdown: %v", err)
		return err
	}
	if err := app.Cache.Close(); err != nil {
		app.Logger.Errorf("cache close: %v", err)
		return err
	}
	app.Logger.Info("router api stopped")
	return nil
}

func initLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}

func setupRouter(cfg *config.Config, handler *handlers.RoutesHandler, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.RateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	router.GET("/health", handler.Health)

	v1 := router.Group("/api/router/v1")
	{
		v1.GET("/routes", handler.GetRoutes)
	}

	return router
}

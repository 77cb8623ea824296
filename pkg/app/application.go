package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"

	"fishtank/internal/fish/events"
	"fishtank/internal/fish/handler"
	"fishtank/internal/fish/repository"
	"fishtank/pkg/config"
	"fishtank/pkg/contracts"
	"fishtank/pkg/metrics"
	"fishtank/pkg/middleware"
)

type Application struct {
	cfg            *config.Config
	repo           repository.FishRepository
	publisher      events.Publisher
	server         *http.Server
	healthHandler  http.Handler
	appHTTPHandler http.Handler
}

func NewApplication(cfg *config.Config, repo repository.FishRepository, publisher events.Publisher) *Application {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Application{
		cfg:       cfg,
		repo:      repo,
		publisher: publisher,
	}
}

func (a *Application) SetApp(appHandler contracts.Handler) {
	a.setHealthHandler()
	a.setAppHandler(appHandler)
	a.setAppServer()
}

// Handler is the fully wired request handler, as served by Run.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()
	healthHandler := handler.NewHealthHandler(a.repo, a.cfg.Log)
	healthHandler.RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

// setAppHandler wraps the router so that requests pass through
// Recovery → Logging → Metrics → Diagnostic → CORS → MaxSize → ContentType → Timeout → Router.
func (a *Application) setAppHandler(appHandler contracts.Handler) {
	appRouter := httprouter.New()
	appRouter.HandleMethodNotAllowed = false
	appRouter.HandleOPTIONS = false
	appRouter.NotFound = handler.NotFound(a.cfg.Log)
	appHandler.RegisterRoutes(appRouter)

	var appHTTPHandler http.Handler = appRouter
	appHTTPHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHTTPHandler)
	appHTTPHandler = middleware.ContentTypeValidation(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHTTPHandler)
	appHTTPHandler = middleware.CORS()(appHTTPHandler)
	if a.cfg.Diagnostic != nil {
		appHTTPHandler = middleware.Diagnostic(a.cfg.Diagnostic)(appHTTPHandler)
	}
	if a.cfg.MetricsEnabled {
		appHTTPHandler = middleware.Metrics(handler.Actions...)(appHTTPHandler)
	}
	appHTTPHandler = middleware.RequestLogging(a.cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.Recovery(a.cfg.Log)(appHTTPHandler)
	a.appHTTPHandler = appHTTPHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack",
		"base_path", a.cfg.APIBasePath,
	)
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	if a.cfg.MetricsEnabled {
		mux.Handle("/metrics", metrics.Handler())
	}
	mux.Handle("/", a.appHTTPHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr, "store", a.repo.Driver())
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Fatal("Could not stop server gracefully", "error", err)
		}
	}
	a.close()

	a.cfg.Log.Info("Server stopped gracefully")
}

// close releases the event producer, the store and shared clients.
func (a *Application) close() {
	if err := a.publisher.Close(); err != nil {
		a.cfg.Log.Error("Failed to close event publisher", "error", err)
	}
	if err := a.repo.Close(); err != nil {
		a.cfg.Log.Error("Failed to close fish store", "driver", a.repo.Driver(), "error", err)
	}
	if a.cfg.Client != nil {
		a.cfg.GracefulShutdown()
	}
}

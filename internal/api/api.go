package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/susu3304/slashbot/internal/commands"
	"github.com/susu3304/slashbot/internal/config"
	"go.uber.org/zap"
)

// Hook mounts a command on a path, guarded by its own token.
type Hook struct {
	Path    string
	Token   string
	Command commands.Command
}

type API struct {
	router *mux.Router
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

func New(cfg *config.Config, hooks []Hook, logger *zap.Logger) *API {
	api := &API{
		router: mux.NewRouter(),
		config: cfg,
		logger: logger,
	}

	api.setupRoutes(hooks)

	api.server = &http.Server{
		Addr:              cfg.WebBind,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return api
}

func (a *API) setupRoutes(hooks []Hook) {
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Slash commands
	for _, h := range hooks {
		a.router.HandleFunc(h.Path, a.handleHook(h)).Methods("POST")
		a.logger.Info("Slash command mounted", zap.String("command", h.Command.Name()), zap.String("path", h.Path))
	}
}

// Handler returns the router wrapped with CORS handling.
func (a *API) Handler() http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins:   a.config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}
	return cors.New(corsOptions).Handler(a.router)
}

// Start blocks serving requests until Shutdown is called.
func (a *API) Start() error {
	a.logger.Info("API server listening", zap.String("bind", a.config.WebBind))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

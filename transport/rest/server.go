package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger   *slog.Logger
	handlers *handlers
}

func New(logger *slog.Logger, gameService gameService) *Server {
	log := logger.With("component", "rest")

	return &Server{
		logger:   log,
		handlers: &handlers{logger: log, gameService: gameService},
	}
}

// Handler wires routes and returns an http.Handler.
func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)

	r.Post("/games", that.handlers.createGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", that.handlers.getGame)
		r.Delete("/", that.handlers.deleteGame)
		r.Post("/play", that.handlers.play)
		r.Post("/jump", that.handlers.jump)
	})

	return r
}

// Start - serves the REST API until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/guessnumber-backend/internal/entity"
)

type gameStatus interface {
	Snapshot() *entity.Game
}

// Server exposes the read-only HTTP surface: liveness and the current game
// snapshot for anything that wants to render it.
type Server struct {
	logger *slog.Logger
	game   gameStatus
}

func New(logger *slog.Logger, game gameStatus) *Server {
	return &Server{
		logger: logger.With("component", "rest-server"),
		game:   game,
	}
}

// Start - starts the HTTP server.
func (that *Server) Start(port string) error {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/ping", that.pingHandler)
	router.Get("/status", that.statusHandler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *Server) statusHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(that.game.Snapshot()); err != nil {
		that.logger.Error("failed to encode game snapshot", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/guessnumber-backend/internal/config"
	"github.com/rocketscienceinc/guessnumber-backend/internal/event"
	"github.com/rocketscienceinc/guessnumber-backend/internal/repository"
	"github.com/rocketscienceinc/guessnumber-backend/internal/repository/storage"
	"github.com/rocketscienceinc/guessnumber-backend/internal/usecase"
	"github.com/rocketscienceinc/guessnumber-backend/transport/rest"
	"github.com/rocketscienceinc/guessnumber-backend/transport/tcp"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application: one game per process. The process exits
// when the game ends, on a signal, or when a server fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	playerRepo := repository.NewPlayerRepository(redisStorage)
	gameRepo := repository.NewGameRepository(redisStorage)
	notifier := event.NewLogNotifier(logger)

	gameManager := usecase.NewGameManager(logger, usecase.Config{
		QuorumWait: conf.Game.QuorumWait,
		MinPlayers: conf.Game.MinPlayers,
		Secret:     conf.Game.Secret,
	}, notifier, playerRepo, gameRepo)

	log.Debug("secret number generated", "secret", gameManager.Secret())

	// run the quorum timer
	go gameManager.Run(ctx)
	defer gameManager.Shutdown(ctx)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, gameManager)
		if httpErr := restServer.Start(conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run TCP game server
	tcpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting TCP server", "addr", conf.TCP.GetTCPAddr())
		tcpServer := tcp.New(logger, gameManager, conf.Game.TurnTimeout)
		if tcpErr := tcpServer.Start(ctx, conf.TCP.GetTCPAddr()); tcpErr != nil {
			log.Error("TCP server error", "error", tcpErr)
			tcpErrCh <- tcpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-tcpErrCh:
		return fmt.Errorf("TCP server error: %w", err)
	case <-gameManager.Done():
		log.Info("Game finished, shutting down")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

package tcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/rocketscienceinc/guessnumber-backend/internal/apperror"
	"github.com/rocketscienceinc/guessnumber-backend/internal/session"
)

const msgAskNickname = "Please enter your nickname"

// nicknameTimeout bounds how long a fresh connection may sit on the
// nickname prompt without registering.
const nicknameTimeout = 60 * time.Second

type gameManager interface {
	Join(ctx context.Context, sess *session.Session) error
	HandleGuess(ctx context.Context, sess *session.Session, guess string) error
	Leave(ctx context.Context, sess *session.Session)

	Started() <-chan struct{}
	Done() <-chan struct{}
}

// Server accepts client connections and runs one handler goroutine per
// connection, speaking the line-oriented game protocol.
type Server struct {
	logger      *slog.Logger
	game        gameManager
	turnTimeout time.Duration
}

func New(logger *slog.Logger, game gameManager, turnTimeout time.Duration) *Server {
	return &Server{
		logger:      logger.With("component", "tcp-server"),
		game:        game,
		turnTimeout: turnTimeout,
	}
}

// Start - listens on addr and accepts connections until the context is
// canceled. A single misbehaving connection never takes the server down.
func (that *Server) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return that.Serve(ctx, listener)
}

// Serve - accepts connections from an existing listener.
func (that *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	that.logger.Info("listening", "addr", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("failed to accept connection: %w", err)
		}

		go that.handleConn(ctx, conn)
	}
}

// handleConn runs the per-connection protocol: nickname, registration, the
// quorum gate, then the guess loop. Any exit path funnels through session
// teardown in the game manager.
func (that *Server) handleConn(ctx context.Context, conn net.Conn) {
	log := that.logger.With("method", "handleConn", "remote", conn.RemoteAddr().String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from connection panic", "panic", r)
			_ = conn.Close()
		}
	}()

	sess, err := that.register(ctx, conn)
	if err != nil {
		log.Info("connection not registered", "error", err)
		_ = conn.Close()
		return
	}

	log = log.With("player", sess.Name())
	defer that.game.Leave(ctx, sess)

	// Block until the quorum gate releases. A canceled game closes the
	// session channels, so there is nothing left to read.
	select {
	case <-that.game.Started():
	case <-that.game.Done():
		return
	case <-ctx.Done():
		return
	}

	for {
		line, err := sess.ReadLine(that.turnTimeout)
		if err != nil {
			// Timeouts, resets and peer closes are all the same
			// disconnect from the game's point of view.
			log.Info("session read ended", "error", err)
			return
		}

		if err = that.game.HandleGuess(ctx, sess, line); err != nil {
			if errors.Is(err, apperror.ErrGameFinished) {
				return
			}
			log.Error("failed to handle guess", "error", err)
			return
		}
	}
}

// register - prompts for a nickname and registers the session with the
// game. An empty or absent nickname closes the connection unregistered.
func (that *Server) register(ctx context.Context, conn net.Conn) (*session.Session, error) {
	if _, err := conn.Write([]byte(msgAskNickname + "\n")); err != nil {
		return nil, fmt.Errorf("failed to send nickname prompt: %w", err)
	}

	sess := session.New("", conn)

	name, err := sess.ReadLine(nicknameTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to read nickname: %w", err)
	}
	if name == "" {
		return nil, apperror.ErrEmptyNickname
	}

	sess.SetName(name)

	if err = that.game.Join(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}

	return sess, nil
}

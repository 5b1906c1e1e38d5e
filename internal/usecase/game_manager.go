package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/rocketscienceinc/guessnumber-backend/internal/apperror"
	"github.com/rocketscienceinc/guessnumber-backend/internal/entity"
	"github.com/rocketscienceinc/guessnumber-backend/internal/event"
	"github.com/rocketscienceinc/guessnumber-backend/internal/game"
	"github.com/rocketscienceinc/guessnumber-backend/internal/session"
	"github.com/rocketscienceinc/guessnumber-backend/internal/turn"
)

// Server to client protocol lines. The texts are part of the wire contract.
const (
	MsgYourTurn = "Your turn!"

	msgWelcome      = "Welcome %s! Waiting for other players to join..."
	msgCanceled     = "Game canceled: need at least 2 players."
	msgGameStart    = "Game start!"
	msgPlayerOrder  = "Player order: %s"
	msgFirstTurn    = "First turn: %s"
	msgNotYourTurn  = "Not your turn! Please wait."
	msgInvalidInput = "Invalid input. Enter a 4-digit number."
	msgGuessResult  = "%s guessed %s → %s"
	msgWon          = "%s WON! The number was %s"
	msgGameOver     = "Game over. Thank you for playing!"
	msgNowTurn      = "Now it's %s's turn!"
	msgDisconnected = "%s disconnected. Now it's %s's turn!"
	msgNotEnough    = "Not enough players to continue. Game over."
	msgLateJoin     = "Game already in progress. Try again later."

	orderSeparator = " → "
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	DeleteByID(ctx context.Context, id string) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	DeleteByID(ctx context.Context, id string) error
}

type Config struct {
	QuorumWait time.Duration
	MinPlayers int

	// Secret pins the secret number instead of generating one. Debug only.
	Secret string
}

// GameManager drives the single game through its phases: waiting for
// players, ongoing, finished. It is the sole writer of game-wide state; the
// mutex is the one mutual-exclusion domain covering registry membership
// decisions, the turn order, the current turn and the phase, so simultaneous
// guesses, joins and disconnects from different connections serialize here.
type GameManager struct {
	logger   *slog.Logger
	notifier event.Notifier

	playerRepo playerRepo
	gameRepo   gameRepo

	gameID     string
	secret     string
	quorumWait time.Duration
	minPlayers int

	registry *session.Registry

	mu      sync.Mutex
	phase   string
	order   *turn.Order
	guesses map[string]int
	total   int
	winner  string

	started chan struct{}
	done    chan struct{}
}

func NewGameManager(logger *slog.Logger, conf Config, notifier event.Notifier, playerRepo playerRepo, gameRepo gameRepo) *GameManager {
	secret := conf.Secret
	if !game.ValidGuess(secret) {
		secret = game.NewSecret()
	}

	minPlayers := conf.MinPlayers
	if minPlayers < 2 {
		minPlayers = 2
	}

	return &GameManager{
		logger:     logger.With("component", "game-manager"),
		notifier:   notifier,
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		gameID:     generateGameID(),
		secret:     secret,
		quorumWait: conf.QuorumWait,
		minPlayers: minPlayers,
		registry:   session.NewRegistry(),
		phase:      entity.StatusWaiting,
		guesses:    make(map[string]int),
		started:    make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Secret returns the number to be guessed. Exposed for debug logging and
// tests only; it is never sent to clients before a win.
func (that *GameManager) Secret() string {
	return that.secret
}

// Started is closed once the quorum gate releases and the game begins.
func (that *GameManager) Started() <-chan struct{} {
	return that.started
}

// Done is closed when the game reaches its terminal phase.
func (that *GameManager) Done() <-chan struct{} {
	return that.done
}

// Run - owns the quorum timer: it waits the full window, then either cancels
// the game for lack of players or freezes the turn order and starts it. The
// window is not cut short when the quorum arrives early; latecomers may
// still join until the timer fires.
func (that *GameManager) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	log.Info("waiting for players", "window", that.quorumWait.String(), "min_players", that.minPlayers)

	timer := time.NewTimer(that.quorumWait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		that.Shutdown(ctx)
		return
	case <-timer.C:
	}

	that.startGame(ctx)
}

// Join registers a session while the game is still waiting for players and
// sends the welcome line. Once the game has started, new connections are
// politely refused.
func (that *GameManager) Join(ctx context.Context, sess *session.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.phase {
	case entity.StatusOngoing:
		_ = sess.Send(msgLateJoin)
		return apperror.ErrGameInProgress
	case entity.StatusFinished:
		_ = sess.Send(msgLateJoin)
		return apperror.ErrGameFinished
	}

	that.registry.Add(sess)
	_ = sess.Send(fmt.Sprintf(msgWelcome, sess.Name()))

	that.logger.Info("player joined", "player", sess.Name(), "players", that.registry.Len())
	that.notifier.Notify(event.Event{Kind: event.KindJoined, Player: sess.Name()})

	that.persistPlayer(ctx, sess)
	that.persistGameLocked(ctx)

	return nil
}

// HandleGuess processes one line from a session during the ongoing phase:
// out-of-turn and malformed guesses are rejected in place without consuming
// the turn; a valid guess is scored and broadcast, then the game either
// finishes on a win, aborts when too few players remain, or advances the
// turn. Returns apperror.ErrGameFinished once the game is over so the
// connection handler can stop reading.
func (that *GameManager) HandleGuess(ctx context.Context, sess *session.Session, guess string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.phase {
	case entity.StatusFinished:
		return apperror.ErrGameFinished
	case entity.StatusWaiting:
		return apperror.ErrGameIsNotStarted
	}

	if !that.order.IsCurrent(sess.ID()) {
		_ = sess.Send(msgNotYourTurn)
		return nil
	}

	if !game.ValidGuess(guess) {
		_ = sess.Send(msgInvalidInput)
		return nil
	}

	bulls, cows := game.Score(that.secret, guess)
	score := game.FormatScore(bulls, cows)

	that.total++
	that.guesses[sess.ID()]++
	that.persistPlayer(ctx, sess)

	that.registry.Broadcast(fmt.Sprintf(msgGuessResult, sess.Name(), guess, score), nil)
	that.notifier.Notify(event.Event{Kind: event.KindGuess, Player: sess.Name(), Guess: guess, Score: score})

	if score == game.WinningScore {
		that.winner = sess.Name()

		that.registry.Broadcast(fmt.Sprintf(msgWon, sess.Name(), that.secret), nil)
		that.registry.Broadcast(msgGameOver, nil)
		that.notifier.Notify(event.Event{Kind: event.KindWin, Player: sess.Name(), Guess: guess, Secret: that.secret})

		that.logger.Info("game won", "winner", sess.Name(), "guesses", that.total)
		that.finishLocked(ctx)

		return apperror.ErrGameFinished
	}

	if !that.order.Advance() {
		that.abortLocked(ctx)
		return apperror.ErrGameFinished
	}

	next := that.currentSessionLocked()
	if next != nil {
		that.registry.Broadcast(fmt.Sprintf(msgNowTurn, next.Name()), nil)
		_ = next.Send(MsgYourTurn)
		that.notifier.Notify(event.Event{Kind: event.KindTurnChanged, NextPlayer: next.Name()})
	}

	that.persistGameLocked(ctx)

	return nil
}

// Leave tears the session down on any exit path: it leaves the registry
// always; mid-game it also leaves the turn order, aborting the game when the
// quorum is lost or announcing the reconciled current player otherwise. Safe
// to call for sessions that were already torn down.
func (that *GameManager) Leave(ctx context.Context, sess *session.Session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.registry.Remove(sess.ID()) == nil {
		return
	}
	_ = sess.Close()

	if that.playerRepo != nil {
		if err := that.playerRepo.DeleteByID(ctx, sess.ID()); err != nil {
			that.logger.Debug("could not delete player record", "player", sess.Name(), "error", err)
		}
	}

	if that.phase != entity.StatusOngoing {
		that.logger.Info("player left", "player", sess.Name(), "players", that.registry.Len())
		return
	}

	previousID, _ := that.order.Current()
	remaining := that.order.Remove(sess.ID())

	that.logger.Info("player disconnected mid-game", "player", sess.Name(), "remaining", remaining)

	if remaining < that.minPlayers {
		that.abortLocked(ctx)
		return
	}

	current := that.currentSessionLocked()
	if current == nil {
		return
	}

	that.registry.Broadcast(fmt.Sprintf(msgDisconnected, sess.Name(), current.Name()), nil)
	if currentID, _ := that.order.Current(); currentID != previousID {
		_ = current.Send(MsgYourTurn)
	}
	that.notifier.Notify(event.Event{Kind: event.KindDisconnected, Player: sess.Name(), NextPlayer: current.Name()})

	that.persistGameLocked(ctx)
}

// Snapshot returns the externally visible game state.
func (that *GameManager) Snapshot() *entity.Game {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// startGame - fires when the quorum window elapses: cancels the game when
// too few players joined, otherwise freezes the randomized turn order,
// announces it and opens the first turn.
func (that *GameManager) startGame(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.phase != entity.StatusWaiting {
		return
	}

	if that.registry.Len() < that.minPlayers {
		that.logger.Info("game canceled", "players", that.registry.Len(), "min_players", that.minPlayers)

		that.registry.Broadcast(msgCanceled, nil)
		that.notifier.Notify(event.Event{Kind: event.KindCanceled})
		that.finishLocked(ctx)

		return
	}

	that.order = turn.NewOrder(that.registry.IDs())
	that.phase = entity.StatusOngoing

	names := that.orderNamesLocked()
	first := that.currentSessionLocked()

	that.registry.Broadcast(msgGameStart, nil)
	that.registry.Broadcast(fmt.Sprintf(msgPlayerOrder, strings.Join(names, orderSeparator)), nil)
	that.registry.Broadcast(fmt.Sprintf(msgFirstTurn, first.Name()), nil)
	_ = first.Send(MsgYourTurn)

	that.logger.Info("game started", "order", names, "first", first.Name())
	that.notifier.Notify(event.Event{Kind: event.KindGameStarted, Players: names, NextPlayer: first.Name()})

	that.persistGameLocked(ctx)

	close(that.started)
}

// abortLocked ends the game because fewer players remain than the quorum.
func (that *GameManager) abortLocked(ctx context.Context) {
	that.registry.Broadcast(msgNotEnough, nil)
	that.notifier.Notify(event.Event{Kind: event.KindAborted})

	that.logger.Info("game aborted", "players", that.registry.Len())
	that.finishLocked(ctx)
}

// finishLocked performs the one-way transition to the terminal phase:
// closing every channel unblocks all pending reads, and the first caller
// wins; later qualifying events observe the finished phase and no-op.
func (that *GameManager) finishLocked(ctx context.Context) {
	if that.phase == entity.StatusFinished {
		return
	}
	that.phase = entity.StatusFinished

	that.registry.CloseAll()
	that.notifier.Notify(event.Event{Kind: event.KindFinished, Player: that.winner})

	if that.gameRepo != nil {
		if err := that.gameRepo.DeleteByID(ctx, that.gameID); err != nil {
			that.logger.Debug("could not delete game record", "error", err)
		}
	}

	close(that.done)
}

// Shutdown ends the game without broadcasts when the process is stopping,
// whatever phase it is in. Closing the channels unblocks every connection
// handler. No-op when the game already finished.
func (that *GameManager) Shutdown(ctx context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.phase == entity.StatusFinished {
		return
	}

	that.logger.Info("shutting down the game", "phase", that.phase)
	that.finishLocked(ctx)
}

func (that *GameManager) currentSessionLocked() *session.Session {
	id, ok := that.order.Current()
	if !ok {
		return nil
	}

	sess, ok := that.registry.Get(id)
	if !ok {
		return nil
	}

	return sess
}

func (that *GameManager) orderNamesLocked() []string {
	ids := that.order.IDs()

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if sess, ok := that.registry.Get(id); ok {
			names = append(names, sess.Name())
		}
	}

	return names
}

func (that *GameManager) snapshotLocked() *entity.Game {
	snapshot := entity.NewGame(that.gameID)
	snapshot.Status = that.phase
	snapshot.Guesses = that.total
	snapshot.Winner = that.winner

	if that.order == nil {
		for _, sess := range that.registry.Snapshot() {
			snapshot.Players = append(snapshot.Players, sess.Name())
		}
		return snapshot
	}

	snapshot.Players = that.orderNamesLocked()
	if that.phase == entity.StatusOngoing {
		if current := that.currentSessionLocked(); current != nil {
			snapshot.Turn = current.Name()
		}
	}

	return snapshot
}

// persistGameLocked mirrors the current snapshot to storage, best-effort.
func (that *GameManager) persistGameLocked(ctx context.Context) {
	if that.gameRepo == nil {
		return
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, that.snapshotLocked()); err != nil {
		that.logger.Debug("could not persist game snapshot", "error", err)
	}
}

func (that *GameManager) persistPlayer(ctx context.Context, sess *session.Session) {
	if that.playerRepo == nil {
		return
	}

	player := &entity.Player{
		ID:      sess.ID(),
		Name:    sess.Name(),
		GameID:  that.gameID,
		Guesses: that.guesses[sess.ID()],
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		that.logger.Debug("could not persist player record", "player", sess.Name(), "error", err)
	}
}

// generateGameID - generates a unique identifier for the game.
func generateGameID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(99999999))
	if err != nil {
		return ""
	}

	return n.String()
}

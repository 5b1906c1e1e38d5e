// Package event carries structured notifications about state-affecting game
// moments, so a display layer (GUI, CLI, log sink) can render them without
// reaching into game internals.
package event

import "log/slog"

type Kind string

const (
	KindJoined       Kind = "joined"
	KindGameStarted  Kind = "game_started"
	KindTurnChanged  Kind = "turn_changed"
	KindGuess        Kind = "guess"
	KindWin          Kind = "win"
	KindDisconnected Kind = "disconnected"
	KindCanceled     Kind = "canceled"
	KindAborted      Kind = "aborted"
	KindFinished     Kind = "finished"
)

// Event is one state-affecting moment. Only the fields relevant to the kind
// are populated.
type Event struct {
	Kind       Kind
	Player     string
	NextPlayer string
	Guess      string
	Score      string
	Secret     string
	Players    []string
}

// Notifier consumes game events. Implementations must not block: the game
// manager emits while holding its state lock.
type Notifier interface {
	Notify(e Event)
}

// LogNotifier renders events to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "game-events")}
}

func (that *LogNotifier) Notify(e Event) {
	attrs := []any{"kind", string(e.Kind)}

	if e.Player != "" {
		attrs = append(attrs, "player", e.Player)
	}
	if e.NextPlayer != "" {
		attrs = append(attrs, "next_player", e.NextPlayer)
	}
	if e.Guess != "" {
		attrs = append(attrs, "guess", e.Guess, "score", e.Score)
	}
	if e.Secret != "" {
		attrs = append(attrs, "secret", e.Secret)
	}
	if len(e.Players) > 0 {
		attrs = append(attrs, "players", e.Players)
	}

	that.logger.Info("game event", attrs...)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

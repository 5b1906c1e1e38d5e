package entity

import (
	"errors"
	"fmt"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Game represents the state of the game: its phase, the players in turn
// order, whose turn it is and how many guesses have been made so far.
type Game struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	Players []string `json:"players,omitempty"`
	Turn    string   `json:"turn,omitempty"`
	Winner  string   `json:"winner,omitempty"`
	Guesses int      `json:"guesses"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Status: StatusWaiting,
	}
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

// ConfirmStatus - validates that the status string is one of the known phases.
func (that *Game) ConfirmStatus() error {
	switch that.Status {
	case StatusWaiting, StatusOngoing, StatusFinished:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

package entity

// Player holds the record of one connected participant mirrored to storage.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GameID  string `json:"game_id,omitempty"`
	Guesses int    `json:"guesses,omitempty"`
}

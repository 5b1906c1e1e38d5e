// Package turn coordinates whose guess is valid at any point of the game.
//
// The order stores stable session IDs rather than positional slots, so
// removing a player never invalidates the references held for the others.
package turn

import "math/rand"

// Order is the randomized sequence of session IDs and the index of the
// current turn. It is not safe for concurrent use; the game manager
// serializes access to it.
type Order struct {
	ids     []string
	current int
}

// NewOrder builds a turn order from the given session IDs, shuffled into a
// random permutation.
func NewOrder(ids []string) *Order {
	shuffled := make([]string, len(ids))
	copy(shuffled, ids)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return &Order{ids: shuffled}
}

// Current returns the session ID whose turn it is. ok is false when the
// order is empty.
func (that *Order) Current() (id string, ok bool) {
	if len(that.ids) == 0 {
		return "", false
	}
	return that.ids[that.current], true
}

// IsCurrent reports whether the given session holds the current turn.
func (that *Order) IsCurrent(id string) bool {
	current, ok := that.Current()
	return ok && current == id
}

// Advance moves the turn to the next player, wrapping around. It returns
// false when fewer than two players remain; the caller ends the game.
func (that *Order) Advance() bool {
	if len(that.ids) < 2 {
		return false
	}

	that.current = (that.current + 1) % len(that.ids)

	return true
}

// Remove deletes the session from the order and returns the resulting
// length. Removing an entry before the current one shifts the current index
// down so it keeps pointing at the same player; if the index falls out of
// range it resets to the head of the order.
func (that *Order) Remove(id string) int {
	idx := -1
	for i, existing := range that.ids {
		if existing == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return len(that.ids)
	}

	that.ids = append(that.ids[:idx], that.ids[idx+1:]...)

	if idx < that.current {
		that.current--
	}
	if that.current >= len(that.ids) {
		that.current = 0
	}

	return len(that.ids)
}

// Len returns the number of players left in the order.
func (that *Order) Len() int {
	return len(that.ids)
}

// IDs returns a copy of the order, head first.
func (that *Order) IDs() []string {
	out := make([]string, len(that.ids))
	copy(out, that.ids)
	return out
}

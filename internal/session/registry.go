package session

import "sync"

// Registry is the set of currently connected sessions. It owns membership
// only; game rules live in the game manager.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string // join order, for stable snapshots
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

func (that *Registry) Add(sess *Session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[sess.ID()]; ok {
		return
	}

	that.sessions[sess.ID()] = sess
	that.order = append(that.order, sess.ID())
}

// Remove - removes the session with the given ID, returning it if present.
func (that *Registry) Remove(id string) *Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[id]
	if !ok {
		return nil
	}

	delete(that.sessions, id)
	for i, existing := range that.order {
		if existing == id {
			that.order = append(that.order[:i], that.order[i+1:]...)
			break
		}
	}

	return sess
}

func (that *Registry) Get(id string) (*Session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.sessions[id]

	return sess, ok
}

func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

// Snapshot returns the registered sessions in join order.
func (that *Registry) Snapshot() []*Session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	out := make([]*Session, 0, len(that.order))
	for _, id := range that.order {
		out = append(out, that.sessions[id])
	}

	return out
}

// IDs returns the registered session IDs in join order.
func (that *Registry) IDs() []string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	out := make([]string, len(that.order))
	copy(out, that.order)

	return out
}

// Broadcast - sends the message to every registered session except the
// excluded one. Delivery is best-effort: a broken channel is skipped and
// never removed here; removal is driven by the owning connection handler.
func (that *Registry) Broadcast(msg string, exclude *Session) {
	for _, sess := range that.Snapshot() {
		if exclude != nil && sess.ID() == exclude.ID() {
			continue
		}
		_ = sess.Send(msg)
	}
}

// CloseAll - closes every registered channel, unblocking pending reads.
func (that *Registry) CloseAll() {
	for _, sess := range that.Snapshot() {
		_ = sess.Close()
	}
}

package session

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"net"
	"strings"
	"sync"
	"time"
)

// Session represents one connected player: an identity plus a line-oriented
// channel to the peer. Writes are serialized; reads belong to the single
// connection handler goroutine.
type Session struct {
	id   string
	name string

	conn   net.Conn
	reader *bufio.Reader

	mu     sync.Mutex
	closed bool
}

func New(name string, conn net.Conn) *Session {
	return &Session{
		id:     GenerateSessionID(),
		name:   name,
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (that *Session) ID() string {
	return that.id
}

func (that *Session) Name() string {
	return that.name
}

// SetName assigns the display name once the nickname line arrives. Called
// before the session is registered anywhere.
func (that *Session) SetName(name string) {
	that.name = name
}

// ReadLine - reads one '\n'-terminated line, bounded by the given timeout
// when it is positive. The returned line is trimmed of surrounding
// whitespace.
func (that *Session) ReadLine(timeout time.Duration) (string, error) {
	if timeout > 0 {
		if err := that.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return "", err
		}
	}

	line, err := that.reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// Send - writes one line to the peer, appending the terminator.
func (that *Session) Send(msg string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return net.ErrClosed
	}

	_, err := that.conn.Write([]byte(msg + "\n"))

	return err
}

// Close - closes the channel; unblocks any pending read. Safe to call more
// than once.
func (that *Session) Close() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return nil
	}
	that.closed = true

	return that.conn.Close()
}

// Closed reports whether the channel has been closed on our side.
func (that *Session) Closed() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.closed
}

// GenerateSessionID - generates a new unique session ID.
func GenerateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-session-id"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}

package chat

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Sink accepts events bound for one client. Deliver must not block.
type Sink interface {
	Deliver(Event) bool
}

// Session is one authenticated live connection. It belongs to at most one
// room at a time and is owned by the gateway connection that created it;
// the registry holds only its id. The gateway constructs a Session after
// it has verified the user's identity, so a Session is authenticated for
// its whole lifetime and its username never changes.
type Session struct {
	id       string
	username string
	sink     Sink

	mu     sync.Mutex // guards room
	room   string
	closed atomic.Bool
}

func NewSession(username string, sink Sink) *Session {
	return &Session{id: uuid.New().String(), username: username, sink: sink}
}

func (s *Session) ID() string       { return s.id }
func (s *Session) Username() string { return s.username }

// Deliver forwards an event to the owning connection. Events for a closed
// session are dropped.
func (s *Session) Deliver(ev Event) bool {
	if s.closed.Load() {
		return false
	}
	return s.sink.Deliver(ev)
}

// CurrentRoom returns the room the session has joined, or "".
func (s *Session) CurrentRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// Closed reports whether the session has disconnected.
func (s *Session) Closed() bool { return s.closed.Load() }

package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kingshubham139/university-chat/pkg/metrics"
)

// MessageStore is the durable home of chat messages. Calls may block on
// I/O; the dispatcher never holds a room lock across them.
type MessageStore interface {
	Append(ctx context.Context, m Message) (Message, error)
	GetByID(ctx context.Context, id string) (Message, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// ErrMessageNotFound is returned by MessageStore implementations when no
// message exists for an id.
var ErrMessageNotFound = errors.New("message not found")

// Validation failures, reported back to the originating session only.
var (
	ErrEmptyGroup    = errors.New("groupName required")
	ErrEmptyText     = errors.New("text required")
	ErrNotJoined     = errors.New("join a group first")
	ErrSessionClosed = errors.New("session closed")
)

// Dispatcher turns validated client intents into persistence calls and
// room broadcasts. It owns the session-to-room transitions; the registry
// owns membership and fan-out.
type Dispatcher struct {
	reg   *Registry
	store MessageStore
	log   *slog.Logger
}

func NewDispatcher(reg *Registry, store MessageStore, log *slog.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, store: store, log: log}
}

// Join moves the session into a room. A session is in at most one room, so
// switching rooms leaves the old one first; the old room's members see the
// drop before the new room's members see the rise. Rejoining the current
// room is a no-op that returns the current count.
func (d *Dispatcher) Join(s *Session, groupName string) (int, error) {
	groupName = strings.TrimSpace(groupName)
	if groupName == "" {
		return 0, ErrEmptyGroup
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return 0, ErrSessionClosed
	}
	if s.room == groupName {
		return d.reg.Join(groupName, s), nil
	}
	if s.room != "" {
		d.reg.Leave(s.room, s.id)
	}
	s.room = groupName
	online := d.reg.Join(groupName, s)

	metrics.RoomJoins.Inc()
	d.log.Debug("session.joined", "user", s.username, "group", groupName, "online", online)
	return online, nil
}

// Send persists the message and broadcasts the stored record to the
// session's room. The sender and group are taken from the session, never
// from the client payload, so a spoofed room field can't reach anyone. A
// persist failure aborts the broadcast for that message only.
func (d *Dispatcher) Send(ctx context.Context, s *Session, text string) error {
	room := s.CurrentRoom()
	if room == "" {
		return ErrNotJoined
	}
	if strings.TrimSpace(text) == "" {
		metrics.MessagesRejected.Inc()
		return ErrEmptyText
	}

	stored, err := d.store.Append(ctx, Message{
		Text:      text,
		Sender:    s.username,
		GroupName: room,
	})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}

	d.reg.Broadcast(room, receiveEvent(stored))
	metrics.MessagesSent.Inc()
	return nil
}

// Typing announces that the session's user is typing to everyone else in
// the room. Ephemeral: nothing is persisted and delivery is best-effort.
func (d *Dispatcher) Typing(s *Session) error {
	room := s.CurrentRoom()
	if room == "" {
		return ErrNotJoined
	}
	d.reg.BroadcastExcept(room, s.id, typingEvent(s.username))
	return nil
}

// Delete removes a message the session authored and broadcasts the
// deletion to the room the message belonged to. A missing message and one
// owned by someone else are both silent no-ops: the requester learns
// nothing beyond the absence of a deleted event.
func (d *Dispatcher) Delete(ctx context.Context, s *Session, messageID string) error {
	if messageID == "" {
		return nil
	}

	msg, err := d.store.GetByID(ctx, messageID)
	if errors.Is(err, ErrMessageNotFound) {
		d.log.Debug("delete.miss", "id", messageID, "user", s.username)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load message: %w", err)
	}
	if msg.Sender != s.username {
		d.log.Debug("delete.denied", "id", messageID, "user", s.username)
		return nil
	}
	return d.remove(ctx, msg)
}

// AdminDelete removes any message regardless of sender, for the admin
// surface. Reports whether the message existed.
func (d *Dispatcher) AdminDelete(ctx context.Context, messageID string) (bool, error) {
	msg, err := d.store.GetByID(ctx, messageID)
	if errors.Is(err, ErrMessageNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load message: %w", err)
	}
	if err := d.remove(ctx, msg); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Dispatcher) remove(ctx context.Context, msg Message) error {
	ok, err := d.store.DeleteByID(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if !ok {
		// Raced with another delete of the same message.
		return nil
	}
	d.reg.Broadcast(msg.GroupName, deletedEvent(msg.ID))
	metrics.MessagesDeleted.Inc()
	return nil
}

// Disconnect is the one-shot cleanup for a session: leave whatever room it
// occupies and stop accepting intents. Transports can signal closure more
// than once, so calling it again is safe, as is disconnecting a session
// that never joined a room.
func (d *Dispatcher) Disconnect(s *Session) {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	room := s.room
	s.room = ""
	s.mu.Unlock()

	if room != "" {
		online := d.reg.Leave(room, s.id)
		d.log.Debug("session.left", "user", s.username, "group", room, "online", online)
	}
}

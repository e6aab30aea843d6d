package chat

import "time"

// Server -> client event types pushed over the realtime channel.
const (
	EventOnline  = "online"
	EventReceive = "receive"
	EventTyping  = "typing"
	EventDeleted = "deleted"
	EventError   = "error"
)

// Message is one persisted chat record. ID and CreatedAt are assigned by
// the message store on append.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	GroupName string    `json:"groupName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is the envelope for everything the server pushes to clients.
// Only the fields relevant to an event's Type are set.
type Event struct {
	Type      string    `json:"type"`
	GroupName string    `json:"groupName,omitempty"`
	Online    int       `json:"online,omitzero"`
	ID        string    `json:"id,omitempty"`
	Text      string    `json:"text,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	Username  string    `json:"username,omitempty"`
	MessageID string    `json:"messageId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	Reason    string    `json:"reason,omitempty"`
}

// receiveEvent carries a persisted message to everyone in its group.
func receiveEvent(m Message) Event {
	return Event{
		Type:      EventReceive,
		ID:        m.ID,
		Text:      m.Text,
		Sender:    m.Sender,
		GroupName: m.GroupName,
		CreatedAt: m.CreatedAt,
	}
}

func typingEvent(username string) Event {
	return Event{Type: EventTyping, Username: username}
}

func deletedEvent(messageID string) Event {
	return Event{Type: EventDeleted, MessageID: messageID}
}

// ErrorEvent is a failure acknowledgement delivered only to the session
// whose intent failed.
func ErrorEvent(reason string) Event {
	return Event{Type: EventError, Reason: reason}
}

package ws

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Client -> server intent types.
const (
	IntentJoin   = "join"
	IntentSend   = "send"
	IntentTyping = "typing"
	IntentDelete = "delete"
)

// Intent is one inbound client frame. GroupName on a send intent is
// accepted for wire compatibility but never trusted: the broadcast target
// is always the room the session actually joined.
type Intent struct {
	Type      string `json:"type"`
	GroupName string `json:"groupName,omitempty"`
	Text      string `json:"text,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}

var errNoType = errors.New("intent type required")

func decodeIntent(data []byte) (Intent, error) {
	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return Intent{}, fmt.Errorf("malformed intent: %w", err)
	}
	if in.Type == "" {
		return Intent{}, errNoType
	}
	return in, nil
}

package httpx

import (
	"net/http"

	"github.com/kingshubham139/university-chat/internal/chat"
	"github.com/kingshubham139/university-chat/internal/store"
)

type MessagesAPI struct {
	DB    *store.Postgres
	Limit int
}

// Recent returns the latest messages for a group, oldest first. This is
// the replay path for clients that just joined; the realtime channel never
// backfills.
func (a *MessagesAPI) Recent(w http.ResponseWriter, r *http.Request) {
	groupName := r.PathValue("name")
	if groupName == "" {
		http.Error(w, "group name required", http.StatusBadRequest)
		return
	}

	msgs, err := a.DB.ListRecent(r.Context(), groupName, a.Limit)
	if err != nil {
		http.Error(w, "could not load messages", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []chat.Message{} // keep the JSON output an array, not null
	}
	writeJSON(w, msgs)
}

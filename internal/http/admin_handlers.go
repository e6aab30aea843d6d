package httpx

import (
	"errors"
	"net/http"

	"github.com/kingshubham139/university-chat/internal/chat"
	"github.com/kingshubham139/university-chat/internal/store"
)

// AdminAPI is the moderation surface. Routes behind it require the admin
// role; deletes go through the dispatcher so the affected room sees the
// same deleted event an owner-delete produces.
type AdminAPI struct {
	DB   *store.Postgres
	Chat *chat.Dispatcher
}

// List returns recent messages across all groups, newest first.
func (a *AdminAPI) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := a.DB.ListAll(r.Context(), 500)
	if err != nil {
		http.Error(w, "could not load messages", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	writeJSON(w, msgs)
}

// Delete removes any message regardless of sender.
func (a *AdminAPI) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok, err := a.Chat.AdminDelete(r.Context(), id)
	if err != nil {
		http.Error(w, "could not delete message", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "message not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// Block flags a user so further logins are refused.
func (a *AdminAPI) Block(w http.ResponseWriter, r *http.Request) {
	a.setBlocked(w, r, true)
}

// Unblock clears the moderation flag.
func (a *AdminAPI) Unblock(w http.ResponseWriter, r *http.Request) {
	a.setBlocked(w, r, false)
}

func (a *AdminAPI) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	username := r.PathValue("username")
	if err := a.DB.SetBlocked(r.Context(), username, blocked); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

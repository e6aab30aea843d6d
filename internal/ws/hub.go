package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kingshubham139/university-chat/internal/chat"
	"github.com/kingshubham139/university-chat/pkg/auth"
	"github.com/kingshubham139/university-chat/pkg/metrics"
)

// Hub turns accepted websocket connections into chat sessions and pumps
// their intents into the dispatcher.
type Hub struct {
	log  *slog.Logger
	disp *chat.Dispatcher
	jwt  *auth.JWT
}

func NewHub(log *slog.Logger, disp *chat.Dispatcher, jwt *auth.JWT) *Hub {
	return &Hub{log: log, disp: disp, jwt: jwt}
}

// ServeWS handles a new /ws connection: verify the token, attach a
// session, then read intents until the transport closes. Cleanup runs
// exactly once no matter how the connection ends.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ident, err := h.jwt.Verify(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wsc, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	ctx := r.Context()
	conn := NewConn(wsc)
	sess := chat.NewSession(ident.Username, conn)

	metrics.ActiveConnections.Inc()
	h.log.Info("ws.connected", "user", ident.Username, "session", sess.ID())

	go conn.WriteLoop(ctx)

	for {
		raw, ok := conn.Read(ctx)
		if !ok {
			break
		}
		h.handle(ctx, sess, conn, raw)
	}

	h.disp.Disconnect(sess)
	metrics.ActiveConnections.Dec()
	_ = conn.Close()
	h.log.Info("ws.disconnected", "user", ident.Username, "session", sess.ID())
}

// handle routes one decoded intent. Validation failures are echoed only to
// the originating connection; nothing reaches the room.
func (h *Hub) handle(ctx context.Context, sess *chat.Session, conn *Conn, raw []byte) {
	in, err := decodeIntent(raw)
	if err != nil {
		conn.Deliver(chat.ErrorEvent("malformed intent"))
		return
	}

	switch in.Type {
	case IntentJoin:
		if _, err := h.disp.Join(sess, in.GroupName); err != nil {
			conn.Deliver(chat.ErrorEvent(err.Error()))
		}
	case IntentSend:
		// in.GroupName is deliberately ignored here; the dispatcher derives
		// the target from the session's joined room.
		if err := h.disp.Send(ctx, sess, in.Text); err != nil {
			if errors.Is(err, chat.ErrEmptyText) || errors.Is(err, chat.ErrNotJoined) {
				conn.Deliver(chat.ErrorEvent(err.Error()))
				return
			}
			h.log.Error("send.failed", "user", sess.Username(), "err", err)
			conn.Deliver(chat.ErrorEvent("message not delivered"))
		}
	case IntentTyping:
		if err := h.disp.Typing(sess); err != nil {
			conn.Deliver(chat.ErrorEvent(err.Error()))
		}
	case IntentDelete:
		if err := h.disp.Delete(ctx, sess, in.MessageID); err != nil {
			h.log.Error("delete.failed", "user", sess.Username(), "err", err)
			conn.Deliver(chat.ErrorEvent("delete failed"))
		}
	default:
		conn.Deliver(chat.ErrorEvent("unknown intent: " + in.Type))
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_active_connections",
		Help: "Live websocket connections.",
	})
	RoomJoins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_room_joins_total",
		Help: "Room joins, including room switches.",
	})
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_sent_total",
		Help: "Messages persisted and broadcast.",
	})
	MessagesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_rejected_total",
		Help: "Send intents rejected by validation.",
	})
	MessagesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_deleted_total",
		Help: "Messages deleted and tombstone-broadcast.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRooms registers a gauge fed by the registry's live room count.
func ObserveRooms(count func() float64) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chat_active_rooms",
		Help: "Rooms with at least one connected member.",
	}, count)
}

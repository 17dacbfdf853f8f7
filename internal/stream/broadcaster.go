package stream

import (
	"log/slog"

	"github.com/mcoot/wordgrid-go/internal/model"
)

// Broadcaster forwards session events to the session's hub. Events for
// sessions nobody is watching are dropped.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "stream-broadcaster")),
	}
}

// Publish sends the event to connected clients. Ending a session also
// closes its hub once the final event is flushed.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	hub.Publish(NewMessage(event))
	b.logger.Debug("event published",
		slog.String("session_id", string(event.SessionID)),
		slog.String("event", string(event.Type)),
		slog.Int("clients", hub.ClientCount()),
	)

	if event.Type == model.EventSessionEnded {
		b.hubManager.RemoveHub(event.SessionID)
	}
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/r3labs/sse/v2"
)

// EventStream is the SSE stream fired reminders are published on.
const EventStream = "reminders"

// Event is the payload of a "reminder" server-sent event.
type Event struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Events publishes notifications to server-sent event subscribers.
type Events struct {
	server *sse.Server
}

// NewEvents creates an SSE server with a single reminders stream. The
// returned value is also the HTTP handler subscribers connect to with
// ?stream=reminders.
func NewEvents() *Events {
	srv := sse.New()
	srv.AutoStream = false
	srv.AutoReplay = false
	srv.CreateStream(EventStream)
	return &Events{server: srv}
}

// Server returns the underlying SSE server.
func (e *Events) Server() *sse.Server { return e.server }

// Notify publishes the notification to every connected subscriber.
func (e *Events) Notify(_ context.Context, title, message string) error {
	data, err := json.Marshal(Event{Title: title, Message: message})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	e.server.Publish(EventStream, &sse.Event{Event: []byte("reminder"), Data: data})
	return nil
}

// Close disconnects all subscribers.
func (e *Events) Close() {
	e.server.Close()
}

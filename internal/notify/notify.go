// Package notify delivers fired reminders to the user.
//
// A Notifier is fire-and-forget from the scheduler's point of view: errors
// are reported back so they can be logged, but a reminder that failed to
// notify is still considered fired.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/nadzzz/chime/internal/voice"
)

// Notifier shows a notification with a title and a message.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// Func adapts a plain function to the Notifier interface.
type Func func(ctx context.Context, title, message string) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, title, message string) error {
	return f(ctx, title, message)
}

// Desktop shows notifications through the operating system's notification
// service.
type Desktop struct {
	icon string
}

// NewDesktop creates a desktop notifier. icon is an optional path to an
// image shown next to the notification.
func NewDesktop(icon string) *Desktop {
	return &Desktop{icon: icon}
}

// Notify pops up a desktop notification.
func (d *Desktop) Notify(_ context.Context, title, message string) error {
	return beeep.Notify(title, message, d.icon)
}

// Log writes notifications to the structured log. It is used when no
// desktop session is available and always as part of the fan-out.
type Log struct{}

// Notify logs the notification.
func (Log) Notify(_ context.Context, title, message string) error {
	slog.Info("reminder", "title", title, "message", message)
	return nil
}

// Speech reads notifications aloud.
type Speech struct {
	speaker voice.Speaker
}

// NewSpeech creates a notifier that speaks through s.
func NewSpeech(s voice.Speaker) *Speech {
	return &Speech{speaker: s}
}

// Notify speaks the notification message.
func (n *Speech) Notify(ctx context.Context, _, message string) error {
	return n.speaker.Speak(ctx, message)
}

// Multi fans a notification out to several notifiers. Every notifier is
// called even if an earlier one fails; the errors are joined.
type Multi []Notifier

// Notify delivers the notification to all notifiers.
func (m Multi) Notify(ctx context.Context, title, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, title, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

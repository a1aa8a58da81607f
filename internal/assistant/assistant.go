// Package assistant is the conversational front end of chime.
//
// It greets the user, then listens for one utterance at a time and answers
// the first command the utterance contains. Commands are matched by
// substring on the lower-cased utterance, in a fixed order, so "what time
// is it" and "set a reminder for lunch time" both answer with the time.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/nadzzz/chime/internal/parser"
	"github.com/nadzzz/chime/internal/store"
	"github.com/nadzzz/chime/internal/voice"
)

// Assistant answers spoken commands and schedules reminders.
type Assistant struct {
	speaker  voice.Speaker
	listener voice.Listener
	store    *store.Store
	now      func() time.Time
	jokes    []string
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// WithJokes replaces the built-in jokes.
func WithJokes(jokes []string) Option {
	return func(a *Assistant) { a.jokes = jokes }
}

// New creates an assistant that talks through sp, hears through li and
// keeps reminders in st.
func New(sp voice.Speaker, li voice.Listener, st *store.Store, opts ...Option) *Assistant {
	a := &Assistant{
		speaker:  sp,
		listener: li,
		store:    st,
		now:      time.Now,
		jokes:    jokes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run greets the user and handles utterances until the user says "go
// offline", the input is exhausted or ctx is cancelled. It returns an error
// only when listening fails for a reason other than unrecognized speech, or
// when the reminders could not be saved after the input was exhausted.
func (a *Assistant) Run(ctx context.Context) error {
	a.Greet(ctx)

	for {
		query, err := a.listener.Listen(ctx)
		switch {
		case err == nil:
		case errors.Is(err, voice.ErrNotRecognized):
			slog.Debug("speech not recognized")
			continue
		case errors.Is(err, io.EOF):
			slog.Info("input closed, going offline")
			return a.goOffline(ctx)
		case ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("listening: %w", err)
		}

		slog.Debug("heard", "query", query)
		if a.Handle(ctx, query) {
			return nil
		}
	}
}

// Greet says hello with a line that depends on the time of day.
func (a *Assistant) Greet(ctx context.Context) {
	a.say(ctx, "Hello user.")

	switch hour := a.now().Hour(); {
	case hour >= 6 && hour < 12:
		a.say(ctx, "It's a nice morning, isn't it?")
	case hour >= 12 && hour < 18:
		a.say(ctx, "It sure is one nice afternoon.")
	case hour >= 18:
		a.say(ctx, "What a good evening it is.")
	default:
		a.say(ctx, "Good night user.")
	}

	a.say(ctx, "I am your AI assistant. What are your plans?")
}

// Handle answers a single utterance. It reports whether the assistant
// should stop, which happens only after a successful "go offline".
func (a *Assistant) Handle(ctx context.Context, query string) bool {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "time"):
		a.say(ctx, fmt.Sprintf("The current time is %s.", a.now().Format("03:04 PM")))
	case strings.Contains(q, "date"):
		a.say(ctx, fmt.Sprintf("Today's date is %s.", a.now().Format("Monday, January 02, 2006")))
	case strings.Contains(q, "thank you"):
		a.say(ctx, "You're welcome!")
	case strings.Contains(q, "how are you"):
		a.say(ctx, "I'm doing just fine. Thank you for asking!")
	case strings.Contains(q, "go offline"):
		return a.goOffline(ctx) == nil
	case strings.Contains(q, "set a reminder"):
		a.setReminder(ctx)
	case strings.Contains(q, "do i have any reminders"):
		a.listReminders(ctx)
	case strings.Contains(q, "joke"):
		a.tellJoke(ctx)
	default:
		slog.Debug("no command matched", "query", query)
	}
	return false
}

func (a *Assistant) goOffline(ctx context.Context) error {
	a.say(ctx, "Alright, I'll be here if you need me. Goodbye!")

	if err := a.store.Save(); err != nil {
		slog.Error("saving reminders", "path", a.store.Path(), "error", err)
		a.say(ctx, "Sorry, I couldn't save your reminders.")
		return err
	}
	return nil
}

func (a *Assistant) setReminder(ctx context.Context) {
	a.say(ctx, "What should I remember?")

	utterance, err := a.listener.Listen(ctx)
	if err != nil {
		if errors.Is(err, voice.ErrNotRecognized) {
			a.say(ctx, "Sorry, I couldn't understand that. Please try again.")
		}
		slog.Warn("listening for reminder", "error", err)
		return
	}

	rem, ok := parser.Extract(utterance)
	if !ok {
		slog.Info("time not recognized", "utterance", utterance)
		a.say(ctx, "Sorry, I couldn't recognize the time. Please try again.")
		return
	}

	a.store.Add(rem.Title, rem.Time)
	slog.Info("reminder scheduled", "title", rem.Title, "time", rem.Time, "source", "voice")
	a.say(ctx, fmt.Sprintf("Reminder '%s' scheduled for %s", rem.Title, rem.Time))
}

func (a *Assistant) listReminders(ctx context.Context) {
	reminders := a.store.Reminders()
	if len(reminders) == 0 {
		a.say(ctx, "You don't have any reminders.")
		return
	}

	a.say(ctx, "Here are your reminders:")
	for _, r := range reminders {
		a.say(ctx, fmt.Sprintf("Reminder for %s at %s.", r.Title, r.Time))
	}
}

func (a *Assistant) tellJoke(ctx context.Context) {
	if len(a.jokes) == 0 {
		return
	}
	a.say(ctx, a.jokes[rand.IntN(len(a.jokes))])
}

// say speaks text. A speaker failure is logged and otherwise ignored.
func (a *Assistant) say(ctx context.Context, text string) {
	if err := a.speaker.Speak(ctx, text); err != nil {
		slog.Warn("speaking", "text", text, "error", err)
	}
}

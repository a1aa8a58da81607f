package assistant

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/chime/internal/reminder"
	"github.com/nadzzz/chime/internal/store"
	"github.com/nadzzz/chime/internal/voice"
)

type recordingSpeaker struct{ said []string }

func (s *recordingSpeaker) Speak(_ context.Context, text string) error {
	s.said = append(s.said, text)
	return nil
}

type reply struct {
	text string
	err  error
}

// scriptedListener plays back replies and then reports io.EOF.
type scriptedListener struct{ replies []reply }

func (l *scriptedListener) Listen(context.Context) (string, error) {
	if len(l.replies) == 0 {
		return "", io.EOF
	}
	r := l.replies[0]
	l.replies = l.replies[1:]
	return r.text, r.err
}

func heard(texts ...string) *scriptedListener {
	l := &scriptedListener{}
	for _, t := range texts {
		l.replies = append(l.replies, reply{text: t})
	}
	return l
}

func fixedClock(hour, minute int) func() time.Time {
	return func() time.Time { return time.Date(2006, time.January, 2, hour, minute, 0, 0, time.Local) }
}

func newAssistant(t *testing.T, li voice.Listener, opts ...Option) (*Assistant, *recordingSpeaker, *store.Store) {
	t.Helper()
	sp := &recordingSpeaker{}
	st := store.Open(filepath.Join(t.TempDir(), "reminders.json"))
	opts = append([]Option{WithClock(fixedClock(15, 4)), WithJokes([]string{"a joke"})}, opts...)
	return New(sp, li, st, opts...), sp, st
}

func TestGreet(t *testing.T) {
	tests := []struct {
		hour int
		line string
	}{
		{0, "Good night user."},
		{5, "Good night user."},
		{6, "It's a nice morning, isn't it?"},
		{11, "It's a nice morning, isn't it?"},
		{12, "It sure is one nice afternoon."},
		{17, "It sure is one nice afternoon."},
		{18, "What a good evening it is."},
		{23, "What a good evening it is."},
	}
	for _, tt := range tests {
		a, sp, _ := newAssistant(t, heard(), WithClock(fixedClock(tt.hour, 0)))
		a.Greet(context.Background())
		assert.Equal(t, []string{"Hello user.", tt.line, "I am your AI assistant. What are your plans?"}, sp.said, "hour %d", tt.hour)
	}
}

func TestHandleSimpleCommands(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"What TIME is it", []string{"The current time is 03:04 PM."}},
		{"what's the date today", []string{"Today's date is Monday, January 02, 2006."}},
		{"thank you", []string{"You're welcome!"}},
		{"hey how are you", []string{"I'm doing just fine. Thank you for asking!"}},
		{"tell me a joke", []string{"a joke"}},
		{"do I have any reminders", []string{"You don't have any reminders."}},
		{"open the pod bay doors", nil},
		// "time" is checked before everything else.
		{"thank you for your time", []string{"The current time is 03:04 PM."}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			a, sp, _ := newAssistant(t, heard())
			assert.False(t, a.Handle(context.Background(), tt.query))
			assert.Equal(t, tt.want, sp.said)
		})
	}
}

func TestSetReminder(t *testing.T) {
	a, sp, st := newAssistant(t, heard("Call mom at 5:30 pm"))

	assert.False(t, a.Handle(context.Background(), "set a reminder"))
	assert.Equal(t, []string{
		"What should I remember?",
		"Reminder 'Call mom' scheduled for 17:30",
	}, sp.said)
	assert.Equal(t, []reminder.Reminder{{Title: "Call mom", Time: reminder.Clock{Hour: 17, Minute: 30}}}, st.Reminders())

	sp.said = nil
	a.Handle(context.Background(), "do i have any reminders")
	assert.Equal(t, []string{"Here are your reminders:", "Reminder for Call mom at 17:30."}, sp.said)
}

func TestSetReminderUnrecognizedTime(t *testing.T) {
	a, sp, st := newAssistant(t, heard("water the plants"))

	a.Handle(context.Background(), "set a reminder")
	assert.Equal(t, []string{
		"What should I remember?",
		"Sorry, I couldn't recognize the time. Please try again.",
	}, sp.said)
	assert.Equal(t, 0, st.Len())
}

func TestSetReminderUnrecognizedSpeech(t *testing.T) {
	a, sp, st := newAssistant(t, &scriptedListener{replies: []reply{{err: voice.ErrNotRecognized}}})

	a.Handle(context.Background(), "set a reminder")
	assert.Equal(t, []string{
		"What should I remember?",
		"Sorry, I couldn't understand that. Please try again.",
	}, sp.said)
	assert.Equal(t, 0, st.Len())
}

func TestGoOfflineSaves(t *testing.T) {
	a, sp, st := newAssistant(t, heard())
	st.Add("call mom", reminder.Clock{Hour: 17, Minute: 30})

	assert.True(t, a.Handle(context.Background(), "go offline"))
	assert.Equal(t, []string{"Alright, I'll be here if you need me. Goodbye!"}, sp.said)
	assert.Equal(t, st.Reminders(), store.Load(st.Path()))
}

func TestGoOfflineSaveFailureKeepsRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	require.NoError(t, os.Mkdir(path, 0o755))

	sp := &recordingSpeaker{}
	a := New(sp, heard(), store.Open(path))

	assert.False(t, a.Handle(context.Background(), "go offline"))
	assert.Equal(t, []string{
		"Alright, I'll be here if you need me. Goodbye!",
		"Sorry, I couldn't save your reminders.",
	}, sp.said)
}

func TestRunConversation(t *testing.T) {
	li := &scriptedListener{replies: []reply{
		{text: "set a reminder"},
		{text: "meeting at 9.00 am"},
		{err: voice.ErrNotRecognized},
		{text: "do i have any reminders"},
		{text: "go offline"},
		{text: "never heard"},
	}}
	a, sp, st := newAssistant(t, li)

	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, []string{
		"Hello user.",
		"It sure is one nice afternoon.",
		"I am your AI assistant. What are your plans?",
		"What should I remember?",
		"Reminder 'meeting' scheduled for 09:00",
		"Here are your reminders:",
		"Reminder for meeting at 09:00.",
		"Alright, I'll be here if you need me. Goodbye!",
	}, sp.said)
	assert.Equal(t, []reminder.Reminder{{Title: "meeting", Time: reminder.Clock{Hour: 9}}}, store.Load(st.Path()))
	assert.Len(t, li.replies, 1)
}

func TestRunEOFGoesOffline(t *testing.T) {
	a, sp, st := newAssistant(t, heard("thank you"))
	st.Add("call mom", reminder.Clock{Hour: 17, Minute: 30})

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, "Alright, I'll be here if you need me. Goodbye!", sp.said[len(sp.said)-1])
	assert.Len(t, store.Load(st.Path()), 1)
}

func TestRunListenerFailure(t *testing.T) {
	micErr := errors.New("no microphone")
	a, _, _ := newAssistant(t, &scriptedListener{replies: []reply{{err: micErr}}})

	err := a.Run(context.Background())
	assert.ErrorIs(t, err, micErr)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, _, _ := newAssistant(t, &scriptedListener{replies: []reply{{err: context.Canceled}}})

	assert.NoError(t, a.Run(ctx))
}

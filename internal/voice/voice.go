// Package voice defines how chime talks to and hears from the user.
//
// A Speaker says text out loud and a Listener captures one utterance at a
// time. Both have a console implementation for running without audio
// hardware, and audio-backed implementations that combine a recorder or
// player with a speech-to-text or text-to-speech backend.
package voice

import (
	"context"
	"errors"
)

// ErrNotRecognized is returned by a Listener when audio was captured but no
// speech could be made out of it. Callers should re-prompt the user.
var ErrNotRecognized = errors.New("speech not recognized")

// Speaker converts text to speech.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Listener captures a single utterance. It returns ErrNotRecognized on a
// recognition failure and io.EOF once its input is exhausted.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

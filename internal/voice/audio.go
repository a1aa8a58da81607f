package voice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nadzzz/chime/internal/audio"
	"github.com/nadzzz/chime/internal/stt"
	"github.com/nadzzz/chime/internal/tts"
)

// SynthSpeaker speaks by synthesizing text and playing the result.
type SynthSpeaker struct {
	synth  tts.Synthesizer
	player audio.Player
}

// NewSynthSpeaker creates a speaker from a synthesizer and a player.
func NewSynthSpeaker(synth tts.Synthesizer, player audio.Player) *SynthSpeaker {
	return &SynthSpeaker{synth: synth, player: player}
}

// Speak synthesizes text and blocks until playback ends.
func (s *SynthSpeaker) Speak(ctx context.Context, text string) error {
	res, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesizing: %w", err)
	}
	if err := s.player.Play(ctx, res.Audio); err != nil {
		return fmt.Errorf("playing: %w", err)
	}
	return nil
}

// TranscribeListener listens by recording a clip and transcribing it.
type TranscribeListener struct {
	recorder    audio.Recorder
	transcriber stt.Transcriber
}

// NewTranscribeListener creates a listener from a recorder and a
// transcriber.
func NewTranscribeListener(recorder audio.Recorder, transcriber stt.Transcriber) *TranscribeListener {
	return &TranscribeListener{recorder: recorder, transcriber: transcriber}
}

// Listen records one clip and returns what was said. Silence and backend
// failures are both reported as ErrNotRecognized so the caller re-prompts;
// a failing recorder is returned as is.
func (l *TranscribeListener) Listen(ctx context.Context) (string, error) {
	clip, err := l.recorder.Record(ctx)
	if err != nil {
		return "", err
	}

	slog.Debug("recognizing", "backend", l.transcriber.Name(), "bytes", len(clip))
	res, err := l.transcriber.Transcribe(ctx, clip)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !errors.Is(err, stt.ErrEmptyTranscript) {
			slog.Warn("transcription failed", "backend", l.transcriber.Name(), "error", err)
		}
		return "", ErrNotRecognized
	}

	slog.Info("heard", "text", res.Text)
	return strings.TrimSpace(res.Text), nil
}

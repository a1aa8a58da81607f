// Package stt defines the interface for speech-to-text transcription.
//
// chime ships with two backends: a self-hosted Whisper server
// (whisper.cpp, faster-whisper or whisper-asr-webservice) and the OpenAI
// transcription API. Both accept a WAV clip and return plain text.
package stt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrEmptyTranscript is returned when the backend heard nothing it could
// turn into words.
var ErrEmptyTranscript = errors.New("empty transcript")

// Transcriber converts audio to text.
type Transcriber interface {
	// Name returns the backend identifier (e.g., "whisper", "openai").
	Name() string

	// Transcribe converts a WAV clip to text.
	Transcribe(ctx context.Context, wav []byte) (*Result, error)

	// Close releases any resources held by the transcriber.
	Close() error
}

// Result holds the transcription output.
type Result struct {
	// Text is the recognized speech, trimmed.
	Text string

	// Language is the language reported by the backend, if any.
	Language string
}

// DecodeResponse turns a transcription HTTP response into a Result. Every
// supported backend answers {"text": "...", "language": "..."}.
func DecodeResponse(resp *http.Response) (*Result, error) {
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, body)
	}

	var out struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding transcription: %w", err)
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return nil, ErrEmptyTranscript
	}
	return &Result{Text: text, Language: out.Language}, nil
}

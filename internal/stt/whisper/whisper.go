// Package whisper implements stt.Transcriber against a self-hosted Whisper
// server.
//
// Two API flavors are supported:
//   - "openai": OpenAI-compatible /v1/audio/transcriptions (whisper.cpp
//     server, faster-whisper)
//   - "asr": ahmetoner/whisper-asr-webservice (POST /asr with query params)
package whisper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/nadzzz/chime/internal/config"
	"github.com/nadzzz/chime/internal/stt"
)

// Transcriber talks to a Whisper-compatible endpoint.
type Transcriber struct {
	endpoint  string
	flavor    string
	language  string
	vadFilter bool
	client    *http.Client
}

// New creates a Whisper transcriber from config.
func New(cfg config.WhisperConfig) *Transcriber {
	flavor := cfg.Type
	if flavor == "" {
		flavor = "openai"
	}
	return &Transcriber{
		endpoint:  cfg.Endpoint,
		flavor:    flavor,
		language:  cfg.Language,
		vadFilter: cfg.VADFilter,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "whisper" }

// Transcribe sends the clip to the configured endpoint.
func (t *Transcriber) Transcribe(ctx context.Context, wav []byte) (*stt.Result, error) {
	var (
		req *http.Request
		err error
	)
	switch t.flavor {
	case "asr":
		req, err = t.asrRequest(ctx, wav)
	default:
		req, err = t.openAIRequest(ctx, wav)
	}
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	res, err := stt.DecodeResponse(resp)
	if err != nil {
		return nil, err
	}
	slog.Debug("whisper transcription complete", "flavor", t.flavor, "text_length", len(res.Text), "language", res.Language)
	return res, nil
}

// Close is a no-op.
func (t *Transcriber) Close() error { return nil }

// asrRequest builds POST /asr?task=transcribe&output=json with the audio in
// the "audio_file" form field.
func (t *Transcriber) asrRequest(ctx context.Context, wav []byte) (*http.Request, error) {
	body, contentType, err := form("audio_file", wav, nil)
	if err != nil {
		return nil, err
	}

	q := make(url.Values)
	q.Set("task", "transcribe")
	q.Set("output", "json")
	q.Set("encode", "true")
	if t.language != "" {
		q.Set("language", t.language)
	}
	if t.vadFilter {
		q.Set("vad_filter", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"?"+q.Encode(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return req, nil
}

// openAIRequest builds an OpenAI-style multipart request with the audio in
// the "file" form field.
func (t *Transcriber) openAIRequest(ctx context.Context, wav []byte) (*http.Request, error) {
	fields := map[string]string{"response_format": "json"}
	if t.language != "" {
		fields["language"] = t.language
	}
	body, contentType, err := form("file", wav, fields)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return req, nil
}

// form encodes wav under fileField plus the given plain fields.
func form(fileField string, wav []byte, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile(fileField, "audio.wav")
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, "", fmt.Errorf("writing audio: %w", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

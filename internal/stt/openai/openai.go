// Package openai implements stt.Transcriber using OpenAI's Audio
// Transcription API (whisper-1 / gpt-4o-transcribe).
package openai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/nadzzz/chime/internal/config"
	"github.com/nadzzz/chime/internal/stt"
)

const transcriptionURL = "https://api.openai.com/v1/audio/transcriptions"

// Transcriber uses the OpenAI transcription endpoint.
type Transcriber struct {
	apiKey   string
	model    string
	language string
	endpoint string
	client   *http.Client
}

// New creates an OpenAI transcriber from config.
func New(cfg config.OpenAIConfig) *Transcriber {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = transcriptionURL
	}
	return &Transcriber{
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		language: cfg.Language,
		endpoint: endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "openai" }

// Transcribe uploads the clip and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, wav []byte) (*stt.Result, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, fmt.Errorf("writing audio: %w", err)
	}
	_ = writer.WriteField("model", t.model)
	_ = writer.WriteField("response_format", "json")
	if t.language != "" {
		_ = writer.WriteField("language", t.language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	res, err := stt.DecodeResponse(resp)
	if err != nil {
		return nil, err
	}
	slog.Debug("openai transcription complete", "model", t.model, "text_length", len(res.Text))
	return res, nil
}

// Close is a no-op.
func (t *Transcriber) Close() error { return nil }

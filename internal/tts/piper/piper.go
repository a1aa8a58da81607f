// Package piper implements tts.Synthesizer against a Piper server speaking
// the Wyoming protocol over TCP (port 10200 in the linuxserver/piper image).
package piper

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/nadzzz/chime/internal/config"
	"github.com/nadzzz/chime/internal/tts"
)

// defaultVoice is used when the config leaves the voice empty.
const defaultVoice = "en_US-lessac-medium"

// Synthesizer implements tts.Synthesizer using the Wyoming protocol.
type Synthesizer struct {
	endpoint string
	voice    string
	timeout  time.Duration
}

// New creates a Piper synthesizer from config.
func New(cfg config.PiperConfig) *Synthesizer {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "tcp://")
	voice := cfg.Voice
	if voice == "" {
		voice = defaultVoice
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Synthesizer{endpoint: endpoint, voice: voice, timeout: timeout}
}

// Synthesize sends text to Piper and returns the synthesized speech as WAV.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*tts.Result, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text for synthesis")
	}
	if s.endpoint == "" {
		return nil, fmt.Errorf("no piper endpoint configured")
	}

	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(s.timeout)
	}
	_ = conn.SetDeadline(deadline)

	req := event{
		Type: "synthesize",
		Data: map[string]any{
			"text":  text,
			"voice": map[string]any{"name": s.voice},
		},
	}
	if err := writeEvent(conn, req, nil); err != nil {
		return nil, fmt.Errorf("sending synthesize event: %w", err)
	}

	// audio-start → audio-chunk* → audio-stop
	var (
		r          = bufio.NewReader(conn)
		pcm        bytes.Buffer
		sampleRate = 22050
		channels   = 1
		width      = 2
	)
	for {
		evt, payload, err := readEvent(r)
		if err != nil {
			return nil, fmt.Errorf("reading piper event: %w", err)
		}

		switch evt.Type {
		case "audio-start":
			sampleRate = intField(evt.Data, "rate", sampleRate)
			channels = intField(evt.Data, "channels", channels)
			width = intField(evt.Data, "width", width)
		case "audio-chunk":
			pcm.Write(payload)
		case "audio-stop":
			slog.Debug("piper synthesis complete", "pcm_bytes", pcm.Len(), "voice", s.voice)
			return &tts.Result{
				Audio:      pcmToWAV(pcm.Bytes(), sampleRate, channels, width),
				SampleRate: sampleRate,
				Channels:   channels,
			}, nil
		case "error":
			msg, _ := evt.Data["text"].(string)
			if msg == "" {
				msg = "unknown error"
			}
			return nil, fmt.Errorf("piper error: %s", msg)
		default:
			slog.Debug("piper unknown event", "type", evt.Type)
		}
	}
}

// Close is a no-op; connections are per request.
func (s *Synthesizer) Close() error { return nil }

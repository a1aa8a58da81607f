// Package tts defines the interface for text-to-speech synthesis.
//
// chime speaks its replies and, optionally, fired reminders. The synthesized
// clip is handed to an audio player by voice.SynthSpeaker.
package tts

import "context"

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize generates a WAV clip from the given text.
	Synthesize(ctx context.Context, text string) (*Result, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// Result holds the output of TTS synthesis.
type Result struct {
	// Audio is the synthesized audio as a WAV file.
	Audio []byte

	// SampleRate is the audio sample rate in Hz (e.g., 22050).
	SampleRate int

	// Channels is the number of audio channels (typically 1).
	Channels int
}

package voice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ConsoleSpeaker prints what would be spoken.
type ConsoleSpeaker struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSpeaker creates a speaker writing to out.
func NewConsoleSpeaker(out io.Writer) *ConsoleSpeaker {
	return &ConsoleSpeaker{out: out}
}

// Speak writes text as one line.
func (s *ConsoleSpeaker) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.out, text)
	return err
}

// ConsoleListener reads one utterance per line of text input.
type ConsoleListener struct {
	in     io.Reader
	prompt io.Writer

	once  sync.Once
	lines chan string
	err   error
}

// NewConsoleListener creates a listener reading lines from in. If prompt is
// non-nil a "Listening..." marker is written to it before every read.
func NewConsoleListener(in io.Reader, prompt io.Writer) *ConsoleListener {
	return &ConsoleListener{in: in, prompt: prompt, lines: make(chan string)}
}

// Listen blocks until a line is read or ctx is done. A blank line counts as
// unrecognized speech.
func (l *ConsoleListener) Listen(ctx context.Context) (string, error) {
	l.once.Do(func() { go l.scan() })

	if l.prompt != nil {
		fmt.Fprintln(l.prompt, "Listening...")
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			if l.err != nil {
				return "", fmt.Errorf("reading input: %w", l.err)
			}
			return "", io.EOF
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return "", ErrNotRecognized
		}
		return line, nil
	}
}

// scan feeds lines to Listen. It runs for the lifetime of the input.
func (l *ConsoleListener) scan() {
	sc := bufio.NewScanner(l.in)
	for sc.Scan() {
		l.lines <- sc.Text()
	}
	l.err = sc.Err()
	close(l.lines)
}

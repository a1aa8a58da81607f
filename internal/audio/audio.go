// Package audio records from the microphone and plays to the speakers by
// shelling out to command-line tools (arecord and aplay by default).
//
// The recorder command must write a WAV file to stdout; the player command
// must read a WAV file from stdin.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Recorder captures a clip of audio.
type Recorder interface {
	Record(ctx context.Context) ([]byte, error)
}

// Player plays a WAV clip.
type Player interface {
	Play(ctx context.Context, wav []byte) error
}

// Command runs an external program given as a single command line.
type Command struct {
	name string
	args []string
}

// ParseCommand splits a command line on whitespace.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty audio command")
	}
	return Command{name: fields[0], args: fields[1:]}, nil
}

// String returns the command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}

// CommandRecorder records by running a command and collecting its stdout.
type CommandRecorder struct {
	cmd Command
}

// NewCommandRecorder creates a recorder from a command line such as
// "arecord -q -f S16_LE -r 16000 -c 1 -d 5 -t wav -".
func NewCommandRecorder(line string) (*CommandRecorder, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return nil, err
	}
	return &CommandRecorder{cmd: cmd}, nil
}

// Record runs the recorder command to completion and returns its output.
func (r *CommandRecorder) Record(ctx context.Context) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, r.cmd.name, r.cmd.args...)
	c.Stdout = &stdout
	c.Stderr = &stderr

	slog.Debug("recording", "command", r.cmd.String())
	if err := c.Run(); err != nil {
		return nil, fmt.Errorf("recording with %s: %w: %s", r.cmd.name, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("recording with %s: no audio captured", r.cmd.name)
	}
	return stdout.Bytes(), nil
}

// CommandPlayer plays by piping audio into a command.
type CommandPlayer struct {
	cmd Command
}

// NewCommandPlayer creates a player from a command line such as "aplay -q -".
func NewCommandPlayer(line string) (*CommandPlayer, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return nil, err
	}
	return &CommandPlayer{cmd: cmd}, nil
}

// Play writes wav to the player's stdin and waits for it to finish.
func (p *CommandPlayer) Play(ctx context.Context, wav []byte) error {
	var stderr bytes.Buffer
	c := exec.CommandContext(ctx, p.cmd.name, p.cmd.args...)
	c.Stdin = bytes.NewReader(wav)
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("playing with %s: %w: %s", p.cmd.name, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

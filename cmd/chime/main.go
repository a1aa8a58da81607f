// Chime is a voice assistant that schedules time-of-day reminders from
// spoken sentences and notifies the user when they come due.
//
// Usage:
//
//	chime [flags]
//	chime --config /path/to/chime.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	_ "github.com/nadzzz/chime/docs"
	"github.com/nadzzz/chime/internal/assistant"
	"github.com/nadzzz/chime/internal/audio"
	"github.com/nadzzz/chime/internal/config"
	"github.com/nadzzz/chime/internal/health"
	"github.com/nadzzz/chime/internal/notify"
	"github.com/nadzzz/chime/internal/scheduler"
	"github.com/nadzzz/chime/internal/store"
	"github.com/nadzzz/chime/internal/stt"
	openaistt "github.com/nadzzz/chime/internal/stt/openai"
	"github.com/nadzzz/chime/internal/stt/whisper"
	httptransport "github.com/nadzzz/chime/internal/transport/http"
	"github.com/nadzzz/chime/internal/tts/piper"
	"github.com/nadzzz/chime/internal/voice"
)

// version is set at build time via ldflags.
var version = "dev"

// @title        chime reminders API
// @version      1.0
// @description  Schedule, list and cancel time-of-day reminders, and stream them as they fire.
// @license.name MIT
// @BasePath     /
func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	printConfig := flag.Bool("print-config", false, "print the effective configuration as YAML and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/chime.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("chime %s\n", version)
		os.Exit(0)
	}

	// Pick up secrets such as OPENAI_API_KEY from a local .env file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *printConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			slog.Error("failed to encode configuration", "error", err)
			os.Exit(1)
		}
		fmt.Print(string(out))
		os.Exit(0)
	}

	config.SetupLogging(cfg.Logging)
	slog.Info("chime starting", "version", version)

	if err := run(cfg); err != nil {
		slog.Error("chime failed", "error", err)
		os.Exit(1)
	}
	slog.Info("chime stopped")
}

func run(cfg *config.Config) error {
	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	speaker, closeSpeaker, err := newSpeaker(cfg)
	if err != nil {
		return err
	}
	defer closeSpeaker()

	listener, closeListener, err := newListener(cfg)
	if err != nil {
		return err
	}
	defer closeListener()

	reminders := store.Open(cfg.Storage.Path)

	var events *notify.Events
	if cfg.API.Enabled {
		events = notify.NewEvents()
	}
	notifier := newNotifier(cfg.Notify, speaker, events)

	var wg sync.WaitGroup

	healthServer := health.New(cfg.Server.HealthPort, cfg.Server.GRPCHealthPort)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := healthServer.ListenAndServeGRPC(ctx); err != nil {
			slog.Error("grpc health server failed", "error", err)
		}
	}()

	sched := scheduler.New(reminders, notifier, cfg.Scheduler.Interval)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = sched.Run(ctx)
	}()

	if cfg.API.Enabled {
		api := httptransport.New(cfg.API, reminders, events)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := api.Listen(ctx); err != nil {
				slog.Error("http api failed", "error", err)
			}
		}()
	}

	healthServer.SetReady(true)
	slog.Info("chime ready",
		"reminders", reminders.Len(),
		"input", cfg.Voice.Input,
		"output", cfg.Voice.Output,
		"api", cfg.API.Enabled,
		"health_port", cfg.Server.HealthPort)

	runErr := assistant.New(speaker, listener, reminders).Run(ctx)

	// A signal interrupts the conversation before "go offline" could save.
	if ctx.Err() != nil {
		slog.Info("shutdown signal received, saving reminders")
		if err := reminders.Save(); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("saving reminders: %w", err))
		}
	}

	healthServer.SetReady(false)
	cancel()
	wg.Wait()
	return runErr
}

func newSpeaker(cfg *config.Config) (voice.Speaker, func(), error) {
	switch cfg.Voice.Output {
	case "piper":
		player, err := audio.NewCommandPlayer(cfg.Audio.PlayCommand)
		if err != nil {
			return nil, nil, fmt.Errorf("audio player: %w", err)
		}
		synth := piper.New(cfg.TTS.Piper)
		slog.Info("using piper voice", "endpoint", cfg.TTS.Piper.Endpoint, "voice", cfg.TTS.Piper.Voice)
		return voice.NewSynthSpeaker(synth, player), func() { _ = synth.Close() }, nil
	default:
		return voice.NewConsoleSpeaker(os.Stdout), func() {}, nil
	}
}

func newListener(cfg *config.Config) (voice.Listener, func(), error) {
	switch cfg.Voice.Input {
	case "whisper":
		recorder, err := audio.NewCommandRecorder(cfg.Audio.RecordCommand)
		if err != nil {
			return nil, nil, fmt.Errorf("audio recorder: %w", err)
		}

		var transcriber stt.Transcriber
		switch cfg.STT.Backend {
		case "openai":
			transcriber = openaistt.New(cfg.STT.OpenAI)
		default:
			transcriber = whisper.New(cfg.STT.Whisper)
		}
		slog.Info("using speech recognition", "backend", transcriber.Name())
		return voice.NewTranscribeListener(recorder, transcriber), func() { _ = transcriber.Close() }, nil
	default:
		return voice.NewConsoleListener(os.Stdin, os.Stderr), func() {}, nil
	}
}

// newNotifier fans fired reminders out to the log and every enabled channel.
func newNotifier(cfg config.NotifyConfig, speaker voice.Speaker, events *notify.Events) notify.Notifier {
	notifiers := notify.Multi{notify.Log{}}
	if cfg.Desktop {
		notifiers = append(notifiers, notify.NewDesktop(cfg.Icon))
	}
	if cfg.Speak {
		notifiers = append(notifiers, notify.NewSpeech(speaker))
	}
	if events != nil {
		notifiers = append(notifiers, events)
	}
	return notifiers
}

// Package config handles loading and validating the chime configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the chime daemon.
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Voice     VoiceConfig     `mapstructure:"voice" yaml:"voice"`
	STT       STTConfig       `mapstructure:"stt" yaml:"stt"`
	TTS       TTSConfig       `mapstructure:"tts" yaml:"tts"`
	Audio     AudioConfig     `mapstructure:"audio" yaml:"audio"`
	Notify    NotifyConfig    `mapstructure:"notify" yaml:"notify"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	API       APIConfig       `mapstructure:"api" yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// StorageConfig locates the reminders snapshot.
type StorageConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SchedulerConfig sets how often due reminders are checked.
type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// VoiceConfig selects where utterances come from and where replies go.
type VoiceConfig struct {
	Input  string `mapstructure:"input" yaml:"input"`   // "console" or "whisper"
	Output string `mapstructure:"output" yaml:"output"` // "console" or "piper"
}

// STTConfig selects and configures the speech-to-text backend.
type STTConfig struct {
	Backend string        `mapstructure:"backend" yaml:"backend"` // "whisper" or "openai"
	Whisper WhisperConfig `mapstructure:"whisper" yaml:"whisper"`
	OpenAI  OpenAIConfig  `mapstructure:"openai" yaml:"openai"`
}

// WhisperConfig holds self-hosted Whisper settings.
type WhisperConfig struct {
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint"`
	Type      string        `mapstructure:"type" yaml:"type"` // "openai" (default) or "asr" (ahmetoner/whisper-asr-webservice)
	Language  string        `mapstructure:"language" yaml:"language"`
	VADFilter bool          `mapstructure:"vad_filter" yaml:"vad_filter"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// OpenAIConfig holds OpenAI transcription settings.
type OpenAIConfig struct {
	APIKey   string        `mapstructure:"api_key" yaml:"api_key"`
	Model    string        `mapstructure:"model" yaml:"model"`
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint"`
	Language string        `mapstructure:"language" yaml:"language"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// TTSConfig configures the text-to-speech backend.
type TTSConfig struct {
	Piper PiperConfig `mapstructure:"piper" yaml:"piper"`
}

// PiperConfig holds Piper TTS settings (Wyoming protocol).
type PiperConfig struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint"` // Wyoming TCP endpoint (host:port)
	Voice    string        `mapstructure:"voice" yaml:"voice"`       // Piper voice model name
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// AudioConfig holds the commands used to capture and play audio.
type AudioConfig struct {
	RecordCommand string `mapstructure:"record_command" yaml:"record_command"`
	PlayCommand   string `mapstructure:"play_command" yaml:"play_command"`
}

// NotifyConfig selects how fired reminders are delivered. Reminders are
// always logged.
type NotifyConfig struct {
	Desktop bool   `mapstructure:"desktop" yaml:"desktop"`
	Speak   bool   `mapstructure:"speak" yaml:"speak"`
	Icon    string `mapstructure:"icon" yaml:"icon"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort     int `mapstructure:"health_port" yaml:"health_port"`
	GRPCHealthPort int `mapstructure:"grpc_health_port" yaml:"grpc_health_port"` // 0 disables
}

// APIConfig configures the reminders HTTP API.
type APIConfig struct {
	Enabled        bool     `mapstructure:"enabled" yaml:"enabled"`
	Port           int      `mapstructure:"port" yaml:"port"`
	RateLimit      float64  `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second
	Burst          int      `mapstructure:"burst" yaml:"burst"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./chime.yaml, ./configs/chime.yaml, /etc/chime/chime.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("storage.path", "reminders.json")
	v.SetDefault("scheduler.interval", "15s")
	v.SetDefault("voice.input", "console")
	v.SetDefault("voice.output", "console")
	v.SetDefault("stt.backend", "whisper")
	v.SetDefault("stt.whisper.endpoint", "http://localhost:8000/v1/audio/transcriptions")
	v.SetDefault("stt.whisper.type", "openai")
	v.SetDefault("stt.whisper.language", "en")
	v.SetDefault("stt.whisper.vad_filter", false)
	v.SetDefault("stt.whisper.timeout", "30s")
	v.SetDefault("stt.openai.model", "whisper-1")
	v.SetDefault("stt.openai.language", "en")
	v.SetDefault("stt.openai.timeout", "30s")
	v.SetDefault("tts.piper.endpoint", "localhost:10200")
	v.SetDefault("tts.piper.voice", "en_US-lessac-medium")
	v.SetDefault("tts.piper.timeout", "30s")
	v.SetDefault("audio.record_command", "arecord -q -f S16_LE -r 16000 -c 1 -d 5 -t wav -")
	v.SetDefault("audio.play_command", "aplay -q -")
	v.SetDefault("notify.desktop", true)
	v.SetDefault("notify.speak", false)
	v.SetDefault("notify.icon", "")
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.grpc_health_port", 0)
	v.SetDefault("api.enabled", false)
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit", 5)
	v.SetDefault("api.burst", 10)
	v.SetDefault("api.allowed_origins", []string{"*"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("chime")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/chime")
	}

	// Environment variables: CHIME_STORAGE_PATH, CHIME_VOICE_INPUT, etc.
	v.SetEnvPrefix("CHIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional; env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${OPENAI_API_KEY}")
	cfg.STT.OpenAI.APIKey = resolveEnvRef(cfg.STT.OpenAI.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the daemon cannot start with.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive, got %s", c.Scheduler.Interval)
	}
	switch c.Voice.Input {
	case "console", "whisper":
	default:
		return fmt.Errorf("unknown voice.input %q", c.Voice.Input)
	}
	switch c.Voice.Output {
	case "console", "piper":
	default:
		return fmt.Errorf("unknown voice.output %q", c.Voice.Output)
	}
	switch c.STT.Backend {
	case "whisper", "openai":
	default:
		return fmt.Errorf("unknown stt.backend %q", c.STT.Backend)
	}
	if c.API.Enabled && c.API.RateLimit <= 0 {
		return fmt.Errorf("api.rate_limit must be positive, got %v", c.API.RateLimit)
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

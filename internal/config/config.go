// Package config provides configuration management for the scribe CLI: engine
// binaries, progress tuning, the run ledger and logging. Values come from
// defaults, an optional YAML file, and SCRIBE_* environment overrides, in that
// order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical-ai/scribe/internal/progress"
)

// Config holds all configuration for the CLI.
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	Engines  EnginesConfig  `yaml:"engines"`
	Progress ProgressConfig `yaml:"progress"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
}

// EnginesConfig holds the external recognition tool settings.
type EnginesConfig struct {
	Tesseract TesseractConfig `yaml:"tesseract"`
	Whisper   WhisperConfig   `yaml:"whisper"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
}

// TesseractConfig configures the OCR engine.
type TesseractConfig struct {
	Binary    string `yaml:"binary"`
	Languages string `yaml:"languages"` // tesseract -l value, e.g. "eng+deu"
}

// WhisperConfig configures the speech engine.
type WhisperConfig struct {
	Binary    string `yaml:"binary"`
	ModelPath string `yaml:"model_path"`
	Language  string `yaml:"language"`
	Threads   int    `yaml:"threads"`
}

// FFmpegConfig configures audio probing and conversion.
type FFmpegConfig struct {
	Binary      string `yaml:"binary"`
	ProbeBinary string `yaml:"probe_binary"`
}

// ProgressConfig tunes the progress model.
type ProgressConfig struct {
	AudioWeightScale float64 `yaml:"audio_weight_scale"`
	BarWidth         int     `yaml:"bar_width"`
}

// HistoryConfig configures the run ledger.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Load reads configuration from defaults, an optional YAML file and
// environment overrides. An empty path falls back to <data-dir>/config.yaml
// when that exists.
func Load(path string) (*Config, error) {
	// .env files are a convenience for engine paths; absence is fine
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path == "" {
		candidate := filepath.Join(cfg.DataDir, "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dataDir := getDataDir()

	return &Config{
		DataDir: dataDir,
		Engines: EnginesConfig{
			Tesseract: TesseractConfig{
				Binary:    "tesseract",
				Languages: "eng",
			},
			Whisper: WhisperConfig{
				Binary:    "whisper-cli",
				ModelPath: filepath.Join(dataDir, "models", "ggml-base.en.bin"),
				Language:  "auto",
				Threads:   4,
			},
			FFmpeg: FFmpegConfig{
				Binary:      "ffmpeg",
				ProbeBinary: "ffprobe",
			},
		},
		Progress: ProgressConfig{
			AudioWeightScale: progress.DefaultAudioWeightScale,
			BarWidth:         progress.DefaultBarWidth,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(dataDir, "history.db"),
		},
		Log: LogConfig{
			Level:  "error",
			Format: "console",
		},
	}
}

// ModelsDir returns the directory downloaded speech models live in.
func (c *Config) ModelsDir() string {
	return filepath.Join(c.DataDir, "models")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Engines.Tesseract.Binary == "" {
		return fmt.Errorf("engines.tesseract.binary is required")
	}
	if c.Engines.Whisper.Binary == "" {
		return fmt.Errorf("engines.whisper.binary is required")
	}
	if c.Engines.Whisper.Threads < 1 {
		return fmt.Errorf("engines.whisper.threads must be at least 1")
	}
	if c.Engines.FFmpeg.Binary == "" || c.Engines.FFmpeg.ProbeBinary == "" {
		return fmt.Errorf("engines.ffmpeg binaries are required")
	}
	if c.Progress.AudioWeightScale <= 0 {
		return fmt.Errorf("progress.audio_weight_scale must be positive")
	}
	if c.Progress.BarWidth < 1 {
		return fmt.Errorf("progress.bar_width must be at least 1")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

// getDataDir returns the persistent data directory.
// Priority:
// 1. $SCRIBE_DATA_DIR environment variable
// 2. $HOME/.scribe
// 3. ./.scribe
func getDataDir() string {
	if dataDir := os.Getenv("SCRIBE_DATA_DIR"); dataDir != "" {
		return dataDir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".scribe")
	}
	return ".scribe"
}

// applyEnvOverrides applies SCRIBE_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCRIBE_TESSERACT_BINARY"); v != "" {
		cfg.Engines.Tesseract.Binary = v
	}
	if v := os.Getenv("SCRIBE_TESSERACT_LANGUAGES"); v != "" {
		cfg.Engines.Tesseract.Languages = v
	}
	if v := os.Getenv("SCRIBE_WHISPER_BINARY"); v != "" {
		cfg.Engines.Whisper.Binary = v
	}
	if v := os.Getenv("SCRIBE_WHISPER_MODEL"); v != "" {
		cfg.Engines.Whisper.ModelPath = v
	}
	if v := os.Getenv("SCRIBE_WHISPER_LANGUAGE"); v != "" {
		cfg.Engines.Whisper.Language = v
	}
	if v := os.Getenv("SCRIBE_WHISPER_THREADS"); v != "" {
		if threads, err := strconv.Atoi(v); err == nil && threads > 0 {
			cfg.Engines.Whisper.Threads = threads
		}
	}
	if v := os.Getenv("SCRIBE_FFMPEG_BINARY"); v != "" {
		cfg.Engines.FFmpeg.Binary = v
	}
	if v := os.Getenv("SCRIBE_FFPROBE_BINARY"); v != "" {
		cfg.Engines.FFmpeg.ProbeBinary = v
	}
	if v := os.Getenv("SCRIBE_AUDIO_WEIGHT_SCALE"); v != "" {
		if scale, err := strconv.ParseFloat(v, 64); err == nil && scale > 0 {
			cfg.Progress.AudioWeightScale = scale
		}
	}
	if v := os.Getenv("SCRIBE_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("SCRIBE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SCRIBE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

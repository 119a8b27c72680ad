package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/rnotes/internal/shell"
)

// historyFileName is created in the user's home directory.
const historyFileName = ".rnotes_cli.history"

// Config holds the rnotes-cli settings. Every field has a default; a YAML
// file can override any of them.
type Config struct {
	HistoryFile     string        `yaml:"history_file"`
	HistoryLimit    int           `yaml:"history_limit"`
	Prompt          string        `yaml:"prompt"`
	SpinnerInterval time.Duration `yaml:"spinner_interval"`
	LogLevel        slog.Level    `yaml:"log_level"`
}

// Validate validates the CLI configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HistoryFile, validation.Required),
		validation.Field(&c.HistoryLimit, validation.Min(0)),
		validation.Field(&c.Prompt, validation.Required),
		validation.Field(&c.SpinnerInterval, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

// NewDefaultConfig returns the configuration used when no file is given.
func NewDefaultConfig() *Config {
	return &Config{
		HistoryFile:     defaultHistoryFile(),
		HistoryLimit:    1000,
		Prompt:          shell.DefaultPrompt,
		SpinnerInterval: shell.DefaultSpinnerInterval,
		LogLevel:        slog.LevelWarn,
	}
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFileName
	}
	return filepath.Join(home, historyFileName)
}

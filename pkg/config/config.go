package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rhino1998/lox/pkg/interpreter"
)

type InterpreterConfig struct {
	Permissive   bool `yaml:"permissive"`
	MaxCallDepth int  `yaml:"max_call_depth"`
}

type REPLConfig struct {
	Prompt       string `yaml:"prompt"`
	Continuation string `yaml:"continuation"`

	// History is the liner history file. A relative path is taken from the
	// user's home directory; empty disables history.
	History string `yaml:"history"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Interpreter InterpreterConfig `yaml:"interpreter"`
	REPL        REPLConfig        `yaml:"repl"`
	Log         LogConfig         `yaml:"log"`
}

func Default() Config {
	return Config{
		Interpreter: InterpreterConfig{
			MaxCallDepth: interpreter.DefaultMaxCallDepth,
		},
		REPL: REPLConfig{
			Prompt:       "> ",
			Continuation: "... ",
			History:      ".lox_history",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load reads a YAML file over Default. Keys missing from the file keep their
// default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err = dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to decode config %q: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate(logger *slog.Logger) error {
	if c.Interpreter.MaxCallDepth < 0 {
		return fmt.Errorf("interpreter.max_call_depth must not be negative, got %d", c.Interpreter.MaxCallDepth)
	}

	if c.REPL.Prompt == "" {
		return fmt.Errorf("repl.prompt must not be empty")
	}

	_, err := c.LogLevel()
	if err != nil {
		return err
	}

	logger.Debug("loaded config",
		slog.Bool("permissive", c.Interpreter.Permissive),
		slog.Int("max_call_depth", c.Interpreter.MaxCallDepth),
		slog.String("log_level", c.Log.Level),
	)

	return nil
}

func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelWarn, nil
	}

	err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level)))
	if err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}

	return level, nil
}

// HistoryPath resolves REPL.History against home. It returns "" when history
// is disabled.
func (c Config) HistoryPath(home string) string {
	if c.REPL.History == "" || filepath.IsAbs(c.REPL.History) {
		return c.REPL.History
	}

	return filepath.Join(home, c.REPL.History)
}

func (c Config) InterpreterConfig(stdout io.Writer) interpreter.Config {
	return interpreter.Config{
		Stdout:       stdout,
		Permissive:   c.Interpreter.Permissive,
		MaxCallDepth: c.Interpreter.MaxCallDepth,
	}
}

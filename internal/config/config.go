package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Axis describes one query slider.
type Axis struct {
	Min     float64 `koanf:"min" yaml:"min"`
	Max     float64 `koanf:"max" yaml:"max" validate:"gtfield=Min"`
	Step    float64 `koanf:"step" yaml:"step" validate:"gt=0"`
	Default float64 `koanf:"default" yaml:"default"`
}

// Contains reports whether v lies in [Min, Max].
func (a Axis) Contains(v float64) bool {
	return v >= a.Min && v <= a.Max
}

type DatasetConfig struct {
	Path          string `koanf:"path" yaml:"path" validate:"required"`
	WriteFallback bool   `koanf:"write_fallback" yaml:"write_fallback"`
}

type LabelsConfig struct {
	// Path to a YAML file overriding the built-in cluster names. Optional.
	Path string `koanf:"path" yaml:"path,omitempty"`
}

type QueryConfig struct {
	Q1 Axis `koanf:"q1" yaml:"q1"`
	Q2 Axis `koanf:"q2" yaml:"q2"`
}

type ServerConfig struct {
	Host              string        `koanf:"host" yaml:"host"`
	Port              int           `koanf:"port" yaml:"port" validate:"min=1,max=65535"`
	CORSOrigins       []string      `koanf:"cors_origins" yaml:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" yaml:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" yaml:"rate_limit_window" validate:"gte=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gte=0"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" yaml:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller" yaml:"caller"`
}

// Config is the in-memory representation of ~/.coursepath/coursepath.yaml.
type Config struct {
	Dataset DatasetConfig `koanf:"dataset" yaml:"dataset"`
	Labels  LabelsConfig  `koanf:"labels" yaml:"labels"`
	Query   QueryConfig   `koanf:"query" yaml:"query"`
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Logging LoggingConfig `koanf:"logging" yaml:"logging"`
}

// AppDir returns the absolute path to ~/.coursepath/.
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".coursepath"), nil
}

// ConfigPath returns the absolute path to ~/.coursepath/coursepath.yaml.
func ConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "coursepath.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:          "course_learning_path.csv",
			WriteFallback: true,
		},
		Query: QueryConfig{
			Q1: Axis{Min: -5, Max: 3, Step: 0.5, Default: 0},
			Q2: Axis{Min: -2, Max: 1.5, Step: 0.5, Default: 0},
		},
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              8501,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
			ShutdownTimeout:   10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Save marshals cfg and writes it to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

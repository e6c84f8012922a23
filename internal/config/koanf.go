package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks environment variables read into the config.
	EnvPrefix = "COURSEPATH_"
	// ConfigPathEnvVar overrides the config file location.
	ConfigPathEnvVar = EnvPrefix + "CONFIG"
)

// envMappings maps lowercased environment names (prefix stripped) to koanf
// paths. Unlisted variables are ignored.
var envMappings = map[string]string{
	"data":                       "dataset.path",
	"dataset_path":               "dataset.path",
	"dataset_write_fallback":     "dataset.write_fallback",
	"labels_path":                "labels.path",
	"query_q1_min":               "query.q1.min",
	"query_q1_max":               "query.q1.max",
	"query_q1_step":              "query.q1.step",
	"query_q1_default":           "query.q1.default",
	"query_q2_min":               "query.q2.min",
	"query_q2_max":               "query.q2.max",
	"query_q2_step":              "query.q2.step",
	"query_q2_default":           "query.q2.default",
	"host":                       "server.host",
	"port":                       "server.port",
	"server_host":                "server.host",
	"server_port":                "server.port",
	"server_cors_origins":        "server.cors_origins",
	"server_rate_limit_requests": "server.rate_limit_requests",
	"server_rate_limit_window":   "server.rate_limit_window",
	"server_shutdown_timeout":    "server.shutdown_timeout",
	"log_level":                  "logging.level",
	"log_format":                 "logging.format",
	"log_caller":                 "logging.caller",
}

var sliceConfigPaths = []string{"server.cors_origins"}

func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envMappings[key]
}

// Loaded is a resolved configuration plus where it came from.
type Loaded struct {
	Config *Config
	// File is the config file that was read, or empty when none was found.
	File string
}

// Load resolves configuration in layers: defaults, the YAML file, the
// dotenv file next to it, then COURSEPATH_* environment variables.
// explicitPath, when non-empty, must exist.
func Load(explicitPath string) (*Loaded, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("cannot load defaults: %w", err)
	}

	path, err := resolveConfigPath(explicitPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("cannot load config file %s: %w", path, err)
		}
	}

	dotenv, err := LoadDotEnv()
	if err != nil {
		return nil, err
	}
	for key, val := range dotenv {
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		if p := envTransformFunc(key); p != "" {
			if err := k.Set(p, val); err != nil {
				return nil, fmt.Errorf("cannot apply %s from dotenv: %w", key, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("cannot load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("cannot unmarshal configuration: %w", err)
	}
	cfg.Dataset.Path, err = ExpandPath(cfg.Dataset.Path)
	if err != nil {
		return nil, err
	}
	cfg.Labels.Path, err = ExpandPath(cfg.Labels.Path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Loaded{Config: cfg, File: path}, nil
}

func resolveConfigPath(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(ConfigPathEnvVar)
	}
	if explicit != "" {
		p, err := ExpandPath(explicit)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("cannot read config %s: %w", p, err)
		}
		return p, nil
	}

	p, err := ConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("cannot stat config %s: %w", p, err)
	}
	return p, nil
}

// processSliceFields splits comma-separated strings coming from the
// environment into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("cannot set %s: %w", path, err)
		}
	}
	return nil
}

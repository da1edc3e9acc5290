package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/codeshot/pkg/model"
)

// EnvConfigPath names the environment variable that points at a config file
const EnvConfigPath = "CODESHOT_CONFIG"

// File is the on-disk YAML layout
type File struct {
	Background string               `yaml:"background"`
	Renderer   model.RendererConfig `yaml:"renderer"`
}

// DefaultPath returns the config location used when none is given:
// $CODESHOT_CONFIG, then $XDG_CONFIG_HOME/codeshot/config.yaml,
// then ~/.config/codeshot/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codeshot", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "codeshot", "config.yaml")
}

// Load reads a YAML config file.
// When explicit is false a missing file is not an error and yields an empty File.
func Load(path string, explicit bool) (*File, error) {
	if path == "" {
		return &File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			log.Printf("DEBUG: [CONFIG] No config file at %s, using defaults", path)
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	log.Printf("DEBUG: [CONFIG] Loaded config from %s (backend=%q, scale=%v)", path, f.Renderer.Backend, f.Renderer.DeviceScaleFactor)
	return &f, nil
}

// Resolve applies defaults to the loaded renderer settings and validates them
func (f *File) Resolve() (model.RendererConfig, error) {
	cfg := f.Renderer.WithDefaults()
	if err := model.ValidateRendererConfig(cfg); err != nil {
		return model.RendererConfig{}, fmt.Errorf("invalid renderer config: %w", err)
	}
	return cfg, nil
}

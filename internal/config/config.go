// Package config loads the console configuration file. Values here are
// defaults only; flags and environment variables override them at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultServerURL points at a locally running mock-serve instance.
	DefaultServerURL = "http://localhost:8080"

	// DefaultPageSize is the page size requested by list commands.
	DefaultPageSize = 20

	// DefaultFileName is the config file looked up in the home directory.
	DefaultFileName = ".assetsctl.yaml"
)

// File is the on-disk configuration schema.
type File struct {
	Server   string `yaml:"server"`
	Token    string `yaml:"token"`
	PageSize int    `yaml:"page_size"`
	LogLevel string `yaml:"log_level"`
}

// DefaultPath returns the config file path in the user's home directory, or
// "" when the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFileName)
}

// Load reads the config file at path. A missing file is not an error; it
// yields an empty File so defaults apply.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &f, nil
}

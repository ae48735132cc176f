package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/filehub/uploader/internal/utils"
	"github.com/goccy/go-json"
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigPath = filepath.Join(home, ".filehub", "config.json")
	DefaultCategory   = "documents"
)

// Config holds the uploader's persisted client settings
type Config struct {
	ServerURL       string `json:"server_url"`
	Category        string `json:"category"`
	Concurrency     int    `json:"concurrency,omitempty"`
	DirectThreshold int    `json:"direct_threshold,omitempty"`
	ChunkSizeMB     int    `json:"chunk_size_mb,omitempty"`
	Path            string `json:"-"`
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server url is required")
	}
	if _, err := url.ParseRequestURI(c.ServerURL); err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	return nil
}

func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Path = path
	if cfg.Category == "" {
		cfg.Category = DefaultCategory
	}

	return &cfg, nil
}

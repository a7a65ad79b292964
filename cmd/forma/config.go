package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/forma3d/forma/internal/logger"
	"github.com/forma3d/forma/pkg/container"
	"github.com/forma3d/forma/pkg/container/glyph"
	"github.com/forma3d/forma/pkg/container/model"
)

// Config represents the forma configuration file (~/.config/forma/config.yaml).
// Limit fields are pointers so "not set" is distinguishable from zero.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`

	// Structural limit overrides applied to both container families.
	MaxEntryCount *uint32 `yaml:"max_entry_count"`
	MaxTableBytes *uint32 `yaml:"max_table_bytes"`
	MaxBlockBytes *uint32 `yaml:"max_block_bytes"`
	MaxFileBytes  *int64  `yaml:"max_file_bytes"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "forma", "config.yaml")
}

// loadConfig reads the config file if present. A missing or unreadable file
// yields the zero config; a malformed one is reported.
func loadConfig() (Config, error) {
	var cfg Config
	path := configPath()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) applyLimits(l *container.Limits) {
	if c.MaxEntryCount != nil {
		l.MaxEntryCount = *c.MaxEntryCount
	}
	if c.MaxTableBytes != nil {
		l.MaxTableBytes = *c.MaxTableBytes
	}
	if c.MaxBlockBytes != nil {
		l.MaxBlockBytes = *c.MaxBlockBytes
	}
	if c.MaxFileBytes != nil {
		l.MaxFileBytes = *c.MaxFileBytes
	}
}

func (c Config) modelCodec() model.Codec {
	codec := model.Default()
	c.applyLimits(&codec.Limits)
	return codec
}

func (c Config) glyphCodec() glyph.Codec {
	codec := glyph.Default()
	c.applyLimits(&codec.Limits)
	return codec
}

// newLogger builds the command logger from config, with flag overrides
// already resolved by the caller.
func newLogger(cfg Config, level, format string) logger.Logger {
	if level == "" {
		level = cfg.LogLevel
	}
	if format == "" {
		format = cfg.LogFormat
	}
	if format == "json" {
		return logger.JSON(os.Stderr, logger.ParseLevel(level))
	}
	return logger.Text(os.Stderr, logger.ParseLevel(level))
}

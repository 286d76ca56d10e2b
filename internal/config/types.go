// Package config loads tilestack server configuration from file,
// environment variables, and CLI flags.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tilestack-labs/tilestack/pkg/raster"
)

// Config holds the server configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port int `koanf:"port"`

	// Driver is the registered raster driver provider name.
	Driver string `koanf:"driver"`

	// DriverPath is the provider-specific catalog path or DSN.
	DriverPath string `koanf:"driver_path"`

	// DefaultTileSize is the [width, height] used when a request does not
	// specify tile_size.
	DefaultTileSize []int `koanf:"default_tile_size"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Verbose forces debug logging regardless of LogLevel.
	Verbose bool `koanf:"verbose"`
}

// TileSize returns DefaultTileSize as a raster.TileSize.
func (c *Config) TileSize() (raster.TileSize, error) {
	if len(c.DefaultTileSize) != 2 {
		return raster.TileSize{}, fmt.Errorf("default_tile_size must contain exactly 2 values, got %d", len(c.DefaultTileSize))
	}
	size := raster.TileSize{Width: c.DefaultTileSize[0], Height: c.DefaultTileSize[1]}
	if !size.Valid() {
		return raster.TileSize{}, fmt.Errorf("default_tile_size dimensions must be positive, got %v", c.DefaultTileSize)
	}
	return size, nil
}

// SlogLevel maps the configured level name onto an slog level.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

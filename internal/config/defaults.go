package config

// Default configuration values.
const (
	DefaultPort     = 5000
	DefaultDriver   = "memory"
	DefaultLogLevel = "info"
	DefaultTileDim  = 256
)

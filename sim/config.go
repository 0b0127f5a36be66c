package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds simulator configuration
type Config struct {
	// Simulation Configuration
	Frames uint32 `json:"frames"` // Number of physical memory frames
	Policy string `json:"policy"` // Replacement policy (lru, fifo, random, clock)
	Seed   int64  `json:"seed"`   // Seed for the random policy

	// Trace Configuration
	Traces  []string `json:"traces"`   // Trace file paths for batch modes
	UseMmap bool     `json:"use_mmap"` // Load plain trace files via mmap

	// Batch Configuration
	Workers   int    `json:"workers"`    // Parallel workers for batch modes (1 = serial)
	OutputDir string `json:"output_dir"` // Directory for data-mode CSV files

	// Performance Configuration
	EnableMetrics bool   `json:"enable_metrics"` // Whether to collect performance metrics
	LogLevel      string `json:"log_level"`      // Log level (debug, info, warn, error)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Frames:        64,
		Policy:        "lru",
		Seed:          1,
		Traces:        []string{},
		UseMmap:       false,
		Workers:       1,
		OutputDir:     "./out",
		EnableMetrics: true,
		LogLevel:      "info",
	}
}

// LoadConfigFromFile loads configuration from a JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigFromEnv loads configuration from environment variables
// Falls back to default values if environment variables are not set
func LoadConfigFromEnv() *Config {
	config := DefaultConfig()

	// Simulation
	if val := os.Getenv("PAGESIM_FRAMES"); val != "" {
		if frames, err := strconv.ParseUint(val, 10, 32); err == nil {
			config.Frames = uint32(frames)
		}
	}

	if val := os.Getenv("PAGESIM_POLICY"); val != "" {
		config.Policy = val
	}

	if val := os.Getenv("PAGESIM_SEED"); val != "" {
		if seed, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.Seed = seed
		}
	}

	// Traces
	if val := os.Getenv("PAGESIM_USE_MMAP"); val != "" {
		config.UseMmap = val == "true" || val == "1"
	}

	// Batch
	if val := os.Getenv("PAGESIM_WORKERS"); val != "" {
		if workers, err := strconv.Atoi(val); err == nil {
			config.Workers = workers
		}
	}

	if val := os.Getenv("PAGESIM_OUTPUT_DIR"); val != "" {
		config.OutputDir = val
	}

	// Performance
	if val := os.Getenv("PAGESIM_ENABLE_METRICS"); val != "" {
		config.EnableMetrics = val == "true" || val == "1"
	}

	if val := os.Getenv("PAGESIM_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// SaveToFile saves the configuration to a JSON file
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Frames == 0 {
		return fmt.Errorf("frame count must be greater than 0")
	}

	if _, err := ParsePolicyKind(c.Policy); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := &Config{
		Frames:        c.Frames,
		Policy:        c.Policy,
		Seed:          c.Seed,
		Traces:        make([]string, len(c.Traces)),
		UseMmap:       c.UseMmap,
		Workers:       c.Workers,
		OutputDir:     c.OutputDir,
		EnableMetrics: c.EnableMetrics,
		LogLevel:      c.LogLevel,
	}
	copy(clone.Traces, c.Traces)
	return clone
}

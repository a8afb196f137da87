package config

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults match the original co-occurrence analysis: bundled sample input,
// weight threshold 500, labels off.
const (
	DefaultInput     = "data/weighted_edgelist.csv"
	DefaultThreshold = 500.0
	DefaultColumns   = "nodeA,nodeB,weight"
	DefaultOutDir    = "output"
	DefaultVizDir    = "viz"
	DefaultSeed      = 42
	DefaultPort      = 8080
)

// Config holds all configuration for the application
type Config struct {
	Input     string  `koanf:"input"`     // Path to the weighted edge list CSV
	Threshold float64 `koanf:"threshold"` // Minimum edge weight kept in the network
	Labels    bool    `koanf:"labels"`    // Draw node labels on the visualization
	Columns   string  `koanf:"columns"`   // Comma-separated nodeA,nodeB,weight column names
	OutDir    string  `koanf:"outdir"`    // Directory for the centrality table
	VizDir    string  `koanf:"vizdir"`    // Directory for the network image
	Seed      uint64  `koanf:"seed"`      // Layout random seed

	Serve       bool `koanf:"serve"` // Start a web server exposing the latest run
	Port        int  `koanf:"port"`
	Watch       bool `koanf:"watch"` // Re-run when the input file changes
	OpenBrowser bool `koanf:"open"`

	Verbose int  `koanf:"verbose"`
	LogJSON bool `koanf:"logjson"`
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"input":     DefaultInput,
		"threshold": DefaultThreshold,
		"labels":    false,
		"columns":   DefaultColumns,
		"outdir":    DefaultOutDir,
		"vizdir":    DefaultVizDir,
		"seed":      DefaultSeed,
		"serve":     false,
		"port":      DefaultPort,
		"watch":     false,
		"open":      true,
		"verbose":   0,
		"logjson":   false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config File (optional) - netgraph.toml
	// We ignore errors here as the file might not exist
	_ = k.Load(file.Provider("netgraph.toml"), toml.Parser())

	// 3. Environment Variables
	// Prefix: NETGRAPH_ (e.g., NETGRAPH_THRESHOLD=250)
	if err := k.Load(env.Provider("NETGRAPH_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "NETGRAPH_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input path must not be empty")
	}
	if c.Threshold < 0 || math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return fmt.Errorf("threshold must be a non-negative number, got %v", c.Threshold)
	}
	parts := strings.Split(c.Columns, ",")
	if len(parts) != 3 {
		return fmt.Errorf("columns must name three comma-separated columns, got %q", c.Columns)
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("columns must name three comma-separated columns, got %q", c.Columns)
		}
	}
	if c.Serve && (c.Port < 1 || c.Port > 65535) {
		return fmt.Errorf("port must be in 1-65535, got %d", c.Port)
	}
	return nil
}

// TablePath returns the destination of the centrality measures CSV.
func (c *Config) TablePath() string {
	return filepath.Join(c.OutDir, "centrality_measures.csv")
}

// ImagePath returns the destination of the network PNG. Labeled renders get
// their own file name so both variants can coexist.
func (c *Config) ImagePath() string {
	name := "network.png"
	if c.Labels {
		name = "network_w_labels.png"
	}
	return filepath.Join(c.VizDir, name)
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

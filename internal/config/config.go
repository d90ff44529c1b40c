// Package config loads tarkovbuddy settings from an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Oddey86/TarkovBuddy/internal/catalog"
	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/optimizer"
)

const (
	DefaultDataDir       = ".tarkovbuddy"
	DefaultAddr          = ":8080"
	DefaultModel         = "claude-sonnet-4-5"
	DefaultCacheTTL      = 10 * time.Minute
	DefaultResultCache   = 128
	DefaultBriefingLimit = 1024
)

type Config struct {
	// PlayerLevel overrides the level stored in progress when non-zero.
	PlayerLevel  int                 `yaml:"player_level"`
	Weights      optimizer.Weights   `yaml:"weights"`
	Flags        optimizer.Flags     `yaml:"flags"`
	AllowedMaps  []string            `yaml:"allowed_maps"`
	FocusTargets []string            `yaml:"focus_targets"`
	Inventory    optimizer.Inventory `yaml:"inventory"`
	DataDir      string              `yaml:"data_dir"`

	API struct {
		URL      string        `yaml:"url"`
		Timeout  time.Duration `yaml:"timeout"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"api"`

	Server struct {
		Addr      string `yaml:"addr"`
		CacheSize int    `yaml:"cache_size"`
	} `yaml:"server"`

	Briefing struct {
		Model     string `yaml:"model"`
		MaxTokens int64  `yaml:"max_tokens"`
		Template  string `yaml:"template"`
		APIKey    string `yaml:"-"`
	} `yaml:"briefing"`
}

// Default returns a runnable configuration with no file present.
func Default() *Config {
	c := &Config{
		Weights: optimizer.DefaultWeights(),
		DataDir: DefaultDataDir,
	}
	c.API.URL = catalog.DefaultURL
	c.API.Timeout = catalog.DefaultTimeout
	c.API.CacheTTL = DefaultCacheTTL
	c.Server.Addr = DefaultAddr
	c.Server.CacheSize = DefaultResultCache
	c.Briefing.Model = DefaultModel
	c.Briefing.MaxTokens = DefaultBriefingLimit
	return c
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), then .env and environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("TARKOVBUDDY_API_URL")); v != "" {
		c.API.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("TARKOVBUDDY_DATA_DIR")); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if strings.HasPrefix(v, ":") {
			c.Server.Addr = v
		} else {
			c.Server.Addr = ":" + v
		}
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		c.Briefing.APIKey = v
	}
}

// Validate rejects settings the optimizer cannot use.
func (c *Config) Validate() error {
	if c.PlayerLevel < 0 || c.PlayerLevel > 79 {
		return fmt.Errorf("player_level %d out of range 1..79", c.PlayerLevel)
	}
	w := c.Weights
	if w.MapSwitchPenalty < 0 || w.MissingKeyPenalty < 0 || w.MissingItemPenalty < 0 {
		return fmt.Errorf("weights must be non-negative: %+v", w)
	}
	known := optimizer.DefaultAllowedMaps()
	for _, m := range c.AllowedMaps {
		if !known[m] {
			return fmt.Errorf("unknown map %q in allowed_maps", m)
		}
	}
	return nil
}

// AllowedMapSet returns the configured maps, or every map plus Unknown
// when none are configured.
func (c *Config) AllowedMapSet() map[string]bool {
	if len(c.AllowedMaps) == 0 {
		return optimizer.DefaultAllowedMaps()
	}
	return toSet(c.AllowedMaps)
}

// Request assembles an optimizer request from the config and the player's
// progress. A non-zero PlayerLevel in the config wins over level.
func (c *Config) Request(tasks []graph.Task, level int, completed, completedObjectives map[string]bool) optimizer.Request {
	if c.PlayerLevel > 0 {
		level = c.PlayerLevel
	}
	return optimizer.Request{
		Tasks:               tasks,
		PlayerLevel:         level,
		Completed:           completed,
		Weights:             c.Weights,
		Flags:               c.Flags,
		FocusTargets:        toSet(c.FocusTargets),
		AllowedMaps:         c.AllowedMapSet(),
		Inventory:           c.Inventory,
		CompletedObjectives: completedObjectives,
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = true
		}
	}
	return set
}

// Package config loads simulation settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/colorsort"
	"github.com/aretw0/colorsort/pkg/domain"
)

// Config describes one simulation: the initial distribution, an optional
// palette order and the tuning limits.
type Config struct {
	Name      string              `yaml:"name" json:"name" mapstructure:"name"`
	Palette   []string            `yaml:"palette" json:"palette" mapstructure:"palette"`
	Processes map[string][]string `yaml:"processes" json:"processes" mapstructure:"processes"`
	Limits    colorsort.Limits    `yaml:"limits" json:"limits" mapstructure:"limits"`
}

// Default returns the three-process scenario with ten tokens each.
func Default() *Config {
	return &Config{
		Name:    "default",
		Palette: []string{"R", "G", "B"},
		Processes: map[string][]string{
			"P1": strings.Split("RRRGGGBBBR", ""),
			"P2": strings.Split("GGGRRBBBRR", ""),
			"P3": strings.Split("BBBBRGGGGR", ""),
		},
		Limits: colorsort.DefaultLimits(),
	}
}

// Load reads a configuration file. Files ending in .json are parsed as JSON,
// anything else as YAML. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	cfg, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg, nil
}

// Decode builds a Config from generic data, such as a parsed document or
// MCP tool arguments. Durations accept strings like "50ms".
func Decode(raw map[string]any) (*Config, error) {
	cfg := &Config{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration the same way the engine will.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Palette))
	for _, p := range c.Palette {
		if p == "" {
			return fmt.Errorf("palette: empty color: %w", domain.ErrUnknownColor)
		}
		if seen[p] {
			return fmt.Errorf("palette: duplicate color %q", p)
		}
		seen[p] = true
	}
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("limits: %w", err)
	}
	return c.Distribution().Validate(c.PaletteColors())
}

// Distribution converts the configured stacks.
func (c *Config) Distribution() domain.Distribution {
	dist := make(domain.Distribution, len(c.Processes))
	for id, stack := range c.Processes {
		dist[domain.ProcessID(id)] = domain.ParseColors(stack)
	}
	return dist
}

// PaletteColors returns the configured palette, or nil to derive it.
func (c *Config) PaletteColors() domain.Palette {
	if len(c.Palette) == 0 {
		return nil
	}
	return domain.Palette(domain.ParseColors(c.Palette))
}

// Options maps the configuration onto simulation options.
func (c *Config) Options() []colorsort.Option {
	opts := []colorsort.Option{
		colorsort.WithLimits(c.Limits),
		colorsort.WithName(c.Name),
	}
	if p := c.PaletteColors(); len(p) > 0 {
		opts = append(opts, colorsort.WithPalette(p...))
	}
	return opts
}

// New builds a simulation from the configuration.
func (c *Config) New(opts ...colorsort.Option) (*colorsort.Simulation, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return colorsort.New(c.Distribution(), append(c.Options(), opts...)...)
}

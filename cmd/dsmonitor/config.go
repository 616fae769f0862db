package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/frc-ds/dscore"
)

// OperatorConfig is the on-disk configuration for a dsmonitor instance,
// grounded on clients/hpsdr/main.go's RoutingConfig: a flat YAML struct
// loaded once at startup, no hot-reload.
type OperatorConfig struct {
	Generation   string `yaml:"generation"` // "2014" or "2015"
	TeamNumber   int    `yaml:"team_number"`
	Alliance     string `yaml:"alliance"` // "red" or "blue"
	Position     int    `yaml:"position"` // 1-3
	ListenAddr   string `yaml:"listen_addr"`
	DiscoverMDNS bool   `yaml:"discover_mdns"`
	FMSHost      string `yaml:"fms_host"` // empty disables FMS sends
}

// LoadOperatorConfig reads and validates a dsmonitor YAML config file.
func LoadOperatorConfig(path string) (*OperatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &OperatorConfig{ListenAddr: ":8080"}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Generation != "2014" && cfg.Generation != "2015" {
		return nil, fmt.Errorf("generation must be \"2014\" or \"2015\", got %q", cfg.Generation)
	}
	if cfg.TeamNumber <= 0 || cfg.TeamNumber > 9999 {
		return nil, fmt.Errorf("team_number out of range: %d", cfg.TeamNumber)
	}
	if cfg.Position < 1 || cfg.Position > 3 {
		return nil, fmt.Errorf("position must be 1-3, got %d", cfg.Position)
	}

	return cfg, nil
}

func (c *OperatorConfig) alliance() dscore.Alliance {
	if c.Alliance == "blue" {
		return dscore.Blue
	}
	return dscore.Red
}

func (c *OperatorConfig) position() dscore.Position {
	switch c.Position {
	case 2:
		return dscore.Position2
	case 3:
		return dscore.Position3
	default:
		return dscore.Position1
	}
}

// newDescriptor builds the Descriptor and backing Registry for the
// configured generation (spec §4.4).
func newDescriptor(c *OperatorConfig) (dscore.Descriptor, *dscore.Registry, *dscore.SimpleJoystickRegistry) {
	cfg := dscore.NewRegistry()
	cfg.SetTeamNumber(uint16(c.TeamNumber))
	cfg.SetAlliance(c.alliance())
	cfg.SetPosition(c.position())

	sticks := dscore.NewSimpleJoystickRegistry()

	if c.Generation == "2014" {
		return dscore.NewCodec2014(cfg, sticks), cfg, sticks
	}
	return dscore.NewCodec2015(cfg, sticks), cfg, sticks
}

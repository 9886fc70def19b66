package config

import (
	"sort"

	"github.com/san-kum/gravbox/internal/units"
)

// Presets are named starting scenes. Positions are relative to the centre
// of the viewport.
var Presets = map[string]*Config{
	"default": {
		Scene: "default", TickTime: 1, Ticks: 365,
		Bodies: []BodyConfig{
			{Name: "Earth", Mass: 1, X: -148, Y: 10, VY: units.EarthOrbitalSpeed},
			{Name: "Sun", Mass: units.SunMass, X: 0, Y: -10},
		},
	},
	"inner": {
		Scene: "inner", TickTime: 0.5, Ticks: 1460,
		Bodies: []BodyConfig{
			{Name: "Sun", Mass: units.SunMass},
			{Name: "Mercury", Mass: 0.0553, X: -58, VY: 4.092},
			{Name: "Venus", Mass: 0.815, X: 108, VY: -3.026},
			{Name: "Earth", Mass: 1, X: -150, VY: units.EarthOrbitalSpeed},
			{Name: "Mars", Mass: 0.107, X: 228, VY: -2.080},
		},
	},
	"binary": {
		Scene: "binary", TickTime: 0.5, Ticks: 730,
		Bodies: []BodyConfig{
			{Name: "Alpha", Mass: 1.5e5, X: -60, VY: 1.370},
			{Name: "Beta", Mass: 1.5e5, X: 60, VY: -1.370},
		},
	},
	"triple": {
		Scene: "triple", TickTime: 0.25, Ticks: 1460,
		Bodies: []BodyConfig{
			{Name: "A", Mass: 1e5, X: 0, Y: -80, VX: 1.473},
			{Name: "B", Mass: 1e5, X: -69.282, Y: 40, VX: -0.7365, VY: -1.2757},
			{Name: "C", Mass: 1e5, X: 69.282, Y: 40, VX: -0.7365, VY: 1.2757},
		},
	},
	"empty": {
		Scene: "empty", TickTime: 1, Ticks: 365,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Bodies = append([]BodyConfig(nil), cfg.Bodies...)
	return &c
}

// ListPresets returns the preset names in alphabetical order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the scene, timing and bodies of the named preset into c.
func (c *Config) Apply(name string) bool {
	p := GetPreset(name)
	if p == nil {
		return false
	}
	c.Scene = p.Scene
	c.TickTime = p.TickTime
	c.Ticks = p.Ticks
	c.Bodies = append([]BodyConfig(nil), p.Bodies...)
	return true
}

package config

import (
	"sort"

	"github.com/san-kum/oscillab/internal/dynamo"
)

func preset(mode dynamo.Mode, edit func(p *dynamo.Params)) *Config {
	cfg := DefaultConfig()
	cfg.Mode = mode.String()
	edit(&cfg.Params)
	return cfg
}

var Presets = map[string]map[string]*Config{
	"spring": {
		"default": preset(dynamo.ModeSpring, func(p *dynamo.Params) {}),
		"stiff": preset(dynamo.ModeSpring, func(p *dynamo.Params) {
			p.Mass, p.SpringConstant, p.Amplitude = 0.5, 100, 0.1
		}),
		"heavy": preset(dynamo.ModeSpring, func(p *dynamo.Params) {
			p.Mass, p.SpringConstant, p.Amplitude = 5, 10, 0.3
		}),
		"quarter": preset(dynamo.ModeSpring, func(p *dynamo.Params) {
			p.Phase = 1.5707963267948966
		}),
	},
	"pendulum": {
		"default": preset(dynamo.ModePendulum, func(p *dynamo.Params) {}),
		"long": preset(dynamo.ModePendulum, func(p *dynamo.Params) {
			p.PendulumLength, p.PendulumAngleDeg = 3, 12
		}),
		"moon": preset(dynamo.ModePendulum, func(p *dynamo.Params) {
			p.Gravity = 1.62
		}),
		"wide": func() *Config {
			cfg := preset(dynamo.ModePendulum, func(p *dynamo.Params) {
				p.PendulumAngleDeg = 40
			})
			cfg.WideAngle = true
			return cfg
		}(),
	},
}

// GetPreset returns a copy of a named preset, or nil.
func GetPreset(mode, name string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListModes() []string {
	modes := make([]string, 0, len(Presets))
	for m := range Presets {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	return modes
}

package config

import (
	"fmt"
	"sort"
)

var presets = map[string]RenderConfig{
	// every exchange on one chart
	"all": {
		Width:           800,
		Height:          400,
		Margin:          Margin{Top: 50, Right: 100, Bottom: 50, Left: 50},
		Title:           "All Stock Exchanges",
		Grouped:         true,
		ShowLegend:      true,
		ShowAnnotations: true,
	},
	// the NYSE composite alone, with per-point tooltips
	"nyse": {
		Width:           800,
		Height:          400,
		Margin:          Margin{Top: 50, Right: 60, Bottom: 50, Left: 60},
		Title:           "NYSE Exchange",
		Symbol:          "NYA",
		ShowTooltip:     true,
		ShowAnnotations: true,
	},
	// one selectable exchange; the title is replaced by the selection
	"filter": {
		Width:           800,
		Height:          400,
		Margin:          Margin{Top: 50, Right: 60, Bottom: 50, Left: 60},
		ShowTooltip:     true,
		ShowAnnotations: true,
	},
}

// Preset returns a copy of a named render configuration.
func Preset(name string) (RenderConfig, error) {
	p, ok := presets[name]
	if !ok {
		return RenderConfig{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, name, PresetNames())
	}
	p.LineColor = "steelblue"
	p.XLabel = "Date"
	p.YLabel = "↑ Close Price ($)"
	p.TickSpacing = 40
	return p, nil
}

// PresetNames lists the known presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

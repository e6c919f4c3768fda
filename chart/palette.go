package chart

import (
	"hash/fnv"
	"sort"

	"github.com/rustyeddy/indexchart/market"
)

// Tableau10, extended with two extra hues so the twelve known exchanges
// never share a color.
var Palette = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
	"#17becf", "#8c564b",
}

var knownOrder = func() map[string]int {
	syms := market.Symbols()
	sort.Strings(syms)
	m := make(map[string]int, len(syms))
	for i, s := range syms {
		m[s] = i
	}
	return m
}()

// ColorFor returns the line color for a series key. The result depends only
// on the key, so a series keeps its color whatever else is plotted with it.
func ColorFor(key string) string {
	if i, ok := knownOrder[key]; ok {
		return Palette[i%len(Palette)]
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return Palette[int(h.Sum32()%uint32(len(Palette)))]
}

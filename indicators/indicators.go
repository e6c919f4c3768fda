// Package indicators computes moving-average overlays for price series.
package indicators

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/indexchart/market"
)

// Indicator computes a single streaming value from closing prices.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closing price.
	Update(close float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value, 0 until Ready.
	Value() float64
}

// New returns the indicator named by kind ("sma" or "ema").
func New(kind string, period int) (Indicator, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}
	switch strings.ToLower(kind) {
	case "", "sma":
		return NewMA(period), nil
	case "ema":
		return NewEMA(period), nil
	default:
		return nil, fmt.Errorf("unknown moving average %q", kind)
	}
}

// Overlay runs ind over s and returns one point per input point once the
// indicator is ready. The result shares the series key, so it is drawn in
// the series' color.
func Overlay(s market.Series, ind Indicator) market.Series {
	ind.Reset()
	out := market.Series{Key: s.Key}
	for _, p := range s.Points {
		ind.Update(p.Value)
		if !ind.Ready() {
			continue
		}
		out.Points = append(out.Points, market.DataPoint{SeriesKey: s.Key, Time: p.Time, Value: ind.Value()})
	}
	return out
}

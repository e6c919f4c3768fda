package chart

import (
	"math"
	"time"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// TickStep returns a 1-2-5 step that splits [start, stop] into roughly
// count intervals.
func TickStep(start, stop float64, count int) float64 {
	if count <= 0 || !(stop > start) {
		return 0
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	return factor * math.Pow(10, power)
}

// LinearScale maps a numeric domain onto a pixel range. The range may be
// inverted (e.g. [height, 0]) so that larger values sit higher on screen.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
}

// Map converts v to pixels. A zero-width domain maps to the middle of the
// range.
func (s LinearScale) Map(v float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	return r0 + (v-d0)/(d1-d0)*(r1-r0)
}

// Invert converts pixels back to a domain value.
func (s LinearScale) Invert(px float64) float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	r0, r1 := s.Range[0], s.Range[1]
	if r1 == r0 {
		return d0
	}
	return d0 + (px-r0)/(r1-r0)*(d1-d0)
}

// Nice widens the domain outward to multiples of the tick step. The niced
// lower bound is never above the original one and the upper bound never
// below it.
func (s LinearScale) Nice(count int) LinearScale {
	start, stop := s.Domain[0], s.Domain[1]
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	prev := 0.0
	for i := 0; i < 10; i++ {
		step := TickStep(start, stop, count)
		if step == 0 || step == prev {
			break
		}
		start = math.Floor(start/step) * step
		stop = math.Ceil(stop/step) * step
		prev = step
	}

	if reverse {
		start, stop = stop, start
	}
	s.Domain = [2]float64{start, stop}
	return s
}

// Ticks returns the tick values inside the domain.
func (s LinearScale) Ticks(count int) []float64 {
	lo, hi := s.Domain[0], s.Domain[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo == hi {
		return []float64{lo}
	}
	step := TickStep(lo, hi, count)
	if step == 0 {
		return nil
	}

	i0 := math.Ceil(lo/step - 1e-9)
	i1 := math.Floor(hi/step + 1e-9)
	if i0 == 0 {
		i0 = 0 // drop the sign of -0
	}
	out := make([]float64, 0, int(i1-i0)+1)
	for i := i0; i <= i1; i++ {
		out = append(out, roundTo(i*step, step))
	}
	return out
}

// roundTo strips float noise such as 0.30000000000000004 from a multiple
// of step.
func roundTo(v, step float64) float64 {
	places := decimals(step)
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// decimals is the number of fractional digits needed to print multiples of
// step exactly.
func decimals(step float64) int {
	if step <= 0 || step >= 1 {
		return 0
	}
	return int(math.Ceil(-math.Log10(step) - 1e-9))
}

// TimeScale maps a time domain onto a pixel range.
type TimeScale struct {
	Domain [2]time.Time
	Range  [2]float64
}

func (s TimeScale) linear() LinearScale {
	return LinearScale{
		Domain: [2]float64{unix(s.Domain[0]), unix(s.Domain[1])},
		Range:  s.Range,
	}
}

// Map converts t to pixels.
func (s TimeScale) Map(t time.Time) float64 {
	return s.linear().Map(unix(t))
}

// Invert converts pixels back to a time, truncated to the second.
func (s TimeScale) Invert(px float64) time.Time {
	sec := s.linear().Invert(px)
	return time.Unix(int64(math.Round(sec)), 0).UTC()
}

// Contains reports whether t lies within the domain, inclusive.
func (s TimeScale) Contains(t time.Time) bool {
	return !t.Before(s.Domain[0]) && !t.After(s.Domain[1])
}

// Tick is one labelled time axis position.
type Tick struct {
	Time  time.Time
	Label string
}

type interval struct {
	unit  string // "day", "month" or "year"
	every int
	span  time.Duration // approximate, used to pick an interval
}

const approxDay = 24 * time.Hour

var intervals = []interval{
	{"day", 1, approxDay},
	{"day", 2, 2 * approxDay},
	{"day", 7, 7 * approxDay},
	{"month", 1, 30 * approxDay},
	{"month", 3, 91 * approxDay},
	{"month", 6, 182 * approxDay},
	{"year", 1, 365 * approxDay},
	{"year", 2, 2 * 365 * approxDay},
	{"year", 5, 5 * 365 * approxDay},
	{"year", 10, 10 * 365 * approxDay},
	{"year", 20, 20 * 365 * approxDay},
	{"year", 50, 50 * 365 * approxDay},
	{"year", 100, 100 * 365 * approxDay},
}

// Ticks returns calendar-aligned ticks, picking the finest day/month/year
// interval that yields no more than count ticks.
func (s TimeScale) Ticks(count int) []Tick {
	from, to := s.Domain[0].UTC(), s.Domain[1].UTC()
	if to.Before(from) {
		from, to = to, from
	}
	if count <= 0 {
		count = 10
	}
	if from.Equal(to) {
		return []Tick{{Time: from, Label: from.Format("2006-01-02")}}
	}

	span := to.Sub(from)
	iv := intervals[len(intervals)-1]
	for _, c := range intervals {
		if float64(span)/float64(c.span) <= float64(count) {
			iv = c
			break
		}
	}

	var out []Tick
	for t := iv.first(from); !t.After(to); t = iv.next(t) {
		out = append(out, Tick{Time: t, Label: iv.label(t)})
	}
	return out
}

func (iv interval) first(t time.Time) time.Time {
	switch iv.unit {
	case "year":
		y := ceilMultiple(t.Year(), iv.every)
		c := time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
		if c.Before(t) {
			c = time.Date(y+iv.every, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		return c
	case "month":
		m0 := int(t.Month()) - 1
		c := time.Date(t.Year(), time.Month(ceilMultiple(m0, iv.every)+1), 1, 0, 0, 0, 0, time.UTC)
		if c.Before(t) {
			c = c.AddDate(0, iv.every, 0)
		}
		return c
	default:
		c := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if c.Before(t) {
			c = c.AddDate(0, 0, 1)
		}
		return c
	}
}

func (iv interval) next(t time.Time) time.Time {
	switch iv.unit {
	case "year":
		return t.AddDate(iv.every, 0, 0)
	case "month":
		return t.AddDate(0, iv.every, 0)
	default:
		return t.AddDate(0, 0, iv.every)
	}
}

func (iv interval) label(t time.Time) string {
	switch iv.unit {
	case "year":
		return t.Format("2006")
	case "month":
		if t.Month() == time.January {
			return t.Format("2006")
		}
		return t.Format("Jan")
	default:
		return t.Format("Jan 02")
	}
}

func ceilMultiple(v, k int) int {
	if k <= 1 {
		return v
	}
	r := v % k
	if r == 0 {
		return v
	}
	return v + (k - r)
}

func unix(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

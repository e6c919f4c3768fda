package chart

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		start, stop float64
		count       int
		want        float64
	}{
		{0, 16000, 7, 2000},
		{0, 1, 10, 0.1},
		{0, 100, 7, 20},
		{0, 100, 10, 10},
		{0, 17, 5, 5},
		{0, 0, 5, 0},
		{0, 10, 0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TickStep(tt.start, tt.stop, tt.count), 1e-12, "%v", tt)
	}
}

func TestLinearScaleNice(t *testing.T) {
	t.Parallel()

	s := LinearScale{Domain: [2]float64{0, 15432}, Range: [2]float64{300, 0}}.Nice(7)
	assert.Equal(t, [2]float64{0, 16000}, s.Domain)
	assert.Equal(t, [2]float64{300, 0}, s.Range)

	s = LinearScale{Domain: [2]float64{0, 16000}}.Nice(7)
	assert.Equal(t, [2]float64{0, 16000}, s.Domain)
}

func TestLinearScaleNiceExpandsOutward(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		lo := -r.Float64() * 1000
		if i%2 == 0 {
			lo = 0
		}
		hi := r.Float64() * 100000
		s := LinearScale{Domain: [2]float64{lo, hi}}.Nice(1 + r.Intn(12))
		assert.LessOrEqual(t, s.Domain[0], lo)
		assert.GreaterOrEqual(t, s.Domain[1], hi)
	}
}

func TestLinearScaleMap(t *testing.T) {
	t.Parallel()

	s := LinearScale{Domain: [2]float64{0, 100}, Range: [2]float64{300, 0}}
	assert.Equal(t, 300.0, s.Map(0))
	assert.Equal(t, 0.0, s.Map(100))
	assert.Equal(t, 150.0, s.Map(50))
	assert.Equal(t, 25.0, s.Invert(225))

	flat := LinearScale{Domain: [2]float64{5, 5}, Range: [2]float64{300, 0}}
	assert.Equal(t, 150.0, flat.Map(5))
}

func TestLinearScaleTicks(t *testing.T) {
	t.Parallel()

	s := LinearScale{Domain: [2]float64{0, 16000}}
	assert.Equal(t, []float64{0, 2000, 4000, 6000, 8000, 10000, 12000, 14000, 16000}, s.Ticks(7))

	s = LinearScale{Domain: [2]float64{0, 1}}
	ticks := s.Ticks(10)
	require.Len(t, ticks, 11)
	assert.Equal(t, 0.3, ticks[3])
}

func TestTimeScaleMap(t *testing.T) {
	t.Parallel()

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 1, 11, 0, 0, 0, 0, time.UTC)
	s := TimeScale{Domain: [2]time.Time{from, to}, Range: [2]float64{0, 100}}

	assert.InDelta(t, 0, s.Map(from), 1e-9)
	assert.InDelta(t, 100, s.Map(to), 1e-9)
	assert.InDelta(t, 50, s.Map(from.AddDate(0, 0, 5)), 1e-9)
	assert.True(t, s.Invert(50).Equal(from.AddDate(0, 0, 5)))
	assert.True(t, s.Contains(from))
	assert.False(t, s.Contains(to.Add(time.Second)))

	same := TimeScale{Domain: [2]time.Time{from, from}, Range: [2]float64{0, 100}}
	assert.Equal(t, 50.0, same.Map(from))
}

func labels(ticks []Tick) []string {
	out := make([]string, 0, len(ticks))
	for _, tk := range ticks {
		out = append(out, tk.Label)
	}
	return out
}

func TestTimeScaleTicks(t *testing.T) {
	t.Parallel()

	decades := TimeScale{Domain: [2]time.Time{
		time.Date(1965, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 6, 3, 0, 0, 0, 0, time.UTC),
	}}
	assert.Equal(t, []string{"1970", "1980", "1990", "2000", "2010", "2020"}, labels(decades.Ticks(8)))

	year := TimeScale{Domain: [2]time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}}
	assert.Equal(t, []string{"2020", "Apr", "Jul", "Oct"}, labels(year.Ticks(6)))

	week := TimeScale{Domain: [2]time.Time{
		time.Date(2020, 3, 2, 12, 0, 0, 0, time.UTC),
		time.Date(2020, 3, 6, 0, 0, 0, 0, time.UTC),
	}}
	assert.Equal(t, []string{"Mar 03", "Mar 04", "Mar 05", "Mar 06"}, labels(week.Ticks(10)))

	one := time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)
	single := TimeScale{Domain: [2]time.Time{one, one}}
	assert.Equal(t, []string{"2020-03-02"}, labels(single.Ticks(10)))

	for _, tk := range decades.Ticks(8) {
		assert.True(t, decades.Contains(tk.Time))
	}
}

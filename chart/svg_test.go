package chart

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/indexchart/config"
	"github.com/rustyeddy/indexchart/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func testDataset() *market.Dataset {
	return market.Group([]market.DataPoint{
		{SeriesKey: "IXIC", Time: d(1999, 1, 4), Value: 2208.05},
		{SeriesKey: "IXIC", Time: d(2020, 1, 2), Value: 100.5},
		{SeriesKey: "IXIC", Time: d(2021, 5, 28), Value: 13748.74},
		{SeriesKey: "NYA", Time: d(1999, 1, 4), Value: 6000},
		{SeriesKey: "NYA", Time: d(2021, 5, 28), Value: 16555.66},
	})
}

func preset(t *testing.T, name string) config.RenderConfig {
	t.Helper()
	cfg, err := config.Preset(name)
	require.NoError(t, err)
	return cfg
}

func render(t *testing.T, ds *market.Dataset, cfg config.RenderConfig) (string, Summary) {
	t.Helper()
	var buf bytes.Buffer
	sum, err := Draw(&buf, ds, cfg)
	require.NoError(t, err)
	assertWellFormed(t, buf.String())
	return buf.String(), sum
}

func assertWellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestRenderGrouped(t *testing.T) {
	t.Parallel()

	out, sum := render(t, testDataset(), preset(t, "all"))

	assert.Equal(t, "All Stock Exchanges", sum.Title)
	assert.Equal(t, 2, sum.Series)
	assert.Equal(t, 5, sum.Points)
	assert.False(t, sum.Empty)

	assert.Equal(t, 2, strings.Count(out, `<path class="line"`))
	assert.Contains(t, out, `data-key="IXIC" fill="none" stroke="`+ColorFor("IXIC")+`"`)
	assert.Contains(t, out, `data-key="NYA" fill="none" stroke="`+ColorFor("NYA")+`"`)

	assert.Contains(t, out, `<g class="legend" transform="translate(720,100)">`)
	assert.Contains(t, out, `fill="`+ColorFor("IXIC")+`">NASDAQ</text>`)
	assert.Contains(t, out, `fill="`+ColorFor("NYA")+`">NYSE</text>`)

	assert.Contains(t, out, `>Date</text>`)
	assert.Contains(t, out, `>↑ Close Price ($)</text>`)
	assert.NotContains(t, out, `class="pt"`)
}

func TestRenderDomain(t *testing.T) {
	t.Parallel()

	ds := testDataset()
	ext, _ := ds.Extent()
	_, sum := render(t, ds, preset(t, "all"))

	assert.True(t, sum.From.Equal(ext.From))
	assert.True(t, sum.To.Equal(ext.To))
	assert.Equal(t, 0.0, sum.YMin)
	assert.GreaterOrEqual(t, sum.YMax, ext.Max)
	assert.Equal(t, 18000.0, sum.YMax)
}

func TestRenderLegendFallback(t *testing.T) {
	t.Parallel()

	ds := market.Group([]market.DataPoint{
		{SeriesKey: "SPX", Time: d(2020, 1, 2), Value: 3257.85},
		{SeriesKey: "SPX", Time: d(2020, 1, 3), Value: 3234.85},
	})
	out, _ := render(t, ds, preset(t, "all"))
	assert.Contains(t, out, `>SPX</text>`)
	assert.NotContains(t, out, "undefined")
}

func TestRenderSingleSeries(t *testing.T) {
	t.Parallel()

	cfg := preset(t, "filter")
	out, sum := render(t, testDataset().Filter("IXIC"), cfg)

	assert.Equal(t, "NASDAQ", sum.Title)
	assert.Contains(t, out, `stroke="steelblue"`)
	assert.NotContains(t, out, `class="legend"`)
	assert.Equal(t, 3, strings.Count(out, `<g class="pt"`))
}

func TestRenderTooltipContent(t *testing.T) {
	t.Parallel()

	out, _ := render(t, testDataset().Filter("IXIC"), preset(t, "nyse"))

	re := regexp.MustCompile(`<g class="pt"[^>]*>.*?</g></g>`)
	groups := re.FindAllString(out, -1)
	require.Len(t, groups, 3)

	var hit []string
	for _, g := range groups {
		if strings.Contains(g, "2020-01-02") {
			hit = append(hit, g)
		}
	}
	require.Len(t, hit, 1)
	assert.Contains(t, hit[0], `<text x="6" y="13">2020-01-02</text><text x="6" y="26">$100.50</text>`)
	assert.Contains(t, hit[0], `<title>2020-01-02 $100.50</title>`)
	assert.Equal(t, 1, strings.Count(hit[0], `class="tip"`))

	// shown and hidden purely by the stylesheet
	assert.Contains(t, out, `.pt .tip{visibility:hidden;pointer-events:none}`)
	assert.Contains(t, out, `.pt:hover .tip{visibility:visible}`)
}

func TestRenderAnnotations(t *testing.T) {
	t.Parallel()

	out, _ := render(t, testDataset(), preset(t, "all"))
	assert.Equal(t, 3, strings.Count(out, `<g class="annotation"`))
	for _, ev := range Events {
		assert.Contains(t, out, `data-label="`+ev.Label+`"`)
	}

	narrow := market.Group([]market.DataPoint{
		{SeriesKey: "NYA", Time: d(2011, 1, 3), Value: 7000},
		{SeriesKey: "NYA", Time: d(2012, 1, 3), Value: 8000},
	})
	out, _ = render(t, narrow, preset(t, "all"))
	assert.NotContains(t, out, `<g class="annotation"`)

	cfg := preset(t, "all")
	cfg.ShowAnnotations = false
	out, _ = render(t, testDataset(), cfg)
	assert.NotContains(t, out, `annotation-group`)
}

func TestRenderAnnotationClipped(t *testing.T) {
	t.Parallel()

	ds := market.Group([]market.DataPoint{
		{SeriesKey: "NYA", Time: d(2001, 1, 2), Value: 6000},
		{SeriesKey: "NYA", Time: d(2005, 1, 3), Value: 7000},
	})
	out, _ := render(t, ds, preset(t, "all"))
	assert.Equal(t, 1, strings.Count(out, `<g class="annotation"`))
	assert.Contains(t, out, `<rect class="band" x="0" y="0"`)
}

func TestRenderEmptyState(t *testing.T) {
	t.Parallel()

	ixicOnly := testDataset().Filter("IXIC")
	nya := ixicOnly.Filter("NYA")
	require.Equal(t, 0, nya.Len())

	cfg := preset(t, "filter")
	cfg.Title = market.ExchangeName("NYA")
	out, sum := render(t, nya, cfg)

	assert.True(t, sum.Empty)
	assert.Contains(t, out, `class="indexchart empty"`)
	assert.Contains(t, out, "No data for NYSE")
	assert.NotContains(t, out, `class="line"`)

	out, sum = render(t, nil, preset(t, "filter"))
	assert.True(t, sum.Empty)
	assert.Contains(t, out, ">No data<")
}

func TestRenderSameKeyTwice(t *testing.T) {
	t.Parallel()

	ds := testDataset()
	cfg := preset(t, "filter")

	a, sa := render(t, ds.Filter("IXIC"), cfg)
	b, sb := render(t, ds.Filter("IXIC"), cfg)

	assert.NotEqual(t, sa.Prefix, sb.Prefix)
	assert.Equal(t, strings.ReplaceAll(a, sa.Prefix, "X"), strings.ReplaceAll(b, sb.Prefix, "X"))
	sa.Prefix, sb.Prefix = "", ""
	assert.Equal(t, sa, sb)
}

func TestRenderSinglePoint(t *testing.T) {
	t.Parallel()

	ds := market.Group([]market.DataPoint{{SeriesKey: "NYA", Time: d(2020, 1, 2), Value: 0}})
	out, sum := render(t, ds, preset(t, "nyse"))
	assert.Contains(t, out, `<circle class="line" data-key="NYA"`)
	assert.Equal(t, 1.0, sum.YMax)
}

func TestRenderInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := preset(t, "all")
	cfg.Width = 10
	err := Render(io.Discard, testDataset(), cfg)
	assert.Error(t, err)
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderError(&buf, preset(t, "all"), errors.New("open data/stock.csv: no such file")))
	out := buf.String()
	assertWellFormed(t, out)
	assert.Contains(t, out, `class="indexchart error"`)
	assert.Contains(t, out, "Failed to load data: open data/stock.csv: no such file")
}

func TestColorForIsStable(t *testing.T) {
	t.Parallel()

	seen := map[string]string{}
	for _, sym := range market.Symbols() {
		c := ColorFor(sym)
		assert.Equal(t, c, ColorFor(sym))
		for other, oc := range seen {
			assert.NotEqual(t, oc, c, "%s and %s share a color", sym, other)
		}
		seen[sym] = c
	}
	assert.Equal(t, ColorFor("SPX"), ColorFor("SPX"))
}

func TestAnnotationClip(t *testing.T) {
	t.Parallel()

	covid := Events[2]
	_, ok := covid.Clip(d(2021, 1, 1), d(2021, 12, 31))
	assert.False(t, ok)

	a, ok := covid.Clip(d(2020, 3, 1), d(2021, 1, 1))
	require.True(t, ok)
	assert.True(t, a.Start.Equal(d(2020, 3, 1)))
	assert.True(t, a.End.Equal(covid.End))
}

func TestRenderMovingAverage(t *testing.T) {
	t.Parallel()

	cfg := preset(t, "filter")
	out, _ := render(t, testDataset().Filter("IXIC"), cfg)
	assert.NotContains(t, out, `class="ma"`)

	cfg.MovingAverage = config.MovingAverage{Kind: "sma", Period: 2}
	out, _ = render(t, testDataset().Filter("IXIC"), cfg)
	assert.Equal(t, 1, strings.Count(out, `<path class="ma" data-key="IXIC"`))
	assert.Contains(t, out, `stroke-dasharray="4,3"`)

	// too few points for a line
	cfg.MovingAverage.Period = 3
	out, _ = render(t, testDataset().Filter("IXIC"), cfg)
	assert.NotContains(t, out, `class="ma"`)
}

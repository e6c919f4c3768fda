package chart

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/indexchart/config"
	"github.com/rustyeddy/indexchart/market"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// CSS names accepted for LineColor besides #rrggbb.
var namedColors = map[string]string{
	"steelblue": "#4682b4",
	"black":     "#000000",
	"gray":      "#808080",
	"red":       "#ff0000",
	"green":     "#008000",
	"blue":      "#0000ff",
	"orange":    "#ffa500",
}

func toDrawingColor(c string) (drawing.Color, bool) {
	if hex, ok := namedColors[strings.ToLower(c)]; ok {
		c = hex
	}
	if !strings.HasPrefix(c, "#") {
		return drawing.Color{}, false
	}
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#")), true
}

// RenderPNG draws a static raster version of the chart: lines, legend and
// annotation labels, without tooltips. Unlike Render it refuses an empty
// dataset with ErrEmptySeries, since there is no meaningful image to export.
func RenderPNG(w io.Writer, ds *market.Dataset, cfg config.RenderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ext, ok := ds.Extent()
	if !ok {
		return ErrEmptySeries
	}
	y := LinearScale{Domain: [2]float64{math.Min(0, ext.Min), math.Max(ext.Max, math.Min(0, ext.Min)+1)}}.Nice(cfg.YTicks())

	var series []gochart.Series
	for _, s := range ds.All() {
		xs := make([]time.Time, 0, len(s.Points)+1)
		ys := make([]float64, 0, len(s.Points)+1)
		for _, pt := range s.Points {
			xs = append(xs, pt.Time)
			ys = append(ys, pt.Value)
		}
		// go-chart needs a non-zero x range
		if len(xs) == 1 {
			xs = append(xs, xs[0].Add(24*time.Hour))
			ys = append(ys, ys[0])
		}

		st := gochart.Style{StrokeWidth: 1.5}
		c := cfg.LineColor
		if cfg.Grouped {
			c = ColorFor(s.Key)
		}
		if dc, ok := toDrawingColor(c); ok {
			st.StrokeColor = dc
		}
		series = append(series, gochart.TimeSeries{
			Name:    cfg.Label(s.Key),
			XValues: xs,
			YValues: ys,
			Style:   st,
		})

		if ma, ok := movingAverage(s, cfg.MovingAverage); ok {
			mst := st
			mst.StrokeWidth = 1
			mst.StrokeDashArray = []float64{4, 3}
			mx := make([]time.Time, len(ma.Points))
			my := make([]float64, len(ma.Points))
			for i, pt := range ma.Points {
				mx[i], my[i] = pt.Time, pt.Value
			}
			series = append(series, gochart.TimeSeries{
				Name:    cfg.Label(s.Key) + " avg",
				XValues: mx,
				YValues: my,
				Style:   mst,
			})
		}
	}

	if cfg.ShowAnnotations {
		var notes []gochart.Value2
		for _, ev := range Events {
			a, ok := ev.Clip(ext.From, ext.To)
			if !ok {
				continue
			}
			notes = append(notes, gochart.Value2{
				XValue: gochart.TimeToFloat64(a.Start),
				YValue: y.Domain[1],
				Label:  a.Label,
			})
		}
		if len(notes) > 0 {
			series = append(series, gochart.AnnotationSeries{Annotations: notes})
		}
	}

	ch := gochart.Chart{
		Title:  Title(ds, cfg),
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: gochart.Style{Padding: gochart.Box{
			Top:    cfg.Margin.Top,
			Left:   cfg.Margin.Left,
			Right:  cfg.Margin.Right,
			Bottom: cfg.Margin.Bottom,
		}},
		XAxis: gochart.XAxis{
			Name:           cfg.XLabel,
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			// the arrow glyph is missing from go-chart's bundled font
			Name:  strings.TrimSpace(strings.TrimPrefix(cfg.YLabel, "↑")),
			Range: &gochart.ContinuousRange{Min: y.Domain[0], Max: y.Domain[1]},
		},
		Series: series,
	}
	if cfg.Grouped && cfg.ShowLegend {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}

	return ch.Render(gochart.PNG, w)
}

package chart

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/indexchart/config"
	"github.com/rustyeddy/indexchart/indicators"
	"github.com/rustyeddy/indexchart/market"
	"github.com/rustyeddy/indexchart/pkg/id"
)

var ErrEmptySeries = errors.New("no data points to plot")

// Summary describes what a render drew. It is what the render journal
// records.
type Summary struct {
	Prefix string
	Title  string
	Series int
	Points int
	From   time.Time
	To     time.Time
	YMin   float64
	YMax   float64 // niced
	Empty  bool
}

// Render draws ds as a self-contained SVG document. An empty dataset is
// not an error: an empty-state chart is written instead.
func Render(w io.Writer, ds *market.Dataset, cfg config.RenderConfig) error {
	_, err := Draw(w, ds, cfg)
	return err
}

// Draw is Render returning a Summary of the chart.
func Draw(w io.Writer, ds *market.Dataset, cfg config.RenderConfig) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Prefix: id.Prefix(),
		Title:  Title(ds, cfg),
		Series: ds.SeriesCount(),
		Points: ds.Len(),
	}

	var sb strings.Builder
	ext, ok := ds.Extent()
	if !ok {
		sum.Empty = true
		writeMessage(&sb, sum.Prefix, cfg, sum.Title, "empty", emptyMessage(sum.Title))
	} else {
		sum.From, sum.To = ext.From, ext.To
		p := newPlot(sum.Prefix, cfg, ext)
		sum.YMin, sum.YMax = p.y.Domain[0], p.y.Domain[1]
		p.write(&sb, ds, sum.Title)
	}

	_, err := io.WriteString(w, sb.String())
	return sum, err
}

// RenderError writes an error-state chart so that a failed load shows up
// as a message in the page rather than a blank panel.
func RenderError(w io.Writer, cfg config.RenderConfig, cause error) error {
	var sb strings.Builder
	msg := "Failed to load data"
	if cause != nil {
		msg += ": " + cause.Error()
	}
	writeMessage(&sb, id.Prefix(), cfg, cfg.Title, "error", msg)
	_, err := io.WriteString(w, sb.String())
	return err
}

// Title resolves the chart title: the configured one, else the exchange
// name of a single plotted series.
func Title(ds *market.Dataset, cfg config.RenderConfig) string {
	if cfg.Title != "" {
		return cfg.Title
	}
	if keys := ds.Keys(); len(keys) == 1 {
		return market.ExchangeName(keys[0])
	}
	return ""
}

func emptyMessage(title string) string {
	if title == "" {
		return "No data"
	}
	return "No data for " + title
}

type plot struct {
	prefix string
	cfg    config.RenderConfig
	iw, ih float64
	x      TimeScale
	y      LinearScale
}

func newPlot(prefix string, cfg config.RenderConfig, ext market.Extent) *plot {
	iw, ih := float64(cfg.InnerWidth()), float64(cfg.InnerHeight())

	lo, hi := math.Min(0, ext.Min), ext.Max
	if hi <= lo {
		hi = lo + 1
	}

	return &plot{
		prefix: prefix,
		cfg:    cfg,
		iw:     iw,
		ih:     ih,
		x:      TimeScale{Domain: [2]time.Time{ext.From, ext.To}, Range: [2]float64{0, iw}},
		y:      LinearScale{Domain: [2]float64{lo, hi}, Range: [2]float64{ih, 0}}.Nice(cfg.YTicks()),
	}
}

func (p *plot) write(sb *strings.Builder, ds *market.Dataset, title string) {
	cfg := p.cfg
	openSVG(sb, p.prefix, cfg, "")
	writeStyle(sb, p.prefix, cfg.ShowTooltip)

	fmt.Fprintf(sb, `<defs><clipPath id="%s-clip"><rect width="%s" height="%s"/></clipPath></defs>`,
		p.prefix, num(p.iw), num(p.ih))
	fmt.Fprintf(sb, `<g transform="translate(%d,%d)">`, cfg.Margin.Left, cfg.Margin.Top)

	fmt.Fprintf(sb, `<text class="title" x="%s" y="%s" text-anchor="middle" font-size="14">%s</text>`,
		num(p.iw/2), num(-float64(cfg.Margin.Top)/2), esc(title))

	if cfg.ShowAnnotations {
		p.writeAnnotations(sb)
	}
	p.writeXAxis(sb)
	p.writeYAxis(sb)
	p.writeLines(sb, ds)
	if cfg.ShowTooltip {
		p.writeTooltips(sb, ds)
	}
	sb.WriteString(`</g>`)

	if cfg.Grouped && cfg.ShowLegend {
		p.writeLegend(sb, ds)
	}
	sb.WriteString(`</svg>`)
}

func (p *plot) writeXAxis(sb *strings.Builder) {
	fmt.Fprintf(sb, `<g class="axis x-axis" transform="translate(0,%s)" fill="none" text-anchor="middle">`, num(p.ih))
	fmt.Fprintf(sb, `<path class="domain" stroke="currentColor" d="M0,6V0H%sV6"/>`, num(p.iw))

	// roughly one label per 80px, as d3 does for an 800px axis
	for _, t := range p.x.Ticks(int(p.iw / 80)) {
		fmt.Fprintf(sb, `<g class="tick" transform="translate(%s,0)"><line stroke="currentColor" y2="6"/><text fill="currentColor" y="9" dy="0.71em">%s</text></g>`,
			num(p.x.Map(t.Time)), esc(t.Label))
	}

	if p.cfg.XLabel != "" {
		fmt.Fprintf(sb, `<text class="axis-label" x="%s" y="%s" fill="currentColor" text-anchor="start">%s</text>`,
			num(p.iw/2), num(float64(p.cfg.Margin.Bottom)/2+5), esc(p.cfg.XLabel))
	}
	sb.WriteString(`</g>`)
}

func (p *plot) writeYAxis(sb *strings.Builder) {
	sb.WriteString(`<g class="axis y-axis" fill="none" text-anchor="end">`)
	fmt.Fprintf(sb, `<path class="domain" stroke="currentColor" d="M-6,%sH0V0H-6"/>`, num(p.ih))

	count := p.cfg.YTicks()
	step := TickStep(p.y.Domain[0], p.y.Domain[1], count)
	places := int32(decimals(step))
	for _, v := range p.y.Ticks(count) {
		fmt.Fprintf(sb, `<g class="tick" transform="translate(0,%s)"><line stroke="currentColor" x2="-6"/><text fill="currentColor" x="-9" dy="0.32em">%s</text></g>`,
			num(p.y.Map(v)), market.FormatNumber(v, places))
	}

	if p.cfg.YLabel != "" {
		fmt.Fprintf(sb, `<text class="axis-label" x="%d" y="-10" fill="currentColor" text-anchor="start">%s</text>`,
			-p.cfg.Margin.Left, esc(p.cfg.YLabel))
	}
	sb.WriteString(`</g>`)
}

func (p *plot) color(key string) string {
	if p.cfg.Grouped {
		return ColorFor(key)
	}
	if p.cfg.LineColor != "" {
		return p.cfg.LineColor
	}
	return "steelblue"
}

func (p *plot) writeLines(sb *strings.Builder, ds *market.Dataset) {
	sb.WriteString(`<g class="lines">`)
	for _, s := range ds.All() {
		if len(s.Points) == 0 {
			continue
		}
		c := p.color(s.Key)
		if len(s.Points) == 1 {
			pt := s.Points[0]
			fmt.Fprintf(sb, `<circle class="line" data-key="%s" cx="%s" cy="%s" r="2" fill="%s"/>`,
				esc(s.Key), num(p.x.Map(pt.Time)), num(p.y.Map(pt.Value)), c)
			continue
		}

		fmt.Fprintf(sb, `<path class="line" data-key="%s" fill="none" stroke="%s" stroke-width="1.5" d="`, esc(s.Key), c)
		p.writePath(sb, s.Points)
		sb.WriteString(`"/>`)

		if ma, ok := p.overlay(s); ok {
			fmt.Fprintf(sb, `<path class="ma" data-key="%s" fill="none" stroke="%s" stroke-width="1" stroke-dasharray="4,3" stroke-opacity="0.7" d="`, esc(s.Key), c)
			p.writePath(sb, ma.Points)
			sb.WriteString(`"/>`)
		}
	}
	sb.WriteString(`</g>`)
}

func (p *plot) writePath(sb *strings.Builder, pts []market.DataPoint) {
	for i, pt := range pts {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}
		sb.WriteString(num(p.x.Map(pt.Time)))
		sb.WriteByte(',')
		sb.WriteString(num(p.y.Map(pt.Value)))
	}
}

// overlay returns the moving average of s when one is configured and it
// has at least two points.
func (p *plot) overlay(s market.Series) (market.Series, bool) {
	return movingAverage(s, p.cfg.MovingAverage)
}

func movingAverage(s market.Series, ma config.MovingAverage) (market.Series, bool) {
	if ma.Period <= 0 {
		return market.Series{}, false
	}
	ind, err := indicators.New(ma.Kind, ma.Period)
	if err != nil {
		return market.Series{}, false
	}
	out := indicators.Overlay(s, ind)
	return out, len(out.Points) >= 2
}

func (p *plot) writeLegend(sb *strings.Builder, ds *market.Dataset) {
	x := p.cfg.Margin.Left + int(p.iw) + 20
	fmt.Fprintf(sb, `<g class="legend" transform="translate(%d,100)">`, x)
	for i, key := range ds.Keys() {
		fmt.Fprintf(sb, `<text data-key="%s" x="0" y="%d" font-size="smaller" fill="%s">%s</text>`,
			esc(key), i*15, ColorFor(key), esc(p.cfg.Label(key)))
	}
	sb.WriteString(`</g>`)
}

func (p *plot) writeAnnotations(sb *strings.Builder) {
	sb.WriteString(`<g class="annotation-group">`)
	for i, ev := range Events {
		a, ok := ev.Clip(p.x.Domain[0], p.x.Domain[1])
		if !ok {
			continue
		}
		x0, x1 := p.x.Map(a.Start), p.x.Map(a.End)
		fmt.Fprintf(sb, `<g class="annotation" data-label="%s">`, esc(a.Label))
		fmt.Fprintf(sb, `<rect class="band" x="%s" y="0" width="%s" height="%s" fill="#888" fill-opacity="0.12" clip-path="url(#%s-clip)"/>`,
			num(x0), num(x1-x0), num(p.ih), p.prefix)
		fmt.Fprintf(sb, `<g class="badge" transform="translate(%s,0)"><circle r="10" fill="#444"/><text fill="#fff" text-anchor="middle" dy="0.35em">%d</text></g>`,
			num(x0), i+1)
		fmt.Fprintf(sb, `<text class="note" x="%s" y="-14" text-anchor="middle">%s</text>`,
			num((x0+x1)/2), esc(a.Label))
		sb.WriteString(`</g>`)
	}
	sb.WriteString(`</g>`)
}

const (
	tipWidth  = 84
	tipHeight = 32
)

// writeTooltips adds one transparent hit target per point. The label is
// shown by the :hover rule in the stylesheet, so nothing is added to or
// left behind in the document when the pointer moves on.
func (p *plot) writeTooltips(sb *strings.Builder, ds *market.Dataset) {
	sb.WriteString(`<g class="tooltips">`)
	for _, s := range ds.All() {
		for _, pt := range s.Points {
			cx, cy := p.x.Map(pt.Time), p.y.Map(pt.Value)
			dx, dy := 8.0, -float64(tipHeight)-4
			if cx+dx+tipWidth > p.iw {
				dx = -8 - tipWidth
			}
			if cy+dy < 0 {
				dy = 8
			}
			date, price := pt.DateString(), pt.PriceString()

			fmt.Fprintf(sb, `<g class="pt" data-key="%s" transform="translate(%s,%s)">`, esc(s.Key), num(cx), num(cy))
			fmt.Fprintf(sb, `<circle class="hit" r="5"/><title>%s %s</title>`, date, price)
			fmt.Fprintf(sb, `<g class="tip" transform="translate(%s,%s)"><rect width="%d" height="%d" rx="3"/><text x="6" y="13">%s</text><text x="6" y="26">%s</text></g>`,
				num(dx), num(dy), tipWidth, tipHeight, date, price)
			sb.WriteString(`</g>`)
		}
	}
	sb.WriteString(`</g>`)
}

func openSVG(sb *strings.Builder, prefix string, cfg config.RenderConfig, class string) {
	cls := "indexchart"
	if class != "" {
		cls += " " + class
	}
	fmt.Fprintf(sb, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" class="%s" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="10" style="overflow:visible">`,
		prefix, cls, cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func writeStyle(sb *strings.Builder, prefix string, tooltip bool) {
	sb.WriteString(`<style>`)
	fmt.Fprintf(sb, `#%[1]s .axis-label{font-size:12px}#%[1]s .note{font-weight:bold}`, prefix)
	if tooltip {
		fmt.Fprintf(sb, `#%[1]s .pt .hit{fill:transparent;pointer-events:all}`+
			`#%[1]s .pt:hover .hit{fill:var(--pointer-color,steelblue);stroke:#000}`+
			`#%[1]s .pt .tip{visibility:hidden;pointer-events:none}`+
			`#%[1]s .pt:hover .tip{visibility:visible}`+
			`#%[1]s .tip rect{fill:#fff;stroke:#999}`+
			`#%[1]s .tip text{font-size:11px;fill:#333}`, prefix)
	}
	sb.WriteString(`</style>`)
}

func writeMessage(sb *strings.Builder, prefix string, cfg config.RenderConfig, title, class, msg string) {
	openSVG(sb, prefix, cfg, class)
	if title != "" {
		fmt.Fprintf(sb, `<text class="title" x="%d" y="%d" text-anchor="middle" font-size="14">%s</text>`,
			cfg.Width/2, cfg.Margin.Top/2, esc(title))
	}
	fmt.Fprintf(sb, `<text class="%s-message" x="%d" y="%d" text-anchor="middle" font-size="13" fill="#666">%s</text>`,
		class, cfg.Width/2, cfg.Height/2, esc(msg))
	sb.WriteString(`</svg>`)
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func esc(s string) string {
	return html.EscapeString(s)
}

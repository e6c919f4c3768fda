package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rustyeddy/indexchart/chart"
	"github.com/rustyeddy/indexchart/config"
	"github.com/rustyeddy/indexchart/journal"
	"github.com/rustyeddy/indexchart/market"
	"github.com/rustyeddy/indexchart/pkg/id"
	"github.com/sirupsen/logrus"
)

const (
	chartsBasePath = "/charts"
	apiBasePath    = "/api/v1"

	// AllKey selects the grouped chart of every series.
	AllKey = "all"

	contentSVG = "image/svg+xml"
	contentPNG = "image/png"
)

var errUnknownChart = errors.New("unknown chart")

type Handler struct {
	router   *gin.Engine
	store    *Store
	single   config.RenderConfig
	grouped  config.RenderConfig
	defSym   string
	journal  journal.Journal
	cache    *redis.Client
	cacheTTL time.Duration
	log      logrus.FieldLogger
}

// NewHandler wires the routes. j and cache may be nil.
func NewHandler(store *Store, cfg config.Config, j journal.Journal, cache *redis.Client, log logrus.FieldLogger) (*Handler, error) {
	grouped, err := config.Preset(AllKey)
	if err != nil {
		return nil, err
	}
	grouped.Labels = cfg.Chart.Labels
	if j == nil {
		j = journal.Nop{}
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	h := &Handler{
		router:   router,
		store:    store,
		single:   cfg.Chart,
		grouped:  grouped,
		defSym:   market.ResolveSymbol(cfg.Server.DefaultSymbol),
		journal:  j,
		cache:    cache,
		cacheTTL: time.Duration(cfg.Server.CacheTTLSeconds) * time.Second,
		log:      log,
	}
	h.registerRoutes()
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/", h.page)
	h.router.GET("/healthz", h.healthz)

	charts := h.router.Group(chartsBasePath)
	if h.cache != nil {
		charts.Use(h.cacheMiddleware())
	}
	{
		// one param so that dotted symbols like 000001.SS route cleanly
		charts.GET("/:file", h.chart)
	}

	api := h.router.Group(apiBasePath)
	{
		api.GET("/series", h.listSeries)
	}
}

// splitFile turns "000001.SS.svg" into ("000001.SS", "svg").
func splitFile(file string) (key, format string, ok bool) {
	i := strings.LastIndexByte(file, '.')
	if i <= 0 {
		return "", "", false
	}
	key, format = file[:i], strings.ToLower(file[i+1:])
	if format != "svg" && format != "png" {
		return "", "", false
	}
	return key, format, true
}

func (h *Handler) chart(c *gin.Context) {
	key, format, ok := splitFile(c.Param("file"))
	if !ok {
		writeError(c, http.StatusNotFound, fmt.Errorf("%w %q", errUnknownChart, c.Param("file")))
		return
	}

	if key != AllKey {
		key = market.ResolveSymbol(key)
	}
	rc, err := h.renderConfig(key, c.Query("preset"))
	if err != nil {
		writeError(c, http.StatusNotFound, err)
		return
	}

	ds, err := h.store.Dataset()
	if err != nil {
		h.log.WithError(err).Warn("chart requested without a dataset")
		if format == "png" {
			writeError(c, http.StatusServiceUnavailable, err)
			return
		}
		var buf bytes.Buffer
		if err := chart.RenderError(&buf, rc, err); err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusServiceUnavailable, contentSVG, buf.Bytes())
		return
	}

	sel := ds
	if key != AllKey {
		sel = ds.Filter(key)
	}
	status := http.StatusOK
	if sel.Len() == 0 {
		status = http.StatusNotFound
	}

	start := time.Now()
	var (
		buf bytes.Buffer
		rec = journal.RenderRecord{ID: id.New(), Key: key, Format: format, Time: start.UTC()}
	)
	switch format {
	case "png":
		if status == http.StatusNotFound {
			writeError(c, status, fmt.Errorf("no data for %s", key))
			return
		}
		if err := chart.RenderPNG(&buf, sel, rc); err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		ext, _ := sel.Extent()
		rec.Title = chart.Title(sel, rc)
		rec.Series, rec.Points = sel.SeriesCount(), sel.Len()
		rec.From, rec.To, rec.YMax = ext.From, ext.To, ext.Max
	default:
		sum, err := chart.Draw(&buf, sel, rc)
		if err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		rec.Title, rec.Series, rec.Points = sum.Title, sum.Series, sum.Points
		rec.From, rec.To, rec.YMax = sum.From, sum.To, sum.YMax
	}
	rec.Duration = time.Since(start)

	if err := h.journal.RecordRender(rec); err != nil {
		h.log.WithError(err).WithField("render", rec.ID).Error("journal render")
	}

	ct := contentSVG
	if format == "png" {
		ct = contentPNG
	}
	c.Data(status, ct, buf.Bytes())
}

// renderConfig picks the chart settings for key. A named preset, as in
// /charts/NYA.svg?preset=nyse, overrides the configured chart.
func (h *Handler) renderConfig(key, preset string) (config.RenderConfig, error) {
	rc := h.single
	switch {
	case preset != "":
		p, err := config.Preset(preset)
		if err != nil {
			return config.RenderConfig{}, err
		}
		p.Labels = h.grouped.Labels
		rc = p
	case key == AllKey:
		rc = h.grouped
	}
	if key != AllKey && rc.Title == "" {
		rc.Title = market.ExchangeName(key)
	}
	return rc, nil
}

type seriesInfo struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	From   string `json:"from"`
	To     string `json:"to"`
}

func (h *Handler) listSeries(c *gin.Context) {
	ds, err := h.store.Dataset()
	if err != nil {
		writeError(c, http.StatusServiceUnavailable, err)
		return
	}

	out := make([]seriesInfo, 0, ds.SeriesCount())
	for _, s := range ds.All() {
		info := seriesInfo{Key: s.Key, Name: market.ExchangeName(s.Key), Points: s.Len()}
		if n := s.Len(); n > 0 {
			info.From = s.Points[0].DateString()
			info.To = s.Points[n-1].DateString()
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) healthz(c *gin.Context) {
	ds, err := h.store.Dataset()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"series":    ds.SeriesCount(),
		"points":    ds.Len(),
		"loaded_at": h.store.LoadedAt().Format(time.RFC3339),
	})
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"bytes":    c.Writer.Size(),
			"duration": time.Since(start).String(),
		}).Debug("request")
	}
}

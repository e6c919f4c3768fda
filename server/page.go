package server

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/indexchart/market"
)

type option struct {
	Key      string
	Label    string
	Selected bool
}

type pageData struct {
	Options []option
	Default string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Stock Exchange Indexes</title>
<style>
body{font-family:sans-serif;margin:2em}
.chart{margin-top:1em}
</style>
</head>
<body>
<h1>Stock Exchange Indexes</h1>
<div id="all-chart" class="chart"><img src="/charts/all.svg" alt="All Stock Exchanges"></div>
<div id="nyse-chart" class="chart"><object type="image/svg+xml" data="/charts/NYA.svg?preset=nyse">NYSE Exchange</object></div>
<label for="stock-select">Exchange</label>
<select id="stock-select" data-default="{{.Default}}">
{{- range .Options}}
<option value="{{.Key}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
<div id="chart" class="chart"></div>
<script>
(function () {
  var sel = document.getElementById("stock-select");
  var box = document.getElementById("chart");
  function show(key) {
    fetch("/charts/" + encodeURIComponent(key) + ".svg")
      .then(function (r) { return r.text(); })
      .then(function (svg) { box.innerHTML = svg; })
      .catch(function (err) { box.textContent = "Failed to load data: " + err; });
  }
  sel.addEventListener("change", function () { show(sel.value); });
  show(sel.value || sel.dataset.default);
})();
</script>
</body>
</html>
`))

// options lists one entry per series in the dataset, labelled with the
// exchange name. def is preselected when present, else the first entry.
func options(ds *market.Dataset, def string) []option {
	keys := ds.Keys()
	out := make([]option, 0, len(keys))
	found := false
	for _, k := range keys {
		o := option{Key: k, Label: market.ExchangeName(k), Selected: k == def}
		found = found || o.Selected
		out = append(out, o)
	}
	if !found && len(out) > 0 {
		out[0].Selected = true
	}
	return out
}

func (h *Handler) page(c *gin.Context) {
	// a failed load still gets the page; the chart fetch shows the error
	ds, _ := h.store.Dataset()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pageTmpl.Execute(c.Writer, pageData{Options: options(ds, h.defSym), Default: h.defSym}); err != nil {
		h.log.WithError(err).Error("render page")
	}
}

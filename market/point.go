package market

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of the Date column and of every date shown on a
// chart.
const DateLayout = "2006-01-02"

// DataPoint is one closing price of one index on one day.
type DataPoint struct {
	SeriesKey string
	Time      time.Time
	Value     float64
}

// DateString formats the point's date with DateLayout.
func (p DataPoint) DateString() string {
	return p.Time.UTC().Format(DateLayout)
}

// PriceString formats the value as dollars with two decimals and thousands
// separators, e.g. "$12,345.60".
func (p DataPoint) PriceString() string {
	return FormatPrice(p.Value)
}

// FormatPrice renders v as "$1,234.56".
func FormatPrice(v float64) string {
	if v < 0 {
		return "-$" + FormatNumber(-v, 2)
	}
	return "$" + FormatNumber(v, 2)
}

// FormatNumber renders v with the given number of decimal places and comma
// thousands separators.
func FormatNumber(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)

	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	buf := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, intPart[i])
	}
	return sign + string(buf) + frac
}

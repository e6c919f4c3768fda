// market/instruments.go
package market

import (
	"sort"
	"strings"
)

// IndexMeta describes one stock index symbol as it appears in the Index
// column of the price CSV.
type IndexMeta struct {
	Symbol   string
	Exchange string // selector label, e.g. NASDAQ
	Display  string // legend label, lowercase except the US exchanges
}

var Indexes = map[string]IndexMeta{
	"N100":      {Symbol: "N100", Exchange: "EURONEXT", Display: "euronext"},
	"GDAXI":     {Symbol: "GDAXI", Exchange: "GERMANY", Display: "germany"},
	"HSI":       {Symbol: "HSI", Exchange: "HONGKONG", Display: "hongkong"},
	"NSEI":      {Symbol: "NSEI", Exchange: "INDIA", Display: "india"},
	"IXIC":      {Symbol: "IXIC", Exchange: "NASDAQ", Display: "NASDAQ"},
	"NYA":       {Symbol: "NYA", Exchange: "NYSE", Display: "NYSE"},
	"000001.SS": {Symbol: "000001.SS", Exchange: "SHANGHAI", Display: "shanghai"},
	"J203.JO":   {Symbol: "J203.JO", Exchange: "SOUTHAFRICA", Display: "south africa"},
	"SSMI":      {Symbol: "SSMI", Exchange: "SWISS", Display: "swiss"},
	"TWII":      {Symbol: "TWII", Exchange: "TAIWAN", Display: "taiwan"},
	"N225":      {Symbol: "N225", Exchange: "TOKYO", Display: "tokyo"},
	"GSPTSE":    {Symbol: "GSPTSE", Exchange: "TORONTO", Display: "toronto"},
}

// DisplayName returns the legend label for symbol. Unmapped symbols are
// returned unchanged.
func DisplayName(symbol string) string {
	if m, ok := Indexes[symbol]; ok {
		return m.Display
	}
	return symbol
}

// ExchangeName returns the selector label for symbol, falling back to the
// symbol itself.
func ExchangeName(symbol string) string {
	if m, ok := Indexes[symbol]; ok {
		return m.Exchange
	}
	return symbol
}

// ResolveSymbol accepts either a raw symbol ("IXIC") or an exchange name
// ("nasdaq", "NASDAQ") and returns the raw symbol. Unknown input is returned
// as-is so datasets with symbols outside the table still work.
func ResolveSymbol(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := Indexes[s]; ok {
		return s
	}
	for sym, m := range Indexes {
		if strings.EqualFold(m.Exchange, s) {
			return sym
		}
	}
	return s
}

// Symbols returns the known symbols in sorted order.
func Symbols() []string {
	out := make([]string, 0, len(Indexes))
	for sym := range Indexes {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

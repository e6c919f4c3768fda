package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoData        = errors.New("no data rows")
	ErrMissingColumn = errors.New("missing column")
)

// Column names in the price CSV. Any other column is ignored.
const (
	ColIndex = "Index"
	ColDate  = "Date"
	ColClose = "CloseUSD"
)

// Columns holds the position of each required column in a CSV row.
type Columns struct {
	Index int
	Date  int
	Close int
}

// ParseHeader locates the required columns. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseHeader(header []string) (Columns, error) {
	cols := Columns{Index: -1, Date: -1, Close: -1}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(h, ColIndex):
			cols.Index = i
		case strings.EqualFold(h, ColDate):
			cols.Date = i
		case strings.EqualFold(h, ColClose):
			cols.Close = i
		}
	}

	var missing []string
	if cols.Index < 0 {
		missing = append(missing, ColIndex)
	}
	if cols.Date < 0 {
		missing = append(missing, ColDate)
	}
	if cols.Close < 0 {
		missing = append(missing, ColClose)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c Columns) width() int {
	return max(c.Index, c.Date, c.Close) + 1
}

// ParseRow maps one CSV row to a DataPoint.
func ParseRow(cols Columns, row []string) (DataPoint, error) {
	if len(row) < cols.width() {
		return DataPoint{}, fmt.Errorf("short row: %d fields, need %d", len(row), cols.width())
	}

	key := strings.TrimSpace(row[cols.Index])
	if key == "" {
		return DataPoint{}, fmt.Errorf("empty %s", ColIndex)
	}

	ds := strings.TrimSpace(row[cols.Date])
	t, err := time.Parse(DateLayout, ds)
	if err != nil {
		return DataPoint{}, fmt.Errorf("bad %s %q: %w", ColDate, ds, err)
	}

	cs := strings.TrimSpace(row[cols.Close])
	d, err := decimal.NewFromString(cs)
	if err != nil {
		return DataPoint{}, fmt.Errorf("bad %s %q: %w", ColClose, cs, err)
	}
	v, _ := d.Float64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return DataPoint{}, fmt.Errorf("bad %s %q: out of range", ColClose, cs)
	}

	return DataPoint{SeriesKey: key, Time: t, Value: v}, nil
}

// ReadCSV reads a price CSV with a header row and groups it into a Dataset.
// Rows that fail to parse are skipped and logged; a file without a single
// valid row returns ErrNoData.
func ReadCSV(r io.Reader, log logrus.FieldLogger) (*Dataset, error) {
	log = orDiscard(log)

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := ParseHeader(header)
	if err != nil {
		return nil, err
	}

	var (
		points  []DataPoint
		line    = 1
		skipped int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		p, err := ParseRow(cols, row)
		if err != nil {
			skipped++
			log.WithFields(logrus.Fields{"line": line, "error": err}).Debug("skipping row")
			continue
		}
		points = append(points, p)
	}

	if skipped > 0 {
		log.WithFields(logrus.Fields{"skipped": skipped, "rows": len(points)}).Warn("ingest warnings")
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}
	return Group(points), nil
}

// LoadCSV opens path and reads it with ReadCSV.
func LoadCSV(path string, log logrus.FieldLogger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := ReadCSV(f, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

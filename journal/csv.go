package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

var csvHeader = []string{"id", "time", "key", "title", "series", "points", "from", "to", "y_max", "format", "duration_ms"}

// CSVJournal appends renders to a CSV file. It is safe for concurrent use.
type CSVJournal struct {
	mu sync.Mutex
	w  *csv.Writer
	f  *os.File
}

// NewCSV opens path for appending, writing the header when the file is new
// or empty.
func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordRender(r RenderRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.w.Write([]string{
		r.ID,
		r.Time.UTC().Format(time.RFC3339),
		r.Key,
		r.Title,
		strconv.Itoa(r.Series),
		strconv.Itoa(r.Points),
		day(r.From),
		day(r.To),
		strconv.FormatFloat(r.YMax, 'f', 2, 64),
		r.Format,
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

// day formats a date column, leaving it blank for empty renders.
func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

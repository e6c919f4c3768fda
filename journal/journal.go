package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/indexchart/config"
)

var ErrNotFound = errors.New("render not found")

// RenderRecord is one chart render, as written by the server and the
// render command.
type RenderRecord struct {
	ID       string
	Key      string // requested series key, "all" for the grouped chart
	Title    string
	Series   int
	Points   int
	From     time.Time
	To       time.Time
	YMax     float64
	Format   string // "svg" or "png"
	Duration time.Duration
	Time     time.Time
}

type Journal interface {
	RecordRender(RenderRecord) error
	Close() error
}

// Nop discards every record. It is used when journaling is off.
type Nop struct{}

func (Nop) RecordRender(RenderRecord) error { return nil }
func (Nop) Close() error                    { return nil }

// Open returns the journal selected by cfg.Type.
func Open(cfg config.JournalConfig) (Journal, error) {
	switch cfg.Type {
	case "":
		return Nop{}, nil
	case "csv":
		return NewCSV(cfg.File)
	case "sqlite":
		return NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

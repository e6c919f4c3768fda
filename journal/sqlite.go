package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/indexchart/market"
)

// SQLite is the render journal and price store backed by one database file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRender(r RenderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO renders
		(id, time, series_key, title, series, points, from_time, to_time, y_max, format, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Time.UTC(), r.Key, r.Title, r.Series, r.Points,
		r.From.UTC(), r.To.UTC(), r.YMax, r.Format, int64(r.Duration),
	)
	return err
}

const renderColumns = `id, time, series_key, title, series, points, from_time, to_time, y_max, format, duration_ns`

type scanner interface {
	Scan(dest ...any) error
}

func scanRender(s scanner) (RenderRecord, error) {
	var (
		rec RenderRecord
		ns  int64
	)
	err := s.Scan(
		&rec.ID,
		&rec.Time,
		&rec.Key,
		&rec.Title,
		&rec.Series,
		&rec.Points,
		&rec.From,
		&rec.To,
		&rec.YMax,
		&rec.Format,
		&ns,
	)
	rec.Duration = time.Duration(ns)
	return rec, err
}

// GetRender returns a single render record by ID.
func (j *SQLite) GetRender(ctx context.Context, id string) (RenderRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+renderColumns+` FROM renders WHERE id = ?`, id)
	rec, err := scanRender(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RenderRecord{}, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return RenderRecord{}, err
	}
	return rec, nil
}

// ListRenders returns the most recent renders, newest first. A limit of
// zero or less returns all of them.
func (j *SQLite) ListRenders(ctx context.Context, limit int) ([]RenderRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+renderColumns+`
		FROM renders
		ORDER BY time DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RenderRecord
	for rows.Next() {
		rec, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ImportDataset replaces the stored prices with ds in a single transaction.
// It returns the number of rows written.
func (j *SQLite) ImportDataset(ctx context.Context, ds *market.Dataset) (n int, err error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM prices`); err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO prices (series_key, date, close) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, pt := range ds.Points() {
		if _, err = stmt.ExecContext(ctx, pt.SeriesKey, pt.DateString(), pt.Value); err != nil {
			return 0, fmt.Errorf("insert %s %s: %w", pt.SeriesKey, pt.DateString(), err)
		}
		n++
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// LoadDataset reads every stored price back into a Dataset, in import
// order. An empty store returns market.ErrNoData.
func (j *SQLite) LoadDataset(ctx context.Context) (*market.Dataset, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT series_key, date, close FROM prices ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []market.DataPoint
	for rows.Next() {
		var (
			pt   market.DataPoint
			date string
		)
		if err := rows.Scan(&pt.SeriesKey, &date, &pt.Value); err != nil {
			return nil, err
		}
		if pt.Time, err = time.Parse(market.DateLayout, date); err != nil {
			return nil, fmt.Errorf("stored date %q: %w", date, err)
		}
		points = append(points, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(points) == 0 {
		return nil, market.ErrNoData
	}
	return market.Group(points), nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

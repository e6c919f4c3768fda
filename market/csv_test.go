package market

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Index,Date,Open,High,Low,Close,Adj Close,Volume,CloseUSD
IXIC,2020-01-03,9.0,9.1,8.9,9.02,9.02,100,101.25
IXIC,2020-01-02,9.0,9.1,8.9,9.00,9.00,100,100.50
NYA,2020-01-02,1,1,1,1,1,1,13913.03
N225,2020-01-02,1,1,1,1,1,1,213.87
`

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  []string
		want    Columns
		wantErr bool
	}{
		{
			name:   "canonical",
			header: []string{"Index", "Date", "Open", "CloseUSD"},
			want:   Columns{Index: 0, Date: 1, Close: 3},
		},
		{
			name:   "reordered and padded",
			header: []string{" closeusd ", "DATE", "index"},
			want:   Columns{Index: 2, Date: 1, Close: 0},
		},
		{
			name:   "byte order mark",
			header: []string{"\ufeffIndex", "Date", "CloseUSD"},
			want:   Columns{Index: 0, Date: 1, Close: 2},
		},
		{
			name:    "missing close",
			header:  []string{"Index", "Date", "Close"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseHeader(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingColumn)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRow(t *testing.T) {
	t.Parallel()

	cols := Columns{Index: 0, Date: 1, Close: 2}

	p, err := ParseRow(cols, []string{"IXIC", "2020-01-02", "100.50"})
	require.NoError(t, err)
	assert.Equal(t, "IXIC", p.SeriesKey)
	assert.True(t, p.Time.Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100.5, p.Value)
	assert.Equal(t, "2020-01-02", p.DateString())

	bad := [][]string{
		{"IXIC", "2020-01-02"},
		{"", "2020-01-02", "1"},
		{"IXIC", "01/02/2020", "1"},
		{"IXIC", "2020-01-02", ""},
		{"IXIC", "2020-01-02", "abc"},
		{"IXIC", "2020-01-02", "1e400"},
		{"IXIC", "2020-01-02", "-1e400"},
	}
	for _, row := range bad {
		_, err := ParseRow(cols, row)
		assert.Error(t, err, "row %v", row)
	}
}

func TestParseRowDateRoundTrip(t *testing.T) {
	t.Parallel()

	cols := Columns{Index: 0, Date: 1, Close: 2}
	for _, d := range []string{"1965-12-31", "2000-02-29", "2021-06-03"} {
		p, err := ParseRow(cols, []string{"NYA", d, "1.5"})
		require.NoError(t, err)
		assert.Equal(t, d, p.DateString())
	}
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	ds, err := ReadCSV(strings.NewReader(sampleCSV), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"IXIC", "NYA", "N225"}, ds.Keys())
	assert.Equal(t, 4, ds.Len())

	ixic, ok := ds.Series("IXIC")
	require.True(t, ok)
	require.Len(t, ixic.Points, 2)
	assert.Equal(t, "2020-01-02", ixic.Points[0].DateString())
	assert.Equal(t, 100.5, ixic.Points[0].Value)
	assert.Equal(t, 101.25, ixic.Points[1].Value)
}

func TestReadCSVSkipsBadRows(t *testing.T) {
	t.Parallel()

	in := "Index,Date,CloseUSD\nIXIC,2020-01-02,1\nIXIC,not-a-date,2\nIXIC,2020-01-03,\n\nIXIC,2020-01-04,3\nIXIC,2020-01-05,1e400\n"
	ds, err := ReadCSV(strings.NewReader(in), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader(""), nil)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = ReadCSV(strings.NewReader("Index,Date,CloseUSD\n"), nil)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = ReadCSV(strings.NewReader("Symbol,Date,Close\nIXIC,2020-01-02,1\n"), nil)
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stock.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ds, err := LoadCSV(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.SeriesCount())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

package market

import (
	"sort"
	"time"
)

// Series is the chronological sequence of closing prices for one index.
type Series struct {
	Key    string
	Points []DataPoint
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.Points) }

// Extent is the bounding box of a set of points.
type Extent struct {
	From time.Time
	To   time.Time
	Min  float64
	Max  float64
}

// Dataset maps series keys to series. It is built once by Group and is not
// modified afterwards; methods that narrow it return a new Dataset.
type Dataset struct {
	keys   []string // order of first appearance
	series map[string]Series
}

// Group partitions points by SeriesKey. Every point lands in exactly one
// series, and each series is sorted by time. The sort is stable, so points
// sharing a date keep their input order.
func Group(points []DataPoint) *Dataset {
	ds := &Dataset{series: make(map[string]Series)}
	for _, p := range points {
		s, ok := ds.series[p.SeriesKey]
		if !ok {
			ds.keys = append(ds.keys, p.SeriesKey)
			s.Key = p.SeriesKey
		}
		s.Points = append(s.Points, p)
		ds.series[p.SeriesKey] = s
	}
	for _, k := range ds.keys {
		pts := ds.series[k].Points
		sort.SliceStable(pts, func(i, j int) bool {
			return pts[i].Time.Before(pts[j].Time)
		})
	}
	return ds
}

// Keys returns the series keys in the order they first appeared.
func (d *Dataset) Keys() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Series returns a copy of the series stored under key.
func (d *Dataset) Series(key string) (Series, bool) {
	if d == nil {
		return Series{}, false
	}
	s, ok := d.series[key]
	if !ok {
		return Series{}, false
	}
	pts := make([]DataPoint, len(s.Points))
	copy(pts, s.Points)
	return Series{Key: s.Key, Points: pts}, true
}

// All returns copies of every series in key order.
func (d *Dataset) All() []Series {
	if d == nil {
		return nil
	}
	out := make([]Series, 0, len(d.keys))
	for _, k := range d.keys {
		s, _ := d.Series(k)
		out = append(out, s)
	}
	return out
}

// Filter returns a dataset holding only the named keys. Keys that are not
// present are ignored, so filtering for an unknown key yields an empty
// dataset.
func (d *Dataset) Filter(keys ...string) *Dataset {
	out := &Dataset{series: make(map[string]Series)}
	if d == nil {
		return out
	}
	for _, k := range keys {
		s, ok := d.series[k]
		if !ok {
			continue
		}
		if _, dup := out.series[k]; dup {
			continue
		}
		out.keys = append(out.keys, k)
		out.series[k] = s
	}
	return out
}

// Points returns every point, grouped by series in key order.
func (d *Dataset) Points() []DataPoint {
	if d == nil {
		return nil
	}
	out := make([]DataPoint, 0, d.Len())
	for _, k := range d.keys {
		out = append(out, d.series[k].Points...)
	}
	return out
}

// Len returns the total number of points across all series.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, s := range d.series {
		n += len(s.Points)
	}
	return n
}

// SeriesCount returns the number of distinct keys.
func (d *Dataset) SeriesCount() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Extent returns the bounds over every point in the dataset. ok is false
// when the dataset has no points.
func (d *Dataset) Extent() (Extent, bool) {
	return ExtentOf(d.Points())
}

// ExtentOf computes [min time, max time] and [min value, max value].
func ExtentOf(points []DataPoint) (Extent, bool) {
	if len(points) == 0 {
		return Extent{}, false
	}
	e := Extent{
		From: points[0].Time,
		To:   points[0].Time,
		Min:  points[0].Value,
		Max:  points[0].Value,
	}
	for _, p := range points[1:] {
		if p.Time.Before(e.From) {
			e.From = p.Time
		}
		if p.Time.After(e.To) {
			e.To = p.Time
		}
		if p.Value < e.Min {
			e.Min = p.Value
		}
		if p.Value > e.Max {
			e.Max = p.Value
		}
	}
	return e, true
}

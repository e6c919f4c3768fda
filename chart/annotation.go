package chart

import "time"

// Annotation calls out a historical event as a shaded band over
// [Start, End] with a numbered badge at Start.
type Annotation struct {
	Label string
	Start time.Time
	End   time.Time
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Events is the fixed annotation set drawn on every chart.
var Events = []Annotation{
	{Label: "DotCom", Start: date(2000, time.March, 1), End: date(2002, time.October, 1)},
	{Label: "Great Recession", Start: date(2007, time.December, 1), End: date(2009, time.June, 1)},
	{Label: "Covid-19", Start: date(2020, time.February, 1), End: date(2020, time.April, 1)},
}

// Clip trims the annotation to [from, to]. ok is false when the two do not
// overlap, in which case the annotation is not drawn at all.
func (a Annotation) Clip(from, to time.Time) (Annotation, bool) {
	if a.End.Before(from) || a.Start.After(to) {
		return Annotation{}, false
	}
	if a.Start.Before(from) {
		a.Start = from
	}
	if a.End.After(to) {
		a.End = to
	}
	return a, true
}

package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatRenderOrg renders a RenderRecord as an Org-mode block, with the
// structured facts in a PROPERTIES drawer for easy search.
func FormatRenderOrg(r RenderRecord) string {
	title := r.Title
	if title == "" {
		title = r.Key
	}

	var b strings.Builder
	fmt.Fprintf(&b, "** Render: %s (%s)\n", title, shortID(r.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", r.ID)
	fmt.Fprintf(&b, ":TIME: %s\n", r.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":KEY: %s\n", r.Key)
	fmt.Fprintf(&b, ":FORMAT: %s\n", r.Format)
	fmt.Fprintf(&b, ":SERIES: %d\n", r.Series)
	fmt.Fprintf(&b, ":POINTS: %d\n", r.Points)
	if r.Points > 0 {
		fmt.Fprintf(&b, ":FROM: %s\n", day(r.From))
		fmt.Fprintf(&b, ":TO: %s\n", day(r.To))
		fmt.Fprintf(&b, ":Y_MAX: %.2f\n", r.YMax)
	}
	fmt.Fprintf(&b, ":DURATION: %s\n", r.Duration.Round(time.Microsecond))
	b.WriteString(":END:\n")

	return b.String()
}

// FormatRendersOrg renders multiple records separated by blank lines.
func FormatRendersOrg(recs []RenderRecord) string {
	var b strings.Builder
	for i, r := range recs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatRenderOrg(r))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}

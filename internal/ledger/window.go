package ledger

import (
	"fmt"
	"time"
)

// zone anchors every run to Brazilian wall-clock time. Feed filtering and
// destination range selection must agree on the same calendar day, so a run
// resolves its window exactly once and passes it down.
var zone = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		panic(fmt.Sprintf("ledger: load timezone: %v", err))
	}
	return loc
}

// Location returns the timezone runs are anchored to.
func Location() *time.Location {
	return zone
}

// Window is the calendar day a reconciliation run operates on.
type Window struct {
	Day   int
	Month int // 1-12
	Year  int
}

// Today resolves the current calendar day in America/Sao_Paulo.
func Today() Window {
	return WindowFor(time.Now())
}

// WindowFor extracts the calendar day of t in the run timezone.
func WindowFor(t time.Time) Window {
	t = t.In(zone)
	return Window{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

// ISODate renders the window as YYYY-MM-DD.
func (w Window) ISODate() string {
	return fmt.Sprintf("%04d-%02d-%02d", w.Year, w.Month, w.Day)
}

// ordinal gives a value that orders windows chronologically.
func (w Window) ordinal() int {
	return w.Year*10000 + w.Month*100 + w.Day
}

package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"
)

// ErrInvalidDate reports an unparseable client-supplied date. Handlers map
// it to 400 before any upstream call is made.
var ErrInvalidDate = errors.New("invalid date")

// DefaultLatestCount is the page size of the latest-events view.
const DefaultLatestCount = 60

// Window is a closed interval over event timestamps.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayWindow spans one local calendar day: midnight through 23:59:59.999.
func DayWindow(t time.Time) Window {
	y, m, d := t.Date()
	return Window{
		Start: time.Date(y, m, d, 0, 0, 0, 0, time.Local),
		End:   time.Date(y, m, d, 23, 59, 59, 999_000_000, time.Local),
	}
}

// Query parameters accept a plain date or a full instant.
var paramLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

func parseParam(s string) (time.Time, error) {
	for _, layout := range paramLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ExactDay builds the window for one calendar day from a YYYY-MM-DD param.
func ExactDay(date string) (Window, error) {
	t, err := parseParam(date)
	if err != nil {
		return Window{}, err
	}
	return DayWindow(t), nil
}

// Range builds an inclusive window from optional ISO bounds, defaulting the
// start to the epoch and the end to now.
func Range(start, end string, now time.Time) (Window, error) {
	w := Window{Start: time.Unix(0, 0), End: now}
	if start != "" {
		t, err := parseParam(start)
		if err != nil {
			return Window{}, err
		}
		w.Start = t
	}
	if end != "" {
		t, err := parseParam(end)
		if err != nil {
			return Window{}, err
		}
		w.End = t
	}
	return w, nil
}

// Today is the current local calendar day.
func Today(now time.Time) Window {
	return DayWindow(now)
}

// Yesterday is the previous local calendar day.
func Yesterday(now time.Time) Window {
	return DayWindow(now.AddDate(0, 0, -1))
}

// Weekly spans from local midnight seven days back through now.
func Weekly(now time.Time) Window {
	start := DayWindow(now.AddDate(0, 0, -7)).Start
	return Window{Start: start, End: now}
}

// FilterWindow keeps the events whose timestamp falls inside w. Events with
// an unparseable timestamp never match, mirroring how the feed treats them.
func FilterWindow(events []gjson.Result, tsField string, w Window) []gjson.Result {
	out := make([]gjson.Result, 0, len(events))
	for _, ev := range events {
		t, err := ParseTimestamp(ev.Get(tsField).String())
		if err != nil {
			continue
		}
		if w.Contains(t) {
			out = append(out, ev)
		}
	}
	return out
}

// Latest returns the newest n events, sorted by timestamp descending. The
// sort is stable: events with equal timestamps keep their upstream relative
// order, so repeated calls against an unchanged cache are identical.
func Latest(events []gjson.Result, tsField string, n int) []gjson.Result {
	type timed struct {
		ev gjson.Result
		ts time.Time
	}
	items := make([]timed, 0, len(events))
	for _, ev := range events {
		t, _ := ParseTimestamp(ev.Get(tsField).String())
		items = append(items, timed{ev: ev, ts: t})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ts.After(items[j].ts)
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	out := make([]gjson.Result, 0, len(items))
	for _, it := range items {
		out = append(out, it.ev)
	}
	return out
}

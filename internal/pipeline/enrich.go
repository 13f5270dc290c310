package pipeline

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
)

// Sentinel fallbacks substituted when a join misses. A single bad reference
// must never abort a batch.
const (
	SentinelUnknown         = "Sconosciuto"
	SentinelUnknownOperator = "UnknownOperator"
)

// Display labels for coded fields. Kept as data so translations can evolve
// without touching the engine; codes outside the table pass through.
var (
	EventTypeLabels = map[string]string{
		"insert":   "Inserimento",
		"movement": "Spostamento",
		"missed":   "Rimozione",
	}
	DirectionLabels = map[string]string{
		"enter": "In",
		"exit":  "Out",
	}
)

// Translate maps a wire code to its display label.
func Translate(table map[string]string, code string) string {
	if label, ok := table[code]; ok {
		return label
	}
	return code
}

const displayTimeLayout = "02/01/2006 15:04:05"

// Wire timestamps are usually RFC3339; zone-less variants show up in older
// deployments and are read as local time.
var wireTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an event timestamp from its wire representation.
func ParseTimestamp(ts string) (time.Time, error) {
	var firstErr error
	for _, layout := range wireTimeLayouts {
		t, err := time.ParseInLocation(layout, ts, time.Local)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// FormatTimestamp renders a wire timestamp as DD/MM/YYYY HH:mm:ss local
// time. Unparseable input passes through unchanged rather than failing the
// record.
func FormatTimestamp(ts string) string {
	t, err := ParseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Local().Format(displayTimeLayout)
}

// EnrichFunc produces one display-ready record from a raw event, consulting
// the per-request lookups. Implementations must be pure.
type EnrichFunc func(ev gjson.Result, lk Lookups) json.RawMessage

// Enrich maps every event through fn. Order-preserving and total: one output
// per input, rows are only ever removed by the time-window filter upstream.
func Enrich(events []gjson.Result, lk Lookups, fn EnrichFunc) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(events))
	for _, ev := range events {
		out = append(out, fn(ev, lk))
	}
	return out
}

// displayOr returns v as a display string, or fallback when the field is
// missing or blank.
func displayOr(v gjson.Result, fallback string) string {
	if s := v.String(); v.Exists() && s != "" {
		return s
	}
	return fallback
}

package pipeline_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rcandelu/adant/internal/pipeline"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestTranslate(t *testing.T) {
	require.Equal(t, "Inserimento", pipeline.Translate(pipeline.EventTypeLabels, "insert"))
	require.Equal(t, "Spostamento", pipeline.Translate(pipeline.EventTypeLabels, "movement"))
	require.Equal(t, "Rimozione", pipeline.Translate(pipeline.EventTypeLabels, "missed"))
	require.Equal(t, "In", pipeline.Translate(pipeline.DirectionLabels, "enter"))
	require.Equal(t, "Out", pipeline.Translate(pipeline.DirectionLabels, "exit"))

	// Unknown codes pass through unchanged.
	require.Equal(t, "teleport", pipeline.Translate(pipeline.EventTypeLabels, "teleport"))
}

func TestFormatTimestamp(t *testing.T) {
	in := time.Date(2025, 3, 9, 17, 4, 5, 0, time.Local)
	require.Equal(t, "09/03/2025 17:04:05", pipeline.FormatTimestamp(in.Format(time.RFC3339)))

	// Unparseable input passes through.
	require.Equal(t, "garbage", pipeline.FormatTimestamp("garbage"))
}

func TestFormatTimestamp_ConvertsToLocalTime(t *testing.T) {
	utc := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	want := utc.Local().Format("02/01/2006 15:04:05")
	require.Equal(t, want, pipeline.FormatTimestamp("2025-06-01T12:30:00Z"))
}

func TestEnrich_OrderPreservingAndTotal(t *testing.T) {
	events := gjson.Parse(`[{"n":1},{"n":2},{"n":3}]`).Array()

	out := pipeline.Enrich(events, pipeline.Lookups{}, func(ev gjson.Result, _ pipeline.Lookups) json.RawMessage {
		return json.RawMessage(ev.Raw)
	})
	require.Len(t, out, 3)
	require.JSONEq(t, `{"n":1}`, string(out[0]))
	require.JSONEq(t, `{"n":3}`, string(out[2]))
}

func TestEnrich_EmptyBatch(t *testing.T) {
	out := pipeline.Enrich(nil, pipeline.Lookups{}, func(ev gjson.Result, _ pipeline.Lookups) json.RawMessage {
		return json.RawMessage(ev.Raw)
	})
	require.NotNil(t, out)
	require.Empty(t, out)
}

package pipeline_test

import (
	"testing"

	"github.com/rcandelu/adant/internal/pipeline"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func rfidLookups() pipeline.Lookups {
	return pipeline.Lookups{
		"racks": pipeline.BuildLookup(gjson.Parse(`[
			{"uuid":"rack-1","name":"Rack A","warehouse":"wh-1"}
		]`), pipeline.FieldKey("uuid")),
		"operators": pipeline.BuildLookup(gjson.Parse(`[
			{"uuid":"op-1","identity":"Mario Rossi"}
		]`), pipeline.FieldKey("uuid")),
		"warehouses": pipeline.BuildLookup(gjson.Parse(`[
			{"uuid":"wh-1","name":"Magazzino Nord"}
		]`), pipeline.FieldKey("uuid")),
		"tags": pipeline.BuildLookup(gjson.Parse(`[
			{"id":"tag-9","product_category":"Scarpe"}
		]`), pipeline.FieldKey("id")),
	}
}

func TestRFIDSchema_Sources(t *testing.T) {
	s := pipeline.RFIDSchema()

	require.Equal(t, "rfid", s.Name)
	require.Equal(t, "/event_rfid/", s.Events.Path)
	require.Len(t, s.References, 4)
	require.Equal(t, "ts", s.TimestampField)
}

func TestEnrichRFID_FullyResolvedEvent(t *testing.T) {
	s := pipeline.RFIDSchema()
	ev := gjson.Parse(`{
		"tag_rfid":"tag-9",
		"rack":"rack-1",
		"operator":"op-1",
		"type":"movement",
		"ts":"2025-04-10T08:15:00Z"
	}`)

	out := s.Enrich(ev, rfidLookups())

	rec := gjson.ParseBytes(out)
	require.Equal(t, "tag-9", rec.Get("tag_rfid").String())
	require.Equal(t, "Scarpe", rec.Get("categoria").String())
	require.Equal(t, "Spostamento", rec.Get("tipo").String())
	require.Equal(t, "Mario Rossi", rec.Get("operatore").String())
	require.Equal(t, "Rack A", rec.Get("rack").String())
	require.Equal(t, "Magazzino Nord", rec.Get("magazzino").String())
	require.Equal(t, pipeline.FormatTimestamp("2025-04-10T08:15:00Z"), rec.Get("data").String())
}

func TestEnrichRFID_UnknownRackFallsBackToSentinels(t *testing.T) {
	s := pipeline.RFIDSchema()
	ev := gjson.Parse(`{
		"tag_rfid":"tag-9",
		"rack":"rack-ghost",
		"operator":"op-1",
		"type":"insert",
		"ts":"2025-04-10T08:15:00Z"
	}`)

	out := s.Enrich(ev, rfidLookups())

	rec := gjson.ParseBytes(out)
	require.Equal(t, "Inserimento", rec.Get("tipo").String())
	require.Equal(t, "Sconosciuto", rec.Get("rack").String())
	require.Equal(t, "Sconosciuto", rec.Get("magazzino").String(), "warehouse resolves through the rack")
	require.Equal(t, "Mario Rossi", rec.Get("operatore").String())
	require.Equal(t, "Scarpe", rec.Get("categoria").String())
}

func TestEnrichRFID_EverythingUnknownStillProducesARecord(t *testing.T) {
	s := pipeline.RFIDSchema()
	ev := gjson.Parse(`{"tag_rfid":"zzz","rack":"x","operator":"y","type":"missed","ts":"2025-04-10T08:15:00Z"}`)

	out := s.Enrich(ev, pipeline.Lookups{})

	rec := gjson.ParseBytes(out)
	require.Equal(t, "Rimozione", rec.Get("tipo").String())
	require.Equal(t, "Sconosciuto", rec.Get("categoria").String())
	require.Equal(t, "Sconosciuto", rec.Get("operatore").String())
	require.Equal(t, "Sconosciuto", rec.Get("rack").String())
	require.Equal(t, "Sconosciuto", rec.Get("magazzino").String())
}

func TestEnrichRFID_UnknownTypeCodePassesThrough(t *testing.T) {
	s := pipeline.RFIDSchema()
	ev := gjson.Parse(`{"tag_rfid":"tag-9","type":"audit","ts":"2025-04-10T08:15:00Z"}`)

	out := s.Enrich(ev, rfidLookups())
	require.Equal(t, "audit", gjson.ParseBytes(out).Get("tipo").String())
}

package pipeline

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RFID variant (smart-id deployment): tag movement events joined against
// the rack, operator, warehouse and tag registries. The warehouse name is a
// two-step join through the rack's warehouse id.

const (
	srcRacks      = "racks"
	srcOperators  = "operators"
	srcWarehouses = "warehouses"
	srcTags       = "tags"
	srcEvents     = "events"
)

func RFIDSchema() Schema {
	return Schema{
		Name:   "rfid",
		Events: Source{Key: srcEvents, Path: "/event_rfid/"},
		References: []Source{
			{Key: srcRacks, Path: "/rack/", Selector: FieldKey("uuid")},
			{Key: srcOperators, Path: "/operator/", Selector: FieldKey("uuid")},
			{Key: srcWarehouses, Path: "/warehouse/", Selector: FieldKey("uuid")},
			{Key: srcTags, Path: "/tag_rfid/", Selector: FieldKey("id")},
		},
		TimestampField: "ts",
		Columns:        []string{"tag_rfid", "categoria", "tipo", "operatore", "rack", "magazzino", "data"},
		Enrich:         enrichRFIDEvent,
	}
}

func enrichRFIDEvent(ev gjson.Result, lk Lookups) json.RawMessage {
	rack, rackOK := lk.Resolve(srcRacks, ev.Get("rack").String())
	operator, _ := lk.Resolve(srcOperators, ev.Get("operator").String())
	tag, _ := lk.Resolve(srcTags, ev.Get("tag_rfid").String())

	warehouseName := SentinelUnknown
	if rackOK {
		if wh, ok := lk.Resolve(srcWarehouses, rack.Get("warehouse").String()); ok {
			warehouseName = displayOr(wh.Get("name"), SentinelUnknown)
		}
	}

	out := "{}"
	out, _ = sjson.Set(out, "tag_rfid", ev.Get("tag_rfid").Value())
	out, _ = sjson.Set(out, "categoria", displayOr(tag.Get("product_category"), SentinelUnknown))
	out, _ = sjson.Set(out, "tipo", Translate(EventTypeLabels, ev.Get("type").String()))
	out, _ = sjson.Set(out, "operatore", displayOr(operator.Get("identity"), SentinelUnknown))
	out, _ = sjson.Set(out, "rack", displayOr(rack.Get("name"), SentinelUnknown))
	out, _ = sjson.Set(out, "magazzino", warehouseName)
	out, _ = sjson.Set(out, "data", FormatTimestamp(ev.Get("ts").String()))
	return json.RawMessage(out)
}

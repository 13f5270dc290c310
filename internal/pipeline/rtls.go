package pipeline

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RTLS variant (point-demo deployment): BLE/UWB zone-transition events.
// Zones are keyed by warehouse uuid + local area index; when the join
// misses, the synthesized key itself is the fallback so the record stays
// traceable. The upstream exposes no MAC-to-operator link, so the operator
// column is always the sentinel.

const srcAreaTypes = "area_types"

func RTLSSchema() Schema {
	return Schema{
		Name:   "rtls",
		Events: Source{Key: srcEvents, Path: "/area_event_ble"},
		References: []Source{
			{Key: srcOperators, Path: "/operator", Selector: FieldKey("identity")},
			{Key: srcWarehouses, Path: "/warehouse", Selector: FieldKey("uuid")},
			{Key: srcAreaTypes, Path: "/warehouse_area_type", Selector: CompoundKey("warehouse_uuid", "id")},
		},
		TimestampField: "ts",
		Columns:        []string{"MAC", "Operator", "Warehouse", "Zone", "Direction", "Date"},
		Enrich:         enrichAreaEvent,
	}
}

func enrichAreaEvent(ev gjson.Result, lk Lookups) json.RawMessage {
	mac := displayOr(ev.Get("MAC"), "N/A")
	warehouseID := displayOr(ev.Get("warehouse"), "unknownWarehouse")
	area := displayOr(ev.Get("area"), "unknownArea")
	direction := displayOr(ev.Get("direction"), "unknownDirection")
	ts := ev.Get("ts").String()
	if ts == "" {
		ts = time.Now().Format(time.RFC3339)
	}

	warehouseName := warehouseID
	if wh, ok := lk.Resolve(srcWarehouses, warehouseID); ok {
		warehouseName = displayOr(wh.Get("name"), warehouseID)
	}

	areaKey := warehouseID + compoundSep + area
	zone := areaKey
	if at, ok := lk.Resolve(srcAreaTypes, areaKey); ok {
		zone = displayOr(at.Get("name"), areaKey)
	}

	out := "{}"
	out, _ = sjson.Set(out, "MAC", mac)
	out, _ = sjson.Set(out, "Operator", SentinelUnknownOperator)
	out, _ = sjson.Set(out, "Warehouse", warehouseName)
	out, _ = sjson.Set(out, "Zone", zone)
	out, _ = sjson.Set(out, "Direction", Translate(DirectionLabels, direction))
	out, _ = sjson.Set(out, "Date", FormatTimestamp(ts))
	return json.RawMessage(out)
}

package pipeline

import "github.com/tidwall/gjson"

// compoundSep joins the two halves of a compound key. It matches the key
// format the upstream area-type collection is addressed by
// (e.g. "99849379288172366_2").
const compoundSep = "_"

// KeySelector extracts the join key from one reference record.
type KeySelector func(rec gjson.Result) string

// FieldKey keys a collection by a single identifier field.
func FieldKey(field string) KeySelector {
	return func(rec gjson.Result) string {
		return rec.Get(field).String()
	}
}

// CompoundKey keys a collection by two fields joined with compoundSep, for
// collections addressed by a pair (warehouse + local area index) rather
// than a global identifier.
func CompoundKey(fieldA, fieldB string) KeySelector {
	return func(rec gjson.Result) string {
		return rec.Get(fieldA).String() + compoundSep + rec.Get(fieldB).String()
	}
}

// Lookup maps a join key to its reference record.
type Lookup map[string]gjson.Result

// Lookups are the per-request join maps, keyed by source name. They are
// rebuilt from the cached collections on every enrichment call so they
// always reflect the cache's current state.
type Lookups map[string]Lookup

// Resolve finds id in the named lookup. The zero gjson.Result returned on a
// miss is safe to Get() from, which keeps sentinel fallbacks one-liners.
func (l Lookups) Resolve(source, id string) (gjson.Result, bool) {
	rec, ok := l[source][id]
	return rec, ok
}

// BuildLookup indexes a collection by sel in one pass. Records producing an
// empty key are skipped; duplicate keys are last-write-wins (upstream ids
// are assumed unique per collection, unverified).
func BuildLookup(collection gjson.Result, sel KeySelector) Lookup {
	lk := make(Lookup)
	collection.ForEach(func(_, rec gjson.Result) bool {
		if key := sel(rec); key != "" && key != compoundSep {
			lk[key] = rec
		}
		return true
	})
	return lk
}

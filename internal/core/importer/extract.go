// Package importer maps third-party export documents into canonical cycles
// and daily logs. It is total: malformed shapes degrade to empty results and
// never panic or error. Persisting the output is the caller's job.
package importer

// extractor probes one known location of a document and reports whether it
// found an array there.
type extractor func(doc map[string]any) ([]any, bool)

// at returns an extractor that walks path through nested objects.
func at(path ...string) extractor {
	return func(doc map[string]any) ([]any, bool) {
		var cur any = doc
		for _, key := range path {
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			cur, ok = obj[key]
			if !ok {
				return nil, false
			}
		}
		arr, ok := cur.([]any)
		return arr, ok
	}
}

// Period arrays, highest priority first. The first extractor that finds an
// array wins; shapes are never merged.
var periodExtractors = []extractor{
	at("operationalData", "cycles"),
	at("periods"),
	at("menstrual_cycles"),
	at("cycles"),
	at("cycle_data"),
	at("data", "periods"),
	at("data", "cycles"),
}

// Structured per-day log arrays, used only when no point events produced logs.
var logExtractors = []extractor{
	at("daily_logs"),
	at("logs"),
	at("data", "daily_logs"),
	at("data", "logs"),
}

var pointEventExtractor = at("operationalData", "point_events_manual_v2")

func firstArray(doc map[string]any, extractors []extractor) []any {
	for _, ex := range extractors {
		if arr, ok := ex(doc); ok {
			return arr
		}
	}
	return nil
}

// objects keeps only the object elements of arr.
func objects(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if obj, ok := v.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// firstPresent returns the first non-null value among keys.
func firstPresent(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

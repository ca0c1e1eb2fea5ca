package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/example/flux/internal/core/caldate"
)

// Numeric timestamps above millisThreshold are milliseconds, otherwise
// seconds. Anything above maxTimestamp is not a plausible date.
const (
	millisThreshold = 1e12
	maxTimestamp    = 1e15
)

// Day-first and slash layouts seen in older exports.
var altLayouts = []string{
	"2006/01/02",
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
}

// resolveDate normalizes a date-bearing value to YYYY-MM-DD.
func resolveDate(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return resolveDateString(strings.TrimSpace(val))
	case float64:
		return fromUnix(val)
	}
	return "", false
}

func resolveDateString(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if d, ok := caldate.ExtractISO(s); ok {
		return d, true
	}
	for _, layout := range altLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return caldate.Format(t), true
		}
	}
	if len(s) >= 9 {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return fromUnix(float64(n))
		}
	}
	return "", false
}

func fromUnix(v float64) (string, bool) {
	if v <= 0 || v > maxTimestamp || math.IsNaN(v) {
		return "", false
	}
	var t time.Time
	if v > millisThreshold {
		t = time.UnixMilli(int64(v))
	} else {
		t = time.Unix(int64(v), 0)
	}
	return caldate.Format(t.UTC()), true
}

// resolveDateField tries keys in priority order and returns the first one
// that resolves to a date.
func resolveDateField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			if d, ok := resolveDate(v); ok {
				return d
			}
		}
	}
	return ""
}

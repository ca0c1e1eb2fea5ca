package importer

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/models"
)

// Result is the canonical output of a normalized export.
type Result struct {
	Cycles []*models.Cycle    `json:"cycles"`
	Logs   []*models.DailyLog `json:"logs"`
}

var (
	startKeys        = []string{"period_start_date", "start_date", "startDate", "start", "date"}
	endKeys          = []string{"period_end_date", "end_date", "endDate", "end"}
	cycleLengthKeys  = []string{"cycle_length", "cycleLength"}
	periodLengthKeys = []string{"period_length", "periodLength"}
)

// Point-event intensity codes.
var flowCodes = map[int]string{
	0: models.FlowSpotting,
	1: models.FlowLight,
	2: models.FlowMedium,
	3: models.FlowHeavy,
}

// Normalize extracts cycles and logs from a decoded export document.
func Normalize(doc map[string]any) *Result {
	if doc == nil {
		return &Result{Cycles: []*models.Cycle{}, Logs: []*models.DailyLog{}}
	}

	logs := logsFromPointEvents(doc)
	if len(logs) == 0 {
		logs = logsFromArrays(doc)
	}

	return &Result{
		Cycles: cycles(doc),
		Logs:   logs,
	}
}

func cycles(doc map[string]any) []*models.Cycle {
	out := []*models.Cycle{}
	for _, rec := range objects(firstArray(doc, periodExtractors)) {
		start := resolveDateField(rec, startKeys...)
		if start == "" {
			continue
		}
		c := &models.Cycle{
			StartDate:    start,
			EndDate:      resolveDateField(rec, endKeys...),
			Length:       positiveInt(rec, cycleLengthKeys...),
			PeriodLength: positiveInt(rec, periodLengthKeys...),
		}
		if c.EndDate != "" && c.EndDate < c.StartDate {
			c.EndDate = ""
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	out = dedupeStarts(out)

	for i := 0; i < len(out)-1; i++ {
		if out[i].Length == 0 {
			out[i].Length, _ = caldate.DaysBetween(out[i].StartDate, out[i+1].StartDate)
		}
	}
	for _, c := range out {
		if c.PeriodLength == 0 && c.EndDate != "" {
			c.PeriodLength, _ = caldate.InclusiveDays(c.StartDate, c.EndDate)
		}
	}
	return out
}

// dedupeStarts drops later records that share a start date with an earlier
// one. Input must be sorted.
func dedupeStarts(in []*models.Cycle) []*models.Cycle {
	out := in[:0]
	for i, c := range in {
		if i > 0 && c.StartDate == in[i-1].StartDate {
			continue
		}
		out = append(out, c)
	}
	return out
}

func logsFromPointEvents(doc map[string]any) []*models.DailyLog {
	byDate := map[string]*models.DailyLog{}
	for _, ev := range objects(firstArray(doc, []extractor{pointEventExtractor})) {
		date, ok := resolveDate(ev["date"])
		if !ok {
			continue
		}
		log, ok := byDate[date]
		if !ok {
			log = &models.DailyLog{Date: date}
			byDate[date] = log
		}

		sub := text(ev["subcategory"])
		switch text(ev["category"]) {
		case "Period":
			if n, ok := number(ev["value"]); ok {
				if flow, ok := flowCodes[int(n)]; ok && n == math.Trunc(n) {
					log.Flow = flow
				}
			}
			log.IsPeriod = true
		case "Symptom":
			if sub != "" {
				log.Symptoms = addUnique(log.Symptoms, sub)
			}
		case "Disturber":
			if sub != "" {
				log.Disturbers = addUnique(log.Disturbers, sub)
			}
		case "Mood":
			if sub != "" {
				log.Mood = sub
			}
		case "Fluid":
			if sub != "" {
				log.Fluid = sub
			}
		case "SexDrive", "Sex":
			if sub != "" {
				log.SexDrive = sub
			}
		case "Bbt":
			if n, ok := number(ev["value"]); ok {
				log.Temperature = &n
			}
		}
	}
	return sortedLogs(byDate)
}

func logsFromArrays(doc map[string]any) []*models.DailyLog {
	byDate := map[string]*models.DailyLog{}
	for _, entry := range objects(firstArray(doc, logExtractors)) {
		date := resolveDateField(entry, "date", "log_date")
		if date == "" {
			continue
		}

		flow := strings.ToLower(text(entry["flow"]))
		isPeriod := flow != ""
		if v, ok := entry["is_period"].(bool); ok {
			isPeriod = v
		}
		if !models.IsValidFlow(flow) {
			flow = ""
		}

		log := &models.DailyLog{
			Date:       date,
			Flow:       flow,
			Symptoms:   stringSet(entry["symptoms"]),
			Mood:       text(entry["mood"]),
			Fluid:      text(entry["fluid"]),
			SexDrive:   firstText(entry, "sex_drive", "sexDrive"),
			Disturbers: stringSet(entry["disturbers"]),
			Notes:      text(entry["notes"]),
			IsPeriod:   isPeriod,
		}
		if t, ok := entry["temperature"].(float64); ok {
			log.Temperature = &t
		}
		byDate[date] = log
	}
	return sortedLogs(byDate)
}

func sortedLogs(byDate map[string]*models.DailyLog) []*models.DailyLog {
	out := make([]*models.DailyLog, 0, len(byDate))
	for _, l := range byDate {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// text returns v as NFC-normalized, trimmed text. Numbers are rendered the
// way a JSON reader would print them; anything else is empty.
func text(v any) string {
	switch val := v.(type) {
	case string:
		return norm.NFC.String(strings.TrimSpace(val))
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

func firstText(obj map[string]any, keys ...string) string {
	v, _ := firstPresent(obj, keys...)
	return text(v)
}

func number(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func positiveInt(obj map[string]any, keys ...string) int {
	v, ok := firstPresent(obj, keys...)
	if !ok {
		return 0
	}
	n, ok := number(v)
	if !ok || n <= 0 {
		return 0
	}
	return caldate.Round(n)
}

func stringSet(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s := text(item); s != "" {
			out = addUnique(out, s)
		}
	}
	return out
}

func addUnique(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

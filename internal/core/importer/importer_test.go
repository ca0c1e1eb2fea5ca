package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flux/internal/core/fault"
)

func TestNormalizeGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, name := range []string{"flo_gdpr", "nested_legacy"} {
		t.Run(name, func(t *testing.T) {
			raw, err := os.ReadFile(filepath.Join("testdata", name+".json"))
			require.NoError(t, err)

			res, err := NormalizeJSON(raw)
			require.NoError(t, err)

			out, err := json.MarshalIndent(res, "", "  ")
			require.NoError(t, err)
			g.Assert(t, name, append(out, '\n'))
		})
	}
}

func TestNormalizePeriodsScenario(t *testing.T) {
	res, err := NormalizeJSON([]byte(`{"periods":[{"start_date":"2024-01-01 00:00:00.0"},{"start_date":"2024-02-01"}]}`))
	require.NoError(t, err)

	require.Len(t, res.Cycles, 2)
	assert.Equal(t, "2024-01-01", res.Cycles[0].StartDate)
	assert.Equal(t, "2024-02-01", res.Cycles[1].StartDate)
	assert.Equal(t, 31, res.Cycles[0].Length)
	assert.Equal(t, 0, res.Cycles[1].Length)
}

func TestNormalizeProbeOrder(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"operational data wins", `{"operationalData":{"cycles":[{"start":"2024-01-01"}]},"periods":[{"start":"2024-05-01"}]}`, "2024-01-01"},
		{"periods before cycles", `{"cycles":[{"start":"2024-05-01"}],"periods":[{"start":"2024-02-01"}]}`, "2024-02-01"},
		{"menstrual_cycles before cycles", `{"cycles":[{"start":"2024-05-01"}],"menstrual_cycles":[{"start":"2024-03-01"}]}`, "2024-03-01"},
		{"cycle_data", `{"cycle_data":[{"start":"2024-04-01"}]}`, "2024-04-01"},
		{"nested data periods", `{"data":{"cycles":[{"start":"2024-05-01"}],"periods":[{"start":"2024-06-01"}]}}`, "2024-06-01"},
		{"non-array is skipped", `{"periods":{"start":"2024-05-01"},"cycles":[{"start":"2024-07-01"}]}`, "2024-07-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NormalizeJSON([]byte(tt.doc))
			require.NoError(t, err)
			require.Len(t, res.Cycles, 1)
			assert.Equal(t, tt.want, res.Cycles[0].StartDate)
		})
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	docs := []string{
		`{}`,
		`{"periods":null}`,
		`{"periods":[1,"x",null,[],{"start_date":42.5e30}]}`,
		`{"operationalData":"nope","data":7}`,
		`{"operationalData":{"point_events_manual_v2":[{"date":null},{"date":"2024-01-01","category":{"x":1},"value":"abc"}]}}`,
		`{"logs":[{"date":"2024-01-01","symptoms":"not a list","temperature":"hot"}]}`,
	}
	for _, doc := range docs {
		res, err := NormalizeJSON([]byte(doc))
		require.NoError(t, err, doc)
		assert.NotNil(t, res.Cycles, doc)
		assert.NotNil(t, res.Logs, doc)
	}

	assert.Empty(t, Normalize(nil).Cycles)
}

func TestNormalizeRejectsNonObject(t *testing.T) {
	for _, raw := range []string{``, `[]`, `null`, `"x"`, `{`} {
		_, err := NormalizeJSON([]byte(raw))
		assert.ErrorIs(t, err, fault.ErrMalformedImport, raw)
	}
}

func TestNormalizePeriodEvents(t *testing.T) {
	doc := `{"operationalData":{"point_events_manual_v2":[
		{"date":"2024-01-01","category":"Period","value":"3"},
		{"date":"2024-01-02","category":"Period","value":9},
		{"date":"2024-01-03","category":"Sex","subcategory":"Protected"},
		{"date":"2024-01-03","category":"Bbt","value":"36.4"}
	]}}`

	res, err := NormalizeJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, res.Logs, 3)

	assert.Equal(t, "heavy", res.Logs[0].Flow)
	assert.True(t, res.Logs[0].IsPeriod)

	assert.Equal(t, "", res.Logs[1].Flow, "unknown code maps to no flow")
	assert.True(t, res.Logs[1].IsPeriod)

	assert.Equal(t, "Protected", res.Logs[2].SexDrive)
	require.NotNil(t, res.Logs[2].Temperature)
	assert.InDelta(t, 36.4, *res.Logs[2].Temperature, 1e-9)
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{"2024-01-01 00:00:00.0", "2024-01-01", true},
		{"2024-01-01T23:59:59+05:00", "2024-01-01", true},
		{"2024/03/04", "2024-03-04", true},
		{"04.03.2024", "2024-03-04", true},
		{"04/03/2024", "2024-03-04", true},
		{"04-03-2024", "2024-03-04", true},
		{float64(1704067200), "2024-01-01", true},
		{float64(1704067200000), "2024-01-01", true},
		{"1704067200", "2024-01-01", true},
		{"2024-02-30", "", false},
		{"", "", false},
		{true, "", false},
		{float64(-5), "", false},
	}
	for _, tt := range tests {
		got, ok := resolveDate(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}

func TestMapKeys(t *testing.T) {
	in := map[string]any{
		"trained_at": "x",
		"prediction": map[string]any{
			"next_period_date": "2024-01-01",
			"nested_obj":       map[string]any{"deep_key": 1},
		},
		"recent_cycle_lengths": []any{map[string]any{"not_mapped": 1}},
		"already_Upper":        true,
		"_leading":             1,
		"a_1":                  2,
	}

	out := MapKeys(in).(map[string]any)

	assert.Equal(t, "x", out["trainedAt"])
	pred := out["prediction"].(map[string]any)
	assert.Equal(t, "2024-01-01", pred["nextPeriodDate"])
	assert.Equal(t, map[string]any{"deepKey": 1}, pred["nestedObj"])

	arr := out["recentCycleLengths"].([]any)
	assert.Equal(t, map[string]any{"not_mapped": 1}, arr[0], "arrays are not recursed into")

	assert.Contains(t, out, "already_Upper")
	assert.Contains(t, out, "Leading")
	assert.Contains(t, out, "a_1")
	assert.Contains(t, in, "trained_at", "input is not mutated")

	assert.Equal(t, "plain", MapKeys("plain"))
}

func TestParseModelParams(t *testing.T) {
	raw := `{
		"trained_at": "2024-06-01T10:00:00Z",
		"cycles_trained": 14,
		"model_type": "weighted_average",
		"avg_cycle_length": 28.6,
		"std_cycle_length": 2.1,
		"recent_cycle_lengths": [28, 29, 30],
		"avg_period_length": 5.2,
		"prediction": {
			"next_period_date": "2024-06-20T00:00:00",
			"confidence": 0.72,
			"expected_cycle_length": 28.6,
			"fertile_window_start": "2024-06-05",
			"fertile_window_end": "2024-06-11"
		}
	}`

	params, err := ParseModelParams([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01T10:00:00Z", params.TrainedAt)
	assert.Equal(t, 14, params.CyclesTrained)
	assert.Equal(t, 28.6, params.AvgCycleLength)
	assert.Equal(t, []float64{28, 29, 30}, params.RecentCycleLengths)
	require.NotNil(t, params.AvgPeriodLength)
	assert.Equal(t, 5.2, *params.AvgPeriodLength)
	require.NotNil(t, params.Prediction)
	assert.Equal(t, "2024-06-20", params.Prediction.NextPeriodDate)
	assert.Equal(t, 0.72, params.Prediction.Confidence)
}

func TestParseModelParamsRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `model`},
		{"missing prediction", `{"trained_at":"2024-01-01","avg_cycle_length":28}`},
		{"missing trained at", `{"avg_cycle_length":28,"prediction":{"next_period_date":"2024-01-01","confidence":0.5,"expected_cycle_length":28}}`},
		{"confidence out of range", `{"trained_at":"x","avg_cycle_length":28,"prediction":{"next_period_date":"2024-01-01","confidence":1.5,"expected_cycle_length":28}}`},
		{"non-positive average", `{"trained_at":"x","avg_cycle_length":0,"prediction":{"next_period_date":"2024-01-01","confidence":0.5,"expected_cycle_length":28}}`},
		{"unknown model type", `{"trained_at":"x","model_type":"lstm","avg_cycle_length":28,"prediction":{"next_period_date":"2024-01-01","confidence":0.5,"expected_cycle_length":28}}`},
		{"bad next date", `{"trained_at":"x","avg_cycle_length":28,"prediction":{"next_period_date":"soon","confidence":0.5,"expected_cycle_length":28}}`},
		{"wrong type", `{"trained_at":"x","avg_cycle_length":"long","prediction":{"next_period_date":"2024-01-01","confidence":0.5,"expected_cycle_length":28}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModelParams([]byte(tt.raw))
			assert.ErrorIs(t, err, fault.ErrMalformedImport)
		})
	}
}

func TestParseBackup(t *testing.T) {
	raw := `{
		"exportedAt": "2024-06-01T10:00:00Z",
		"cycles": [
			{"id":"CYC-0002","startDate":"2024-02-01"},
			{"id":"CYC-0001","startDate":"2024-01-01","endDate":"2024-01-05","periodLength":5,"length":31},
			{"id":"CYC-0003","startDate":"garbage"}
		],
		"logs": [{"id":"LOG-0001","date":"2024-01-02","flow":"light","isPeriod":true}]
	}`

	exp, err := ParseBackup([]byte(raw))
	require.NoError(t, err)
	require.Len(t, exp.Cycles, 2)
	assert.Equal(t, "CYC-0001", exp.Cycles[0].ID)
	assert.Equal(t, "CYC-0002", exp.Cycles[1].ID)
	require.Len(t, exp.Logs, 1)
	assert.Nil(t, exp.ModelParams)

	_, err = ParseBackup([]byte(`{"cycles":[{"startDate":"2024-01-05","endDate":"2024-01-01"}]}`))
	assert.ErrorIs(t, err, fault.ErrMalformedImport)

	_, err = ParseBackup([]byte(`[`))
	assert.ErrorIs(t, err, fault.ErrMalformedImport)
}

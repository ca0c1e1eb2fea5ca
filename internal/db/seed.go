package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates the database with a year of development fixtures:
// closed cycles of varying length, one open cycle, a handful of daily logs
// and a trained model.
func SeedFixtures(database *sql.DB) error {
	cycles := []struct {
		id, start, end string
		period, length int
	}{
		{"CYC-0001", "2024-01-03", "2024-01-07", 5, 29},
		{"CYC-0002", "2024-02-01", "2024-02-05", 5, 28},
		{"CYC-0003", "2024-02-29", "2024-03-04", 5, 31},
		{"CYC-0004", "2024-03-31", "2024-04-03", 4, 27},
		{"CYC-0005", "2024-04-27", "2024-05-02", 6, 30},
		{"CYC-0006", "2024-05-27", "", 0, 0},
	}
	for _, c := range cycles {
		if _, err := database.Exec(
			"INSERT INTO cycles (id, start_date, end_date, period_length, length) VALUES (?, ?, ?, ?, ?)",
			c.id, c.start, nullIfEmpty(c.end), nullIfZero(c.period), nullIfZero(c.length),
		); err != nil {
			return fmt.Errorf("seed cycles: %w", err)
		}
	}

	logs := []struct {
		id, date, flow, symptoms, mood string
		isPeriod                       bool
	}{
		{"LOG-0001", "2024-05-27", "heavy", `["cramps"]`, "tired", true},
		{"LOG-0002", "2024-05-28", "medium", `["cramps","headache"]`, "", true},
		{"LOG-0003", "2024-05-29", "light", `[]`, "calm", true},
		{"LOG-0004", "2024-06-08", "", `["bloating"]`, "happy", false},
	}
	for _, l := range logs {
		if _, err := database.Exec(
			"INSERT INTO daily_logs (id, date, flow, symptoms, mood, is_period) VALUES (?, ?, ?, ?, ?, ?)",
			l.id, l.date, nullIfEmpty(l.flow), l.symptoms, nullIfEmpty(l.mood), l.isPeriod,
		); err != nil {
			return fmt.Errorf("seed daily logs: %w", err)
		}
	}

	model := `{"trainedAt":"2024-05-30T08:00:00Z","cyclesTrained":5,"modelType":"weighted_average",` +
		`"avgCycleLength":29.2,"stdCycleLength":1.5,"recentCycleLengths":[29,28,31,27,30],"avgPeriodLength":5,` +
		`"prediction":{"nextPeriodDate":"2024-06-25","confidence":0.78,"expectedCycleLength":29.2,` +
		`"fertileWindowStart":"2024-06-06","fertileWindowEnd":"2024-06-12","periodLength":5}}`
	if _, err := database.Exec("INSERT INTO settings (key, value) VALUES ('modelParams', ?)", model); err != nil {
		return fmt.Errorf("seed model params: %w", err)
	}

	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

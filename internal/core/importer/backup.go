package importer

import (
	"encoding/json"
	"sort"

	"github.com/example/flux/internal/core/caldate"
	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/models"
)

// ParseBackup decodes a flux backup document. Cycles and logs without a
// valid date are dropped; the remaining records are returned sorted.
func ParseBackup(raw []byte) (*models.Export, error) {
	const op = "parse_backup"

	var exp models.Export
	if err := json.Unmarshal(raw, &exp); err != nil {
		return nil, fault.Newf(fault.KindMalformedImport, op, "not a backup document: %v", err)
	}

	cycles := make([]*models.Cycle, 0, len(exp.Cycles))
	for _, c := range exp.Cycles {
		if c == nil || !caldate.Valid(c.StartDate) {
			continue
		}
		if c.EndDate != "" && (!caldate.Valid(c.EndDate) || c.EndDate < c.StartDate) {
			return nil, fault.Newf(fault.KindMalformedImport, op,
				"cycle %s has end %q before start %s", c.ID, c.EndDate, c.StartDate)
		}
		cycles = append(cycles, c)
	}
	sort.SliceStable(cycles, func(i, j int) bool { return cycles[i].StartDate < cycles[j].StartDate })

	logs := make([]*models.DailyLog, 0, len(exp.Logs))
	for _, l := range exp.Logs {
		if l == nil || !caldate.Valid(l.Date) {
			continue
		}
		logs = append(logs, l)
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })

	if exp.ModelParams != nil {
		if err := ValidateModelParams(exp.ModelParams); err != nil {
			return nil, err
		}
	}

	exp.Cycles = cycles
	exp.Logs = logs
	return &exp, nil
}

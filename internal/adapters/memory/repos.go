package memory

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/example/flux/internal/core/fault"
	"github.com/example/flux/internal/ports/secondary"
)

// CycleRepository implements secondary.CycleRepository in memory.
type CycleRepository struct {
	store *Store
}

func (r *CycleRepository) Create(ctx context.Context, cycle *secondary.CycleRecord) error {
	defer r.store.lock(ctx)()
	st := &r.store.state

	if _, ok := st.cycles[cycle.ID]; ok {
		return fmt.Errorf("failed to create cycle: id %s already exists", cycle.ID)
	}
	for _, c := range st.cycles {
		if c.StartDate == cycle.StartDate {
			return fmt.Errorf("failed to create cycle: start date %s already exists", cycle.StartDate)
		}
	}

	record := *cycle
	record.CreatedAt = r.store.timestamp()
	record.UpdatedAt = record.CreatedAt
	st.cycles[record.ID] = record
	return nil
}

func (r *CycleRepository) GetByID(ctx context.Context, id string) (*secondary.CycleRecord, error) {
	defer r.store.lock(ctx)()
	c, ok := r.store.state.cycles[id]
	if !ok {
		return nil, fault.NotFound("get_cycle", "cycle", id)
	}
	return &c, nil
}

func (r *CycleRepository) GetByStartDate(ctx context.Context, date string) (*secondary.CycleRecord, error) {
	return r.find(ctx, func(c secondary.CycleRecord) bool { return c.StartDate == date }, false)
}

func (r *CycleRepository) Latest(ctx context.Context) (*secondary.CycleRecord, error) {
	return r.find(ctx, func(secondary.CycleRecord) bool { return true }, true)
}

func (r *CycleRepository) Previous(ctx context.Context, date string) (*secondary.CycleRecord, error) {
	return r.find(ctx, func(c secondary.CycleRecord) bool { return c.StartDate < date }, true)
}

func (r *CycleRepository) Next(ctx context.Context, date string) (*secondary.CycleRecord, error) {
	return r.find(ctx, func(c secondary.CycleRecord) bool { return c.StartDate > date }, false)
}

func (r *CycleRepository) List(ctx context.Context) ([]*secondary.CycleRecord, error) {
	defer r.store.lock(ctx)()
	return r.sorted(), nil
}

func (r *CycleRepository) Update(ctx context.Context, cycle *secondary.CycleRecord) error {
	defer r.store.lock(ctx)()
	st := &r.store.state

	existing, ok := st.cycles[cycle.ID]
	if !ok {
		return fault.NotFound("update_cycle", "cycle", cycle.ID)
	}
	for id, c := range st.cycles {
		if id != cycle.ID && c.StartDate == cycle.StartDate {
			return fmt.Errorf("failed to update cycle: start date %s already exists", cycle.StartDate)
		}
	}

	record := *cycle
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = r.store.timestamp()
	st.cycles[record.ID] = record
	return nil
}

func (r *CycleRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.state.cycles[id]; !ok {
		return fault.NotFound("delete_cycle", "cycle", id)
	}
	delete(r.store.state.cycles, id)
	return nil
}

func (r *CycleRepository) GetNextID(ctx context.Context) (string, error) {
	defer r.store.lock(ctx)()
	ids := make([]string, 0, len(r.store.state.cycles))
	for id := range r.store.state.cycles {
		ids = append(ids, id)
	}
	return nextID(ids, "CYC-"), nil
}

// find returns the first (or last, when fromEnd) cycle in start order that
// matches.
func (r *CycleRepository) find(ctx context.Context, match func(secondary.CycleRecord) bool, fromEnd bool) (*secondary.CycleRecord, error) {
	defer r.store.lock(ctx)()
	cycles := r.sorted()
	if fromEnd {
		slices.Reverse(cycles)
	}
	for _, c := range cycles {
		if match(*c) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *CycleRepository) sorted() []*secondary.CycleRecord {
	out := make([]*secondary.CycleRecord, 0, len(r.store.state.cycles))
	for _, c := range r.store.state.cycles {
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *secondary.CycleRecord) int { return strings.Compare(a.StartDate, b.StartDate) })
	return out
}

// DailyLogRepository implements secondary.DailyLogRepository in memory.
type DailyLogRepository struct {
	store *Store
}

func (r *DailyLogRepository) Upsert(ctx context.Context, log *secondary.DailyLogRecord) error {
	defer r.store.lock(ctx)()
	record := cloneLog(*log)
	now := r.store.timestamp()
	if existing, ok := r.store.state.logs[log.Date]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	r.store.state.logs[record.Date] = record
	return nil
}

func (r *DailyLogRepository) GetByDate(ctx context.Context, date string) (*secondary.DailyLogRecord, error) {
	defer r.store.lock(ctx)()
	log, ok := r.store.state.logs[date]
	if !ok {
		return nil, nil
	}
	log = cloneLog(log)
	return &log, nil
}

func (r *DailyLogRepository) GetByID(ctx context.Context, id string) (*secondary.DailyLogRecord, error) {
	defer r.store.lock(ctx)()
	for _, log := range r.store.state.logs {
		if log.ID == id {
			log = cloneLog(log)
			return &log, nil
		}
	}
	return nil, nil
}

func (r *DailyLogRepository) List(ctx context.Context, filters secondary.DailyLogFilters) ([]*secondary.DailyLogRecord, error) {
	defer r.store.lock(ctx)()
	var out []*secondary.DailyLogRecord
	for date, log := range r.store.state.logs {
		if filters.From != "" && date < filters.From {
			continue
		}
		if filters.To != "" && date > filters.To {
			continue
		}
		log = cloneLog(log)
		out = append(out, &log)
	}
	slices.SortFunc(out, func(a, b *secondary.DailyLogRecord) int { return strings.Compare(a.Date, b.Date) })
	return out, nil
}

func (r *DailyLogRepository) Delete(ctx context.Context, date string) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.state.logs[date]; !ok {
		return fault.NotFound("delete_log", "daily log for", date)
	}
	delete(r.store.state.logs, date)
	return nil
}

func (r *DailyLogRepository) GetNextID(ctx context.Context) (string, error) {
	defer r.store.lock(ctx)()
	ids := make([]string, 0, len(r.store.state.logs))
	for _, log := range r.store.state.logs {
		ids = append(ids, log.ID)
	}
	return nextID(ids, "LOG-"), nil
}

// SettingRepository implements secondary.SettingRepository in memory.
type SettingRepository struct {
	store *Store
}

func (r *SettingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	defer r.store.lock(ctx)()
	value, ok := r.store.state.settings[key]
	return value, ok, nil
}

func (r *SettingRepository) Put(ctx context.Context, key, value string) error {
	defer r.store.lock(ctx)()
	r.store.state.settings[key] = value
	return nil
}

func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	defer r.store.lock(ctx)()
	delete(r.store.state.settings, key)
	return nil
}

// ActivityLogRepository implements secondary.ActivityLogRepository in memory.
type ActivityLogRepository struct {
	store *Store
}

func (r *ActivityLogRepository) Create(ctx context.Context, entry *secondary.ActivityLogRecord) error {
	defer r.store.lock(ctx)()
	record := *entry
	if record.Timestamp == "" {
		record.Timestamp = r.store.timestamp()
	}
	r.store.state.activity = append(r.store.state.activity, record)
	return nil
}

func (r *ActivityLogRepository) List(ctx context.Context, filters secondary.ActivityLogFilters) ([]*secondary.ActivityLogRecord, error) {
	defer r.store.lock(ctx)()
	var out []*secondary.ActivityLogRecord
	for _, e := range r.store.state.activity {
		if filters.EntityType != "" && e.EntityType != filters.EntityType {
			continue
		}
		if filters.EntityID != "" && e.EntityID != filters.EntityID {
			continue
		}
		if filters.Actor != "" && e.Actor != filters.Actor {
			continue
		}
		if filters.Action != "" && e.Action != filters.Action {
			continue
		}
		out = append(out, &e)
	}
	slices.SortFunc(out, func(a, b *secondary.ActivityLogRecord) int {
		if c := strings.Compare(b.Timestamp, a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (r *ActivityLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	defer r.store.lock(ctx)()
	cutoff := r.store.nowFn().UTC().AddDate(0, 0, -days)
	kept := r.store.state.activity[:0:0]
	for _, e := range r.store.state.activity {
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err == nil && ts.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	pruned := len(r.store.state.activity) - len(kept)
	r.store.state.activity = kept
	return pruned, nil
}

// nextID mirrors the SQL sequence: max numeric suffix among ids with prefix, plus one.
func nextID(ids []string, prefix string) string {
	maxID := 0
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(id, prefix)); err == nil && n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, maxID+1)
}

var (
	_ secondary.CycleRepository       = (*CycleRepository)(nil)
	_ secondary.DailyLogRepository    = (*DailyLogRepository)(nil)
	_ secondary.SettingRepository     = (*SettingRepository)(nil)
	_ secondary.ActivityLogRepository = (*ActivityLogRepository)(nil)
)

// Package memory contains in-memory implementations of the repository
// interfaces. It backs service tests and `flux serve --memory`.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/example/flux/internal/ports/secondary"
)

type txKey struct{}

// state is everything a transaction can roll back.
type state struct {
	cycles   map[string]secondary.CycleRecord
	logs     map[string]secondary.DailyLogRecord
	settings map[string]string
	activity []secondary.ActivityLogRecord
}

func newState() state {
	return state{
		cycles:   map[string]secondary.CycleRecord{},
		logs:     map[string]secondary.DailyLogRecord{},
		settings: map[string]string{},
	}
}

func (s state) clone() state {
	out := state{
		cycles:   maps.Clone(s.cycles),
		logs:     make(map[string]secondary.DailyLogRecord, len(s.logs)),
		settings: maps.Clone(s.settings),
		activity: slices.Clone(s.activity),
	}
	for date, log := range s.logs {
		out.logs[date] = cloneLog(log)
	}
	return out
}

// Store holds all collections behind one mutex. A transaction keeps the
// mutex for its whole duration and repository calls made with its ctx skip
// locking.
type Store struct {
	mu    sync.Mutex
	state state
	nowFn func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState(), nowFn: func() time.Time { return time.Now().UTC() }}
}

// SetNow overrides the clock used for record timestamps.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = now
}

func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) timestamp() string {
	return s.nowFn().UTC().Format(time.RFC3339)
}

// WithinTx runs fn holding the store lock. The state is restored when fn
// fails. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// Cycles returns the cycle repository view of the store.
func (s *Store) Cycles() *CycleRepository { return &CycleRepository{store: s} }

// Logs returns the daily log repository view of the store.
func (s *Store) Logs() *DailyLogRepository { return &DailyLogRepository{store: s} }

// Settings returns the settings repository view of the store.
func (s *Store) Settings() *SettingRepository { return &SettingRepository{store: s} }

// Activity returns the activity log repository view of the store.
func (s *Store) Activity() *ActivityLogRepository { return &ActivityLogRepository{store: s} }

func cloneLog(log secondary.DailyLogRecord) secondary.DailyLogRecord {
	log.Symptoms = slices.Clone(log.Symptoms)
	log.Disturbers = slices.Clone(log.Disturbers)
	if log.Temperature != nil {
		t := *log.Temperature
		log.Temperature = &t
	}
	return log
}

var _ secondary.Transactor = (*Store)(nil)

// Package wire provides dependency injection for the flux application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	cliadapter "github.com/example/flux/internal/adapters/cli"
	"github.com/example/flux/internal/adapters/httpapi"
	"github.com/example/flux/internal/adapters/memory"
	"github.com/example/flux/internal/adapters/sqlite"
	"github.com/example/flux/internal/app"
	"github.com/example/flux/internal/config"
	"github.com/example/flux/internal/core/prediction"
	"github.com/example/flux/internal/db"
	"github.com/example/flux/internal/logger"
	"github.com/example/flux/internal/ports/primary"
	"github.com/example/flux/internal/ports/secondary"
)

var (
	configPath string
	useMemory  bool

	cfg               *config.Config
	database          *sql.DB
	ledgerService     primary.LedgerService
	predictionService primary.PredictionService
	dailyLogService   primary.DailyLogService
	importService     primary.ImportService
	activityService   primary.ActivityService
	once              sync.Once
)

// SetConfigPath selects the config file. Must be called before any service
// is requested.
func SetConfigPath(path string) {
	configPath = path
}

// UseMemoryStore backs every service with a fresh in-memory store instead
// of the SQLite database. Must be called before any service is requested.
func UseMemoryStore() {
	useMemory = true
}

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	once.Do(initServices)
	return ledgerService
}

// PredictionService returns the singleton PredictionService instance.
func PredictionService() primary.PredictionService {
	once.Do(initServices)
	return predictionService
}

// DailyLogService returns the singleton DailyLogService instance.
func DailyLogService() primary.DailyLogService {
	once.Do(initServices)
	return dailyLogService
}

// ImportService returns the singleton ImportService instance.
func ImportService() primary.ImportService {
	once.Do(initServices)
	return importService
}

// ActivityService returns the singleton ActivityService instance.
func ActivityService() primary.ActivityService {
	once.Do(initServices)
	return activityService
}

// Close releases the database connection, if one was opened.
func Close() error {
	if database == nil {
		return nil
	}
	return database.Close()
}

// repositories groups the secondary adapters one store provides.
type repositories struct {
	cycles     secondary.CycleRepository
	logs       secondary.DailyLogRepository
	settings   secondary.SettingRepository
	activity   secondary.ActivityLogRepository
	transactor secondary.Transactor
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()

	policy, err := prediction.ParsePolicy(cfg.Prediction.FertileWindow)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var repos repositories
	if useMemory {
		store := memory.NewStore()
		repos = repositories{
			cycles:     store.Cycles(),
			logs:       store.Logs(),
			settings:   store.Settings(),
			activity:   store.Activity(),
			transactor: store,
		}
		log.Warn("using in-memory store; data will not be persisted")
	} else {
		database, err = db.Open(context.Background(), cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to initialize database: %v", err)
		}
		repos = repositories{
			cycles:     sqlite.NewCycleRepository(database),
			logs:       sqlite.NewDailyLogRepository(database),
			settings:   sqlite.NewSettingRepository(database),
			activity:   sqlite.NewActivityLogRepository(database),
			transactor: sqlite.NewTransactor(database),
		}
		log.WithField("path", cfg.DBPath).Debug("database opened")
	}

	logWriter := sqlite.NewLogWriterAdapter(repos.activity)

	predictor := app.NewPredictionService(repos.cycles, repos.settings, repos.transactor, logWriter, policy, time.Now, log.WithField("service", "prediction"))
	ledger := app.NewLedgerService(repos.cycles, repos.transactor, predictor, logWriter, log.WithField("service", "ledger"))

	predictionService = predictor
	ledgerService = ledger
	dailyLogService = app.NewDailyLogService(repos.logs, repos.cycles, repos.transactor, ledger, logWriter, log.WithField("service", "daily_log"))
	importService = app.NewImportService(repos.cycles, repos.logs, repos.transactor, predictor, logWriter, time.Now, log.WithField("service", "import"))
	activityService = app.NewActivityService(repos.activity)
}

// HTTPHandler returns the HTTP API router over the singleton services.
func HTTPHandler() *httpapi.Handler {
	once.Do(initServices)
	return httpapi.NewHandler(ledgerService, predictionService, importService, dailyLogService, logger.Get().WithField("component", "http"))
}

// LedgerAdapter returns a new LedgerAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func LedgerAdapter() *cliadapter.LedgerAdapter {
	return LedgerAdapterWithOutput(os.Stdout)
}

// LedgerAdapterWithOutput returns a new LedgerAdapter writing to the given output.
func LedgerAdapterWithOutput(out io.Writer) *cliadapter.LedgerAdapter {
	once.Do(initServices)
	return cliadapter.NewLedgerAdapter(ledgerService, out)
}

// LogAdapter returns a new LogAdapter writing to stdout.
func LogAdapter() *cliadapter.LogAdapter {
	return LogAdapterWithOutput(os.Stdout)
}

// LogAdapterWithOutput returns a new LogAdapter writing to the given output.
func LogAdapterWithOutput(out io.Writer) *cliadapter.LogAdapter {
	once.Do(initServices)
	return cliadapter.NewLogAdapter(dailyLogService, out)
}

// PredictionAdapter returns a new PredictionAdapter writing to stdout.
func PredictionAdapter() *cliadapter.PredictionAdapter {
	return PredictionAdapterWithOutput(os.Stdout)
}

// PredictionAdapterWithOutput returns a new PredictionAdapter writing to the given output.
func PredictionAdapterWithOutput(out io.Writer) *cliadapter.PredictionAdapter {
	once.Do(initServices)
	return cliadapter.NewPredictionAdapter(predictionService, out)
}

// DataAdapter returns a new DataAdapter writing to stdout.
func DataAdapter() *cliadapter.DataAdapter {
	return DataAdapterWithOutput(os.Stdout)
}

// DataAdapterWithOutput returns a new DataAdapter writing to the given output.
func DataAdapterWithOutput(out io.Writer) *cliadapter.DataAdapter {
	once.Do(initServices)
	return cliadapter.NewDataAdapter(importService, out)
}

// ActivityAdapter returns a new ActivityAdapter writing to stdout.
func ActivityAdapter() *cliadapter.ActivityAdapter {
	return ActivityAdapterWithOutput(os.Stdout)
}

// ActivityAdapterWithOutput returns a new ActivityAdapter writing to the given output.
func ActivityAdapterWithOutput(out io.Writer) *cliadapter.ActivityAdapter {
	once.Do(initServices)
	return cliadapter.NewActivityAdapter(activityService, out)
}

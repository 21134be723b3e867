package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kmalinin/dutywatch/internal/config"
	"github.com/kmalinin/dutywatch/internal/database"
	"github.com/kmalinin/dutywatch/internal/repository"
	"github.com/kmalinin/dutywatch/internal/wshandler"
	"github.com/kmalinin/dutywatch/pkg/model"
	"github.com/kmalinin/dutywatch/pkg/tracking"
)

var (
	gitRevision = "unknown"
	gitBranch   = "unknown"
)

type EventProcessor func(msg *model.Event)

type App struct {
	logger *slog.Logger
	config *config.AppConfig

	units   *repository.UnitsMemoryRepo
	devices repository.DeviceRepository
	dbm     *database.DatabaseManager

	arbiter    *tracking.Arbiter
	staleness  *tracking.StalenessEvaluator
	alerts     *tracking.AlertAggregator
	classifier *tracking.Classifier
	sla        *tracking.SlaTracker
	push       *tracking.Debouncer

	handlers sync.Map

	ctx             context.Context
	uid             string
	ch              chan *model.Event
	eventProcessors map[string]EventProcessor
}

func NewApp(config *config.AppConfig) *App {
	app := &App{
		logger:          slog.Default(),
		config:          config,
		units:           repository.NewUnitsMemoryRepo(),
		devices:         repository.NewFileDeviceRepo(config.DevicesFile()),
		arbiter:         tracking.NewArbiter(config.Arbiter()),
		staleness:       tracking.NewStalenessEvaluator(config.Staleness()),
		alerts:          tracking.NewAlertAggregator(config.Problems()),
		sla:             tracking.NewSlaTracker(config.Sla()),
		ch:              make(chan *model.Event, 20),
		handlers:        sync.Map{},
		uid:             uuid.NewString(),
		eventProcessors: make(map[string]EventProcessor),
	}

	app.classifier = tracking.NewClassifier(app.staleness, app.alerts)
	app.push = tracking.NewDebouncer(config.PushDebounce(), app.pushUnit)

	return app
}

func (app *App) Run() {
	app.InitMessageProcessors()

	db, err := gorm.Open(sqlite.Open(app.config.DbPath()), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		panic(err)
	}

	app.dbm = database.New(db)

	if err := app.dbm.Migrate(); err != nil {
		panic(err)
	}

	if err := app.units.Start(); err != nil {
		panic(err)
	}

	if err := app.devices.Start(); err != nil {
		app.logger.Error("error starting device registry watch", slog.Any("error", err))
	}

	var cancel context.CancelFunc

	app.ctx, cancel = context.WithCancel(context.Background())

	go app.MessageProcessor()
	go app.checker()
	go app.cleaner()

	NewHttp(app).Start()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c
	app.logger.Info("exiting...")
	cancel()
	app.push.Stop()
	app.devices.Stop()
	app.units.Stop()
}

func (app *App) NewEvent(msg *model.Event) {
	app.ch <- msg
}

// pushUnit is the debouncer fire target: forwards the current state of a
// unit to every connected client.
func (app *App) pushUnit(uid string) {
	app.units.NotifyChange(uid)
}

func (app *App) decorate(u *model.Unit) *model.WebUnit {
	return app.classifier.Decorate(u.ToWeb(), u, time.Now())
}

// snapshot builds the full decorated set, filtered by a quick-filter name.
func (app *App) snapshot(filter string) []*model.WebUnit {
	now := time.Now()
	keep := app.classifier.GetFilter(filter)
	res := make([]*model.WebUnit, 0)

	app.units.ForEach(func(u *model.Unit) bool {
		if keep(u, now) {
			res = append(res, app.classifier.Decorate(u.ToWeb(), u, now))
		}

		return true
	})

	return res
}

// sendSnapshots drives every client through its reconciler, so units gone
// from the live set disappear even if a delete push was missed.
func (app *App) sendSnapshots() {
	snapshot := app.snapshot("all")

	app.handlers.Range(func(_, value any) bool {
		value.(*wshandler.JSONWsHandler).Reconcile(snapshot)

		return true
	})
}

func (app *App) cleaner() {
	for range time.Tick(time.Minute) {
		app.cleanOldUnits()
	}
}

// cleanOldUnits drops shifts that ended and went quiet. Persisted alerts
// and SOS records survive the removal.
func (app *App) cleanOldUnits() {
	toDelete := make([]string, 0)

	app.units.ForEach(func(u *model.Unit) bool {
		if app.staleness.IsEnded(u) && time.Since(u.GetLastSeen()) > time.Hour {
			toDelete = append(toDelete, u.GetUID())
		}

		return true
	})

	for _, uid := range toDelete {
		app.logger.Debug("removing ended unit " + uid)
		app.removeUnit(uid)
	}
}

func (app *App) removeUnit(uid string) {
	if u := app.units.Get(uid); u != nil {
		app.alerts.Forget(u.GetDeviceID())
	}

	app.arbiter.Forget(uid)
	app.units.Remove(uid)
	unitsGauge.Set(float64(unitsCount(app.units)))
}

func unitsCount(r *repository.UnitsMemoryRepo) int {
	n := 0
	r.ForEach(func(*model.Unit) bool {
		n++
		return true
	})

	return n
}

func main() {
	fmt.Printf("version %s %s\n", gitRevision, gitBranch)

	var debug = flag.Bool("debug", false, "debug mode")

	var conf = flag.String("config", "dutywatch.yml", "name of config file")
	flag.Parse()

	cfg := config.NewAppConfig()
	cfg.Load(*conf)

	if err := cfg.LoadEnv("DUTYWATCH_"); err != nil {
		fmt.Printf("error loading env: %s", err.Error())
	}

	var h slog.Handler
	if *debug {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	slog.SetDefault(slog.New(h))

	NewApp(cfg).Run()
}

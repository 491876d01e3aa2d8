// Package app wires configuration, logging, storage, publishers, the
// notifier, and the scheduler into one runnable unit.
package app

import (
	"context"
	"fmt"
	"sync"

	"parishpress/internal/config"
	"parishpress/internal/eventbus"
	"parishpress/internal/notify"
	"parishpress/internal/publisher"
	"parishpress/internal/publisher/backend"
	"parishpress/internal/scheduler"
	"parishpress/internal/storage"
	logx "parishpress/pkg/logx"
)

type App struct {
	cfgMgr *config.Manager
	logSvc *logx.Service
	log    logx.Logger

	bus      eventbus.Bus
	store    storage.Store
	sched    *scheduler.Service
	notifier *notify.Service

	watchCancel context.CancelFunc
	wg          sync.WaitGroup
}

func New(cfgPath string) (*App, error) {
	mgr := config.NewManager(cfgPath)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", cfgPath, err)
	}

	logSvc, log := logx.New(buildLogging(cfg.Logging))
	mgr.SetLogger(log.With(logx.String("svc", "config")))
	mgr.SetValidator(func(ctx context.Context, cfg *config.Config) error {
		_ = ctx
		return validate(cfg)
	})

	if err := validate(cfg); err != nil {
		_ = logSvc.Close()
		return nil, err
	}

	store, err := storage.Open(buildStorage(cfg.Storage), log.With(logx.String("svc", "storage")))
	if err != nil {
		_ = logSvc.Close()
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	backendCfg, _ := buildBackend(cfg.Backend)
	client, err := backend.New(backendCfg, log.With(logx.String("svc", "backend")))
	if err != nil {
		_ = store.Close()
		_ = logSvc.Close()
		return nil, err
	}
	reg := publisher.NewRegistry()
	client.Register(reg)

	bus := eventbus.New()

	schedCfg, _ := buildScheduler(cfg.Scheduler)
	sched := scheduler.New(schedCfg, store, reg, bus, log.With(logx.String("svc", "scheduler")))

	notifCfg, _ := buildNotifier(cfg.Notifier)
	notifier := notify.New(notifCfg, bus, log.With(logx.String("svc", "notify")))

	return &App{
		cfgMgr:   mgr,
		logSvc:   logSvc,
		log:      log,
		bus:      bus,
		store:    store,
		sched:    sched,
		notifier: notifier,
	}, nil
}

// Scheduler exposes the content scheduler for admin surfaces.
func (a *App) Scheduler() *scheduler.Service { return a.sched }

func (a *App) Start(ctx context.Context) error {
	a.notifier.Start(ctx)
	if err := a.sched.Start(ctx); err != nil {
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	a.watchCancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.cfgMgr.Watch(watchCtx); err != nil {
			a.log.Warn("config watch stopped", logx.Err(err))
		}
	}()

	updates := a.cfgMgr.Subscribe(1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.cfgMgr.Unsubscribe(updates)
		for {
			select {
			case <-watchCtx.Done():
				return
			case cfg, ok := <-updates:
				if !ok {
					return
				}
				a.apply(cfg)
			}
		}
	}()

	a.log.Info("parishpress started")
	return nil
}

// apply pushes a hot-reloaded config into the running services.
// Storage and backend endpoints are fixed at startup; changing them takes a
// restart.
func (a *App) apply(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.logSvc.Apply(buildLogging(cfg.Logging))
	if sc, err := buildScheduler(cfg.Scheduler); err == nil {
		a.sched.Apply(sc)
	}
	if nc, err := buildNotifier(cfg.Notifier); err == nil {
		a.notifier.Apply(nc)
	}
	a.log.Info("config applied")
}

func (a *App) Stop(ctx context.Context) error {
	if a.watchCancel != nil {
		a.watchCancel()
	}
	a.sched.Stop(ctx)
	a.notifier.Stop(ctx)
	a.wg.Wait()
	err := a.store.Close()
	_ = a.logSvc.Close()
	return err
}

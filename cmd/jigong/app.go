package main

import (
	"context"
	"os"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/config"
	"github.com/MarcoPoloResearchLab/jigong/internal/events"
	"github.com/MarcoPoloResearchLab/jigong/internal/logging"
	"github.com/MarcoPoloResearchLab/jigong/internal/prefs"
	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/store"
	"github.com/MarcoPoloResearchLab/jigong/internal/theme"
	"github.com/MarcoPoloResearchLab/jigong/internal/tracker"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// application holds the wired components shared by every command.
type application struct {
	config  config.AppConfig
	logger  *zap.Logger
	store   *store.Store
	bus     *events.Bus
	service *tracker.Service
	theme   *theme.Manager
}

func openApplication(ctx context.Context) (*application, error) {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel, appConfig.LogFormat)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(appConfig.DataDir, 0o755); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	db, err := store.Open(ctx, store.Options{
		Dir:     appConfig.DataDir,
		Name:    appConfig.StoreName,
		Version: appConfig.StoreVersion,
		Schema:  records.Schema(),
		Logger:  logger,
		Clock:   time.Now,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	preferences, err := prefs.Open(appConfig.DataDir, appConfig.PrefsScope, logger)
	if err != nil {
		_ = db.Close()
		_ = logger.Sync()
		return nil, err
	}

	bus := events.NewBus()
	service, err := tracker.NewService(tracker.ServiceConfig{
		Store:      db,
		Clock:      time.Now,
		IDProvider: records.NewUUIDProvider(),
		Logger:     logger,
		Bus:        bus,
		Location:   time.Local,
	})
	if err != nil {
		_ = db.Close()
		_ = logger.Sync()
		return nil, err
	}

	themes := theme.NewManager(preferences, bus, logger)
	themes.Init()

	return &application{
		config:  appConfig,
		logger:  logger,
		store:   db,
		bus:     bus,
		service: service,
		theme:   themes,
	}, nil
}

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

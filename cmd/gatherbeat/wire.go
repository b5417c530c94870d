package main

import (
	"context"
	"fmt"
	"gatherbeat/cmd/internal/config"
	"gatherbeat/cmd/internal/domain/store"
	"gatherbeat/cmd/internal/domain/store/repository"
	"gatherbeat/cmd/internal/http/handler"
	"gatherbeat/cmd/internal/http/middleware"
	"gatherbeat/cmd/internal/infrastructure/gather"
	"gatherbeat/cmd/internal/infrastructure/wakapi"
	"gatherbeat/cmd/internal/service"
	"gatherbeat/cmd/internal/service/jobs"
	"gatherbeat/cmd/internal/utils/uid"
	"gatherbeat/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type app struct {
	cfg    *config.Config
	db     *gorm.DB
	feed   gather.Feed
	poller *jobs.HeartbeatPoller
}

func wireApp(ctx context.Context) (*app, error) {
	// Loads env vars depending on environment
	if err := config.LoadEnv(ctx); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	validate := validator.New()
	cfg, err := config.Parse(validate)
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.Lvl())
	validators.Register(validate, cfg.Sentinels)
	uid.Init(cfg.MachineID)

	db, err := store.Init(cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("init account store: %w", err)
	}

	accountRepo := repository.NewAccountRepository(db)
	feed := gather.NewClient(cfg.GatherAPIURL, cfg.SpaceID, cfg.GatherAPIKey, cfg.HTTPTimeout)
	sender := wakapi.NewClient(cfg.WakapiURL, cfg.HTTPTimeout)

	resolver := service.NewIdentityResolver(accountRepo, validate)
	dispatcher := service.NewDispatcher(sender, cfg.HeartbeatMeta())
	poller := jobs.NewHeartbeatPoller(feed, resolver, service.NewAggregator(), dispatcher, jobs.PollerConfig{
		Interval: cfg.PollInterval,
		Timeout:  cfg.TickTimeout,
		Mode:     jobs.Mode(cfg.HeartbeatMode),
	})

	return &app{
		cfg:    cfg,
		db:     db,
		feed:   feed,
		poller: poller,
	}, nil
}

func (a *app) newServer() *echo.Echo {
	heartbeatRoutes := handler.NewHeartbeatRoute(a.poller)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(a.cfg.Lvl())
	e.Use(echomw.Recover())

	// Docker Compose healthcheck
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api", middleware.NewAuthMiddleware(&middleware.AuthMiddlewareConfig{Token: a.cfg.AdminToken}))
	api.GET("/heartbeats/pending", heartbeatRoutes.GetPending)
	api.POST("/heartbeats/flush", heartbeatRoutes.Flush)
	return e
}

func (a *app) close() {
	sqlDB, err := a.db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

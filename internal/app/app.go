package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisclient "github.com/harborline/cargomark-backend/internal/clients/redis"
	"github.com/harborline/cargomark-backend/internal/db"
	apphttp "github.com/harborline/cargomark-backend/internal/http"
	httpMW "github.com/harborline/cargomark-backend/internal/http/middleware"
	"github.com/harborline/cargomark-backend/internal/observability"
	"github.com/harborline/cargomark-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	PrintBus redisclient.PrintBus

	shutdownOTel func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	metrics := observability.Init(log)
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "cargomark-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	bus, err := redisclient.NewPrintBus(log)
	if err != nil {
		log.Warn("Print bus unavailable, events will not be published", "error", err)
		bus = nil
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet, bus, metrics)
	handlerset := wireHandlers(log, serviceset)

	server := apphttp.NewServer(apphttp.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ActorMiddleware: httpMW.NewActorMiddleware(log, cfg.JWTSecretKey),
		BatchHandler:    handlerset.Batch,
		CodeHandler:     handlerset.Code,
		ReportHandler:   handlerset.Report,
		HealthHandler:   handlerset.Health,
	})

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Router:       server.Engine,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		PrintBus:     bus,
		shutdownOTel: shutdownOTel,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if m := observability.Current(); m != nil {
		m.StartRedisProbe(ctx, a.Log)
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.PrintBus != nil {
		if err := a.PrintBus.Close(); err != nil {
			a.Log.Warn("Print bus close failed", "error", err)
		}
	}
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(context.Background()); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cyberpompier/lumina/internal/config"
	"github.com/cyberpompier/lumina/internal/connectivity"
	"github.com/cyberpompier/lumina/internal/haptics"
	"github.com/cyberpompier/lumina/internal/install"
	"github.com/cyberpompier/lumina/internal/metrics"
	"github.com/cyberpompier/lumina/internal/repo"
	"github.com/cyberpompier/lumina/internal/service"
	"github.com/cyberpompier/lumina/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	kv          storage.KV
	nc          *nats.Conn
	observer    *connectivity.Observer
	stopInstall func()
	router      *gin.Engine
}

// deps is everything the routes need.
type deps struct {
	tasks    *service.TaskService
	observer *connectivity.Observer
	sw       *connectivity.Switch
	mediator *install.Mediator
	relay    *install.Relay
	registry *prometheus.Registry
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{cfg: cfg, log: log}

	kv, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.kv = kv
	log.Info("storage ready", "backend", cfg.Store.Backend)

	if cfg.NATS.URL != "" {
		nc, err := newNATS(cfg.NATS.URL)
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		a.nc = nc
	}

	d := deps{
		mediator: install.NewMediator(log),
		relay:    install.NewRelay(),
		registry: prometheus.NewRegistry(),
	}
	d.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var (
		source connectivity.Source
		sink   haptics.Sink = haptics.Nop{}
	)
	if a.nc != nil {
		source = connectivity.NewNATSSource(a.nc)
		sink = haptics.NewNATSSink(a.nc, log)
	} else {
		// Assume online until a client says otherwise.
		d.sw = connectivity.NewSwitch(true)
		source = d.sw
	}
	a.observer = connectivity.NewObserver(source, log)
	d.observer = a.observer
	a.stopInstall = d.mediator.Listen(d.relay)

	taskRepo := repo.NewKVTaskRepo(kv, cfg.Store.Key, cfg.Store.Legacy(), log)
	d.tasks = service.NewTaskService(taskRepo,
		service.WithHaptics(sink),
		service.WithMetrics(metrics.New(d.registry)),
		service.WithLogger(log),
	)
	if err := d.tasks.Hydrate(ctx); err != nil {
		// Not fatal: the next request retries.
		log.Warn("initial task load failed", "error", err)
	}

	a.router = newRouter(cfg, log, d)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Close releases subscriptions and connections in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.stopInstall != nil {
		a.stopInstall()
	}
	var errs []error
	if a.observer != nil {
		errs = append(errs, a.observer.Close())
	}
	if a.nc != nil {
		a.nc.Close()
	}
	if a.kv != nil {
		errs = append(errs, a.kv.Close())
	}
	return errors.Join(errs...)
}

func newStore(ctx context.Context, cfg config.Config) (storage.KV, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return storage.NewMemory(), nil
	case config.BackendSQLite:
		return storage.OpenSQLite(ctx, cfg.Store.SQLitePath)
	case config.BackendRedis:
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return storage.NewRedis(rdb, cfg.Redis.KeyPrefix, cfg.Redis.TTL.Duration()), nil
	case config.BackendPostgres:
		return storage.OpenPostgres(ctx, cfg.PG.DSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("lumina"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

func newRouter(cfg config.Config, log *slog.Logger, d deps) *gin.Engine {
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	setup(r, cfg, d)
	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-fit/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/events"
	adapterHTTP "github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/notify"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit/internal/config"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/comitanigiacomo/kanso-fit/internal/core/workers"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
)

type app struct {
	router    *gin.Engine
	sessions  *services.SessionService
	worker    *workers.SyncWorker
	reaper    *workers.SessionReaper
	publisher domain.EventPublisher
	docs      domain.DocumentRepository

	stopWorker context.CancelFunc
	db         *sqlx.DB
	rdb        *redis.Client
}

type storage struct {
	users      domain.UserRepository
	activities domain.ActivityRepository
	docs       domain.DocumentRepository
}

func newApp(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*app, error) {
	a := &app{}
	m := metrics.NewManager("kanso", "fit", reg)

	store, err := a.openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.rdb = connectRedis(cfg)

	var notifier domain.ChangeNotifier = notify.NewLocalChangeNotifier()
	if a.rdb != nil {
		store.activities = repository.NewCachedActivityRepository(store.activities, a.rdb)
		notifier = notify.NewRedisChangeNotifier(a.rdb)
	}
	a.docs = store.docs

	a.publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		a.publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logrus.WithField("brokers", cfg.KafkaBrokers).Info("publishing completion events to kafka")
	}

	a.sessions = services.NewSessionService(store.docs, store.activities, notifier, m)
	a.worker = workers.NewSyncWorker(a.sessions, m, workers.SyncWorkerOptions{
		Debounce:     cfg.SyncDebounce,
		FlushTimeout: cfg.FlushTimeout,
		QueueSize:    cfg.SyncQueueSize,
	})
	a.sessions.SetScheduler(a.worker)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	a.stopWorker = stopWorker
	a.worker.Start(workerCtx)

	if cfg.SessionIdle > 0 {
		a.reaper = workers.NewSessionReaper(a.sessions, cfg.SessionIdle, cfg.FlushTimeout)
		a.reaper.Start(workerCtx)
	}

	clock := services.NewClock(cfg.Location())
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL, store.users)

	a.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler: adapterHTTP.NewAuthHandler(services.NewAuthService(store.users), tokens),
		ActivityHandler: adapterHTTP.NewActivityHandler(
			services.NewActivityService(store.activities, a.sessions),
			services.NewExerciseService(a.sessions),
		),
		TrackerHandler: adapterHTTP.NewTrackerHandler(services.NewTrackerService(a.sessions, a.publisher, clock, m)),
		HabitHandler:   adapterHTTP.NewHabitHandler(services.NewHabitService(a.sessions, clock)),
		StatsHandler:   adapterHTTP.NewStatsHandler(services.NewStatsService(a.sessions, clock)),
		SyncHandler:    adapterHTTP.NewSyncHandler(notifier, 0),
		TokenService:   tokens,
		Metrics:        m,
		Registry:       reg,
		DB:             a.db,
		Redis:          a.rdb,
		RateLimit:      cfg.RateLimit,
		StartTime:      time.Now(),
	})

	return a, nil
}

func (a *app) openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		logrus.Warn("using in-memory storage, data is lost on restart")
		return &storage{
			users:      repository.NewInMemoryUserRepository(),
			activities: repository.NewInMemoryActivityRepository(),
			docs:       repository.NewInMemoryDocumentRepository(),
		}, nil
	}

	logrus.WithField("driver", cfg.DBDriver).Info("connecting to database...")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := repository.Connect(connectCtx, cfg.DBDriver, cfg.DatabaseURL())
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(connectCtx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db

	logrus.Info("database connected successfully")

	return &storage{
		users:      repository.NewPostgresUserRepository(db),
		activities: repository.NewPostgresActivityRepository(db),
		docs:       repository.NewPostgresDocumentRepository(db),
	}, nil
}

// connectRedis returns nil when Redis is disabled or unreachable. The
// server then runs without the activity cache, rate limiting and
// cross-process notifications.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisHost == "" {
		return nil
	}
	rdb, err := cache.NewRedisClient(cache.Options{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logrus.WithError(err).Warn("redis unavailable, continuing without cache and live sync")
		return nil
	}
	logrus.Info("redis connected successfully")
	return rdb
}

// close stops the sync worker, which flushes every pending store, then
// releases the connections.
func (a *app) close(ctx context.Context) error {
	a.stopWorker()

	select {
	case <-a.worker.Done():
	case <-ctx.Done():
		return fmt.Errorf("sync worker did not stop: %w", ctx.Err())
	}
	if a.reaper != nil {
		select {
		case <-a.reaper.Done():
		case <-ctx.Done():
			return fmt.Errorf("session reaper did not stop: %w", ctx.Err())
		}
	}

	err := a.worker.Err()
	if flushErr := a.sessions.FlushAll(ctx); flushErr != nil && err == nil {
		err = flushErr
	}
	a.sessions.Close()

	if pubErr := a.publisher.Close(); pubErr != nil {
		logrus.WithError(pubErr).Warn("failed to close event publisher")
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	return err
}

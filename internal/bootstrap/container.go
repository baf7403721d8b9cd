package bootstrap

import (
	"context"
	"fmt"
	"time"

	"embedding-sync-worker/internal/config"
	"embedding-sync-worker/internal/mapper"
	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/internal/repository/contract"
	"embedding-sync-worker/internal/repository/implementation"
	"embedding-sync-worker/internal/repository/memory"
	"embedding-sync-worker/internal/repository/unitofwork"
	"embedding-sync-worker/internal/server"
	"embedding-sync-worker/internal/service"
	"embedding-sync-worker/internal/worker"
	"embedding-sync-worker/pkg/database"
	"embedding-sync-worker/pkg/embedding"
	"embedding-sync-worker/pkg/embedding/factory"
	pktNats "embedding-sync-worker/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container owns every long-lived dependency of one worker process. Build it
// once per process and Close it on exit.
type Container struct {
	Config     *config.Config
	Mode       string
	RunId      string
	Logger     logger.ILogger
	DB         *gorm.DB
	UowFactory unitofwork.RepositoryFactory
	Provider   embedding.EmbeddingProvider
	StatusRepo contract.SyncStatusRepository

	SyncService service.IEmbeddingSyncService

	publisher  *pktNats.Publisher
	subscriber *pktNats.Subscriber
	pubSub     *gochannel.GoChannel
	wakeRelay  *service.WakeRelay
	rdb        *redis.Client
}

// NewContainer opens the database and wires the process. The backfill mode
// refuses to start, before any connection attempt, when a connection
// parameter is missing.
func NewContainer(cfg *config.Config, mode string, log logger.ILogger) (*Container, error) {
	if mode == service.ModeBackfill {
		if err := cfg.Database.Validate(); err != nil {
			return nil, err
		}
	}

	db, err := database.NewGormDB(database.GormConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.PortOrDefault(),
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		Verbose:  cfg.App.Environment == "development",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", service.ErrDatabase, err)
	}

	c, err := NewContainerWithDB(cfg, mode, db, log)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return c, nil
}

// NewContainerWithDB wires the process around an already opened database.
func NewContainerWithDB(cfg *config.Config, mode string, db *gorm.DB, log logger.ILogger) (*Container, error) {
	c := &Container{
		Config:     cfg,
		Mode:       mode,
		RunId:      uuid.NewString(),
		Logger:     log,
		DB:         db,
		UowFactory: unitofwork.NewRepositoryFactory(db),
	}

	provider, err := factory.NewEmbeddingProvider(factory.Options{
		Provider:      cfg.Ai.EmbeddingProvider,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OllamaModel:   cfg.Ai.OllamaModel,
		GeminiAPIKey:  cfg.Keys.GoogleGemini,
		JinaAPIKey:    cfg.Keys.Jina,
		OpenAIAPIKey:  cfg.Keys.OpenAI,
		OpenAIModel:   cfg.Ai.OpenAIModel,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		BatchSize:     cfg.Worker.BatchSize,
	})
	if err != nil {
		return nil, err
	}
	c.Provider = provider
	log.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": provider.Name()})

	vectorMapper, err := mapper.NewVectorMapper(cfg.Worker.VectorFormat)
	if err != nil {
		return nil, err
	}

	c.StatusRepo = c.newStatusRepository()

	var publisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to connect to NATS publisher, sync events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			c.publisher = natsPub
			publisher = natsPub
		}
	}

	c.SyncService = service.NewEmbeddingSyncService(c.UowFactory, provider, vectorMapper, publisher, log, c.RunId)
	return c, nil
}

func (c *Container) newStatusRepository() contract.SyncStatusRepository {
	if c.Config.App.RedisURL == "" {
		return memory.NewSyncStatusRepository()
	}

	opt, err := redis.ParseURL(c.Config.App.RedisURL)
	if err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: c.Config.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to connect to Redis, keeping sync status in memory", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return memory.NewSyncStatusRepository()
	}
	c.rdb = rdb
	return implementation.NewSyncStatusRepositoryRedis(rdb)
}

// WakeChannel subscribes to product change hints on NATS and returns the
// channel the queue worker's sleeper listens on. It returns nil when NATS is
// not configured or unreachable.
func (c *Container) WakeChannel(ctx context.Context) <-chan struct{} {
	if c.Config.App.NatsURL == "" || c.Config.App.NatsWakeSubject == "" {
		return nil
	}

	sub, err := pktNats.NewSubscriber(c.Config.App.NatsURL)
	if err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to connect to NATS subscriber, polling only", map[string]interface{}{"error": err.Error()})
		return nil
	}

	c.pubSub = gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NewStdLogger(false, false))
	c.wakeRelay = service.NewWakeRelay(c.pubSub, c.Logger)

	wake, err := c.wakeRelay.Listen(ctx)
	if err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to start wake relay, polling only", map[string]interface{}{"error": err.Error()})
		sub.Close()
		return nil
	}
	if err := sub.Subscribe(ctx, c.Config.App.NatsWakeSubject, c.Config.App.NatsDurableName, c.wakeRelay.HandleEvent); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to subscribe to wake subject, polling only", map[string]interface{}{"error": err.Error()})
		sub.Close()
		return nil
	}
	c.subscriber = sub
	c.Logger.Info("BOOTSTRAP", "Listening for product changes", map[string]interface{}{"subject": c.Config.App.NatsWakeSubject})
	return wake
}

func (c *Container) NewQueueWorker(sleep worker.Sleeper) *worker.QueueWorker {
	return worker.NewQueueWorker(c.SyncService, c.UowFactory, c.StatusRepo, c.Logger, worker.QueueWorkerOptions{
		BatchSize:    c.Config.Worker.BatchSize,
		PollInterval: c.Config.Worker.PollInterval,
		OnError:      c.Config.Worker.ResolveErrorPolicy(config.ErrorPolicySkip),
		RunId:        c.RunId,
		Sleep:        sleep,
	})
}

func (c *Container) NewBackfillRunner() *worker.BackfillRunner {
	return worker.NewBackfillRunner(c.SyncService, c.UowFactory, c.StatusRepo, c.Logger, worker.BackfillOptions{
		BatchSize:  c.Config.Worker.BatchSize,
		BatchPause: c.Config.Worker.BackfillBatchPause,
		OnError:    c.Config.Worker.ResolveErrorPolicy(config.ErrorPolicyAbort),
		RunId:      c.RunId,
	})
}

// NewServer returns nil when no HTTP port is configured.
func (c *Container) NewServer() *server.Server {
	if c.Config.App.HTTPPort == "" {
		return nil
	}
	return server.New(c.Config.App.HTTPPort, c.StatusRepo, c.pingDB, c.Logger)
}

func (c *Container) pingDB(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Container) Close() {
	if c.subscriber != nil {
		c.subscriber.Close()
	}
	if c.pubSub != nil {
		_ = c.pubSub.Close()
	}
	if c.publisher != nil {
		c.publisher.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	if c.DB != nil {
		if err := database.Close(c.DB); err != nil {
			c.Logger.Warn("BOOTSTRAP", "Failed to close database", map[string]interface{}{"error": err.Error()})
		}
	}
	_ = c.Logger.Sync()
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creator-os/domain/repository"
	"creator-os/infrastructure/archive"
	"creator-os/infrastructure/cache"
	"creator-os/infrastructure/clients/apify"
	"creator-os/infrastructure/clients/identity"
	"creator-os/infrastructure/configuration"
	"creator-os/infrastructure/logger"
	"creator-os/infrastructure/persistence"
	"creator-os/infrastructure/pubsub"
	"creator-os/infrastructure/realtime"
	"creator-os/infrastructure/scheduler"
	"creator-os/infrastructure/servicebus"
	httpHandler "creator-os/interfaces/http"
	"creator-os/server"
	"creator-os/usecase"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)
	app := configuration.C.App
	var hooks shutdownHooks

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - competitor features disabled")
		psqlDb = nil
	} else {
		if err := persistence.EnsureCompetitorSchema(psqlDb); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring competitor schema")
		}
		logger.GetLogger().Info("PostgreSQL connected")
		hooks.add("postgres", func(context.Context) error { return psqlDb.Close() })
	}

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - run cache disabled")
		redisClient = nil
	} else {
		hooks.add("redis", func(context.Context) error { return redisClient.Close() })
	}

	mongoClient, err := archive.NewMongoClient(ctx, configuration.C.Database.Mongo.URI)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - dataset archive disabled")
		mongoClient = nil
	} else {
		hooks.add("mongo", mongoClient.Disconnect)
	}

	var publishers []repository.ISyncPublisher
	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without PubSub events")
	} else {
		pub := pubsub.NewSyncPublisher(pubSubClient, configuration.C.Pubsub.Topic)
		publishers = append(publishers, pub)
		hooks.add("pubsub", func(context.Context) error {
			pub.(*pubsub.SyncPublisher).Stop()
			return pubSubClient.Close()
		})
	}

	azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus events")
	} else {
		sender := servicebus.NewSyncPublisher(azServiceBusClient, configuration.C.ServiceBus.Queue)
		publishers = append(publishers, sender)
		hooks.add("servicebus", func(ctx context.Context) error {
			sender.(*servicebus.SyncPublisher).Close(ctx)
			return azServiceBusClient.Close(ctx)
		})
	}

	hub := realtime.NewSyncHub()

	var healthDB httpHandler.Pinger
	var competitorHandler httpHandler.ICompetitorHandler
	var competitorUC *usecase.CompetitorUsecase
	if psqlDb != nil {
		healthDB = psqlDb
		competitorUC = newCompetitorUsecase(psqlDb, redisClient, mongoClient, publishers, hub)
		competitorHandler = httpHandler.NewCompetitorHandler(competitorUC)
	}

	var inviteHandler httpHandler.IInviteHandler
	if idCfg := configuration.C.Identity; idCfg.URL != "" && idCfg.ServiceKey != "" {
		idClient := identity.NewClient(idCfg.URL, idCfg.ServiceKey, 15*time.Second)
		inviteHandler = httpHandler.NewInviteHandler(usecase.NewInviteUsecase(idClient))
	} else {
		logger.GetLogger().Info("Identity provider not configured - invite endpoint disabled")
	}

	if spec := configuration.C.Scheduler.RefreshCron; spec != "" && competitorUC != nil {
		refresh, err := scheduler.New(spec, competitorUC, 0)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Invalid refresh schedule - periodic refresh disabled")
		} else {
			refresh.Start()
			hooks.add("scheduler", func(ctx context.Context) error { refresh.Stop(ctx); return nil })
		}
	}

	router := server.InitiateRouter(
		server.RouterConfig{
			AllowOrigins: app.AllowOrigins,
			SecretKey:    app.SecretKey,
			InviteSecret: configuration.C.Identity.InviteSecret,
		},
		httpHandler.NewHealthHandler(healthDB),
		competitorHandler,
		inviteHandler,
		hub.Serve,
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.Port),
		Handler: router,
		// WriteTimeout stays unset for SSE streams and long scraper syncs.
		ReadHeaderTimeout: 10 * time.Second,
	}
	hooks.add("http", httpServer.Shutdown)
	logger.GetLogger().WithField("port", app.Port).Info("Starting application")
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	hooks.run(shutdownCtx)

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		shutdownCancel()
		os.Exit(2)
	}
}

func newCompetitorUsecase(
	db *sql.DB,
	redisClient *redis.Client,
	mongoClient *mongo.Client,
	publishers []repository.ISyncPublisher,
	hub *realtime.Hub,
) *usecase.CompetitorUsecase {
	sc := configuration.C.Scraper
	if sc.Token == "" {
		logger.GetLogger().Warn("SCRAPER_TOKEN is not set - scraper calls will be rejected")
	}
	scraper := apify.NewClient(apify.Config{
		BaseURL:        sc.BaseURL,
		Token:          sc.Token,
		RequestTimeout: time.Duration(sc.RequestTimeoutSeconds) * time.Second,
		WaitForFinish:  time.Duration(sc.WaitForFinishSeconds) * time.Second,
		PollInterval:   time.Duration(sc.PollIntervalMillis) * time.Millisecond,
	})

	runs := usecase.NewRunAcquirer(scraper)
	if redisClient != nil {
		runs = runs.WithCache(cache.NewRunCache(redisClient), time.Duration(sc.RunCacheTTLSeconds)*time.Second)
	}

	uc := usecase.NewCompetitorUsecase(
		persistence.NewCompetitorRepository(db),
		persistence.NewCompetitorPostRepository(db),
		scraper,
		runs,
		usecase.ScraperSettings{ProfileActorID: sc.ProfileActorID, PostsActorID: sc.PostsActorID, PostsLimit: sc.PostsLimit},
	).WithPublishers(publishers...).WithBroadcaster(hub.BroadcastSyncEvent)
	if mongoClient != nil {
		uc = uc.WithArchive(archive.NewDatasetArchive(mongoClient, configuration.C.Database.Mongo.Name))
	}
	return uc
}

package main

import (
	"context"
	"go-ticket-dispatch/config"
	"go-ticket-dispatch/internal/announcer"
	"go-ticket-dispatch/internal/broadcast"
	"go-ticket-dispatch/internal/cache"
	"go-ticket-dispatch/internal/database"
	"go-ticket-dispatch/internal/handler"
	"go-ticket-dispatch/internal/queue"
	"go-ticket-dispatch/internal/repository"
	"go-ticket-dispatch/internal/service"
	"go-ticket-dispatch/internal/worker"
	"log"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	// repositories
	ticketRepo := repository.NewTicketRepository(pool)
	sequenceRepo := repository.NewSequenceRepository()
	counterRepo := repository.NewCounterRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	// event transport: redis(跨進程) 或 memory(單機)
	var eventQueue queue.EventQueue
	var announceQuota cache.AnnounceQuota

	if cfg.Queue.Driver == "redis" {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to initialize redis: %v", err)
		}
		defer rdb.Close()

		eventQueue, err = queue.NewRedisStreamEventQueue(rdb, "", nil)
		if err != nil {
			log.Fatalf("Failed to initialize event queue: %v", err)
		}
		announceQuota = cache.NewRedisAnnounceQuota(rdb, cfg.Announce.MaxCalls)
	} else {
		eventQueue = queue.NewEventQueue(cfg.Queue.BufferSize)
		announceQuota = cache.NewMemoryAnnounceQuota(cfg.Announce.MaxCalls)
	}

	// services
	dispatcherService := service.NewDispatcherService(pool, ticketRepo, sequenceRepo, counterRepo, settingsRepo, eventQueue)
	counterService := service.NewCounterService(counterRepo, eventQueue)

	// fan-out
	hub := broadcast.NewHub()
	callAnnouncer := announcer.NewAnnouncer(announceQuota, &announcer.ZapRenderer{}, cfg.Announce.Spacing)
	defer callAnnouncer.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventWorker := worker.NewEventWorker(eventQueue, hub, callAnnouncer)
	if err := eventWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start event worker: %v", err)
	}

	router := gin.Default()
	router.Use(handler.Identity())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewTicketHandler(dispatcherService).RegisterRoutes(router)
	handler.NewDispatchHandler(dispatcherService).RegisterRoutes(router)
	handler.NewCounterHandler(counterService, dispatcherService).RegisterRoutes(router)
	handler.NewEventHandler(hub, nil, cfg.Announce.Heartbeat).RegisterRoutes(router)

	if err := router.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

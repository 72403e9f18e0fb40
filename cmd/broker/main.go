package main

import (
	"context"
	"errors"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/piresc/nebengjek/internal/pkg/config"
	"github.com/piresc/nebengjek/internal/pkg/database"
	"github.com/piresc/nebengjek/internal/pkg/health"
	"github.com/piresc/nebengjek/internal/pkg/logger"
	"github.com/piresc/nebengjek/internal/pkg/middleware"
	natspkg "github.com/piresc/nebengjek/internal/pkg/nats"
	nrpkg "github.com/piresc/nebengjek/internal/pkg/newrelic"
	"github.com/piresc/nebengjek/internal/pkg/server"
	"github.com/piresc/nebengjek/services/broker"
	"github.com/piresc/nebengjek/services/broker/gateway"
	"github.com/piresc/nebengjek/services/broker/handler"
	natsHandler "github.com/piresc/nebengjek/services/broker/handler/nats"
	"github.com/piresc/nebengjek/services/broker/usecase"
)

func main() {
	appName := "connection-broker"
	configPath := "config/broker.env"
	configs := config.InitConfig(configPath)
	if configs.App.Name == "" {
		configs.App.Name = appName
	}

	nrApp := nrpkg.InitNewRelic(configs.NewRelic)

	zapLogger, err := logger.NewZapLogger(appName, configs.Logger, nrApp)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.SetGlobalLogger(zapLogger)

	shutdown := server.NewShutdownManager(zapLogger)
	checkers := map[string]health.Checker{}
	var sinks []broker.EventSink

	// Redis keeps driver presence for other services; optional
	var redisClient *database.RedisClient
	var presence *gateway.RedisPresence
	if configs.Redis.Host != "" {
		redisClient, err = database.NewRedisClient(configs.Redis)
		if err != nil {
			zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		presence = gateway.NewRedisPresence(redisClient, configs.Broker.PresenceTTL)
		if err := presence.Reset(context.Background()); err != nil {
			zapLogger.Warn("Failed to clear previous driver presence", logger.Err(err))
		}
		sinks = append(sinks, presence)
		checkers["redis"] = health.CheckerFunc(redisClient.Ping)
	} else {
		zapLogger.Info("Redis disabled, driver presence is not exported")
	}

	// NATS carries ride events in and driver events out; optional
	var natsClient *natspkg.Client
	if configs.NATS.URL != "" {
		natsClient, err = natspkg.NewClient(configs.NATS.URL, appName)
		if err != nil {
			zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
		}
		sinks = append(sinks, gateway.NewNATSPublisher(natsClient))
		checkers["nats"] = health.CheckerFunc(func(context.Context) error {
			if !natsClient.IsConnected() {
				return errors.New("nats not connected")
			}
			return nil
		})
	} else {
		zapLogger.Info("NATS disabled, ride events arrive over HTTP only")
	}

	var sink broker.EventSink
	var asyncSink *gateway.AsyncSink
	if len(sinks) > 0 {
		asyncSink = gateway.NewAsyncSink(configs.Broker.SinkQueueSize, sinks...)
		asyncSink.Start()
		sink = asyncSink
	}

	hub := usecase.NewHub(configs.Broker, sink)
	hub.Start()

	var consumers *natsHandler.NatsHandler
	if natsClient != nil {
		consumers = natsHandler.NewNatsHandler(hub, natsClient)
		if err := consumers.InitNATSConsumers(); err != nil {
			zapLogger.Fatal("Failed to initialize NATS consumers", logger.Err(err))
		}
	}

	// Components stop in registration order: stop intake, drain the loop, flush exports, then close clients
	if consumers != nil {
		shutdown.Register("nats-consumers", func(context.Context) error {
			consumers.Close()
			return nil
		})
	}
	shutdown.Register("broker-hub", hub.Shutdown)
	if asyncSink != nil {
		shutdown.Register("event-sink", asyncSink.Shutdown)
	}
	if natsClient != nil {
		shutdown.Register("nats", func(context.Context) error {
			natsClient.Close()
			return nil
		})
	}
	if presence != nil {
		shutdown.Register("redis-presence", presence.Reset)
	}
	if redisClient != nil {
		shutdown.Register("redis", func(context.Context) error {
			return redisClient.Close()
		})
	}
	shutdown.Register("logger", func(context.Context) error {
		return zapLogger.Close()
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(nrpkg.Middleware(nrApp))
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName, checkers)

	var limiterClient *redis.Client
	if redisClient != nil {
		limiterClient = redisClient.Client
	}
	handler.NewHandler(hub, configs).RegisterRoutes(e, limiterClient)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server, shutdown)
	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server stopped with error", logger.Err(err))
	}
}

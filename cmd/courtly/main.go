package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"courtly/internal/infra/broker/amqp"
	"courtly/internal/infra/broker/kafka"
	"courtly/internal/infra/cache/redis"
	"courtly/internal/infra/config"
	mongodb "courtly/internal/infra/db/mongo"
	ginserver "courtly/internal/infra/http/gin"
	"courtly/internal/infra/notify"
	"courtly/internal/infra/obs"
	infraoutbox "courtly/internal/infra/outbox"
	"courtly/internal/infra/security"
	"courtly/internal/infra/storage/memory"
	"courtly/internal/infra/storage/s3"
	"courtly/internal/infra/wiring"
)

const (
	serviceName   = "courtly"
	maxImageBytes = 5 << 20
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracingConfig{
		Enabled:     cfg.OTelEnabled,
		Endpoint:    cfg.OTelEndpoint,
		ServiceName: serviceName,
		Env:         cfg.Env,
	})
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}

	rt, err := buildResources(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	app, err := wiring.Build(rt.deps)
	if err != nil {
		logger.Error("wiring failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger, Tracer: otel.Tracer(serviceName + "/http")}, obs.HealthHandlers{
		Checks: rt.checks,
	}, app.Handlers)

	if rt.worker != nil {
		go func() {
			if err := rt.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		rt.close(shutdownCtx, logger)
		if shutdownTracer != nil {
			if err := shutdownTracer(shutdownCtx); err != nil {
				logger.Warn("tracer shutdown failed", "error", err)
			}
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode, "broker", cfg.Broker)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	<-stopped
	logger.Info("HTTP server stopped")
}

type resources struct {
	deps    wiring.Deps
	checks  map[string]obs.Check
	worker  *infraoutbox.Worker
	closers []func(context.Context) error
}

// close runs closers in reverse order of registration.
func (r *resources) close(ctx context.Context, logger *slog.Logger) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			logger.Warn("shutdown step failed", "error", err)
		}
	}
}

func buildResources(ctx context.Context, cfg config.Config, logger *slog.Logger) (*resources, error) {
	rt := &resources{checks: map[string]obs.Check{}}

	producer, closeProducer, err := newProducer(cfg, logger)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func(context.Context) error { return closeProducer() })

	tokens, err := security.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	rt.deps = wiring.Deps{
		Logger:        logger,
		Passwords:     security.BcryptHasher{},
		Tokens:        tokens,
		Tracer:        otel.Tracer(serviceName + "/app"),
		MaxImageBytes: maxImageBytes,
	}

	switch cfg.StorageMode {
	case config.StorageMongo:
		if err := useMongo(ctx, rt, cfg, logger, producer); err != nil {
			return nil, err
		}
	default:
		dispatcher := &notify.Dispatcher{
			Producer:    producer,
			Logger:      logger,
			Timeout:     cfg.NotifyTimeout,
			TopicPrefix: cfg.KafkaTopicPrefix,
		}
		box := memory.NewOutbox(dispatcher)
		store := memory.NewStore(box)
		rt.deps.UoW = store
		rt.deps.Reports = store.Reporting()
		rt.deps.Outbox = box
		rt.deps.Idempotency = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
		rt.closers = append(rt.closers, dispatcher.Wait)
		logger.Warn("using in-memory storage; data is lost on restart")
	}

	images, err := s3.NewImageStore(s3.Config{
		Endpoint:       cfg.S3Endpoint,
		PublicEndpoint: cfg.S3PublicEndpoint,
		AccessKey:      cfg.S3AccessKey,
		SecretKey:      cfg.S3SecretKey,
		Bucket:         cfg.S3Bucket,
		UseSSL:         cfg.S3UseSSL,
	}, logger)
	switch {
	case errors.Is(err, s3.ErrNotConfigured):
		logger.Info("image uploads disabled")
		rt.deps.Images = s3.Disabled{}
	case err != nil:
		return nil, err
	default:
		rt.deps.Images = images
	}

	client := redis.NewClient(ctx, redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if client != nil {
		rt.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		rt.closers = append(rt.closers, func(context.Context) error { return client.Close() })
	} else if cfg.RedisAddr != "" {
		logger.Warn("redis unreachable; responses are not cached", "addr", cfg.RedisAddr)
	}
	cache := &redis.ResponseCache{Client: client, TTL: cfg.CacheTTL, Prefix: serviceName, Logger: logger}
	rt.deps.Cache = cache.Middleware()

	return rt, nil
}

// useMongo stores events in the outbox collection inside each transaction and
// relays them from a polling worker.
func useMongo(ctx context.Context, rt *resources, cfg config.Config, logger *slog.Logger, producer infraoutbox.Producer) error {
	client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	rt.closers = append(rt.closers, client.Close)
	if err := client.EnsureIndexes(ctx); err != nil {
		return err
	}
	box, err := infraoutbox.NewStore(ctx, client.DB)
	if err != nil {
		return err
	}
	idem, err := mongodb.NewIdempotencyStore(ctx, client.DB, cfg.IdempotencyTTL)
	if err != nil {
		return err
	}
	rt.deps.UoW = mongodb.NewFactory(client.DB, box)
	rt.deps.Reports = mongodb.NewReportingRepository(client.DB)
	rt.deps.Outbox = box
	rt.deps.Idempotency = idem
	rt.checks["mongo"] = client.Ping

	host, _ := os.Hostname()
	rt.worker = &infraoutbox.Worker{
		Store:       box,
		Producer:    producer,
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		ID:          host,
		Backoff:     cfg.RetryBackoff,
	}
	return nil
}

func newProducer(cfg config.Config, logger *slog.Logger) (infraoutbox.Producer, func() error, error) {
	switch cfg.Broker {
	case config.BrokerKafka:
		p, err := kafka.NewProducer(cfg.KafkaBrokers, serviceName)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	case config.BrokerAMQP:
		p, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return notify.LogProducer{Logger: logger}, func() error { return nil }, nil
	}
}

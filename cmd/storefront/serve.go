package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	_ "github.com/tair/pickup-store/docs"
	"github.com/tair/pickup-store/internal/config"
	order "github.com/tair/pickup-store/internal/order/domain"
	"github.com/tair/pickup-store/internal/storefront"
	"github.com/tair/pickup-store/kafka"
	"github.com/tair/pickup-store/pkg/auth"
	"github.com/tair/pickup-store/pkg/cache"
	"github.com/tair/pickup-store/pkg/database"
	"github.com/tair/pickup-store/pkg/logger"
	"github.com/tair/pickup-store/pkg/middleware"
	"github.com/tair/pickup-store/pkg/tracing"
)

var serveFlags struct {
	port       string
	kafkaAudit bool
	noSeed     bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cmd.Flags().Changed("port") {
			cfg.HTTPPort = serveFlags.port
		}
		if cmd.Flags().Changed("kafka-audit") {
			cfg.KafkaAudit = serveFlags.kafkaAudit
		}
		if serveFlags.noSeed {
			cfg.SeedOnStart = false
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.port, "port", "p", "8080", "HTTP port (overrides HTTP_PORT)")
	serveCmd.Flags().BoolVar(&serveFlags.kafkaAudit, "kafka-audit", false, "log every order event read back from Kafka")
	serveCmd.Flags().BoolVar(&serveFlags.noSeed, "no-seed", false, "skip seeding empty tables")
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("Starting storefront")

	if cfg.Tracing {
		tp, err := tracing.InitTracer(cfg.ServiceName, cfg.Version, cfg.JaegerURL)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Tracing disabled")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
					logger.Logger.Error().Err(err).Msg("Failed to flush traces")
				}
			}()
		}
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := storefront.Migrate(db); err != nil {
		return err
	}
	if cfg.SeedOnStart {
		if err := storefront.Seed(ctx, db); err != nil {
			return err
		}
	}
	logger.Logger.Info().Str("driver", cfg.Database.Driver).Msg("Database initialized successfully")

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		logger.Logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("Response cache enabled")
	}
	responseCache := cache.NewResponseCache(redisClient, "storefront:catalog", cfg.CacheTTL)

	var publisher order.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Order events disabled")
		} else {
			defer pub.Close()
			publisher = pub
		}

		if cfg.KafkaAudit {
			consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ServiceName+"-audit", []string{cfg.KafkaTopic})
			if err != nil {
				logger.Logger.Warn().Err(err).Msg("Order audit disabled")
			} else {
				defer consumer.Close()
				consumer.RegisterAudit()
				if err := consumer.Start(ctx); err != nil {
					return err
				}
			}
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api, err := storefront.InitializeAPI(db, responseCache, publisher, auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL), registry)
	if err != nil {
		return err
	}

	httpCfg := middleware.DefaultConfig(cfg.ServiceName)
	httpCfg.RateLimiter = middleware.NewRateLimiter(redisClient, "storefront", cfg.RateLimit, time.Minute)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Handler(httpCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("docs_endpoint", "/swagger/").
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

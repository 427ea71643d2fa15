package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"resumeflow/ingest-gateway/config"
	"resumeflow/ingest-gateway/handlers"
	"resumeflow/ingest-gateway/internal/applier"
	"resumeflow/ingest-gateway/internal/healthcheck"
	"resumeflow/ingest-gateway/internal/locator"
	"resumeflow/ingest-gateway/internal/sns"
	"resumeflow/ingest-gateway/internal/store"
	"resumeflow/ingest-gateway/internal/store/sqlstore"
	"resumeflow/ingest-gateway/internal/store/supabase"
)

const shutdownTimeout = 10 * time.Second

// @title Resume ingest gateway
// @version 1.0
// @description Receives resume processing results published to SNS.
// @BasePath /
func main() {
	confPath := flag.String("conf", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := config.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Ingest gateway stopped with error")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx := context.Background()

	jobs, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer jobs.Close()

	certCache, closeCache, err := openCertCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	httpClient := &http.Client{Timeout: cfg.SNS.CertTimeout + cfg.SNS.ConfirmTimeout}
	fetcher := sns.NewCertFetcher(httpClient, cfg.SNS.CertTimeout, certCache, sns.BreakerSettings{
		MaxRequests: cfg.SNS.Breaker.MaxRequests,
		Interval:    cfg.SNS.Breaker.Interval,
		Timeout:     cfg.SNS.Breaker.Timeout,
		MinRequests: cfg.SNS.Breaker.MinRequests,
		FailureRate: cfg.SNS.Breaker.FailureRate,
	}, log)

	h := handlers.NewApplicationHandler(
		handlers.WebhookSettings{
			TopicArn:                 cfg.SNS.TopicArn,
			ResubscribeOnUnsubscribe: cfg.SNS.ResubscribeOnUnsubscribe,
		},
		sns.NewVerifier(fetcher),
		sns.NewConfirmer(httpClient, cfg.SNS.ConfirmTimeout),
		locator.New(locator.KeyLayout{
			Prefixes:       cfg.Keys.Prefixes,
			AnonymousToken: cfg.Keys.AnonymousToken,
		}, jobs),
		applier.New(jobs),
		jobs,
		log,
	)

	app := handlers.NewApp(h, handlers.AppConfig{
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		CORSOrigins:  cfg.Server.CORSOrigins,
	})

	health := healthcheck.New(log)
	grpcLis, err := net.Listen("tcp", cfg.Server.GRPCAddr())
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := health.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc health: %w", err)
		}
	}()
	go func() {
		log.WithField("addr", cfg.Server.Addr()).Info("Starting ingest gateway")
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()
	health.SetServing(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Shutting down ingest gateway...")
	case runErr = <-errCh:
	}

	health.SetServing(false)
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Warn("HTTP shutdown did not complete cleanly")
	}
	health.Stop()
	log.Info("Ingest gateway shut down gracefully.")
	return runErr
}

func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case "supabase":
		s, err := supabase.New(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		if err != nil {
			return nil, err
		}
		log.Info("Using Supabase store")
		return s, nil
	default:
		s, err := sqlstore.Open(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("ping %s store: %w", cfg.Store.Driver, err)
		}
		if cfg.Store.AutoMigrate {
			if err := s.Migrate(ctx); err != nil {
				s.Close()
				return nil, err
			}
		}
		log.WithField("driver", cfg.Store.Driver).Info("Using SQL store")
		return s, nil
	}
}

func openCertCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) (sns.CertCache, func(), error) {
	switch cfg.Cache.Driver {
	case "redis":
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			rc.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return sns.NewRedisCache(rc, cfg.SNS.CertCacheTTL, log), func() { rc.Close() }, nil
	case "none":
		return sns.NoCache{}, func() {}, nil
	default:
		return sns.NewMemoryCache(cfg.SNS.CertCacheTTL), func() {}, nil
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrEthical07/tokengate"
	"github.com/MrEthical07/tokengate/internal/config"
	"github.com/MrEthical07/tokengate/internal/server"
	"github.com/MrEthical07/tokengate/metrics/export/prometheus"
	"github.com/MrEthical07/tokengate/store"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tokengate HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if serveAddr != "" {
			cfg.ServerAddr = serveAddr
		}

		closeLog, err := setupLogging(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var rdb redis.UniversalClient
		if cfg.NeedsRedis() {
			rdb = redis.NewUniversalClient(&redis.UniversalOptions{
				Addrs:    []string{cfg.Redis.Addr},
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer rdb.Close()

			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := rdb.Ping(pingCtx).Err()
			cancel()
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			log.Printf("tokengate: connected to redis at %s", cfg.Redis.Addr)
		}

		credStore, closeStore, err := openStore(ctx, cfg, rdb)
		if err != nil {
			return err
		}
		defer closeStore()

		builder := tokengate.New().
			WithConfig(cfg.EngineConfig()).
			WithCredentialStore(credStore).
			WithAuditSink(tokengate.NewJSONWriterSink(log.Writer()))
		if rdb != nil {
			builder = builder.WithRedis(rdb)
		}
		engine, err := builder.Build()
		if err != nil {
			return fmt.Errorf("failed to build engine: %w", err)
		}
		defer engine.Close()

		engineCfg := cfg.EngineConfig()
		for _, w := range engineCfg.Lint() {
			log.Printf("tokengate: config [%s] %s: %s", w.Severity, w.Code, w.Message)
		}
		log.Print("tokengate: WARNING request authentication fails open; only routes behind RequireIdentity reject anonymous callers")

		if err := seedUsers(ctx, engine, credStore, cfg.SeedUsers); err != nil {
			return err
		}

		opts := server.RouterOptions{
			Engine:     engine,
			LoginRate:  rate.Limit(cfg.Throttle.RequestsPerSecond),
			LoginBurst: cfg.Throttle.Burst,
		}
		if cfg.Metrics.Enabled {
			opts.MetricsHandler = prometheus.NewPrometheusExporter(engine).Handler()
		}

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      server.NewRouter(opts),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("tokengate: listening on %s", cfg.ServerAddr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			log.Printf("tokengate: shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			log.Printf("tokengate: server stopped")
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "bind address (env: TOKENGATE_SERVER_ADDR)")
}

func setupLogging(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

type credentialWriter interface {
	tokengate.CredentialStore
	Put(ctx context.Context, rec tokengate.CredentialRecord) error
}

func openStore(ctx context.Context, cfg *config.Config, rdb redis.UniversalClient) (credentialWriter, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		return store.NewRedisStore(rdb, cfg.Store.RedisPrefix), func() {}, nil
	case config.StorePostgres:
		pool, err := store.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		pg := store.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Printf("tokengate: connected to database")
		return pg, pool.Close, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

func seedUsers(ctx context.Context, engine *tokengate.Engine, dst credentialWriter, users []config.SeedUser) error {
	for _, u := range users {
		hash, err := engine.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("seed %s: %w", u.Username, err)
		}
		if err := dst.Put(ctx, tokengate.CredentialRecord{
			Username:     u.Username,
			PasswordHash: hash,
			Active:       u.IsActive(),
		}); err != nil {
			return fmt.Errorf("seed %s: %w", u.Username, err)
		}
	}
	if len(users) > 0 {
		log.Printf("tokengate: seeded %d credentials", len(users))
	}
	return nil
}

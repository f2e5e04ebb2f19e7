package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"formledger/internal/admin"
	adminmetrics "formledger/internal/admin/metrics"
	"formledger/internal/approval"
	approvalmetrics "formledger/internal/approval/metrics"
	jwttoken "formledger/internal/jwt_token"
	"formledger/internal/ledger"
	"formledger/internal/platform/config"
	"formledger/internal/platform/httpserver"
	"formledger/internal/platform/logger"
	httptransport "formledger/internal/transport/http"
	"formledger/pkg/platform/audit"
	"formledger/pkg/platform/audit/publisher"
	auditkafka "formledger/pkg/platform/audit/store/kafka"
	auditmem "formledger/pkg/platform/audit/store/memory"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal registry packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	store, cleanup, err := newLedgerStore(ctx, cfg)
	if err != nil {
		log.Error("ledger store setup failed", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	auditStore, auditCleanup, err := newAuditStore(cfg)
	if err != nil {
		log.Error("audit store setup failed", "error", err.Error())
		os.Exit(1)
	}
	defer auditCleanup()

	auditor, err := publisher.New(auditStore, publisher.WithLogger(log))
	if err != nil {
		log.Error("audit publisher setup failed", "error", err.Error())
		os.Exit(1)
	}

	admins, err := admin.New(store,
		admin.WithLogger(log),
		admin.WithAuditPublisher(auditor),
		admin.WithMetrics(adminmetrics.New()),
	)
	if err != nil {
		log.Error("admin registry setup failed", "error", err.Error())
		os.Exit(1)
	}

	approvals, err := approval.New(store, admins,
		approval.WithLogger(log),
		approval.WithAuditPublisher(auditor),
		approval.WithMetrics(approvalmetrics.New()),
	)
	if err != nil {
		log.Error("approval registry setup failed", "error", err.Error())
		os.Exit(1)
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "formledger", "formledger-api")
	handler := httptransport.NewHandler(admins, approvals, jwtService, log)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httptransport.NewRouter(handler))

	srv := httpserver.New(cfg.Addr, mux)

	log.Info("starting formledger", "addr", cfg.Addr, "ledger_backend", cfg.LedgerBackend)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

func newLedgerStore(ctx context.Context, cfg config.Server) (ledger.Store, func(), error) {
	switch cfg.LedgerBackend {
	case "memory":
		return ledger.NewMemoryStore(), func() {}, nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return ledger.NewRedisStore(client), func() { _ = client.Close() }, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("postgres ping failed: %w", err)
		}
		if err := ledger.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return ledger.NewPostgresStore(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}

func newAuditStore(cfg config.Server) (audit.Store, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return auditmem.NewInMemoryStore(), func() {}, nil
	}
	store, err := auditkafka.New(cfg.KafkaBrokers)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// Command server runs the riskgate HTTP API. It wires configuration,
// storage backends, the assessment engine and the audit trail, then hands
// the assembled router to a graceful HTTP server. Business logic lives in
// the internal services packages.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riskgate/internal/assessment"
	assessmenthandler "riskgate/internal/assessment/handler"
	assessmentmetrics "riskgate/internal/assessment/metrics"
	authhandler "riskgate/internal/auth/handler"
	authservice "riskgate/internal/auth/service"
	authstore "riskgate/internal/auth/store"
	"riskgate/internal/auth/store/revocation"
	"riskgate/internal/jwttoken"
	masterdatahandler "riskgate/internal/masterdata/handler"
	masterdataservice "riskgate/internal/masterdata/service"
	masterdatastore "riskgate/internal/masterdata/store"
	"riskgate/internal/platform/config"
	"riskgate/internal/platform/httpserver"
	"riskgate/internal/platform/logger"
	"riskgate/internal/platform/metrics"
	"riskgate/internal/platform/middleware"
	"riskgate/internal/platform/postgres"
	platformredis "riskgate/internal/platform/redis"
	submissionhandler "riskgate/internal/submission/handler"
	submissionservice "riskgate/internal/submission/service"
	submissionstore "riskgate/internal/submission/store"
	httptransport "riskgate/internal/transport/http"
	"riskgate/pkg/platform/audit"
	audithandler "riskgate/pkg/platform/audit/handler"
	auditkafka "riskgate/pkg/platform/audit/kafka"
	auditmemory "riskgate/pkg/platform/audit/store/memory"
	auditpostgres "riskgate/pkg/platform/audit/store/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage. An empty DATABASE_URL selects in-memory stores for local
	// development; production deployments set it.
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres unavailable", "error", err.Error())
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Metrics registry with the default process and Go collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.New(registry)

	// Audit trail: fail-closed publisher over the store, optionally fanned
	// out to Kafka for the downstream compliance pipeline.
	var auditStore audit.Store
	if db != nil {
		auditStore = auditpostgres.New(db)
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	auditOpts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := auditkafka.NewSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err.Error())
			os.Exit(1)
		}
		auditOpts = append(auditOpts, audit.WithSink(sink))
	}
	auditor := audit.NewPublisher(auditStore, auditOpts...)
	defer auditor.Close()

	// Master data and the assessment engine.
	var catalogStore masterdatastore.Store
	if db != nil {
		catalogStore = masterdatastore.NewPostgres(db)
	} else {
		catalogStore = masterdatastore.NewMemory()
	}
	if cfg.SeedMasterData || db == nil {
		if err := masterdatastore.Seed(ctx, catalogStore); err != nil {
			log.Error("seed master data failed", "error", err.Error())
			os.Exit(1)
		}
		log.Info("master data seeded")
	}
	catalogService := masterdataservice.New(catalogStore, auditor, log)

	engine := assessment.NewEngine(catalogService,
		assessment.WithLogger(log),
		assessment.WithMetrics(assessmentmetrics.New(registry)),
	)

	// Accounts and tokens.
	var userStore authstore.Store
	if db != nil {
		userStore = authstore.NewPostgres(db)
	} else {
		userStore = authstore.NewMemory()
	}
	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	var revoker authservice.Revoker
	var revocations middleware.RevocationChecker
	if redisClient != nil {
		redisRevocations := revocation.NewRedis(redisClient.Client)
		revoker = redisRevocations
		revocations = redisRevocations
	} else {
		memRevocations := revocation.NewMemory()
		revoker = memRevocations
		revocations = memRevocations
	}

	authService := authservice.New(userStore, jwtService, revoker, auditor, log, cfg.TokenTTL)

	// Submissions.
	var subStore submissionstore.Store
	if db != nil {
		subStore = submissionstore.NewPostgres(db)
	} else {
		subStore = submissionstore.NewMemory()
	}
	submissionService := submissionservice.New(engine, subStore, auditor, log)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		JWTValidator:   jwtService,
		Revocations:    revocations,
		Auth:           authhandler.New(authService, log),
		Assessments:    assessmenthandler.New(engine, log),
		MasterData:     masterdatahandler.New(catalogService, log),
		Submissions:    submissionhandler.New(submissionService, log),
		AuditTrail:     audithandler.New(auditStore, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr, "postgres", db != nil, "redis", redisClient != nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

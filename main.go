package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"duty-reports/internal/audit"
	"duty-reports/internal/auth"
	"duty-reports/internal/config"
	"duty-reports/internal/observability/metrics"
	reportingapp "duty-reports/internal/reporting/application"
	reporting "duty-reports/internal/reporting/domain"
	"duty-reports/internal/reporting/infrastructure/memory"
	"duty-reports/internal/reporting/infrastructure/natspub"
	reportingpostgres "duty-reports/internal/reporting/infrastructure/postgres"
	"duty-reports/internal/reporting/infrastructure/webhook"
	"duty-reports/internal/reporting/interfaces"
	reportinghttp "duty-reports/internal/reporting/interfaces/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	logger := newLogger(cfg.LogLevel)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
	}
	metrics.Init(db, logger)

	var runs reporting.RunRepository = memory.NewRunRepository()
	var auditLogger audit.Logger = audit.NewLogrusLogger(logger)
	if db != nil {
		runs = reportingpostgres.NewRunRepository(db)
		auditLogger = audit.NewRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set; report runs are kept in memory")
	}

	policy, err := cfg.Report.BreakPolicy()
	if err != nil {
		logger.Fatalf("break policy error: %v", err)
	}
	exporter := interfaces.NewExporter(interfaces.ExportOptions{
		ClockLayout: cfg.Report.ClockLayout,
		PageSize:    cfg.Report.PageSize,
		Orientation: cfg.Report.Orientation,
	})
	opts := []reportingapp.Option{reportingapp.WithLogger(logger)}
	if cfg.NATSURL != "" {
		publisher, err := natspub.Connect(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			logger.Fatalf("nats connect error: %v", err)
		}
		defer publisher.Close()
		opts = append(opts, reportingapp.WithPublisher(publisher))
	}
	if cfg.AlertWebhookURL != "" {
		opts = append(opts, reportingapp.WithFailureNotifier(webhook.NewNotifier(cfg.AlertWebhookURL, cfg.AlertTimeout)))
	}
	reportService, err := reportingapp.NewReportService(
		reporting.NewAssembler(cfg.Report.Title, policy),
		exporter,
		runs,
		opts...,
	)
	if err != nil {
		logger.Fatalf("report service error: %v", err)
	}
	reportHandler, err := reportinghttp.NewHandler(reportService, reportinghttp.Options{
		DefaultFormat: cfg.Report.Format(),
		MaxBodyBytes:  cfg.MaxBodyBytes,
		AuditLogger:   auditLogger,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Report-Run-Id"},
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(func(next http.Handler) http.Handler { return loggingMiddleware(next, logger) })
	if cfg.JWTSecret != "" {
		authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil))
		authMiddleware.Logger = logger
		r.Use(authMiddleware.Wrap)
	} else {
		logger.Warn("AUTH_JWT_SECRET not set; report endpoints are unauthenticated")
	}

	reportHandler.Routes(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("http shutdown")
		}
	}()

	logger.WithField("addr", cfg.HTTPAddr).Info("duty report service listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("http server error: %v", err)
	}
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("unknown log level; using info")
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func loggingMiddleware(next http.Handler, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     resp.status,
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("http")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

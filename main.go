package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"storewatch/internal/audit"
	"storewatch/internal/auth"
	"storewatch/internal/ingest"
	monitoringrepo "storewatch/internal/monitoring/infrastructure/postgres"
	"storewatch/internal/observability/metrics"
	reportapp "storewatch/internal/reports/application"
	reportfs "storewatch/internal/reports/infrastructure/fs"
	reportrepo "storewatch/internal/reports/infrastructure/postgres"
	reporthttp "storewatch/internal/reports/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init(db, logger)
	auditRepo := audit.NewRepository(db)

	observationStore := monitoringrepo.NewObservationStore(db)
	hoursRepo := monitoringrepo.NewBusinessHoursRepository(db)
	timezoneRepo := monitoringrepo.NewStoreTimezoneRepository(db)

	artifactStore, err := reportfs.NewArtifactStore(cfg.StorageRoot)
	if err != nil {
		logger.Fatalf("artifact store error: %v", err)
	}
	reportRepo := reportrepo.NewReportRepository(db)

	builder, err := reportapp.NewBuilder(
		reportRepo,
		artifactStore,
		observationStore,
		timezoneRepo,
		hoursRepo,
		systemClock{},
		logger,
		reportapp.WithStoreLimit(cfg.StoreLimit),
		reportapp.WithDefaultTimezone(cfg.DefaultTimezone),
	)
	if err != nil {
		logger.Fatalf("report builder error: %v", err)
	}

	reportHandler, err := reporthttp.NewHandler(builder, reportRepo, artifactStore, auditRepo, logger)
	if err != nil {
		logger.Fatalf("report handler error: %v", err)
	}

	ingestCfg, err := ingest.LoadConfig()
	if err != nil {
		logger.Fatalf("ingest config error: %v", err)
	}
	if ingestCfg.Enabled {
		loader, err := ingest.NewLoader(ingestCfg, ingest.NewPostgresWriter(db), logger)
		if err != nil {
			logger.Fatalf("ingest loader error: %v", err)
		}
		interval, err := ingestCfg.Interval()
		if err != nil {
			logger.Fatalf("ingest interval error: %v", err)
		}
		scheduler := ingest.NewScheduler(loader, interval, logger)
		go scheduler.Start(context.Background())
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reports/trigger", reportHandler)
	mux.Handle("/api/v1/reports/", reportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL     string
	HTTPAddr        string
	StorageRoot     string
	StoreLimit      int
	DefaultTimezone string
	JWTSecret       string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL:     getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:        getenvDefault("HTTP_ADDR", ":8080"),
		StorageRoot:     getenvDefault("REPORT_STORAGE_ROOT", filepath.FromSlash("var/reports")),
		StoreLimit:      getenvIntDefault("REPORT_STORE_LIMIT", reportapp.DefaultStoreLimit),
		DefaultTimezone: getenvDefault("DEFAULT_TIMEZONE", "America/Chicago"),
		JWTSecret:       getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
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

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

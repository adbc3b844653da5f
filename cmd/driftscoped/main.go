// Command driftscoped is the hosted Driftscope service.
// It accepts manifest uploads and diff requests from CI, stores graphs in
// blob storage, and serves the review API the web UI reads from.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/driftscope/driftscope/internal/api"
	"github.com/driftscope/driftscope/internal/ingestion"
	"github.com/driftscope/driftscope/internal/platform"
	"github.com/driftscope/driftscope/internal/registry"
)

type config struct {
	Port           string
	DatabaseURL    string
	APIKey         string
	UploadSecret   string
	StorageBackend string
	LocalPath      string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	GCSBucket      string
}

func loadConfig() config {
	return config{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseURL:    envOrDefault("DATABASE_URL", "postgres://localhost:5432/driftscope?sslmode=disable"),
		APIKey:         os.Getenv("API_KEY"),
		UploadSecret:   os.Getenv("UPLOAD_SECRET"),
		StorageBackend: envOrDefault("STORAGE_BACKEND", "local"),
		LocalPath:      envOrDefault("LOCAL_STORAGE_PATH", "/tmp/driftscope-data"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       os.Getenv("S3_REGION"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
	}
}

func main() {
	cfg := loadConfig()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if err := platform.AutoMigrate(db); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	storage, err := buildStorage(context.Background(), cfg)
	if err != nil {
		log.Fatalf("configure storage: %v", err)
	}

	registrySvc := registry.NewService(db)
	ingestionSvc := ingestion.NewService(db, registrySvc, storage)

	handler := api.NewHandler(db, registrySvc, ingestionSvc, nil)
	if cfg.UploadSecret != "" {
		handler.SetUploadSecret([]byte(cfg.UploadSecret))
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	// Health checks stay outside the auth wrapper.
	outer := http.NewServeMux()
	outer.Handle("/", api.CORS(api.APIKeyAuth(cfg.APIKey)(mux)))
	outer.HandleFunc("GET /healthz", healthHandler(db))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: outer,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting driftscoped on :%s (storage=%s)", cfg.Port, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func buildStorage(ctx context.Context, cfg config) (ingestion.StorageClient, error) {
	switch cfg.StorageBackend {
	case "s3":
		return ingestion.NewS3Storage(ctx, ingestion.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case "gcs":
		return ingestion.NewGCSStorage(ctx, cfg.GCSBucket)
	default:
		return ingestion.NewLocalStorage(cfg.LocalPath), nil
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

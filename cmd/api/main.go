package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/commstack/letterlens/internal/application"
	appanalysis "github.com/commstack/letterlens/internal/application/analysis"
	apppers "github.com/commstack/letterlens/internal/application/personalization"
	"github.com/commstack/letterlens/internal/config"
	domainanalysis "github.com/commstack/letterlens/internal/domain/analysis"
	domainpers "github.com/commstack/letterlens/internal/domain/personalization"
	"github.com/commstack/letterlens/internal/domain/rules"
	openaicli "github.com/commstack/letterlens/internal/infra/ai/openai"
	"github.com/commstack/letterlens/internal/infra/ai/pattern"
	mysqlp "github.com/commstack/letterlens/internal/infra/db/mysql"
	postgresp "github.com/commstack/letterlens/internal/infra/db/postgres"
	"github.com/commstack/letterlens/internal/infra/httpserver"
	minioStore "github.com/commstack/letterlens/internal/infra/storage"
	"github.com/commstack/letterlens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect DB (mysql default, postgres optional)
	var db *sql.DB
	var analysisRepo domainanalysis.Repository
	var persRepo domainpers.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		analysisRepo = postgresp.NewAnalysisRepository(db)
		persRepo = postgresp.NewPersonalizationRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		analysisRepo = mysqlp.NewAnalysisRepository(db)
		persRepo = mysqlp.NewPersonalizationRepository(db)
	}
	defer db.Close()

	// init minio (optional; export endpoint needs it)
	var artifacts domainanalysis.ArtifactStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		artifacts = store
	}

	// init model client when a credential is present; pattern path otherwise
	var aiClient *openaicli.Client
	if cfg.AIEnabled() {
		aiClient = openaicli.NewClient(cfg.AI.APIKey, cfg.AI.Model)
		log.Printf("ai path enabled model=%s", cfg.AI.Model)
	} else {
		log.Printf("ai path disabled, pattern path only")
	}

	// load business rules (empty path = no rules)
	engine, err := rules.Load(cfg.Rules.Path)
	if err != nil {
		log.Fatalf("rules load error: %v", err)
	}

	clock := application.SystemClock{}

	analysisSvc := &appanalysis.Service{
		Fallback:  pattern.NewAnalyzer(),
		Repo:      analysisRepo,
		Artifacts: artifacts,
		Clock:     clock,
	}
	persSvc := &apppers.Service{
		Offline: pattern.NewPersonalizer(),
		Rules:   engine,
		Repo:    persRepo,
		Clock:   clock,
	}
	if aiClient != nil {
		analysisSvc.AI = aiClient
		persSvc.AI = aiClient
	}

	// init router + middleware chain
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.Keys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.Keys))
	}
	mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	mux.Mount("/", httpserver.NewRouter(analysisSvc, persSvc, db))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"pagelens/internal/config"
	"pagelens/internal/extractor/ollama"
	"pagelens/internal/handler"
	"pagelens/internal/pagesource"
	"pagelens/internal/pipeline"
	"pagelens/internal/port"
	"pagelens/internal/preprocess"
	"pagelens/internal/repository/postgres"
	"pagelens/internal/router"
	"pagelens/internal/storage/local"
	s3storage "pagelens/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Optional run ledger
	var db *sqlx.DB
	var runRepo port.RunRepository
	if cfg.DB.Enabled {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		runRepo = postgres.NewRunRepo(db)
	}

	// Optional S3 mirror
	var mirror *pipeline.Mirror
	if cfg.S3.Bucket != "" {
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		mirror = pipeline.NewMirror(s3Client, cfg.S3.Bucket, cfg.S3.KeyPrefix)
	}

	// Pipeline components
	resizer := preprocess.NewResizer(cfg.Pipeline.CanonicalSize)
	extractor := ollama.NewClient(&cfg.Extractor)
	store := local.NewStore(&cfg.Output)
	expander := pagesource.NewExpander()
	pages := pipeline.NewPagePipeline(resizer, extractor, store)
	orchestrator := pipeline.NewOrchestrator(expander, pages, store, runRepo, mirror)

	// Handlers
	extractH := handler.NewExtractHandler(resizer, extractor)
	documentH := handler.NewDocumentHandler(orchestrator, runRepo,
		cfg.Output.Root, cfg.Pipeline.PageConcurrency, cfg.Pipeline.CreateCombined)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(extractH, documentH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s (model=%s, host=%s)",
		cfg.Server.Port, cfg.Extractor.Model, cfg.Extractor.Host)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

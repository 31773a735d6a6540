// Command pagelens runs document extraction from the command line: one or
// more PDFs or images in, per-page artifacts and combined outputs out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagelens/internal/config"
	"pagelens/internal/extractor/ollama"
	"pagelens/internal/pagesource"
	"pagelens/internal/pipeline"
	"pagelens/internal/port"
	"pagelens/internal/preprocess"
	"pagelens/internal/repository/postgres"
	"pagelens/internal/storage/local"
	s3storage "pagelens/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		outputRoot  = flag.String("output", "", "output root directory (overrides PAGELENS_OUTPUT_ROOT)")
		firstPage   = flag.Int("first-page", 0, "first page to process (1-based)")
		lastPage    = flag.Int("last-page", 0, "last page to process (inclusive)")
		concurrency = flag.Int("concurrency", 0, "pages processed in parallel (overrides config)")
		summaryJSON = flag.Bool("json", false, "print the batch result as JSON")
	)
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: pagelens [flags] <file.pdf|image> [more files...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *outputRoot == "" {
		*outputRoot = cfg.Output.Root
	}
	if *concurrency == 0 {
		*concurrency = cfg.Pipeline.PageConcurrency
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runRepo port.RunRepository
	if cfg.DB.Enabled {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		runRepo = postgres.NewRunRepo(db)
	}

	var mirror *pipeline.Mirror
	if cfg.S3.Bucket != "" {
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		mirror = pipeline.NewMirror(s3Client, cfg.S3.Bucket, cfg.S3.KeyPrefix)
	}

	resizer := preprocess.NewResizer(cfg.Pipeline.CanonicalSize)
	extractor := ollama.NewClient(&cfg.Extractor)
	store := local.NewStore(&cfg.Output)
	expander := pagesource.NewExpander()
	pages := pipeline.NewPagePipeline(resizer, extractor, store)
	orchestrator := pipeline.NewOrchestrator(expander, pages, store, runRepo, mirror)
	batch := pipeline.NewBatch(orchestrator)

	opts := pipeline.Options{
		Range:       pipeline.PageRange{Start: *firstPage, End: *lastPage},
		Concurrency: *concurrency,
		Combined:    cfg.Pipeline.CreateCombined,
	}
	result := batch.ProcessBatch(ctx, inputs, *outputRoot, opts)

	if *summaryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		for i := range result.Documents {
			doc := &result.Documents[i]
			status := "ok"
			if !doc.Success {
				status = "FAILED: " + doc.ErrorMessage
			}
			fmt.Printf("%s: %d/%d pages, %d elements, %s [%s]\n",
				doc.InputFile, doc.SuccessfulPages(), doc.PageCount,
				doc.TotalElements(), doc.TotalTime.Round(10*time.Millisecond), status)
		}
	}

	if failed := result.FailedDocuments(); len(failed) > 0 {
		return fmt.Errorf("%d of %d documents failed", len(failed), len(inputs))
	}
	return nil
}

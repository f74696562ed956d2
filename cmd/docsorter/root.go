package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docsorter/docsorter/internal/analysis"
	"github.com/docsorter/docsorter/internal/common"
	"github.com/docsorter/docsorter/internal/extract"
	"github.com/docsorter/docsorter/internal/filing"
	"github.com/docsorter/docsorter/internal/ingest"
	"github.com/docsorter/docsorter/internal/pipeline"
	"github.com/docsorter/docsorter/internal/recognizer"
	"github.com/docsorter/docsorter/internal/repository"
	"github.com/docsorter/docsorter/internal/vision"
)

var rootCmd = &cobra.Command{
	Use:   "docsorter",
	Short: "Sort scanned business documents into vendor/type folders",
	Long: `docsorter ingests scanned business documents (packing slips, purchase
orders, order confirmations, invoices, card receipts), recognizes their
text, extracts the filing fields (vendor, type, date, PO number, part
number, description), and files confirmed documents into
<root>/<Vendor>/<DocType>/ with a canonical filename.`,
	Version: appVersion,
}

// app bundles everything a subcommand needs.
type app struct {
	cfg    *common.Config
	db     *sql.DB
	docs   repository.DocumentRepository
	audit  repository.AuditRepository
	ing    *ingest.FSIngestor
	proc   *pipeline.Processor
	filer  *filing.Filer
	logger *slog.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := slog.Default()

	db, err := repository.Open(ctx, repository.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	}, logger)
	if err != nil {
		return nil, common.WrapError(err, "open database")
	}
	if err := repository.HealthCheck(ctx, db, cfg.Database.BusyTimeout, logger); err != nil {
		repository.Close(db, logger)
		return nil, common.WrapError(err, "database health")
	}

	docs := repository.NewDocumentRepository(db, logger)
	audit := repository.NewAuditRepository(db, logger)

	rec := recognizer.New(recognizer.Config{
		Pdftotext:     cfg.Recognizer.Pdftotext,
		Pdftoppm:      cfg.Recognizer.Pdftoppm,
		Tesseract:     cfg.Recognizer.Tesseract,
		TesseractLang: cfg.Recognizer.TesseractLang,
		DPI:           cfg.Recognizer.DPI,
		MaxPages:      cfg.Recognizer.MaxPages,
	}, logger)

	var extractor extract.FieldExtractor
	switch cfg.Extractor {
	case common.ExtractorVision:
		extractor = vision.NewClient(vision.Config{
			APIKey:      cfg.Vision.APIKey,
			BaseURL:     cfg.Vision.BaseURL,
			Model:       cfg.Vision.Model,
			Temperature: cfg.Vision.Temperature,
			Timeout:     cfg.Vision.Timeout,
			MaxRetries:  cfg.Vision.MaxRetries,
		}, logger)
	default:
		extractor = extract.NewHeuristicExtractor(analysis.New())
	}

	return &app{
		cfg:    cfg,
		db:     db,
		docs:   docs,
		audit:  audit,
		ing:    ingest.NewFSIngestor(docs, audit, cfg.Filing.StagingDir, logger),
		proc:   pipeline.NewProcessor(rec, extractor, docs, audit, logger),
		filer:  filing.NewFiler(cfg.Filing.Root, docs, audit, logger),
		logger: logger,
	}, nil
}

func (a *app) close() {
	repository.Close(a.db, a.logger)
}

func init() {
	rootCmd.SetErrPrefix("docsorter:")
	rootCmd.SilenceUsage = true
}

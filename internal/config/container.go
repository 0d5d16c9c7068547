package config

import (
	"docid-ocr-corrector/internal/correction"
	"docid-ocr-corrector/internal/domain"
	"docid-ocr-corrector/internal/repository"
	"docid-ocr-corrector/internal/service"
	apperrors "docid-ocr-corrector/pkg/errors"
	"docid-ocr-corrector/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	Engine            *correction.Engine
	ReportRepository  domain.ReportRepository
	TextExtractor     domain.TextLayerExtractor
	CorrectionService *service.CorrectionService
	PDFService        *service.PDFService
}

// NewContainer creates a new dependency injection container from the environment
func NewContainer() (*Container, error) {
	cfg := NewConfig()
	return NewContainerWithConfig(cfg, logger.NewLogger(cfg.GetLogLevel()))
}

// NewContainerWithConfig wires the application around an explicit config and
// logger. Reports go to Supabase when it is configured and to memory otherwise.
func NewContainerWithConfig(cfg domain.Config, appLogger domain.Logger) (*Container, error) {
	rules, grammar, err := correction.LoadTables(cfg.GetRulesFile(), cfg.GetGrammarFile())
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load correction tables", err)
	}
	engine, err := correction.NewEngine(rules, grammar)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid correction tables", err)
	}

	var reports domain.ReportRepository
	if cfg.GetSupabaseURL() != "" && cfg.GetSupabaseKey() != "" {
		supabaseClient := repository.NewSupabaseClient(cfg, appLogger)
		if err := supabaseClient.Initialize(); err != nil {
			return nil, apperrors.NewNetworkError("failed to initialize Supabase", err)
		}
		reports = repository.NewSupabaseReportRepository(supabaseClient, cfg.GetReportsTable(), appLogger)
	} else {
		appLogger.Warn("Supabase not configured; correction reports are kept in memory")
		reports = repository.NewMemoryReportRepository()
	}

	extractor := service.NewFitzTextExtractor(cfg.GetMaxFileSize(), appLogger)
	corrections := service.NewCorrectionService(engine, reports, appLogger, cfg.GetPageConcurrency())
	pdfs := service.NewPDFService(extractor, corrections, appLogger)

	appLogger.Info("Correction engine ready",
		"rules", len(engine.Rules()),
		"segments", len(engine.Grammar().Segments),
		"page_concurrency", cfg.GetPageConcurrency(),
	)

	return &Container{
		Config:            cfg,
		Logger:            appLogger,
		Engine:            engine,
		ReportRepository:  reports,
		TextExtractor:     extractor,
		CorrectionService: corrections,
		PDFService:        pdfs,
	}, nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docid-ocr-corrector/internal/correction"
	"docid-ocr-corrector/internal/domain"
)

// DefaultPageConcurrency bounds page fan-out when none is configured
const DefaultPageConcurrency = 4

// CorrectionService runs the correction engine over pages and documents
type CorrectionService struct {
	engine      *correction.Engine
	repo        domain.ReportRepository
	logger      domain.Logger
	concurrency int
	now         func() time.Time
}

// NewCorrectionService creates a new correction service. repo may be nil, in
// which case reports are not kept.
func NewCorrectionService(
	engine *correction.Engine,
	repo domain.ReportRepository,
	logger domain.Logger,
	concurrency int,
) *CorrectionService {
	if concurrency < 1 {
		concurrency = DefaultPageConcurrency
	}
	return &CorrectionService{
		engine:      engine,
		repo:        repo,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// CorrectPage corrects the text of a single page
func (s *CorrectionService) CorrectPage(ctx context.Context, page int, text string) (*domain.PageCorrection, error) {
	if page < 1 {
		return nil, &domain.ValidationError{Field: "page", Message: "page must be at least 1"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := s.engine.Correct(text)
	s.logger.Debug("Page corrected",
		"page", page,
		"fixes", res.Summary.TotalFixes,
		"ids", res.Summary.IDsRecognized,
	)
	return &domain.PageCorrection{Page: page, Result: res}, nil
}

// CorrectDocument corrects every page independently and stores the report.
// Pages come back in input order whatever order they finish in.
func (s *CorrectionService) CorrectDocument(ctx context.Context, req domain.DocumentRequest) (*domain.DocumentCorrection, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := s.now()
	pages := make([]domain.PageCorrection, len(req.Pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, text := range req.Pages {
		g.Go(func() error {
			pc, err := s.CorrectPage(gctx, i+1, text)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i] = *pc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := &domain.DocumentCorrection{
		ReportID:  uuid.NewString(),
		Name:      req.Name,
		Pages:     pages,
		CreatedAt: s.now().UTC(),
	}
	doc.Summarize()

	s.logger.Info("Document corrected",
		"report_id", doc.ReportID,
		"name", doc.Name,
		"pages", doc.Totals.Pages,
		"fixes", doc.Totals.Fixes,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)

	if s.repo != nil {
		if err := s.repo.Save(doc); err != nil {
			s.logger.Error("Failed to save correction report", err, "report_id", doc.ReportID)
		}
	}

	return doc, nil
}

// GetReport returns a stored report
func (s *CorrectionService) GetReport(reportID string) (*domain.DocumentCorrection, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, &domain.ValidationError{Field: "id", Message: "report id must be a UUID"}
	}
	if s.repo == nil {
		return nil, domain.ErrReportNotFound
	}
	return s.repo.Get(reportID)
}

// Rules returns the literal rule table in application order
func (s *CorrectionService) Rules() []correction.Rule {
	return s.engine.Rules()
}

// Grammar returns the document-ID grammar
func (s *CorrectionService) Grammar() correction.Grammar {
	return s.engine.Grammar()
}

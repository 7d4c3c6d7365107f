package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdf-blob-analyzer/internal/domain"
	"pdf-blob-analyzer/internal/infra/docintel"
	apperrors "pdf-blob-analyzer/pkg/errors"

	"golang.org/x/time/rate"
)

// AnalysisOptions tunes how documents are submitted and awaited
type AnalysisOptions struct {
	ModelID      string
	Timeout      time.Duration
	PollInterval time.Duration
	MaxFileSize  int64
}

// DefaultAnalysisOptions returns the options used when none are configured
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		ModelID:      domain.ModelPrebuiltLayout,
		Timeout:      5 * time.Minute,
		PollInterval: time.Second,
		MaxFileSize:  50 * 1024 * 1024,
	}
}

func (o AnalysisOptions) withDefaults() AnalysisOptions {
	d := DefaultAnalysisOptions()
	if o.ModelID == "" {
		o.ModelID = d.ModelID
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	return o
}

// AnalysisService submits documents to the analysis service and turns the
// results into page chunks. One instance is shared by all invocations.
type AnalysisService struct {
	client domain.DocumentAnalysisClient
	opts   AnalysisOptions
	logger domain.Logger
}

// NewAnalysisService validates the credentials and builds the long-lived
// Document Intelligence client. Nothing is sent over the network here.
func NewAnalysisService(endpoint, apiKey string, opts AnalysisOptions, logger domain.Logger) (*AnalysisService, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, apperrors.NewConfigurationError("document intelligence endpoint cannot be empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperrors.NewConfigurationError("document intelligence API key cannot be empty")
	}

	client := docintel.NewClient(strings.TrimSpace(endpoint), strings.TrimSpace(apiKey))
	return NewAnalysisServiceWithClient(client, opts, logger), nil
}

// NewAnalysisServiceWithClient creates the service on top of an existing client
func NewAnalysisServiceWithClient(client domain.DocumentAnalysisClient, opts AnalysisOptions, logger domain.Logger) *AnalysisService {
	return &AnalysisService{
		client: client,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// AnalyzeBytes analyzes a document delivered as raw bytes
func (s *AnalysisService) AnalyzeBytes(ctx context.Context, content []byte) ([]domain.PageChunk, error) {
	if len(content) == 0 {
		return nil, apperrors.NewValidationError("document content cannot be empty")
	}
	if s.opts.MaxFileSize > 0 && int64(len(content)) > s.opts.MaxFileSize {
		return nil, apperrors.NewValidationError("document exceeds the maximum size",
			fmt.Sprintf("%d bytes > %d bytes", len(content), s.opts.MaxFileSize))
	}
	return s.analyze(ctx, domain.AnalyzeSource{Bytes: content})
}

// AnalyzeURL analyzes a document the service downloads from url
func (s *AnalysisService) AnalyzeURL(ctx context.Context, url string) ([]domain.PageChunk, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperrors.NewValidationError("document URL cannot be empty")
	}
	return s.analyze(ctx, domain.AnalyzeSource{URL: url})
}

func (s *AnalysisService) analyze(ctx context.Context, source domain.AnalyzeSource) ([]domain.PageChunk, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	started := time.Now()
	result, err := s.analyzeAndWait(ctx, source)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("analysis did not finish within %s: %w", s.opts.Timeout, err)
		}
		processingErr := apperrors.NewProcessingError("failed to process document: "+err.Error(), err)
		s.logger.Error("Document analysis failed", err, "model", s.opts.ModelID)
		return nil, processingErr
	}

	chunks := ChunkByPage(result)
	s.logger.Debug("Document analysis finished",
		"model", s.opts.ModelID,
		"pages", len(chunks),
		"lines", CountLines(result),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return chunks, nil
}

// analyzeAndWait submits the document and polls until the operation is terminal
func (s *AnalysisService) analyzeAndWait(ctx context.Context, source domain.AnalyzeSource) (*domain.AnalyzeResult, error) {
	location, err := s.client.BeginAnalyze(ctx, s.opts.ModelID, source)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Document submitted for analysis", "model", s.opts.ModelID, "operation", location)

	limiter := rate.NewLimiter(rate.Every(s.opts.PollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			// Wait also fails when the next slot lies past the deadline
			return nil, context.DeadlineExceeded
		}

		op, err := s.client.GetAnalyzeResult(ctx, location)
		if err != nil {
			return nil, err
		}

		switch op.Status {
		case domain.OperationSucceeded:
			return op.Result, nil
		case domain.OperationFailed, domain.OperationCanceled:
			if op.Error != nil {
				return nil, fmt.Errorf("analysis %s: %w", op.Status, op.Error)
			}
			return nil, fmt.Errorf("analysis %s", op.Status)
		}

		if op.RetryAfter > s.opts.PollInterval {
			limiter.SetLimit(rate.Every(op.RetryAfter))
		}
	}
}

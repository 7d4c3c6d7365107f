package handler

import (
	"context"
	"fmt"
	"time"

	"pdf-blob-analyzer/internal/domain"
)

// signedURLTTL is how long a signed blob URL stays valid
const signedURLTTL = 15 * time.Minute

// BlobTriggerHandler processes one uploaded blob per invocation
type BlobTriggerHandler struct {
	analyzer domain.DocumentAnalyzer
	signer   domain.URLSigner
	pages    domain.PageCounter
	mode     domain.ContentMode
	policy   domain.FailurePolicy
	maxBytes int64
	logger   domain.Logger
}

// BlobTriggerOptions selects the deployment behaviour of the handler
type BlobTriggerOptions struct {
	Mode          domain.ContentMode
	FailurePolicy domain.FailurePolicy
	MaxFileSize   int64
}

// NewBlobTriggerHandler creates a blob trigger handler. signer may be nil
// in bytes mode and pages may be nil to skip the local page count.
func NewBlobTriggerHandler(
	analyzer domain.DocumentAnalyzer,
	signer domain.URLSigner,
	pages domain.PageCounter,
	opts BlobTriggerOptions,
	logger domain.Logger,
) (*BlobTriggerHandler, error) {
	if opts.Mode == "" {
		opts.Mode = domain.ContentModeBytes
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = domain.FailurePolicyRethrow
	}
	if opts.Mode == domain.ContentModeSignedURL && signer == nil {
		return nil, fmt.Errorf("signed-url mode requires a URL signer")
	}

	return &BlobTriggerHandler{
		analyzer: analyzer,
		signer:   signer,
		pages:    pages,
		mode:     opts.Mode,
		policy:   opts.FailurePolicy,
		maxBytes: opts.MaxFileSize,
		logger:   logger,
	}, nil
}

// Process handles a single blob event. Non-PDF blobs are skipped without
// error. Analysis failures are always logged; whether they are returned
// depends on the failure policy.
func (h *BlobTriggerHandler) Process(ctx context.Context, event domain.BlobEvent, log domain.Logger) ([]domain.PageChunk, error) {
	if !event.IsPDF() {
		log.Info("Skipping non-PDF file", "name", event.Name)
		return nil, nil
	}

	log.Info("Processing PDF document", "name", event.Name, "mode", h.mode)

	var (
		chunks []domain.PageChunk
		err    error
	)
	switch h.mode {
	case domain.ContentModeSignedURL:
		chunks, err = h.processSignedURL(ctx, event, log)
	default:
		chunks, err = h.processBytes(ctx, event, log)
	}

	if err != nil {
		log.Error("Failed to process document", err, "name", event.Name)
		if h.policy == domain.FailurePolicySwallow {
			return nil, nil
		}
		return nil, err
	}
	return chunks, nil
}

func (h *BlobTriggerHandler) processBytes(ctx context.Context, event domain.BlobEvent, log domain.Logger) ([]domain.PageChunk, error) {
	log.Info("Blob size", "name", event.Name, "bytes", len(event.Content))

	if h.pages != nil && len(event.Content) > 0 {
		if n, err := h.pages.PageCount(event.Content); err != nil {
			log.Warn("Could not count pages locally", "name", event.Name, "error", err)
		} else {
			log.Debug("Local page count", "name", event.Name, "pages", n)
		}
	}

	chunks, err := h.analyzer.AnalyzeBytes(ctx, event.Content)
	if err != nil {
		return nil, err
	}

	log.Info("Successfully extracted pages from document", "name", event.Name, "pages", len(chunks))
	return chunks, nil
}

func (h *BlobTriggerHandler) processSignedURL(ctx context.Context, event domain.BlobEvent, log domain.Logger) ([]domain.PageChunk, error) {
	signedURL, err := h.signer.SignedURL(ctx, event.Name, signedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create signed URL: %w", err)
	}
	log.Debug("Signed URL issued", "name", event.Name, "ttl", signedURLTTL.String())

	chunks, err := h.analyzer.AnalyzeURL(ctx, signedURL)
	if err != nil {
		return nil, err
	}

	for _, chunk := range chunks {
		log.Info("Extracted page", "name", event.Name, "page", chunk.PageNumber, "text", chunk.Text)
	}
	log.Info("Successfully extracted pages from document", "name", event.Name, "pages", len(chunks))
	return chunks, nil
}

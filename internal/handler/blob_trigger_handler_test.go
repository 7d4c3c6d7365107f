package handler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"pdf-blob-analyzer/internal/domain"
	apperrors "pdf-blob-analyzer/pkg/errors"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	chunks  []domain.PageChunk
	err     error
	bytesIn [][]byte
	urlsIn  []string
}

func (f *fakeAnalyzer) AnalyzeBytes(ctx context.Context, content []byte) ([]domain.PageChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bytesIn = append(f.bytesIn, content)
	if len(content) == 0 {
		return nil, apperrors.NewValidationError("document content cannot be empty")
	}
	return f.chunks, f.err
}

func (f *fakeAnalyzer) AnalyzeURL(ctx context.Context, url string) ([]domain.PageChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urlsIn = append(f.urlsIn, url)
	return f.chunks, f.err
}

func (f *fakeAnalyzer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bytesIn) + len(f.urlsIn)
}

type fakeSigner struct {
	names []string
	ttls  []time.Duration
	err   error
}

func (f *fakeSigner) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	f.names = append(f.names, name)
	f.ttls = append(f.ttls, ttl)
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.example/documents/" + name + "?sig=abc", nil
}

type fakePageCounter struct {
	n     int
	err   error
	calls int
}

func (f *fakePageCounter) PageCount(content []byte) (int, error) {
	f.calls++
	return f.n, f.err
}

func reportChunks() []domain.PageChunk {
	return []domain.PageChunk{
		{PageNumber: 1, Text: "Hello World"},
		{PageNumber: 2, Text: ""},
	}
}

func newTestHandler(t *testing.T, analyzer domain.DocumentAnalyzer, signer domain.URLSigner, opts BlobTriggerOptions) *BlobTriggerHandler {
	t.Helper()
	h, err := NewBlobTriggerHandler(analyzer, signer, &fakePageCounter{n: 2}, opts, NewMockHandlerLogger())
	if err != nil {
		t.Fatalf("unexpected error creating handler: %v", err)
	}
	return h
}

func TestNewBlobTriggerHandler_SignedURLModeNeedsSigner(t *testing.T) {
	_, err := NewBlobTriggerHandler(&fakeAnalyzer{}, nil, nil, BlobTriggerOptions{Mode: domain.ContentModeSignedURL}, NewMockHandlerLogger())
	if err == nil {
		t.Fatalf("expected error without signer in signed-url mode")
	}
}

func TestProcess_SkipsNonPDF(t *testing.T) {
	for _, mode := range []domain.ContentMode{domain.ContentModeBytes, domain.ContentModeSignedURL} {
		t.Run(string(mode), func(t *testing.T) {
			analyzer := &fakeAnalyzer{chunks: reportChunks()}
			signer := &fakeSigner{}
			h := newTestHandler(t, analyzer, signer, BlobTriggerOptions{Mode: mode})
			log := NewMockHandlerLogger()

			chunks, err := h.Process(context.Background(), domain.BlobEvent{Name: "notes.txt", Content: []byte("hello")}, log)

			if err != nil {
				t.Fatalf("expected skip to succeed, got %v", err)
			}
			if len(chunks) != 0 {
				t.Fatalf("expected empty output, got %v", chunks)
			}
			if analyzer.calls() != 0 || len(signer.names) != 0 {
				t.Fatalf("expected no remote calls, got %d analyze and %d sign", analyzer.calls(), len(signer.names))
			}
			infos := log.messages("INFO")
			if len(infos) != 1 || !strings.Contains(infos[0], "Skipping non-PDF") {
				t.Fatalf("expected exactly one skip message, got %v", infos)
			}
			if log.count("ERROR") != 0 || log.count("WARN") != 0 {
				t.Fatalf("expected no warnings or errors")
			}
		})
	}
}

func TestProcess_BytesMode(t *testing.T) {
	analyzer := &fakeAnalyzer{chunks: reportChunks()}
	h := newTestHandler(t, analyzer, nil, BlobTriggerOptions{Mode: domain.ContentModeBytes})
	log := NewMockHandlerLogger()

	chunks, err := h.Process(context.Background(), domain.BlobEvent{Name: "report.PDF", Content: []byte("%PDF-1.7")}, log)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 || chunks[0].Text != "Hello World" || chunks[1].PageNumber != 2 || chunks[1].Text != "" {
		t.Fatalf("unexpected chunks %v", chunks)
	}
	if len(analyzer.bytesIn) != 1 || string(analyzer.bytesIn[0]) != "%PDF-1.7" {
		t.Fatalf("expected content to be passed straight through, got %v", analyzer.bytesIn)
	}
	if len(analyzer.urlsIn) != 0 {
		t.Fatalf("did not expect URL analysis in bytes mode")
	}
	if h.pages.(*fakePageCounter).calls != 1 {
		t.Fatalf("expected local page count to be read once")
	}
}

func TestProcess_BytesModeLocalPageCountFailureIsNotFatal(t *testing.T) {
	analyzer := &fakeAnalyzer{chunks: reportChunks()}
	h, err := NewBlobTriggerHandler(analyzer, nil, &fakePageCounter{err: errors.New("not a PDF")}, BlobTriggerOptions{}, NewMockHandlerLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log := NewMockHandlerLogger()

	chunks, err := h.Process(context.Background(), domain.BlobEvent{Name: "scan.pdf", Content: []byte("garbage")}, log)

	if err != nil || len(chunks) != 2 {
		t.Fatalf("expected analysis to continue, got %v %v", chunks, err)
	}
	if log.count("WARN") != 1 {
		t.Fatalf("expected one warning, got %d", log.count("WARN"))
	}
}

func TestProcess_SignedURLMode(t *testing.T) {
	analyzer := &fakeAnalyzer{chunks: reportChunks()}
	signer := &fakeSigner{}
	h := newTestHandler(t, analyzer, signer, BlobTriggerOptions{Mode: domain.ContentModeSignedURL})
	log := NewMockHandlerLogger()

	chunks, err := h.Process(context.Background(), domain.BlobEvent{Name: "report.pdf"}, log)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("unexpected chunks %v", chunks)
	}
	if len(signer.names) != 1 || signer.names[0] != "report.pdf" || signer.ttls[0] != 15*time.Minute {
		t.Fatalf("expected one 15 minute signature for report.pdf, got %v %v", signer.names, signer.ttls)
	}
	if len(analyzer.urlsIn) != 1 || analyzer.urlsIn[0] != "https://storage.example/documents/report.pdf?sig=abc" {
		t.Fatalf("unexpected analyzed URLs %v", analyzer.urlsIn)
	}
	pageLogs := 0
	for _, msg := range log.messages("INFO") {
		if msg == "Extracted page" {
			pageLogs++
		}
	}
	if pageLogs != 2 {
		t.Fatalf("expected one log line per page, got %d", pageLogs)
	}
}

func TestProcess_FailurePolicy(t *testing.T) {
	cause := apperrors.NewProcessingError("failed to process document: boom", errors.New("boom"))

	tests := []struct {
		name    string
		policy  domain.FailurePolicy
		wantErr bool
	}{
		{name: "rethrow", policy: domain.FailurePolicyRethrow, wantErr: true},
		{name: "swallow", policy: domain.FailurePolicySwallow, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{err: cause}
			h := newTestHandler(t, analyzer, nil, BlobTriggerOptions{FailurePolicy: tt.policy})
			log := NewMockHandlerLogger()

			chunks, err := h.Process(context.Background(), domain.BlobEvent{Name: "report.pdf", Content: []byte("%PDF")}, log)

			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr && !apperrors.IsType(err, apperrors.ErrorTypeProcessing) {
				t.Fatalf("expected processing error, got %v", err)
			}
			if chunks != nil {
				t.Fatalf("expected no partial output, got %v", chunks)
			}
			if log.count("ERROR") != 1 {
				t.Fatalf("expected failure to be logged once, got %d", log.count("ERROR"))
			}
		})
	}
}

func TestProcess_SignerFailureFollowsPolicy(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	signer := &fakeSigner{err: errors.New("account key missing")}
	h := newTestHandler(t, analyzer, signer, BlobTriggerOptions{Mode: domain.ContentModeSignedURL})
	log := NewMockHandlerLogger()

	_, err := h.Process(context.Background(), domain.BlobEvent{Name: "report.pdf"}, log)

	if err == nil || !strings.Contains(err.Error(), "account key missing") {
		t.Fatalf("expected signer error, got %v", err)
	}
	if analyzer.calls() != 0 {
		t.Fatalf("expected no analysis without a signed URL")
	}
}

package domain

import (
	"context"
	"time"
)

// DocumentAnalysisClient is the remote document-analysis API.
// BeginAnalyze returns an operation location that GetAnalyzeResult polls.
type DocumentAnalysisClient interface {
	BeginAnalyze(ctx context.Context, modelID string, source AnalyzeSource) (string, error)
	GetAnalyzeResult(ctx context.Context, operationLocation string) (*AnalyzeOperation, error)
}

// DocumentAnalyzer turns a PDF into page chunks
type DocumentAnalyzer interface {
	AnalyzeBytes(ctx context.Context, content []byte) ([]PageChunk, error)
	AnalyzeURL(ctx context.Context, url string) ([]PageChunk, error)
}

// URLSigner issues time-limited read-only URLs for stored blobs
type URLSigner interface {
	SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error)
}

// PageCounter reports the number of pages of a local PDF
type PageCounter interface {
	PageCount(content []byte) (int, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetFunctionName() string
	GetDocumentIntelligenceEndpoint() string
	GetDocumentIntelligenceKey() string
	GetModelID() string
	GetContentMode() ContentMode
	GetFailurePolicy() FailurePolicy
	GetAnalysisTimeout() time.Duration
	GetPollInterval() time.Duration
	GetMaxFileSize() int64
	GetStorageProvider() string
	GetStorageConnectionString() string
	GetBlobContainer() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetCORSAllowedOrigins() []string
	Validate() error
}

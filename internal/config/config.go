package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"pdf-blob-analyzer/internal/domain"
	apperrors "pdf-blob-analyzer/pkg/errors"
)

// Storage providers able to sign blob URLs
const (
	StorageProviderAzure    = "azure"
	StorageProviderSupabase = "supabase"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort                   string
	LogLevel                     string
	FunctionName                 string
	DocumentIntelligenceEndpoint string
	DocumentIntelligenceKey      string
	ModelID                      string
	ContentMode                  domain.ContentMode
	FailurePolicy                domain.FailurePolicy
	AnalysisTimeout              time.Duration
	PollInterval                 time.Duration
	MaxFileSize                  int64
	StorageProvider              string
	StorageConnectionString      string
	BlobContainer                string
	SupabaseURL                  string
	SupabaseKey                  string
	CORSAllowedOrigins           []string

	// raw values that failed to parse, reported by Validate
	invalid map[string]string
}

// NewConfig reads the configuration from the environment once
func NewConfig() domain.Config {
	c := &AppConfig{
		// The Functions host tells a custom handler where to listen.
		// Keep PORT for running the handler on its own.
		ServerPort:                   getEnvOrDefault("FUNCTIONS_CUSTOMHANDLER_PORT", getEnvOrDefault("PORT", "8080")),
		LogLevel:                     getEnvOrDefault("LOG_LEVEL", "info"),
		FunctionName:                 getEnvOrDefault("FUNCTION_NAME", "BlobTriggerPDF"),
		DocumentIntelligenceEndpoint: strings.TrimSpace(os.Getenv("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT")),
		DocumentIntelligenceKey:      strings.TrimSpace(os.Getenv("AZURE_DOCUMENT_INTELLIGENCE_KEY")),
		ModelID:                      getEnvOrDefault("DOCUMENT_MODEL_ID", domain.ModelPrebuiltLayout),
		AnalysisTimeout:              getEnvDurationOrDefault("ANALYSIS_TIMEOUT", 5*time.Minute),
		PollInterval:                 getEnvDurationOrDefault("POLL_INTERVAL", time.Second),
		MaxFileSize:                  getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		StorageProvider:              strings.ToLower(getEnvOrDefault("STORAGE_PROVIDER", StorageProviderAzure)),
		StorageConnectionString:      strings.TrimSpace(os.Getenv("AzureWebJobsStorage")),
		BlobContainer:                getEnvOrDefault("BLOB_CONTAINER", "documents"),
		SupabaseURL:                  getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:                  getEnvOrDefault("SUPABASE_SERVICE_KEY", ""),
		CORSAllowedOrigins:           getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		invalid:                      map[string]string{},
	}

	modeStr := getEnvOrDefault("CONTENT_MODE", string(domain.ContentModeBytes))
	if mode, err := domain.ParseContentMode(modeStr); err == nil {
		c.ContentMode = mode
	} else {
		c.invalid["CONTENT_MODE"] = modeStr
	}

	policyStr := getEnvOrDefault("FAILURE_POLICY", string(domain.FailurePolicyRethrow))
	if policy, err := domain.ParseFailurePolicy(policyStr); err == nil {
		c.FailurePolicy = policy
	} else {
		c.invalid["FAILURE_POLICY"] = policyStr
	}

	return c
}

// Validate fails fast on settings the handler cannot run without
func (c *AppConfig) Validate() error {
	for _, key := range []string{"CONTENT_MODE", "FAILURE_POLICY"} {
		if value, ok := c.invalid[key]; ok {
			return apperrors.NewConfigurationError("invalid value for "+key, value)
		}
	}
	if c.DocumentIntelligenceEndpoint == "" {
		return apperrors.NewConfigurationError("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT must be set")
	}
	if c.DocumentIntelligenceKey == "" {
		return apperrors.NewConfigurationError("AZURE_DOCUMENT_INTELLIGENCE_KEY must be set")
	}
	if c.AnalysisTimeout <= 0 {
		return apperrors.NewConfigurationError("ANALYSIS_TIMEOUT must be positive")
	}
	if c.PollInterval <= 0 {
		return apperrors.NewConfigurationError("POLL_INTERVAL must be positive")
	}

	if c.ContentMode != domain.ContentModeSignedURL {
		return nil
	}
	if strings.TrimSpace(c.BlobContainer) == "" {
		return apperrors.NewConfigurationError("BLOB_CONTAINER must be set in signed-url mode")
	}
	switch c.StorageProvider {
	case StorageProviderAzure:
		if c.StorageConnectionString == "" {
			return apperrors.NewConfigurationError("AzureWebJobsStorage must be set in signed-url mode")
		}
	case StorageProviderSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return apperrors.NewConfigurationError("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set in signed-url mode")
		}
	default:
		return apperrors.NewConfigurationError("invalid value for STORAGE_PROVIDER", c.StorageProvider)
	}
	return nil
}

// GetServerPort returns the port the custom handler listens on
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetFunctionName returns the function name the host posts invocations to
func (c *AppConfig) GetFunctionName() string {
	return c.FunctionName
}

// GetDocumentIntelligenceEndpoint returns the analysis service endpoint
func (c *AppConfig) GetDocumentIntelligenceEndpoint() string {
	return c.DocumentIntelligenceEndpoint
}

// GetDocumentIntelligenceKey returns the analysis service API key
func (c *AppConfig) GetDocumentIntelligenceKey() string {
	return c.DocumentIntelligenceKey
}

// GetModelID returns the prebuilt model used for analysis
func (c *AppConfig) GetModelID() string {
	return c.ModelID
}

// GetContentMode returns how blob content is submitted
func (c *AppConfig) GetContentMode() domain.ContentMode {
	return c.ContentMode
}

// GetFailurePolicy returns what happens to failed invocations
func (c *AppConfig) GetFailurePolicy() domain.FailurePolicy {
	return c.FailurePolicy
}

// GetAnalysisTimeout returns the upper bound for submit plus polling
func (c *AppConfig) GetAnalysisTimeout() time.Duration {
	return c.AnalysisTimeout
}

// GetPollInterval returns the delay between status polls
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.PollInterval
}

// GetMaxFileSize returns the maximum document size submitted as bytes
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetStorageProvider returns the storage backend that signs blob URLs
func (c *AppConfig) GetStorageProvider() string {
	return c.StorageProvider
}

// GetStorageConnectionString returns the Azure storage connection string
func (c *AppConfig) GetStorageConnectionString() string {
	return c.StorageConnectionString
}

// GetBlobContainer returns the container (or bucket) holding uploads
func (c *AppConfig) GetBlobContainer() string {
	return c.BlobContainer
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase service key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetCORSAllowedOrigins returns origins allowed on the operator API
func (c *AppConfig) GetCORSAllowedOrigins() []string {
	return c.CORSAllowedOrigins
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

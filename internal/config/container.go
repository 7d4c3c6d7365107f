package config

import (
	"fmt"

	"pdf-blob-analyzer/internal/domain"
	"pdf-blob-analyzer/internal/handler"
	"pdf-blob-analyzer/internal/infra/azure"
	"pdf-blob-analyzer/internal/infra/supabase"
	"pdf-blob-analyzer/internal/service"
	"pdf-blob-analyzer/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config             domain.Config
	Logger             domain.Logger
	AnalysisService    *service.AnalysisService
	URLSigner          domain.URLSigner
	BlobTriggerHandler *handler.BlobTriggerHandler
}

// NewContainer creates a new dependency injection container.
// Configuration problems are reported here, before the server starts.
func NewContainer() (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())
	return newContainer(config, appLogger)
}

func newContainer(config domain.Config, appLogger domain.Logger) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	analysisService, err := service.NewAnalysisService(
		config.GetDocumentIntelligenceEndpoint(),
		config.GetDocumentIntelligenceKey(),
		service.AnalysisOptions{
			ModelID:      config.GetModelID(),
			Timeout:      config.GetAnalysisTimeout(),
			PollInterval: config.GetPollInterval(),
			MaxFileSize:  config.GetMaxFileSize(),
		},
		appLogger,
	)
	if err != nil {
		return nil, err
	}

	var signer domain.URLSigner
	if config.GetContentMode() == domain.ContentModeSignedURL {
		signer, err = newURLSigner(config, appLogger)
		if err != nil {
			return nil, err
		}
	}

	triggerHandler, err := handler.NewBlobTriggerHandler(
		analysisService,
		signer,
		service.NewPDFInspector(),
		handler.BlobTriggerOptions{
			Mode:          config.GetContentMode(),
			FailurePolicy: config.GetFailurePolicy(),
			MaxFileSize:   config.GetMaxFileSize(),
		},
		appLogger,
	)
	if err != nil {
		return nil, err
	}

	appLogger.Info("Container initialized",
		"mode", config.GetContentMode(),
		"failure_policy", config.GetFailurePolicy(),
		"model", config.GetModelID(),
		"analysis_timeout", config.GetAnalysisTimeout().String(),
	)

	return &Container{
		Config:             config,
		Logger:             appLogger,
		AnalysisService:    analysisService,
		URLSigner:          signer,
		BlobTriggerHandler: triggerHandler,
	}, nil
}

// newURLSigner builds the signer for the configured storage provider
func newURLSigner(config domain.Config, appLogger domain.Logger) (domain.URLSigner, error) {
	switch config.GetStorageProvider() {
	case StorageProviderAzure:
		return azure.NewBlobURLSigner(config.GetStorageConnectionString(), config.GetBlobContainer())
	case StorageProviderSupabase:
		client := supabase.NewSupabaseClient(config, appLogger)
		if err := client.Initialize(); err != nil {
			return nil, err
		}
		storage, err := client.Storage()
		if err != nil {
			return nil, err
		}
		return supabase.NewStorageURLSigner(storage, config.GetBlobContainer()), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedStorage, config.GetStorageProvider())
	}
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

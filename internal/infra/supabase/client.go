package supabase

import (
	"context"
	"fmt"
	"time"

	"pdf-blob-analyzer/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// SupabaseClient holds the Supabase connection used for blob storage
type SupabaseClient struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

// NewSupabaseClient creates a new Supabase client instance
func NewSupabaseClient(config domain.Config, logger domain.Logger) *SupabaseClient {
	return &SupabaseClient{
		config: config,
		logger: logger,
	}
}

// Initialize establishes a connection to Supabase
func (s *SupabaseClient) Initialize() error {
	supabaseURL := s.config.GetSupabaseURL()
	supabaseKey := s.config.GetSupabaseKey()

	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized successfully", "url", supabaseURL)
	return nil
}

// Storage returns the storage API of the initialized client
func (s *SupabaseClient) Storage() (*storage_go.Client, error) {
	if s.client == nil {
		return nil, fmt.Errorf("Supabase client not initialized")
	}
	return s.client.Storage, nil
}

// signedURLCreator is the part of the storage API used to sign objects
type signedURLCreator interface {
	CreateSignedUrl(bucketId string, filePath string, expiresIn int) (storage_go.SignedUrlResponse, error)
}

// StorageURLSigner issues signed download URLs for objects in one bucket
type StorageURLSigner struct {
	storage signedURLCreator
	bucket  string
}

// NewStorageURLSigner creates a signer for the given bucket
func NewStorageURLSigner(storage signedURLCreator, bucket string) *StorageURLSigner {
	return &StorageURLSigner{
		storage: storage,
		bucket:  bucket,
	}
}

// SignedURL returns a URL for the named object valid for ttl
func (s *StorageURLSigner) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	expiresIn := int(ttl / time.Second)
	if expiresIn <= 0 {
		return "", fmt.Errorf("signed URL lifetime must be at least one second")
	}

	resp, err := s.storage.CreateSignedUrl(s.bucket, name, expiresIn)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s/%s: %w", s.bucket, name, err)
	}
	if resp.SignedURL == "" {
		return "", fmt.Errorf("storage returned an empty signed URL for %s/%s", s.bucket, name)
	}
	return resp.SignedURL, nil
}

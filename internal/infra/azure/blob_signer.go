package azure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// BlobURLSigner issues read-only SAS URLs for blobs in one container
type BlobURLSigner struct {
	client    *azblob.Client
	container string
	now       func() time.Time
}

// NewBlobURLSigner builds a storage client from a connection string.
// The connection string must carry an account key to sign URLs.
func NewBlobURLSigner(connectionString, container string) (*BlobURLSigner, error) {
	if strings.TrimSpace(container) == "" {
		return nil, fmt.Errorf("container name is required")
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobURLSigner{
		client:    client,
		container: container,
		now:       time.Now,
	}, nil
}

// SignedURL returns a read-only URL for the named blob valid for ttl
func (s *BlobURLSigner) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("blob name is required")
	}

	blobClient := s.client.ServiceClient().
		NewContainerClient(s.container).
		NewBlobClient(name)

	expiry := s.now().UTC().Add(ttl)
	signed, err := blobClient.GetSASURL(sas.BlobPermissions{Read: true}, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for blob %s/%s: %w", s.container, name, err)
	}
	return signed, nil
}

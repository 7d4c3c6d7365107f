package domain

import (
	"fmt"
	"strings"
)

// ContentMode selects how blob content reaches the analysis service
type ContentMode string

const (
	// ContentModeBytes submits the bytes delivered by the trigger
	ContentModeBytes ContentMode = "bytes"
	// ContentModeSignedURL submits a short-lived read-only URL to the blob
	ContentModeSignedURL ContentMode = "signed-url"
)

// ParseContentMode parses a content mode name
func ParseContentMode(s string) (ContentMode, error) {
	switch ContentMode(strings.ToLower(strings.TrimSpace(s))) {
	case ContentModeBytes:
		return ContentModeBytes, nil
	case ContentModeSignedURL, "signedurl", "sas":
		return ContentModeSignedURL, nil
	default:
		return "", fmt.Errorf("unknown content mode %q", s)
	}
}

// FailurePolicy decides what happens to an invocation whose analysis failed
type FailurePolicy string

const (
	// FailurePolicyRethrow fails the invocation so the host retries it
	FailurePolicyRethrow FailurePolicy = "rethrow"
	// FailurePolicySwallow logs the failure and completes the invocation
	FailurePolicySwallow FailurePolicy = "swallow"
)

// ParseFailurePolicy parses a failure policy name
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case FailurePolicyRethrow:
		return FailurePolicyRethrow, nil
	case FailurePolicySwallow:
		return FailurePolicySwallow, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", s)
	}
}

// BlobEvent is one storage write event delivered by the host
type BlobEvent struct {
	Name         string
	Path         string
	Content      []byte
	InvocationID string
}

// IsPDF reports whether the blob name has a .pdf extension, ignoring case
func (e BlobEvent) IsPDF() bool {
	return strings.HasSuffix(strings.ToLower(e.Name), ".pdf")
}

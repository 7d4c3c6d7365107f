package docintel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pdf-blob-analyzer/internal/domain"
)

// DefaultAPIVersion is the Document Intelligence REST API version used
const DefaultAPIVersion = "2024-11-30"

const apiKeyHeader = "Ocp-Apim-Subscription-Key"

// Client talks to the Azure Document Intelligence REST API.
// It is safe for concurrent use.
type Client struct {
	endpoint   string
	apiKey     string
	apiVersion string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIVersion overrides the REST API version
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// NewClient creates a Document Intelligence client bound to one endpoint and key
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		apiVersion: DefaultAPIVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type analyzeRequest struct {
	URLSource    string `json:"urlSource,omitempty"`
	Base64Source string `json:"base64Source,omitempty"`
}

// analyzeResponse is the body returned when polling an operation
type analyzeResponse struct {
	Status              string                 `json:"status"`
	CreatedDateTime     time.Time              `json:"createdDateTime"`
	LastUpdatedDateTime time.Time              `json:"lastUpdatedDateTime"`
	Error               *domain.OperationError `json:"error,omitempty"`
	AnalyzeResult       *domain.AnalyzeResult  `json:"analyzeResult,omitempty"`
}

type errorResponse struct {
	Error domain.OperationError `json:"error"`
}

// BeginAnalyze submits a document and returns the operation location to poll
func (c *Client) BeginAnalyze(ctx context.Context, modelID string, source domain.AnalyzeSource) (string, error) {
	body := analyzeRequest{URLSource: source.URL}
	if len(source.Bytes) > 0 {
		body = analyzeRequest{Base64Source: base64.StdEncoding.EncodeToString(source.Bytes)}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode analyze request: %w", err)
	}

	analyzeURL := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, url.PathEscape(modelID), url.QueryEscape(c.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, analyzeURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return "", readError(resp)
	}

	location := resp.Header.Get("Operation-Location")
	if location == "" {
		return "", fmt.Errorf("analyze response is missing the Operation-Location header")
	}
	return location, nil
}

// GetAnalyzeResult fetches the current state of an analyze operation
func (c *Client) GetAnalyzeResult(ctx context.Context, operationLocation string) (*domain.AnalyzeOperation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationLocation, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readError(resp)
	}

	var body analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode analyze result: %w", err)
	}

	return &domain.AnalyzeOperation{
		Status:     domain.OperationStatus(body.Status),
		Result:     body.AnalyzeResult,
		Error:      body.Error,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}, nil
}

// readError turns a non-success response into an error carrying the
// service's error code when one is present
func readError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return fmt.Errorf("document intelligence returned %d: %w", resp.StatusCode, &body.Error)
	}
	return fmt.Errorf("document intelligence returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

package domain

import "time"

// Prebuilt Document Intelligence models
const (
	ModelPrebuiltLayout = "prebuilt-layout"
	ModelPrebuiltRead   = "prebuilt-read"
)

// OperationStatus is the state of a remote analyze operation
type OperationStatus string

const (
	OperationNotStarted OperationStatus = "notStarted"
	OperationRunning    OperationStatus = "running"
	OperationSucceeded  OperationStatus = "succeeded"
	OperationFailed     OperationStatus = "failed"
	OperationCanceled   OperationStatus = "canceled"
)

// Terminal reports whether no further polling is needed
func (s OperationStatus) Terminal() bool {
	switch s {
	case OperationSucceeded, OperationFailed, OperationCanceled:
		return true
	default:
		return false
	}
}

// AnalyzeSource is the content submitted for analysis. Exactly one of
// Bytes or URL is set.
type AnalyzeSource struct {
	Bytes []byte
	URL   string
}

// AnalyzeResult is the structured output of the document-analysis service
type AnalyzeResult struct {
	ModelID string          `json:"modelId"`
	Content string          `json:"content"`
	Pages   []*DocumentPage `json:"pages"`
}

// DocumentPage is one page of an analyze result
type DocumentPage struct {
	PageNumber int             `json:"pageNumber"`
	Lines      []*DocumentLine `json:"lines"`
}

// DocumentLine is one recognized line of text
type DocumentLine struct {
	Content string `json:"content"`
}

// OperationError is the error body reported by a failed remote operation
type OperationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *OperationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// AnalyzeOperation is a snapshot of a long-running analyze job
type AnalyzeOperation struct {
	Status     OperationStatus
	Result     *AnalyzeResult
	Error      *OperationError
	RetryAfter time.Duration
}

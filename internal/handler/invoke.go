package handler

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"pdf-blob-analyzer/internal/domain"
	apperrors "pdf-blob-analyzer/pkg/errors"

	"github.com/google/uuid"
)

// Names used by the blob trigger binding in function.json
const (
	contentBinding   = "content"
	nameMetadata     = "name"
	blobPathMetadata = "BlobTrigger"

	invocationIDHeader = "X-Azure-Functions-InvocationId"
)

// InvokeRequest is the payload the Functions host posts to a custom handler
type InvokeRequest struct {
	Data     map[string]json.RawMessage `json:"Data"`
	Metadata map[string]json.RawMessage `json:"Metadata"`
}

// InvokeResponse is the payload a custom handler answers the host with
type InvokeResponse struct {
	Outputs     map[string]interface{} `json:"Outputs"`
	Logs        []string               `json:"Logs"`
	ReturnValue interface{}            `json:"ReturnValue"`
}

// ServeInvoke handles one blob trigger invocation forwarded by the host.
// A non-2xx status marks the invocation failed so the host can retry it.
func (h *BlobTriggerHandler) ServeInvoke(w http.ResponseWriter, r *http.Request) {
	invocationID := r.Header.Get(invocationIDHeader)
	if invocationID == "" {
		invocationID = uuid.NewString()
	}
	log := newInvocationLogger(h.logger, invocationID)

	var req InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Invalid invocation payload", err)
		writeInvokeResponse(w, http.StatusBadRequest, log.Lines())
		return
	}

	event, err := req.blobEvent()
	if err != nil {
		log.Error("Invalid invocation payload", err)
		writeInvokeResponse(w, http.StatusBadRequest, log.Lines())
		return
	}
	event.InvocationID = invocationID

	if _, err := h.Process(r.Context(), event, log); err != nil {
		writeInvokeResponse(w, http.StatusInternalServerError, log.Lines())
		return
	}
	writeInvokeResponse(w, http.StatusOK, log.Lines())
}

// AnalyzeUpload runs the analysis on a PDF posted directly in the request
// body and answers the page chunks. Errors are returned to the caller.
func (h *BlobTriggerHandler) AnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	event := domain.BlobEvent{
		Name:         r.URL.Query().Get("name"),
		InvocationID: uuid.NewString(),
	}
	if event.Name == "" {
		writeError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}
	if !event.IsPDF() {
		writeError(w, http.StatusBadRequest, "only PDF files are supported")
		return
	}

	body := io.Reader(r.Body)
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	content, err := io.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file is too large")
		return
	}
	event.Content = content

	log := newInvocationLogger(h.logger, event.InvocationID)
	chunks, err := h.processBytes(r.Context(), event, log)
	if err != nil {
		log.Error("Failed to process document", err, "name", event.Name)
		writeError(w, apperrors.GetStatusCode(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":  event.Name,
		"pages": chunks,
	})
}

// blobEvent extracts the blob name and content from the invocation payload
func (req InvokeRequest) blobEvent() (domain.BlobEvent, error) {
	event := domain.BlobEvent{
		Name: metadataString(req.Metadata[nameMetadata]),
		Path: metadataString(req.Metadata[blobPathMetadata]),
	}
	if event.Name == "" && event.Path != "" {
		event.Name = path.Base(event.Path)
	}
	if event.Name == "" {
		return event, fmt.Errorf("blob name is missing from invocation metadata")
	}

	if raw, ok := req.Data[contentBinding]; ok {
		content, err := decodeContent(raw)
		if err != nil {
			return event, err
		}
		event.Content = content
	}
	return event, nil
}

// decodeContent reads blob bytes from the binding value. Binary bindings
// arrive base64 encoded; anything else is taken as the raw string.
func decodeContent(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("blob content is not a string: %w", err)
	}
	if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
		return decoded, nil
	}
	return []byte(s), nil
}

// metadataString reads a metadata value, which the host may encode twice
func metadataString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		if unquoted, err := strconv.Unquote(s); err == nil {
			s = unquoted
		}
	}
	return s
}

func writeInvokeResponse(w http.ResponseWriter, status int, logs []string) {
	if logs == nil {
		logs = []string{}
	}
	writeJSON(w, status, InvokeResponse{
		Outputs: map[string]interface{}{},
		Logs:    logs,
	})
}

package handlers

import (
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/interfaces"
)

// ExtractHandler serves single and batch document extraction requests.
type ExtractHandler struct {
	extractor interfaces.DocumentExtractor
	quota     interfaces.QuotaTracker
	logger    arbor.ILogger
}

// NewExtractHandler creates a new extraction handler. quota may be nil when
// the tracker is disabled.
func NewExtractHandler(extractor interfaces.DocumentExtractor, quota interfaces.QuotaTracker, logger arbor.ILogger) *ExtractHandler {
	return &ExtractHandler{
		extractor: extractor,
		quota:     quota,
		logger:    logger,
	}
}

// multipartMemoryLimit bounds the in-memory portion of multipart parsing;
// larger parts spill to temp files.
const multipartMemoryLimit = 32 << 20

// ExtractHandler handles POST /api/extract with a single "file" part.
// The extraction result itself is always 200: failures are carried in the
// result body, not as HTTP errors.
func (h *ExtractHandler) ExtractHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !h.allowRequest(w, r) {
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	result := h.extractor.Process(r.Context(), data, partMimeType(header), header.Filename)
	WriteJSON(w, http.StatusOK, result)
}

// BatchExtractHandler handles POST /api/extract/batch with repeated "files"
// parts. Items are processed concurrently and each outcome is reported
// independently.
func (h *ExtractHandler) BatchExtractHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !h.allowRequest(w, r) {
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		WriteError(w, http.StatusBadRequest, "missing files parts")
		return
	}

	var items []interfaces.BatchItem
	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to open upload "+header.Filename)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read upload "+header.Filename)
			return
		}
		items = append(items, interfaces.BatchItem{
			Data:     data,
			MimeType: partMimeType(header),
			FileName: header.Filename,
		})
	}

	results := h.extractor.ProcessBatch(r.Context(), items)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// allowRequest enforces the per-client sliding-window quota and reports the
// remaining window capacity to the client.
func (h *ExtractHandler) allowRequest(w http.ResponseWriter, r *http.Request) bool {
	if h.quota == nil {
		return true
	}

	key := clientKey(r)
	if !h.quota.Allow(key) {
		w.Header().Set("X-Quota-Remaining", "0")
		h.logger.Warn().Str("client", key).Msg("Request quota exceeded")
		WriteError(w, http.StatusTooManyRequests, "request quota exceeded, retry later")
		return false
	}

	w.Header().Set("X-Quota-Remaining", strconv.Itoa(h.quota.Remaining(key)))
	return true
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func partMimeType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

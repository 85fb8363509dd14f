package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// StatusHandler reports application status and cache counters.
type StatusHandler struct {
	cache     interfaces.ResponseCache
	logger    arbor.ILogger
	startedAt time.Time
}

// NewStatusHandler creates a new status handler. cache may be nil.
func NewStatusHandler(cache interfaces.ResponseCache, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		cache:     cache,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	status := map[string]interface{}{
		"status":         "ok",
		"version":        common.GetFullVersion(),
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	}

	if h.cache != nil {
		stats, err := h.cache.Stats(r.Context())
		if err != nil {
			h.logger.Warn().Err(err).Msg("Failed to read cache stats")
		} else {
			status["cache"] = stats
		}
	}

	WriteJSON(w, http.StatusOK, status)
}

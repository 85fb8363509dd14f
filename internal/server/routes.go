package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Extraction
	mux.HandleFunc("/api/extract", s.extract.ExtractHandler)            // POST - single upload
	mux.HandleFunc("/api/extract/batch", s.extract.BatchExtractHandler) // POST - concurrent batch upload

	// API routes - Status
	mux.HandleFunc("/api/status", s.status.GetStatusHandler) // GET - application status

	return mux
}

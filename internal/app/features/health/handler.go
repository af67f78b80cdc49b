// internal/app/features/health/handler.go
package health

import (
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	CorpusRoot string
	Log        *zap.Logger
}

// NewHandler constructs a health Handler for the given corpus root.
func NewHandler(corpusRoot string, logger *zap.Logger) *Handler {
	return &Handler{CorpusRoot: corpusRoot, Log: logger}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status  string `json:"status"`
	Corpus  string `json:"corpus"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "corpus":"reachable" }
//
// When the corpus root is missing or unreadable: 503 and
//
//	{ "status":"error", "corpus":"unreachable", "message":"…", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{Status: "ok", Corpus: "reachable"}

	info, err := os.Stat(h.CorpusRoot)
	if err != nil || !info.IsDir() {
		if err != nil {
			h.Log.Error("health-check: corpus root unreachable", zap.Error(err))
			resp.Error = err.Error()
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Corpus = "unreachable"
		resp.Message = "Corpus root unavailable"
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}

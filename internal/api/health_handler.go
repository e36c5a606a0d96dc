package api

import (
	"net/http"
	"time"

	"github.com/taskboardhq/taskboard-api/internal/api/shared"
)

// healthResponse is the liveness payload.
type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /health requests. It reports liveness only and is
// independent of the domain surface.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

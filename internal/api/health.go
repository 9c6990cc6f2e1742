package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/taskhub-api/internal/api/shared"
)

// HealthResponse is the uniform health payload every service exposes.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHealthHandler returns the /health handler for the named service.
func NewHealthHandler(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
			Status:    "healthy",
			Service:   service,
			Timestamp: time.Now().UTC(),
		})
	}
}

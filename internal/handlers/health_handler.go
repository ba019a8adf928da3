package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthHandler reports process liveness for load balancers and uptime checks.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"message": "CarePulse API is running",
	})
}

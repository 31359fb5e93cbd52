package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Health provides a minimal liveness check endpoint.
func Health(log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(log, w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		writeJSON(log, w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starford/rnotes/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

func errorBody(status int, detail string) models.ErrorOut {
	return models.ErrorOut{Error: status, Detail: detail}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody(status, detail))
}

// writeStatusError replies with the status text as detail.
func writeStatusError(w http.ResponseWriter, status int) {
	writeError(w, status, http.StatusText(status))
}

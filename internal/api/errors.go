package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/ryanbastic/go-escaperoom/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// storeError maps a RoomStore error onto a huma error. Unknown ids become 404;
// anything else is logged and surfaced as a 500 without backend detail.
func storeError(logger *slog.Logger, action string, id int64, err error) error {
	if errors.Is(err, storage.ErrRoomNotFound) {
		return huma.Error404NotFound("room not found")
	}
	logger.Error("room store failed", "action", action, "room_id", id, "error", err)
	return huma.Error500InternalServerError("failed to " + action)
}

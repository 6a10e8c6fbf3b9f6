package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/logging"
	"github.com/AlexTLDR/wedding/internal/rsvp"
)

// maxPayloadBytes caps the size of an RSVP submission body.
const maxPayloadBytes = 64 << 10

type submitResponse struct {
	OK      bool   `json:"ok"`
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Log.Warn("Failed to write JSON response", zap.Error(err))
	}
}

// HandleRSVPSubmit stores the JSON answers posted by the invitation page
func HandleRSVPSubmit(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.PathValue("token")

		if _, err := s.GetDB().GetInvitationByToken(r.Context(), token); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, submitResponse{Error: "invitation not found"})
				return
			}
			logging.Log.Error("Failed to load invitation", zap.String("token", token), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, submitResponse{Error: "failed to save response"})
			return
		}

		payload, err := rsvp.DecodePayload(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
		if err != nil {
			logging.Log.Info("Rejected RSVP payload", zap.String("token", token), zap.Error(err))
			writeJSON(w, http.StatusBadRequest, submitResponse{Error: "malformed payload"})
			return
		}

		result, err := s.GetRSVP().Submit(r.Context(), token, payload)
		if errors.Is(err, database.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, submitResponse{Error: "invitation not found"})
			return
		}
		if err != nil {
			logging.Log.Error("Failed to save RSVP", zap.String("token", token), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, submitResponse{Error: "failed to save response"})
			return
		}

		writeJSON(w, http.StatusOK, submitResponse{
			OK:      true,
			Saved:   result.Saved,
			Skipped: result.Skipped,
		})
	}
}

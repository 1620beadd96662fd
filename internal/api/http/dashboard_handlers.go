package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
)

type acceptRequest struct {
	ParticipationID string  `json:"participation_id"`
	SerialNumber    *string `json:"serial_number"`
}

// dashboardAccept applies a back-office decision: a serial number means
// accept, its absence means reject. Either way the flow advances with the
// corresponding decision keyword.
func (s *Server) dashboardAccept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	id, err := uuid.Parse(req.ParticipationID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid participation_id")
		return
	}

	ctx := r.Context()
	p, err := s.participationSvc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, participation.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "participation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	decision := "invalid"
	if req.SerialNumber != nil && *req.SerialNumber != "" {
		if err := s.participationSvc.Accept(ctx, p, *req.SerialNumber); err != nil {
			switch {
			case errors.Is(err, participation.ErrSerialAlreadySet), errors.Is(err, participation.ErrDuplicateSerial):
				respondError(w, http.StatusConflict, "CONFLICT", err.Error())
			case errors.Is(err, prize.ErrNoCodeAvailable):
				respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			default:
				s.logger.Error().Err(err).Msg("accept failed")
				respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			return
		}
		decision = "valid"
	}

	prt, err := s.participants.GetByPhone(ctx, p.Phone)
	if err != nil || prt == nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "participant not found for participation")
		return
	}

	if err := s.flowManager.HandleDecision(ctx, prt, p, decision); err != nil {
		s.logger.Error().Err(err).Str("participation_id", id.String()).Msg("failed to advance flow")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"result": decision})
}

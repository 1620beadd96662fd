package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campaign-hub/campaign-hub/internal/domain/counter"
	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
)

func (s *Server) listParticipations(w http.ResponseWriter, r *http.Request) {
	var filter participation.Filter

	if day := r.URL.Query().Get("day"); day != "" {
		parsed, err := time.ParseInLocation("2006-01-02", day, s.location)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "day must be YYYY-MM-DD")
			return
		}
		filter.Day = &parsed
	}
	if phone := r.URL.Query().Get("phone"); phone != "" {
		filter.Phone = &phone
	}
	if status := r.URL.Query().Get("status"); status != "" {
		st := participation.Status(status)
		filter.Status = &st
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	list, err := s.participationSvc.List(r.Context(), filter, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) getParticipation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "participationID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid participationID")
		return
	}
	p, err := s.participationSvc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, participation.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "participation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) countParticipations(w http.ResponseWriter, r *http.Request) {
	day := time.Now().In(s.location)
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, s.location)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "day must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.location)
	count, err := s.participationSvc.CountForDay(r.Context(), start.UTC(), start.AddDate(0, 0, 1).UTC())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// dailyCounter exposes the read-only priority cursor for a day; the
// dashboard uses it to gauge how far the day's numbering has run.
func (s *Server) dailyCounter(w http.ResponseWriter, r *http.Request) {
	day := time.Now().In(s.location).Format("2006-01-02")
	if v := r.URL.Query().Get("day"); v != "" {
		if _, err := time.ParseInLocation("2006-01-02", v, s.location); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "day must be YYYY-MM-DD")
			return
		}
		day = v
	}

	c, err := s.counters.Get(r.Context(), day)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if c == nil {
		// a day with no counter yet reads as zero
		c = &counter.DailyCounter{Day: day}
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) getCode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "participationID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid participationID")
		return
	}
	code, err := s.codes.GetByParticipation(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if code == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "no code assigned")
		return
	}
	respondJSON(w, http.StatusOK, code)
}

func (s *Server) codeCounters(w http.ResponseWriter, r *http.Request) {
	counters, err := s.codes.Counters(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, counters)
}

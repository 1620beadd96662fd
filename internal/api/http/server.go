package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	appFlow "github.com/campaign-hub/campaign-hub/internal/application/flow"
	appParticipation "github.com/campaign-hub/campaign-hub/internal/application/participation"
	"github.com/campaign-hub/campaign-hub/internal/domain/counter"
	"github.com/campaign-hub/campaign-hub/internal/domain/participant"
	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	flowManager      *appFlow.Manager
	participationSvc *appParticipation.Service
	participants     participant.Repository
	codes            prize.CodeRepository
	counters         counter.Repository
	location         *time.Location
	logger           zerolog.Logger
}

func NewServer(
	flowManager *appFlow.Manager,
	participationSvc *appParticipation.Service,
	participants participant.Repository,
	codes prize.CodeRepository,
	counters counter.Repository,
	location *time.Location,
	logger zerolog.Logger,
) *Server {
	return &Server{
		flowManager:      flowManager,
		participationSvc: participationSvc,
		participants:     participants,
		codes:            codes,
		counters:         counters,
		location:         location,
		logger:           logger.With().Str("service", "http").Logger(),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Post("/webhook", s.webhook)

	r.Route("/api", func(r chi.Router) {
		r.Post("/dashboard/accept", s.dashboardAccept)
		r.Get("/counter", s.dailyCounter)
		r.Route("/participations", func(r chi.Router) {
			r.Get("/", s.listParticipations)
			r.Get("/count", s.countParticipations)
			r.Get("/{participationID}", s.getParticipation)
		})
		r.Route("/codes", func(r chi.Router) {
			r.Get("/counters", s.codeCounters)
			r.Get("/{participationID}", s.getCode)
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"code": code, "message": message})
}

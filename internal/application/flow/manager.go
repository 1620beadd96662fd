package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainFlow "github.com/campaign-hub/campaign-hub/internal/domain/flow"
	"github.com/campaign-hub/campaign-hub/internal/domain/participant"
	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
)

// maxChainLength bounds consecutive server-driven hops. The flow graph has
// no server cycle, so hitting the bound means a broken definition.
const maxChainLength = 8

// Messenger dispatches an outbound template message with positional
// arguments ("1", "2", ...).
type Messenger interface {
	Send(ctx context.Context, to, template string, args map[string]string) error
}

// MediaStore persists inbound media and returns the stored object URL.
type MediaStore interface {
	Save(ctx context.Context, participationID uuid.UUID, urls []string) (string, error)
}

// PriorityAssigner mints a priority number and matches it against the
// prize pool.
type PriorityAssigner interface {
	Assign(ctx context.Context, p *participation.Participation) (bool, error)
}

// Config carries the flow policy knobs.
type Config struct {
	// MaxUploadAttempts is the invalid-media ceiling before forced
	// rejection.
	MaxUploadAttempts int
	// MaxDailySubmissions caps accepted submissions per participant per
	// calendar day. Zero disables the cap.
	MaxDailySubmissions int
	// Location buckets "calendar day" for counters and submission caps.
	Location *time.Location
}

// Manager orchestrates one inbound event: it resolves the transition bound
// to the participation's current step, executes it, persists the new step,
// and dispatches the resolved message, chaining through consecutive
// server-driven steps until one needs external input again.
type Manager struct {
	def            domainFlow.Definition
	participants   participant.Repository
	participations participation.Repository
	codes          prize.CodeRepository
	assigner       PriorityAssigner
	messenger      Messenger
	media          MediaStore
	cfg            Config
	logger         zerolog.Logger
}

func NewManager(
	def domainFlow.Definition,
	participants participant.Repository,
	participations participation.Repository,
	codes prize.CodeRepository,
	assigner PriorityAssigner,
	messenger Messenger,
	media MediaStore,
	cfg Config,
	logger zerolog.Logger,
) *Manager {
	if cfg.MaxUploadAttempts <= 0 {
		cfg.MaxUploadAttempts = 3
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Manager{
		def:            def,
		participants:   participants,
		participations: participations,
		codes:          codes,
		assigner:       assigner,
		messenger:      messenger,
		media:          media,
		cfg:            cfg,
		logger:         logger.With().Str("service", "flow").Logger(),
	}
}

// HandleMessage is the inbound entry point. It looks up or creates the
// participant and their open participation, enforces the daily submission
// cap, and advances the flow with the event.
func (m *Manager) HandleMessage(ctx context.Context, event *domainFlow.Event) error {
	prt, err := m.participants.GetByPhone(ctx, event.From)
	if err != nil {
		return err
	}
	if prt == nil {
		prt = participant.New(event.From, profileName(event))
		if err := m.participants.Create(ctx, prt); err != nil {
			return err
		}
	}

	p, err := m.participations.GetOpenByPhone(ctx, event.From)
	if err != nil {
		return err
	}
	if p == nil {
		day := time.Now().In(m.cfg.Location).Format("2006-01-02")
		if m.cfg.MaxDailySubmissions > 0 && prt.SubmissionsOn(day) >= m.cfg.MaxDailySubmissions {
			m.dispatch(ctx, prt, nil, m.def[domainFlow.StepMaxParticipations])
			return nil
		}

		start := domainFlow.StepOnboarding
		if prt.Complete {
			start = domainFlow.StepNewParticipation
		}
		p = participation.New(prt.ParticipantID, prt.Phone, string(start))
		if err := m.participations.Create(ctx, p); err != nil {
			return err
		}
	}

	return m.Advance(ctx, prt, p, event)
}

// HandleDecision advances a participation from a back-office decision
// keyword instead of a participant message.
func (m *Manager) HandleDecision(ctx context.Context, prt *participant.Participant, p *participation.Participation, decision string) error {
	t, ok := m.def[domainFlow.Step(p.Step)]
	if !ok {
		return fmt.Errorf("no transition bound to step %q", p.Step)
	}
	dashboard, ok := t.(domainFlow.Dashboard)
	if !ok {
		return fmt.Errorf("step %q does not accept dashboard decisions", p.Step)
	}

	// The status stamp is unconditional, independent of which next step
	// the decision maps to.
	if dashboard.Status != nil {
		p.SetStatus(*dashboard.Status)
	}
	return m.settle(ctx, prt, p, dashboard.Resolve(decision))
}

// Advance executes the transition bound to the current step against the
// inbound event and settles on the resulting step.
func (m *Manager) Advance(ctx context.Context, prt *participant.Participant, p *participation.Participation, event *domainFlow.Event) error {
	t, ok := m.def[domainFlow.Step(p.Step)]
	if !ok {
		return fmt.Errorf("no transition bound to step %q", p.Step)
	}

	candidate := domainFlow.Step(p.Step)
	switch tr := t.(type) {
	case domainFlow.ResponseDependent:
		if event != nil {
			next, write := tr.Resolve(candidate, event.Body)
			// Unrecognized input resolves to the same step; the write is
			// suppressed so the bound field is never corrupted.
			if write != nil {
				if err := m.applyWrites(ctx, prt, p, tr.Writes, write); err != nil {
					return err
				}
			}
			candidate = next
		}
	case domainFlow.ResponseIndependent:
		if event != nil {
			if err := m.applyWrites(ctx, prt, p, tr.Writes, &domainFlow.Value{Text: event.Body}); err != nil {
				return err
			}
			candidate = tr.Next
		}
	case domainFlow.MediaUpload:
		if event != nil {
			candidate = tr.Resolve(event)
			if event.HasMedia() {
				url, err := m.media.Save(ctx, p.ParticipationID, event.MediaURLs)
				if err != nil {
					return err
				}
				p.PhotoURL = &url
				if err := m.participations.Update(ctx, p); err != nil {
					return err
				}
			} else if err := m.registerFailedUpload(ctx, p); err != nil {
				return err
			}
		}
	}

	return m.settle(ctx, prt, p, candidate)
}

// settle persists the candidate step and dispatches its message, running
// server-driven transitions in a bounded loop until a step is reached that
// needs participant or operator input.
func (m *Manager) settle(ctx context.Context, prt *participant.Participant, p *participation.Participation, candidate domainFlow.Step) error {
	for hop := 0; ; hop++ {
		if hop >= maxChainLength {
			return fmt.Errorf("server transition chain exceeded %d hops at step %q", maxChainLength, candidate)
		}

		t, ok := m.def[candidate]
		if !ok {
			return fmt.Errorf("no transition bound to step %q", candidate)
		}

		server, isServer := t.(domainFlow.Server)
		if !isServer {
			if dashboard, ok := t.(domainFlow.Dashboard); ok && dashboard.Status != nil {
				p.SetStatus(*dashboard.Status)
			}
			p.Step = string(candidate)
			p.UpdatedAt = time.Now().UTC()
			if err := m.participations.UpdateStep(ctx, p.ParticipationID, p.Step, p.Status); err != nil {
				return err
			}
			m.dispatch(ctx, prt, p, t)
			return nil
		}

		if server.Status != nil {
			p.SetStatus(*server.Status)
			if *server.Status == participation.StatusPending {
				// The submission ledger must see every attempt that got
				// this far, including ones that win no prize.
				day := p.Day(m.cfg.Location)
				if _, err := m.participants.IncrementSubmission(ctx, p.Phone, day); err != nil {
					return err
				}
			}
		}

		outcome := false
		if server.Action == domainFlow.ActionAssignPriority {
			awarded, err := m.assigner.Assign(ctx, p)
			if err != nil {
				return err
			}
			outcome = awarded
		}

		p.Step = string(candidate)
		p.UpdatedAt = time.Now().UTC()
		if err := m.participations.UpdateStep(ctx, p.ParticipationID, p.Step, p.Status); err != nil {
			return err
		}
		m.dispatch(ctx, prt, p, server)

		next, more := server.Resolve(outcome)
		if !more {
			return nil
		}
		candidate = next
	}
}

func (m *Manager) registerFailedUpload(ctx context.Context, p *participation.Participation) error {
	attempts, err := m.participations.IncrementUploadAttempts(ctx, p.ParticipationID)
	if err != nil {
		return err
	}
	p.TicketAttempts = attempts
	if attempts >= m.cfg.MaxUploadAttempts && !p.Status.Terminal() {
		reason := "maximum invalid media attempts reached"
		p.SetStatus(participation.StatusRejected)
		p.RejectionReason = &reason
		if err := m.participations.Update(ctx, p); err != nil {
			return err
		}
		m.logger.Info().
			Str("participation_id", p.ParticipationID.String()).
			Int("attempts", attempts).
			Msg("participation rejected after repeated invalid uploads")
	}
	return nil
}

func (m *Manager) applyWrites(ctx context.Context, prt *participant.Participant, p *participation.Participation, writes []domainFlow.FieldRef, value *domainFlow.Value) error {
	if len(writes) == 0 || value == nil {
		return nil
	}

	touchedParticipant := false
	touchedParticipation := false
	for _, ref := range writes {
		switch ref.Source {
		case domainFlow.SourceParticipant:
			switch ref.Field {
			case domainFlow.FieldName:
				name := value.Text
				prt.Name = &name
			case domainFlow.FieldEmail:
				email := value.Text
				prt.Email = &email
			case domainFlow.FieldTerms:
				if value.IsBool {
					prt.Terms = value.Bool
				}
			case domainFlow.FieldComplete:
				if value.IsBool {
					prt.Complete = value.Bool
				}
			default:
				m.logger.Warn().Str("field", string(ref.Field)).Msg("unwritable participant field")
				continue
			}
			touchedParticipant = true
		case domainFlow.SourceParticipation:
			switch ref.Field {
			case domainFlow.FieldSerialNumber:
				serial := value.Text
				p.SerialNumber = &serial
			default:
				m.logger.Warn().Str("field", string(ref.Field)).Msg("unwritable participation field")
				continue
			}
			touchedParticipation = true
		}
	}

	if touchedParticipant {
		prt.UpdatedAt = time.Now().UTC()
		if err := m.participants.Update(ctx, prt); err != nil {
			return err
		}
	}
	if touchedParticipation {
		p.UpdatedAt = time.Now().UTC()
		if err := m.participations.Update(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func profileName(event *domainFlow.Event) *string {
	if event.ProfileName == "" {
		return nil
	}
	name := event.ProfileName
	return &name
}

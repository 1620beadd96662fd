package flow

import (
	"context"
	"strconv"
	"time"

	domainFlow "github.com/campaign-hub/campaign-hub/internal/domain/flow"
	"github.com/campaign-hub/campaign-hub/internal/domain/participant"
	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
)

// placeholder stands in for an argument that could not be resolved.
// Dispatch degrades rather than fails.
const placeholder = "-"

// dispatch resolves the transition's format arguments against live data
// and hands the template to the messaging gateway. Send failures are
// logged, not propagated: the step is already persisted and the
// conversation will simply re-prompt.
func (m *Manager) dispatch(ctx context.Context, prt *participant.Participant, p *participation.Participation, t domainFlow.Transition) {
	if t == nil {
		return
	}
	args := m.resolveArgs(ctx, prt, p, t.FormatArgs())
	if err := m.messenger.Send(ctx, prt.Phone, t.Template(), args); err != nil {
		m.logger.Warn().Err(err).
			Str("phone", prt.Phone).
			Str("template", t.Template()).
			Msg("failed to dispatch message")
	}
}

func (m *Manager) resolveArgs(ctx context.Context, prt *participant.Participant, p *participation.Participation, refs []domainFlow.FieldRef) map[string]string {
	if len(refs) == 0 {
		return nil
	}
	args := make(map[string]string, len(refs))
	for i, ref := range refs {
		args[strconv.Itoa(i+1)] = m.resolveArg(ctx, prt, p, ref)
	}
	return args
}

func (m *Manager) resolveArg(ctx context.Context, prt *participant.Participant, p *participation.Participation, ref domainFlow.FieldRef) string {
	switch ref.Source {
	case domainFlow.SourceParticipant:
		if prt == nil {
			return placeholder
		}
		switch ref.Field {
		case domainFlow.FieldName:
			return strOrPlaceholder(prt.Name)
		case domainFlow.FieldEmail:
			return strOrPlaceholder(prt.Email)
		}
	case domainFlow.SourceParticipation:
		if p == nil {
			return placeholder
		}
		switch ref.Field {
		case domainFlow.FieldPriorityNumber:
			if p.PriorityNumber == participation.PriorityUnassigned {
				return placeholder
			}
			return strconv.Itoa(p.PriorityNumber)
		case domainFlow.FieldPrizeName:
			return strOrPlaceholder(p.Prize)
		case domainFlow.FieldSerialNumber:
			return strOrPlaceholder(p.SerialNumber)
		}
	case domainFlow.SourceComputed:
		return m.resolveComputed(ctx, p, ref.Field)
	}
	return placeholder
}

func (m *Manager) resolveComputed(ctx context.Context, p *participation.Participation, field domainFlow.Field) string {
	switch field {
	case domainFlow.FieldCurrentParticipations:
		start, end := dayBounds(time.Now(), m.cfg.Location)
		count, err := m.participations.CountForDay(ctx, start, end)
		if err != nil {
			m.logger.Warn().Err(err).Msg("failed to count participations")
			return placeholder
		}
		return strconv.Itoa(count)
	case domainFlow.FieldPrizeAmount, domainFlow.FieldPrizeURL, domainFlow.FieldPrizeCode:
		if p == nil {
			return placeholder
		}
		code, err := m.codes.GetByParticipation(ctx, p.ParticipationID)
		if err != nil || code == nil {
			return placeholder
		}
		switch field {
		case domainFlow.FieldPrizeAmount:
			return strconv.Itoa(code.Amount)
		case domainFlow.FieldPrizeURL:
			return code.Link
		case domainFlow.FieldPrizeCode:
			return code.Code
		}
	}
	return placeholder
}

// dayBounds returns the UTC instants bracketing the local calendar day
// containing now.
func dayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func strOrPlaceholder(s *string) string {
	if s == nil || *s == "" {
		return placeholder
	}
	return *s
}

package participation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents participation lifecycle status.
type Status string

const (
	StatusIncomplete Status = "INCOMPLETE"
	StatusPending    Status = "PENDING"
	StatusComplete   Status = "COMPLETE"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
)

// PriorityUnassigned is the sentinel for a participation that has not been
// through the allocator yet.
const PriorityUnassigned = -1

var (
	ErrSerialAlreadySet = errors.New("serial number already set")
	ErrDuplicateSerial  = errors.New("duplicate serial number")
	ErrNotFound         = errors.New("participation not found")
)

// Participation is one promotion attempt owned by a participant. A
// participant may accumulate many over the campaign, at most one of them
// incomplete at a time.
type Participation struct {
	ID              int64     `json:"id"`
	ParticipationID uuid.UUID `json:"participationId"`
	ParticipantID   uuid.UUID `json:"participantId"`
	Phone           string    `json:"phone"`
	Status          Status    `json:"status"`
	Step            string    `json:"step"`
	PhotoURL        *string   `json:"photoUrl,omitempty"`
	TicketAttempts  int       `json:"ticketAttempts"`
	PriorityNumber  int       `json:"priorityNumber"`
	Prize           *string   `json:"prize,omitempty"`
	SerialNumber    *string   `json:"serialNumber,omitempty"`
	RejectionReason *string   `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// New creates an incomplete participation at the given start step.
func New(participantID uuid.UUID, phone, step string) *Participation {
	now := time.Now().UTC()
	return &Participation{
		ParticipationID: uuid.New(),
		ParticipantID:   participantID,
		Phone:           phone,
		Status:          StatusIncomplete,
		Step:            step,
		PriorityNumber:  PriorityUnassigned,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Terminal reports whether the status admits no further lifecycle change.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusApproved
}

// SetStatus applies a lifecycle status change. Terminal statuses stick.
func (p *Participation) SetStatus(s Status) {
	if p.Status.Terminal() {
		return
	}
	p.Status = s
}

// Day returns the calendar-day key of the participation's creation in loc.
func (p *Participation) Day(loc *time.Location) string {
	return p.CreatedAt.In(loc).Format("2006-01-02")
}

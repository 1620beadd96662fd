package participant

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a consumer reached over the WhatsApp channel, keyed by
// phone handle. Created on first inbound contact and mutated by onboarding
// transitions; never deleted by the flow engine.
type Participant struct {
	ID            int64     `json:"id"`
	ParticipantID uuid.UUID `json:"participantId"`
	Phone         string    `json:"phone"`
	ProfileName   *string   `json:"profileName,omitempty"`
	Name          *string   `json:"name,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Terms         bool      `json:"terms"`
	Complete      bool      `json:"complete"`
	// Submissions counts accepted submissions per calendar day
	// (campaign timezone), keyed "2006-01-02".
	Submissions map[string]int `json:"submissions"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// New creates a participant for a first inbound contact.
func New(phone string, profileName *string) *Participant {
	now := time.Now().UTC()
	return &Participant{
		ParticipantID: uuid.New(),
		Phone:         phone,
		ProfileName:   profileName,
		Submissions:   map[string]int{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SubmissionsOn returns the accepted-submission count for a day key.
func (p *Participant) SubmissionsOn(day string) int {
	if p.Submissions == nil {
		return 0
	}
	return p.Submissions[day]
}

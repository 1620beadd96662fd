package prize

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoCodeAvailable = errors.New("no available code found")
	ErrSlotTaken       = errors.New("prize slot already taken")
)

// Slot is a (day, priority-number) record optionally bound to a prize,
// claimable at most once. Slots are seeded before the campaign day starts
// and never created by the engine.
type Slot struct {
	Day    string `json:"day" yaml:"day"`
	Number int    `json:"number" yaml:"number"`
	Prize  string `json:"prize" yaml:"prize"`
	Taken  bool   `json:"taken" yaml:"-"`
}

// Code is a scarce redemption code keyed by prize amount. Claiming one
// marks it taken and back-references the claiming participation.
type Code struct {
	ID              int64      `json:"id"`
	CodeID          uuid.UUID  `json:"codeId"`
	Amount          int        `json:"amount"`
	Code            string     `json:"code"`
	Link            string     `json:"link"`
	Taken           bool       `json:"taken"`
	ParticipationID *uuid.UUID `json:"participationId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CodeCounter tracks availability per prize amount.
type CodeCounter struct {
	Amount    int `json:"amount"`
	Available int `json:"available"`
	Taken     int `json:"taken"`
}

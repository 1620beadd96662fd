package flow

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
)

// Action names a server-side effect bound to a server transition.
type Action string

const (
	ActionNone           Action = ""
	ActionAssignPriority Action = "assign_priority"
)

// Transition is the behavior bound to a step: how to compute the next step,
// what to persist, and which message template to emit. It is a closed set;
// the manager dispatches by type switch over exactly these five variants.
type Transition interface {
	Template() string
	FormatArgs() []FieldRef
	transition()
}

type shared struct {
	MessageTemplate string
	Args            []FieldRef
}

func (s shared) Template() string { return s.MessageTemplate }

func (s shared) FormatArgs() []FieldRef { return s.Args }

// ResponseDependent maps a normalized copy of the inbound text against a
// fixed set of accepted phrases. Unmatched input resolves to the current
// step and suppresses the field write.
type ResponseDependent struct {
	shared
	Responses map[string]Step
	Writes    []FieldRef
}

// ResponseIndependent ignores input and always advances; used for purely
// server-prompted data-collection turns.
type ResponseIndependent struct {
	shared
	Next   Step
	Writes []FieldRef
}

// MediaUpload advances to Success only when the event carries media;
// otherwise to Failure, counting the miss against the upload-attempt
// ceiling.
type MediaUpload struct {
	shared
	Success Step
	Failure Step
}

// Dashboard is advanced by a back-office decision rather than the
// participant's own message. Its status is stamped unconditionally on
// entry, before the decision keyword is evaluated.
type Dashboard struct {
	shared
	Decisions map[string]Step
	Status    *participation.Status
}

// Server is the only variant with a side-effecting action. A nil Outcomes
// table means terminal: stamp, act, dispatch, do not advance.
type Server struct {
	shared
	Outcomes map[bool]Step
	Action   Action
	Status   *participation.Status
}

func (ResponseDependent) transition()   {}
func (ResponseIndependent) transition() {}
func (MediaUpload) transition()         {}
func (Dashboard) transition()           {}
func (Server) transition()              {}

var (
	_ Transition = ResponseDependent{}
	_ Transition = ResponseIndependent{}
	_ Transition = MediaUpload{}
	_ Transition = Dashboard{}
	_ Transition = Server{}
)

// Value is a field write value produced by a transition: raw inbound text,
// or a boolean coerced from one of the canonical phrases.
type Value struct {
	Text   string
	Bool   bool
	IsBool bool
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeResponse strips diacritics, lower-cases, and trims inbound text
// so "Sí Acepto " matches "si acepto".
func NormalizeResponse(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Resolve computes the next step for the inbound text. The returned write
// is nil when the input made no progress.
func (t ResponseDependent) Resolve(current Step, body string) (Step, *Value) {
	response := NormalizeResponse(body)
	next, ok := t.Responses[response]
	if !ok {
		return current, nil
	}

	write := &Value{Text: body}
	switch response {
	case "si acepto", "confirmar":
		write = &Value{Bool: true, IsBool: true}
	case "no acepto":
		write = &Value{Bool: false, IsBool: true}
	}
	return next, write
}

// Resolve routes on the presence of attached media.
func (t MediaUpload) Resolve(event *Event) Step {
	if event.HasMedia() {
		return t.Success
	}
	return t.Failure
}

// Resolve maps a back-office decision keyword to the next step. Unmapped
// decisions fall back to a fresh participation.
func (t Dashboard) Resolve(decision string) Step {
	next, ok := t.Decisions[strings.ToLower(strings.TrimSpace(decision))]
	if !ok {
		return StepNewParticipation
	}
	return next
}

// Resolve maps the bound action's outcome through the transition table.
// The second return is false for terminal server steps.
func (t Server) Resolve(outcome bool) (Step, bool) {
	if t.Outcomes == nil {
		return "", false
	}
	next, ok := t.Outcomes[outcome]
	return next, ok
}

package flow

import (
	"fmt"

	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
)

// Outbound message template identifiers. Opaque to the engine; passed
// unmodified to the messaging gateway together with positional arguments.
const (
	TemplateOnboarding             = "HX46115dd8934cc5820445eaaf697213a6"
	TemplateOnboardingTerms        = "HX1eb08f22c35eb59d07edd94015a74c13"
	TemplateOnboardingPhoto        = "HX0958631a027c2144d92996efbdf5fbdc"
	TemplateOnboardingInvalidPhoto = "HX2158e4b989cc8436f1c0eba4fdf45dc7"
	TemplateOnboardingName         = "HXa52afbf47de9d5c5b5ffe2078920bafc"
	TemplateOnboardingEmail        = "HX3f6d826b3abebbc4efe6a1a72776279d"
	TemplateOnboardingConfirmation = "HX4fe9cbfa17572324cda8df6e4780b519"
	TemplatePriorityNumber         = "HX04cb615e50500f09dea065f819a26b10"
	TemplateNoPrize                = "HX9129b50ae4c409e207caace3e00f991f"
	TemplateDashboardWaiting       = "HXf5e5575d9a622b9f6c396797433f4688"
	TemplateDashboardConfirmation  = "HXaccd22243567d67d646ef272416481f9"
	TemplateDashboardRejection     = "HX07c4758573a8f0dc490e45c604a7a55f"
	TemplateValidatePhoto          = "HX842b1bcba42432bd76984e35a3c406c8"
	TemplateMaxParticipations      = "HX4fa1b484f4549d844bb2489db9bf21d8"
)

// Definition is the full step-to-transition table, built once at startup
// and shared, immutable, process-wide.
type Definition map[Step]Transition

func statusOf(s participation.Status) *participation.Status { return &s }

// NewDefinition builds the campaign flow. The onboarding confirmation
// deliberately cycles back to the name step for edits.
func NewDefinition() Definition {
	return Definition{
		StepOnboarding: ResponseDependent{
			shared: shared{
				MessageTemplate: TemplateOnboarding,
				Args:            []FieldRef{Ref(SourceComputed, FieldCurrentParticipations)},
			},
			Responses: map[string]Step{
				"si acepto": StepOnboardingPhoto,
				"no acepto": StepOnboardingTerms,
			},
			Writes: []FieldRef{Ref(SourceParticipant, FieldTerms)},
		},
		StepOnboardingTerms: ResponseDependent{
			shared: shared{MessageTemplate: TemplateOnboardingTerms},
			Responses: map[string]Step{
				"si acepto": StepOnboardingPhoto,
			},
			Writes: []FieldRef{Ref(SourceParticipant, FieldTerms)},
		},
		StepOnboardingPhoto: MediaUpload{
			shared:  shared{MessageTemplate: TemplateOnboardingPhoto},
			Success: StepOnboardingName,
			Failure: StepOnboardingInvalidPhoto,
		},
		StepOnboardingInvalidPhoto: MediaUpload{
			shared:  shared{MessageTemplate: TemplateOnboardingInvalidPhoto},
			Success: StepOnboardingName,
			Failure: StepOnboardingInvalidPhoto,
		},
		StepOnboardingName: ResponseIndependent{
			shared: shared{MessageTemplate: TemplateOnboardingName},
			Next:   StepOnboardingEmail,
			Writes: []FieldRef{Ref(SourceParticipant, FieldName)},
		},
		StepOnboardingEmail: ResponseIndependent{
			shared: shared{MessageTemplate: TemplateOnboardingEmail},
			Next:   StepOnboardingConfirmation,
			Writes: []FieldRef{Ref(SourceParticipant, FieldEmail)},
		},
		StepOnboardingConfirmation: ResponseDependent{
			shared: shared{
				MessageTemplate: TemplateOnboardingConfirmation,
				Args: []FieldRef{
					Ref(SourceParticipant, FieldName),
					Ref(SourceParticipant, FieldEmail),
				},
			},
			Responses: map[string]Step{
				"confirmar": StepPriorityNumber,
				"editar":    StepOnboardingName,
			},
			Writes: []FieldRef{Ref(SourceParticipant, FieldComplete)},
		},
		StepPriorityNumber: Server{
			shared: shared{MessageTemplate: TemplatePriorityNumber},
			Outcomes: map[bool]Step{
				true:  StepDashboardWaiting,
				false: StepNoPrize,
			},
			Action: ActionAssignPriority,
			Status: statusOf(participation.StatusPending),
		},
		StepNoPrize: Server{
			shared: shared{
				MessageTemplate: TemplateNoPrize,
				Args:            []FieldRef{Ref(SourceParticipation, FieldPriorityNumber)},
			},
			Status: statusOf(participation.StatusComplete),
		},
		StepDashboardWaiting: Dashboard{
			shared: shared{
				MessageTemplate: TemplateDashboardWaiting,
				Args: []FieldRef{
					Ref(SourceParticipation, FieldPriorityNumber),
					Ref(SourceParticipation, FieldPrizeName),
				},
			},
			Decisions: map[string]Step{
				"valid":   StepDashboardConfirmation,
				"invalid": StepDashboardRejection,
			},
		},
		StepDashboardConfirmation: Dashboard{
			shared: shared{
				MessageTemplate: TemplateDashboardConfirmation,
				Args: []FieldRef{
					Ref(SourceComputed, FieldPrizeAmount),
					Ref(SourceParticipation, FieldPriorityNumber),
					Ref(SourceComputed, FieldPrizeURL),
					Ref(SourceComputed, FieldPrizeCode),
				},
			},
			Status: statusOf(participation.StatusComplete),
		},
		StepDashboardRejection: Dashboard{
			shared: shared{MessageTemplate: TemplateDashboardRejection},
			Status: statusOf(participation.StatusRejected),
		},
		StepValidatePhoto: MediaUpload{
			shared: shared{
				MessageTemplate: TemplateValidatePhoto,
				Args:            []FieldRef{Ref(SourceComputed, FieldCurrentParticipations)},
			},
			Success: StepPriorityNumber,
			Failure: StepInvalidPhoto,
		},
		StepInvalidPhoto: MediaUpload{
			shared:  shared{MessageTemplate: TemplateOnboardingInvalidPhoto},
			Success: StepPriorityNumber,
			Failure: StepInvalidPhoto,
		},
		StepNewParticipation: ResponseIndependent{
			shared: shared{MessageTemplate: TemplateValidatePhoto},
			Next:   StepValidatePhoto,
		},
		StepMaxParticipations: Server{
			shared: shared{MessageTemplate: TemplateMaxParticipations},
		},
	}
}

// Validate checks that every step resolves to a transition and every edge
// targets a defined step. A failure here is a configuration fault, caught
// at startup rather than mid-conversation.
func (d Definition) Validate() error {
	for _, step := range Steps() {
		t, ok := d[step]
		if !ok {
			return fmt.Errorf("step %q has no transition", step)
		}
		for _, target := range edgeTargets(t) {
			if _, ok := d[target]; !ok {
				return fmt.Errorf("step %q routes to undefined step %q", step, target)
			}
		}
	}
	return nil
}

func edgeTargets(t Transition) []Step {
	var targets []Step
	switch tr := t.(type) {
	case ResponseDependent:
		for _, s := range tr.Responses {
			targets = append(targets, s)
		}
	case ResponseIndependent:
		targets = append(targets, tr.Next)
	case MediaUpload:
		targets = append(targets, tr.Success, tr.Failure)
	case Dashboard:
		for _, s := range tr.Decisions {
			targets = append(targets, s)
		}
	case Server:
		for _, s := range tr.Outcomes {
			targets = append(targets, s)
		}
	}
	return targets
}

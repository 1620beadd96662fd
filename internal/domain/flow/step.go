package flow

// Step identifies a conversation state. Step values are persisted on
// participations, so they are a durable contract with the CRUD layer:
// renaming one is a breaking schema change.
type Step string

const (
	StepOnboarding             Step = "onboarding"
	StepOnboardingTerms        Step = "onboarding_terms"
	StepOnboardingPhoto        Step = "onboarding_photo"
	StepOnboardingInvalidPhoto Step = "onboarding_invalid_photo"
	StepOnboardingName         Step = "onboarding_name"
	StepOnboardingEmail        Step = "onboarding_email"
	StepOnboardingConfirmation Step = "onboarding_confirmation"
	StepPriorityNumber         Step = "priority_number"
	StepNoPrize                Step = "no_prize"
	StepDashboardWaiting       Step = "dashboard_waiting"
	StepDashboardConfirmation  Step = "dashboard_confirmation"
	StepDashboardRejection     Step = "dashboard_rejection"
	StepValidatePhoto          Step = "validate_photo"
	StepInvalidPhoto           Step = "invalid_photo"
	StepNewParticipation       Step = "new_participation"
	StepMaxParticipations      Step = "max_participations"
)

// Steps enumerates every defined step.
func Steps() []Step {
	return []Step{
		StepOnboarding,
		StepOnboardingTerms,
		StepOnboardingPhoto,
		StepOnboardingInvalidPhoto,
		StepOnboardingName,
		StepOnboardingEmail,
		StepOnboardingConfirmation,
		StepPriorityNumber,
		StepNoPrize,
		StepDashboardWaiting,
		StepDashboardConfirmation,
		StepDashboardRejection,
		StepValidatePhoto,
		StepInvalidPhoto,
		StepNewParticipation,
		StepMaxParticipations,
	}
}

package flow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainFlow "github.com/campaign-hub/campaign-hub/internal/domain/flow"
	"github.com/campaign-hub/campaign-hub/internal/domain/participant"
	"github.com/campaign-hub/campaign-hub/internal/domain/participation"
	"github.com/campaign-hub/campaign-hub/internal/domain/prize"
)

type fakeParticipants struct {
	byPhone map[string]*participant.Participant
}

func newFakeParticipants() *fakeParticipants {
	return &fakeParticipants{byPhone: map[string]*participant.Participant{}}
}

func (f *fakeParticipants) Create(ctx context.Context, p *participant.Participant) error {
	f.byPhone[p.Phone] = p
	return nil
}

func (f *fakeParticipants) GetByPhone(ctx context.Context, phone string) (*participant.Participant, error) {
	return f.byPhone[phone], nil
}

func (f *fakeParticipants) Update(ctx context.Context, p *participant.Participant) error {
	f.byPhone[p.Phone] = p
	return nil
}

func (f *fakeParticipants) IncrementSubmission(ctx context.Context, phone, day string) (int, error) {
	p, ok := f.byPhone[phone]
	if !ok {
		return 0, nil
	}
	if p.Submissions == nil {
		p.Submissions = map[string]int{}
	}
	p.Submissions[day]++
	return p.Submissions[day], nil
}

type fakeParticipations struct {
	byID map[uuid.UUID]*participation.Participation
}

func newFakeParticipations() *fakeParticipations {
	return &fakeParticipations{byID: map[uuid.UUID]*participation.Participation{}}
}

func (f *fakeParticipations) Create(ctx context.Context, p *participation.Participation) error {
	f.byID[p.ParticipationID] = p
	return nil
}

func (f *fakeParticipations) GetByID(ctx context.Context, id uuid.UUID) (*participation.Participation, error) {
	return f.byID[id], nil
}

func (f *fakeParticipations) GetOpenByPhone(ctx context.Context, phone string) (*participation.Participation, error) {
	for _, p := range f.byID {
		if p.Phone == phone && (p.Status == participation.StatusIncomplete || p.Status == participation.StatusPending) {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeParticipations) List(ctx context.Context, filter participation.Filter, limit int) ([]*participation.Participation, error) {
	var out []*participation.Participation
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeParticipations) Update(ctx context.Context, p *participation.Participation) error {
	f.byID[p.ParticipationID] = p
	return nil
}

func (f *fakeParticipations) UpdateStep(ctx context.Context, id uuid.UUID, step string, status participation.Status) error {
	p := f.byID[id]
	p.Step = step
	p.Status = status
	return nil
}

func (f *fakeParticipations) CountForDay(ctx context.Context, dayStart, dayEnd time.Time) (int, error) {
	n := 0
	for _, p := range f.byID {
		if p.Status != participation.StatusIncomplete && !p.CreatedAt.Before(dayStart) && p.CreatedAt.Before(dayEnd) {
			n++
		}
	}
	return n, nil
}

func (f *fakeParticipations) ExistsBySerial(ctx context.Context, serial string) (bool, error) {
	for _, p := range f.byID {
		if p.SerialNumber != nil && *p.SerialNumber == serial {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeParticipations) IncrementUploadAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	p := f.byID[id]
	p.TicketAttempts++
	return p.TicketAttempts, nil
}

type fakeCodes struct {
	code *prize.Code
}

func (f *fakeCodes) Create(ctx context.Context, c *prize.Code) error { return nil }

func (f *fakeCodes) GetByParticipation(ctx context.Context, participationID uuid.UUID) (*prize.Code, error) {
	return f.code, nil
}

func (f *fakeCodes) Counters(ctx context.Context) ([]*prize.CodeCounter, error) { return nil, nil }

type sentMessage struct {
	to       string
	template string
	args     map[string]string
}

type fakeMessenger struct {
	sent []sentMessage
}

func (f *fakeMessenger) Send(ctx context.Context, to, template string, args map[string]string) error {
	f.sent = append(f.sent, sentMessage{to: to, template: template, args: args})
	return nil
}

func (f *fakeMessenger) templates() []string {
	out := make([]string, len(f.sent))
	for i, s := range f.sent {
		out[i] = s.template
	}
	return out
}

type fakeMedia struct {
	url   string
	saved [][]string
}

func (f *fakeMedia) Save(ctx context.Context, participationID uuid.UUID, urls []string) (string, error) {
	f.saved = append(f.saved, urls)
	return f.url, nil
}

// fakeAssigner mirrors the allocator contract: it completes the
// participation with a minted number and optional prize.
type fakeAssigner struct {
	number  int
	prize   *string
	awarded bool
	calls   int
}

func (f *fakeAssigner) Assign(ctx context.Context, p *participation.Participation) (bool, error) {
	f.calls++
	p.PriorityNumber = f.number
	p.Prize = f.prize
	p.SetStatus(participation.StatusComplete)
	return f.awarded, nil
}

type harness struct {
	manager        *Manager
	participants   *fakeParticipants
	participations *fakeParticipations
	codes          *fakeCodes
	assigner       *fakeAssigner
	messenger      *fakeMessenger
	media          *fakeMedia
}

func newHarness(cfg Config) *harness {
	h := &harness{
		participants:   newFakeParticipants(),
		participations: newFakeParticipations(),
		codes:          &fakeCodes{},
		assigner:       &fakeAssigner{number: 1},
		messenger:      &fakeMessenger{},
		media:          &fakeMedia{url: "https://bucket.example.com/media_0.jpeg"},
	}
	h.manager = NewManager(
		domainFlow.NewDefinition(),
		h.participants,
		h.participations,
		h.codes,
		h.assigner,
		h.messenger,
		h.media,
		cfg,
		zerolog.Nop(),
	)
	return h
}

func (h *harness) seed(step domainFlow.Step) (*participant.Participant, *participation.Participation) {
	prt := participant.New("+5215550000001", nil)
	h.participants.byPhone[prt.Phone] = prt
	p := participation.New(prt.ParticipantID, prt.Phone, string(step))
	h.participations.byID[p.ParticipationID] = p
	return prt, p
}

func TestHandleMessageCreatesParticipantAndGreets(t *testing.T) {
	h := newHarness(Config{})

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: "+5215550000001", Body: "hola"})
	require.NoError(t, err)

	prt := h.participants.byPhone["+5215550000001"]
	require.NotNil(t, prt)

	p, err := h.participations.GetOpenByPhone(context.Background(), "+5215550000001")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, string(domainFlow.StepOnboarding), p.Step)
	assert.Equal(t, participation.StatusIncomplete, p.Status)

	require.Len(t, h.messenger.sent, 1)
	assert.Equal(t, domainFlow.TemplateOnboarding, h.messenger.sent[0].template)
}

func TestAcceptedTermsAdvanceToPhoto(t *testing.T) {
	h := newHarness(Config{})
	prt, p := h.seed(domainFlow.StepOnboarding)

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "SÍ ACEPTO"})
	require.NoError(t, err)

	assert.Equal(t, string(domainFlow.StepOnboardingPhoto), p.Step)
	assert.True(t, prt.Terms)
	require.Len(t, h.messenger.sent, 1)
	assert.Equal(t, domainFlow.TemplateOnboardingPhoto, h.messenger.sent[0].template)
}

func TestUnrecognizedInputRepromptsWithoutWriting(t *testing.T) {
	h := newHarness(Config{})
	prt, p := h.seed(domainFlow.StepOnboarding)

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "what is this"})
	require.NoError(t, err)

	assert.Equal(t, string(domainFlow.StepOnboarding), p.Step)
	assert.False(t, prt.Terms)
	require.Len(t, h.messenger.sent, 1)
	assert.Equal(t, domainFlow.TemplateOnboarding, h.messenger.sent[0].template)
}

func TestMediaUploadStoresPhotoAndAdvances(t *testing.T) {
	h := newHarness(Config{})
	prt, p := h.seed(domainFlow.StepOnboardingPhoto)

	event := &domainFlow.Event{
		From:      prt.Phone,
		NumMedia:  1,
		MediaURLs: []string{"https://api.example.com/media/1"},
	}
	err := h.manager.HandleMessage(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, string(domainFlow.StepOnboardingName), p.Step)
	require.NotNil(t, p.PhotoURL)
	assert.Equal(t, h.media.url, *p.PhotoURL)
	require.Len(t, h.media.saved, 1)
}

func TestRepeatedInvalidUploadsReject(t *testing.T) {
	h := newHarness(Config{MaxUploadAttempts: 3})
	prt, p := h.seed(domainFlow.StepOnboardingPhoto)
	p.TicketAttempts = 2

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "no photo, just text"})
	require.NoError(t, err)

	assert.Equal(t, 3, p.TicketAttempts)
	assert.Equal(t, participation.StatusRejected, p.Status)
	require.NotNil(t, p.RejectionReason)
}

func TestInvalidUploadBelowCeilingReprompts(t *testing.T) {
	h := newHarness(Config{MaxUploadAttempts: 3})
	prt, p := h.seed(domainFlow.StepOnboardingPhoto)

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "text only"})
	require.NoError(t, err)

	assert.Equal(t, 1, p.TicketAttempts)
	assert.Equal(t, participation.StatusIncomplete, p.Status)
	assert.Equal(t, string(domainFlow.StepOnboardingInvalidPhoto), p.Step)
}

func TestConfirmationChainsThroughServerToNoPrize(t *testing.T) {
	h := newHarness(Config{})
	h.assigner.number = 7
	h.assigner.awarded = false
	prt, p := h.seed(domainFlow.StepOnboardingConfirmation)

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "CONFIRMAR"})
	require.NoError(t, err)

	assert.True(t, prt.Complete)
	assert.Equal(t, 1, h.assigner.calls)
	assert.Equal(t, string(domainFlow.StepNoPrize), p.Step)
	assert.Equal(t, participation.StatusComplete, p.Status)
	assert.Equal(t, 7, p.PriorityNumber)

	assert.Equal(t, []string{domainFlow.TemplatePriorityNumber, domainFlow.TemplateNoPrize}, h.messenger.templates())
	// the no-prize message carries the minted number
	assert.Equal(t, "7", h.messenger.sent[1].args["1"])

	// the ledger records the attempt even without a prize
	assert.Equal(t, 1, prt.SubmissionsOn(p.Day(time.UTC)))
}

func TestPrizeWinnerWaitsForDashboard(t *testing.T) {
	h := newHarness(Config{})
	prizeName := "500"
	h.assigner.number = 5
	h.assigner.prize = &prizeName
	h.assigner.awarded = true
	prt, p := h.seed(domainFlow.StepOnboardingConfirmation)

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "confirmar"})
	require.NoError(t, err)

	assert.Equal(t, string(domainFlow.StepDashboardWaiting), p.Step)
	assert.Equal(t, participation.StatusComplete, p.Status)
	require.NotNil(t, p.Prize)

	templates := h.messenger.templates()
	assert.Equal(t, []string{domainFlow.TemplatePriorityNumber, domainFlow.TemplateDashboardWaiting}, templates)
	waiting := h.messenger.sent[1]
	assert.Equal(t, "5", waiting.args["1"])
	assert.Equal(t, "500", waiting.args["2"])
}

func TestHandleDecisionValidConfirmsWithCode(t *testing.T) {
	h := newHarness(Config{})
	h.codes.code = &prize.Code{Amount: 500, Code: "WIN-500-001", Link: "https://redeem.example.com/WIN-500-001"}
	prt, p := h.seed(domainFlow.StepDashboardWaiting)
	prizeName := "500"
	p.PriorityNumber = 5
	p.Prize = &prizeName

	err := h.manager.HandleDecision(context.Background(), prt, p, "valid")
	require.NoError(t, err)

	assert.Equal(t, string(domainFlow.StepDashboardConfirmation), p.Step)
	assert.Equal(t, participation.StatusComplete, p.Status)

	require.Len(t, h.messenger.sent, 1)
	sent := h.messenger.sent[0]
	assert.Equal(t, domainFlow.TemplateDashboardConfirmation, sent.template)
	assert.Equal(t, "500", sent.args["1"])
	assert.Equal(t, "5", sent.args["2"])
	assert.Equal(t, "https://redeem.example.com/WIN-500-001", sent.args["3"])
	assert.Equal(t, "WIN-500-001", sent.args["4"])
}

func TestHandleDecisionInvalidRejects(t *testing.T) {
	h := newHarness(Config{})
	prt, p := h.seed(domainFlow.StepDashboardWaiting)

	err := h.manager.HandleDecision(context.Background(), prt, p, "invalid")
	require.NoError(t, err)

	assert.Equal(t, string(domainFlow.StepDashboardRejection), p.Step)
	assert.Equal(t, participation.StatusRejected, p.Status)
	require.Len(t, h.messenger.sent, 1)
	assert.Equal(t, domainFlow.TemplateDashboardRejection, h.messenger.sent[0].template)
}

func TestHandleDecisionRejectsNonDashboardStep(t *testing.T) {
	h := newHarness(Config{})
	prt, p := h.seed(domainFlow.StepOnboarding)

	err := h.manager.HandleDecision(context.Background(), prt, p, "valid")
	assert.Error(t, err)
}

func TestDailySubmissionCapBlocksNewParticipation(t *testing.T) {
	h := newHarness(Config{MaxDailySubmissions: 2})
	prt := participant.New("+5215550000002", nil)
	prt.Complete = true
	day := time.Now().UTC().Format("2006-01-02")
	prt.Submissions[day] = 2
	h.participants.byPhone[prt.Phone] = prt

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "hola"})
	require.NoError(t, err)

	p, err := h.participations.GetOpenByPhone(context.Background(), prt.Phone)
	require.NoError(t, err)
	assert.Nil(t, p, "no participation may be opened past the daily cap")

	require.Len(t, h.messenger.sent, 1)
	assert.Equal(t, domainFlow.TemplateMaxParticipations, h.messenger.sent[0].template)
}

func TestReturningParticipantStartsAtNewParticipation(t *testing.T) {
	h := newHarness(Config{})
	prt := participant.New("+5215550000003", nil)
	prt.Complete = true
	h.participants.byPhone[prt.Phone] = prt

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "hola"})
	require.NoError(t, err)

	p, err := h.participations.GetOpenByPhone(context.Background(), prt.Phone)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, string(domainFlow.StepValidatePhoto), p.Step)
}

func TestNameAndEmailCapture(t *testing.T) {
	h := newHarness(Config{})
	prt, p := h.seed(domainFlow.StepOnboardingName)

	err := h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "María García"})
	require.NoError(t, err)
	require.NotNil(t, prt.Name)
	assert.Equal(t, "María García", *prt.Name)
	assert.Equal(t, string(domainFlow.StepOnboardingEmail), p.Step)

	err = h.manager.HandleMessage(context.Background(), &domainFlow.Event{From: prt.Phone, Body: "maria@example.com"})
	require.NoError(t, err)
	require.NotNil(t, prt.Email)
	assert.Equal(t, "maria@example.com", *prt.Email)
	assert.Equal(t, string(domainFlow.StepOnboardingConfirmation), p.Step)

	// confirmation echoes the captured values back
	confirmation := h.messenger.sent[len(h.messenger.sent)-1]
	assert.Equal(t, "María García", confirmation.args["1"])
	assert.Equal(t, "maria@example.com", confirmation.args["2"])
}

package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"growthmind/internal/domain"
	"growthmind/internal/email"
	"growthmind/internal/llm"
	"growthmind/internal/repository"
)

type stubGenerator struct {
	outcome AuditOutcome
	release chan struct{}

	mu       sync.Mutex
	profiles []domain.BusinessProfile
}

func (g *stubGenerator) Generate(_ context.Context, profile domain.BusinessProfile) AuditOutcome {
	g.mu.Lock()
	g.profiles = append(g.profiles, profile)
	g.mu.Unlock()
	if g.release != nil {
		<-g.release
	}
	return g.outcome
}

type panicGenerator struct{}

func (panicGenerator) Generate(context.Context, domain.BusinessProfile) AuditOutcome {
	panic("generator exploded")
}

type recordingNotifier struct {
	mu    sync.Mutex
	leads []email.LeadNotification
}

func (n *recordingNotifier) NotifyLead(_ context.Context, lead email.LeadNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, lead)
	return nil
}

func newTestFunnel(gen AuditGenerator, minAnalyzing time.Duration) (*FunnelService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := NewFunnelService(repository.NewMemorySessionRepository(0), gen, notifier, nil, zap.NewNop(), minAnalyzing)
	return svc, notifier
}

// fillAssessment deja la sesion en el paso 4 con el perfil completo.
func fillAssessment(t *testing.T, svc *FunnelService, id string, p domain.BusinessProfile) {
	t.Helper()
	ctx := context.Background()
	steps := [][]ProfileUpdate{
		{{Field: domain.FieldIndustry, Value: p.Industry}, {Field: domain.FieldRole, Value: p.Role}},
		{{Field: domain.FieldCompanySize, Value: p.CompanySize}, {Field: domain.FieldRevenueRange, Value: p.RevenueRange}},
		{{Field: domain.FieldPrimaryChallenge, Value: p.PrimaryChallenge}},
	}
	for i, updates := range steps {
		if _, err := svc.UpdateProfile(ctx, id, updates); err != nil {
			t.Fatalf("step %d update: %v", i+1, err)
		}
		if _, err := svc.NextStep(ctx, id); err != nil {
			t.Fatalf("step %d next: %v", i+1, err)
		}
	}
	var channels []ProfileUpdate
	for _, ch := range p.MarketingChannels {
		channels = append(channels, ProfileUpdate{Field: domain.FieldMarketingChannel, Value: ch})
	}
	if _, err := svc.UpdateProfile(ctx, id, channels); err != nil {
		t.Fatalf("step 4 update: %v", err)
	}
}

func startedSession(t *testing.T, svc *FunnelService) string {
	t.Helper()
	sess, err := svc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := svc.Start(context.Background(), sess.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	return sess.ID
}

func TestFunnelService_FullScenarioWithFailingAI(t *testing.T) {
	ctx := context.Background()
	audits := NewAuditService(&llm.MockClient{Err: errors.New("503 from provider")}, nil, zap.NewNop())
	svc, notifier := newTestFunnel(audits, 0)

	id := startedSession(t, svc)
	fillAssessment(t, svc, id, completeProfile())

	sess, err := svc.SubmitAssessment(ctx, id)
	if err != nil {
		t.Fatalf("submit assessment: %v", err)
	}
	if sess.State != domain.StateLeadCapture {
		t.Fatalf("expected LEAD_CAPTURE, got %s", sess.State)
	}
	if sess.AuditSource != domain.AuditSourceFallback || sess.Audit == nil || sess.Audit.OverallScore != 72 {
		t.Fatalf("expected fallback audit, got %s %+v", sess.AuditSource, sess.Audit)
	}

	_, err = svc.SubmitLead(ctx, id, domain.ContactInfo{Name: "Jane Doe", Email: "jane.acme.com", CompanyName: "Acme"})
	var verr *domain.ContactValidationError
	if !errors.As(err, &verr) || verr.Fields["email"] != "Valid email is required" {
		t.Fatalf("expected email validation error, got %v", err)
	}
	if sess, _ := svc.GetSession(ctx, id); sess.State != domain.StateLeadCapture || sess.Contact != nil {
		t.Fatalf("invalid lead must not advance the session")
	}

	contact := domain.ContactInfo{Name: "Jane Doe", Email: "jane@acme.com", CompanyName: "Acme"}
	sess, err = svc.SubmitLead(ctx, id, contact)
	if err != nil {
		t.Fatalf("submit lead: %v", err)
	}
	if sess.State != domain.StateResults {
		t.Fatalf("expected RESULTS, got %s", sess.State)
	}

	report, err := svc.Results(ctx, id)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if report.Contact != contact {
		t.Fatalf("contact not preserved: %+v", report.Contact)
	}
	if !reflect.DeepEqual(report.Audit, expectedFallbackAudit()) {
		t.Fatalf("report audit differs from the fixed fallback: %+v", report.Audit)
	}
	if report.ScoreBand != "moderate" {
		t.Fatalf("expected moderate band, got %s", report.ScoreBand)
	}

	svc.Wait()
	if len(notifier.leads) != 1 || notifier.leads[0].Contact.Email != "jane@acme.com" {
		t.Fatalf("expected one lead notification, got %+v", notifier.leads)
	}
	if notifier.leads[0].AuditSource != domain.AuditSourceFallback {
		t.Fatalf("lead should carry the audit source")
	}
}

func TestFunnelService_AnalyzingHonorsMinimumDuration(t *testing.T) {
	gen := &stubGenerator{outcome: AuditOutcome{Result: FallbackAudit(), Source: domain.AuditSourceLive}}
	minAnalyzing := 80 * time.Millisecond
	svc, _ := newTestFunnel(gen, minAnalyzing)

	id := startedSession(t, svc)
	fillAssessment(t, svc, id, completeProfile())

	start := time.Now()
	sess, err := svc.SubmitAssessment(context.Background(), id)
	if err != nil {
		t.Fatalf("submit assessment: %v", err)
	}
	if elapsed := time.Since(start); elapsed < minAnalyzing {
		t.Fatalf("left ANALYZING after %v, minimum is %v", elapsed, minAnalyzing)
	}
	if sess.State != domain.StateLeadCapture || sess.AuditSource != domain.AuditSourceLive {
		t.Fatalf("expected live audit in LEAD_CAPTURE, got %s/%s", sess.State, sess.AuditSource)
	}
	if len(gen.profiles) != 1 {
		t.Fatalf("expected exactly one audit call, got %d", len(gen.profiles))
	}
}

func TestFunnelService_PanickingGeneratorReturnsToAssessment(t *testing.T) {
	svc, _ := newTestFunnel(panicGenerator{}, time.Hour)
	id := startedSession(t, svc)
	fillAssessment(t, svc, id, completeProfile())

	done := make(chan error, 1)
	go func() {
		_, err := svc.SubmitAssessment(context.Background(), id)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, domain.ErrAuditAborted) {
			t.Fatalf("expected ErrAuditAborted, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("aborted analysis must not wait for the minimum duration")
	}

	sess, err := svc.GetSession(context.Background(), id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.State != domain.StateAssessment || sess.Audit != nil {
		t.Fatalf("expected ASSESSMENT without audit, got %s", sess.State)
	}
	if !sess.Profile.IsComplete() {
		t.Fatalf("profile should be kept after abort")
	}
}

func TestFunnelService_AsyncAnalysisView(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{
		outcome: AuditOutcome{Result: FallbackAudit(), Source: domain.AuditSourceFallback},
		release: make(chan struct{}),
	}
	svc, _ := newTestFunnel(gen, 0)
	id := startedSession(t, svc)
	fillAssessment(t, svc, id, completeProfile())

	sess, err := svc.NextStep(ctx, id)
	if err != nil {
		t.Fatalf("next step on last step: %v", err)
	}
	if sess.State != domain.StateAnalyzing {
		t.Fatalf("expected ANALYZING, got %s", sess.State)
	}

	view, err := svc.View(ctx, id)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Progress == nil || view.Progress.Label != AnalysisStages[view.Progress.Stage] {
		t.Fatalf("expected progress in ANALYZING view, got %+v", view.Progress)
	}
	if _, err := svc.UpdateProfile(ctx, id, []ProfileUpdate{{Field: domain.FieldIndustry, Value: "Other"}}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("profile must be read-only while analyzing, got %v", err)
	}
	if _, err := svc.Results(ctx, id); !errors.Is(err, domain.ErrResultsLocked) {
		t.Fatalf("expected ErrResultsLocked, got %v", err)
	}

	close(gen.release)
	svc.Wait()

	view, err = svc.View(ctx, id)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.State != domain.StateLeadCapture || view.PreviewScore == nil || *view.PreviewScore != 72 {
		t.Fatalf("expected LEAD_CAPTURE preview, got %+v", view)
	}
	if view.Report != nil {
		t.Fatalf("report must stay hidden before lead capture")
	}
	if gen.profiles[0].Industry != "SaaS" {
		t.Fatalf("generator should receive the submitted profile")
	}
}

func TestFunnelService_StepNavigation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestFunnel(&stubGenerator{}, 0)
	id := startedSession(t, svc)

	if _, err := svc.NextStep(ctx, id); !errors.Is(err, domain.ErrStepInvalid) {
		t.Fatalf("expected ErrStepInvalid on empty step, got %v", err)
	}
	sess, _ := svc.PrevStep(ctx, id)
	if sess.Step != 1 {
		t.Fatalf("back on step 1 is a no-op, got step %d", sess.Step)
	}

	_, _ = svc.UpdateProfile(ctx, id, []ProfileUpdate{
		{Field: domain.FieldIndustry, Value: "Ecommerce"},
		{Field: domain.FieldRole, Value: "Founder"},
	})
	sess, err := svc.NextStep(ctx, id)
	if err != nil || sess.Step != 2 {
		t.Fatalf("expected step 2, got %d (%v)", sess.Step, err)
	}
	sess, _ = svc.PrevStep(ctx, id)
	if sess.Step != 1 || sess.Profile.Industry != "Ecommerce" {
		t.Fatalf("going back must keep answers, got %+v", sess)
	}
}

func TestFunnelService_UpdateProfileIsAtomic(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestFunnel(&stubGenerator{}, 0)
	id := startedSession(t, svc)

	_, err := svc.UpdateProfile(ctx, id, []ProfileUpdate{
		{Field: domain.FieldIndustry, Value: "SaaS"},
		{Field: domain.FieldCompanySize, Value: "huge"},
	})
	if !errors.Is(err, domain.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
	sess, _ := svc.GetSession(ctx, id)
	if sess.Profile.Industry != "" {
		t.Fatalf("rejected batch must not be partially applied")
	}
}

func TestFunnelService_SubmitIncompleteProfile(t *testing.T) {
	ctx := context.Background()
	gen := &stubGenerator{}
	svc, _ := newTestFunnel(gen, 0)
	id := startedSession(t, svc)

	if _, err := svc.SubmitAssessment(ctx, id); !errors.Is(err, domain.ErrStepInvalid) {
		t.Fatalf("expected ErrStepInvalid, got %v", err)
	}
	sess, _ := svc.GetSession(ctx, id)
	if sess.State != domain.StateAssessment {
		t.Fatalf("expected to stay in ASSESSMENT, got %s", sess.State)
	}
	if len(gen.profiles) != 0 {
		t.Fatalf("generator must not be called for incomplete profiles")
	}
}

func TestFunnelService_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestFunnel(&stubGenerator{}, 0)

	sess, _ := svc.CreateSession(ctx)
	if _, err := svc.SubmitLead(ctx, sess.ID, domain.ContactInfo{Name: "a", Email: "a@b", CompanyName: "c"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from LANDING, got %v", err)
	}
	if _, err := svc.NextStep(ctx, sess.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for steps in LANDING, got %v", err)
	}
	if _, err := svc.Start(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

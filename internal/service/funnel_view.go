package service

import (
	"context"
	"fmt"

	"growthmind/internal/domain"
)

// SessionView es lo que una vista necesita para renderizar el estado actual.
// Cada estado expone solo su porcion de datos.
type SessionView struct {
	SessionID     string                 `json:"session_id"`
	State         domain.FunnelState     `json:"state"`
	AllowedEvents []domain.FunnelEvent   `json:"allowed_events"`
	Assessment    *AssessmentView        `json:"assessment,omitempty"`
	Progress      *ProgressView          `json:"progress,omitempty"`
	PreviewScore  *int                   `json:"preview_score,omitempty"`
	Report        *Report                `json:"report,omitempty"`
	Profile       domain.BusinessProfile `json:"profile"`
}

type AssessmentView struct {
	Step       int  `json:"step"`
	TotalSteps int  `json:"total_steps"`
	CanAdvance bool `json:"can_advance"`
	CanGoBack  bool `json:"can_go_back"`
}

type ProgressView struct {
	Stage  int      `json:"stage"`
	Label  string   `json:"label"`
	Stages []string `json:"stages"`
}

// Report es el tablero completo, disponible solo en RESULTS.
type Report struct {
	Audit       domain.AuditResult `json:"audit"`
	Contact     domain.ContactInfo `json:"contact"`
	ScoreBand   string             `json:"score_band"`
	AuditSource domain.AuditSource `json:"audit_source"`
}

func (s *FunnelService) View(ctx context.Context, id string) (SessionView, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return SessionView{}, err
	}

	view := SessionView{
		SessionID:     sess.ID,
		State:         sess.State,
		AllowedEvents: domain.AllowedEvents(sess.State),
		Profile:       sess.Profile,
	}

	switch sess.State {
	case domain.StateAssessment:
		view.Assessment = &AssessmentView{
			Step:       sess.Step,
			TotalSteps: domain.AssessmentSteps,
			CanAdvance: sess.Profile.StepComplete(sess.Step),
			CanGoBack:  sess.Step > 1,
		}
	case domain.StateAnalyzing:
		stage := AnalysisStageAt(s.now().Sub(sess.AnalyzingSince))
		view.Progress = &ProgressView{
			Stage:  stage,
			Label:  AnalysisStages[stage],
			Stages: AnalysisStages,
		}
	case domain.StateLeadCapture:
		if sess.Audit != nil {
			score := sess.Audit.OverallScore
			view.PreviewScore = &score
		}
	case domain.StateResults:
		report, err := reportFor(sess)
		if err != nil {
			return SessionView{}, err
		}
		view.Report = &report
	}
	return view, nil
}

// Results devuelve el reporte completo; fuera de RESULTS responde ErrResultsLocked.
func (s *FunnelService) Results(ctx context.Context, id string) (Report, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return Report{}, err
	}
	return reportFor(sess)
}

func reportFor(sess domain.Session) (Report, error) {
	if sess.State != domain.StateResults || sess.Audit == nil || sess.Contact == nil {
		return Report{}, fmt.Errorf("%w: session is in %s", domain.ErrResultsLocked, sess.State)
	}
	return Report{
		Audit:       sess.Audit.Clone(),
		Contact:     *sess.Contact,
		ScoreBand:   domain.ScoreBand(sess.Audit.OverallScore),
		AuditSource: sess.AuditSource,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"growthmind/internal/domain"
	"growthmind/internal/email"
	"growthmind/internal/metrics"
	"growthmind/internal/repository"
)

// DefaultMinAnalyzing es lo minimo que una sesion permanece en ANALYZING.
const DefaultMinAnalyzing = 3 * time.Second

// AuditGenerator produce la auditoria sin fallar nunca hacia afuera.
type AuditGenerator interface {
	Generate(ctx context.Context, profile domain.BusinessProfile) AuditOutcome
}

// ProfileUpdate es un cambio de campo emitido por una vista del formulario.
type ProfileUpdate struct {
	Field string
	Value string
}

// FunnelService conduce la maquina de estados de cada sesion.
type FunnelService struct {
	sessions     repository.SessionRepository
	audits       AuditGenerator
	notifier     email.LeadNotifier
	metrics      *metrics.Metrics
	logger       *zap.Logger
	minAnalyzing time.Duration
	now          func() time.Time

	inflight sync.WaitGroup
}

func NewFunnelService(
	sessions repository.SessionRepository,
	audits AuditGenerator,
	notifier email.LeadNotifier,
	m *metrics.Metrics,
	logger *zap.Logger,
	minAnalyzing time.Duration,
) *FunnelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = email.NewLogNotifier(logger)
	}
	if minAnalyzing < 0 {
		minAnalyzing = 0
	}
	return &FunnelService{
		sessions:     sessions,
		audits:       audits,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
		minAnalyzing: minAnalyzing,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession abre una sesion nueva en LANDING.
func (s *FunnelService) CreateSession(ctx context.Context) (domain.Session, error) {
	session := domain.NewSession(uuid.NewString(), s.now())
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session created", zap.String("session_id", session.ID))
	return session, nil
}

func (s *FunnelService) GetSession(ctx context.Context, id string) (domain.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

// Start es la accion "start" de la landing. Fuera de LANDING no hace nada y devuelve ErrInvalidTransition.
func (s *FunnelService) Start(ctx context.Context, id string) (domain.Session, error) {
	return s.transition(ctx, id, domain.EventStart, nil)
}

// UpdateProfile aplica cambios de campo; solo se permite mientras la sesion esta en ASSESSMENT.
func (s *FunnelService) UpdateProfile(ctx context.Context, id string, updates []ProfileUpdate) (domain.Session, error) {
	return s.sessions.Update(ctx, id, func(sess *domain.Session) error {
		if sess.State != domain.StateAssessment {
			return fmt.Errorf("%w: profile is read-only in %s", domain.ErrInvalidTransition, sess.State)
		}
		for _, u := range updates {
			if err := sess.Profile.SetField(u.Field, u.Value); err != nil {
				return err
			}
		}
		sess.UpdatedAt = s.now()
		return nil
	})
}

// NextStep avanza el formulario si el paso actual es valido. En el ultimo paso
// envia la evaluacion y arranca el analisis en segundo plano.
func (s *FunnelService) NextStep(ctx context.Context, id string) (domain.Session, error) {
	current, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if current.State == domain.StateAssessment && current.Step >= domain.AssessmentSteps {
		return s.SubmitAssessmentAsync(ctx, id)
	}

	return s.sessions.Update(ctx, id, func(sess *domain.Session) error {
		if sess.State != domain.StateAssessment {
			return fmt.Errorf("%w: no steps in %s", domain.ErrInvalidTransition, sess.State)
		}
		if sess.Step >= domain.AssessmentSteps {
			return fmt.Errorf("%w: already on last step", domain.ErrInvalidTransition)
		}
		if !sess.Profile.StepComplete(sess.Step) {
			return fmt.Errorf("%w: step %d", domain.ErrStepInvalid, sess.Step)
		}
		sess.Step++
		sess.UpdatedAt = s.now()
		return nil
	})
}

// PrevStep vuelve un paso; en el paso 1 no hace nada.
func (s *FunnelService) PrevStep(ctx context.Context, id string) (domain.Session, error) {
	return s.sessions.Update(ctx, id, func(sess *domain.Session) error {
		if sess.State != domain.StateAssessment {
			return fmt.Errorf("%w: no steps in %s", domain.ErrInvalidTransition, sess.State)
		}
		if sess.Step > 1 {
			sess.Step--
			sess.UpdatedAt = s.now()
		}
		return nil
	})
}

// SubmitAssessment es la version bloqueante: vuelve cuando la sesion ya salio de ANALYZING.
func (s *FunnelService) SubmitAssessment(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.BeginAnalysis(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	return s.CompleteAnalysis(context.WithoutCancel(ctx), sess.ID, sess.Profile, sess.AnalyzingSince)
}

// SubmitAssessmentAsync pasa a ANALYZING y deja el resto en una goroutine.
// La llamada a la IA no se cancela aunque el request HTTP termine.
func (s *FunnelService) SubmitAssessmentAsync(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.BeginAnalysis(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	s.inflight.Add(1)
	go func(bg context.Context, id string, profile domain.BusinessProfile, since time.Time) {
		defer s.inflight.Done()
		if _, err := s.CompleteAnalysis(bg, id, profile, since); err != nil {
			s.logger.Warn("analysis did not complete", zap.String("session_id", id), zap.Error(err))
		}
	}(context.WithoutCancel(ctx), sess.ID, sess.Profile, sess.AnalyzingSince)

	return sess, nil
}

// BeginAnalysis valida el perfil completo, congela una copia y entra en ANALYZING.
func (s *FunnelService) BeginAnalysis(ctx context.Context, id string) (domain.Session, error) {
	sess, err := s.transition(ctx, id, domain.EventSubmitAssessment, func(sess *domain.Session) error {
		if !sess.Profile.IsComplete() {
			return fmt.Errorf("%w: profile incomplete", domain.ErrStepInvalid)
		}
		sess.AnalyzingSince = s.now()
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	sess.Profile = sess.Profile.Clone()
	return sess, nil
}

type auditCall struct {
	outcome  AuditOutcome
	panicked any
}

// CompleteAnalysis corre la auditoria y la espera minima en paralelo y avanza a
// LEAD_CAPTURE cuando terminan ambas. Si el generador entra en panic, la sesion
// vuelve a ASSESSMENT sin esperar.
func (s *FunnelService) CompleteAnalysis(ctx context.Context, id string, profile domain.BusinessProfile, since time.Time) (domain.Session, error) {
	wait := s.minAnalyzing - s.now().Sub(since)
	if wait < 0 {
		wait = 0
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()

	calls := make(chan auditCall, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				calls <- auditCall{panicked: r}
			}
		}()
		calls <- auditCall{outcome: s.audits.Generate(ctx, profile)}
	}()

	call := <-calls
	if call.panicked != nil {
		s.logger.Error("audit generator panicked, returning to assessment",
			zap.String("session_id", id),
			zap.Any("panic", call.panicked),
		)
		sess, err := s.transition(ctx, id, domain.EventAuditAborted, nil)
		if err != nil {
			return domain.Session{}, err
		}
		return sess, fmt.Errorf("%w: %v", domain.ErrAuditAborted, call.panicked)
	}

	<-timer.C

	result := call.outcome.Result
	return s.transition(ctx, id, domain.EventAuditReady, func(sess *domain.Session) error {
		sess.Audit = &result
		sess.AuditSource = call.outcome.Source
		return nil
	})
}

// SubmitLead valida el contacto y libera el reporte completo.
func (s *FunnelService) SubmitLead(ctx context.Context, id string, contact domain.ContactInfo) (domain.Session, error) {
	sess, err := s.transition(ctx, id, domain.EventSubmitLead, func(sess *domain.Session) error {
		if sess.Audit == nil {
			return fmt.Errorf("%w: no audit for session", domain.ErrInvalidTransition)
		}
		if err := contact.Validate(); err != nil {
			return err
		}
		c := contact
		sess.Contact = &c
		return nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	s.metrics.IncLead()
	lead := email.LeadNotification{
		SessionID:   sess.ID,
		Contact:     *sess.Contact,
		Profile:     sess.Profile.Clone(),
		Audit:       sess.Audit.Clone(),
		AuditSource: sess.AuditSource,
	}
	s.inflight.Add(1)
	go func(bg context.Context) {
		defer s.inflight.Done()
		if err := s.notifier.NotifyLead(bg, lead); err != nil {
			s.logger.Warn("lead notification failed", zap.String("session_id", lead.SessionID), zap.Error(err))
		}
	}(context.WithoutCancel(ctx))

	return sess, nil
}

// Wait bloquea hasta que terminen los analisis y notificaciones en curso.
func (s *FunnelService) Wait() {
	s.inflight.Wait()
}

// transition valida el evento contra la tabla, ejecuta mutate y persiste el cambio.
// El chequeo de estado va primero: mutate solo corre si la transicion es legal.
func (s *FunnelService) transition(ctx context.Context, id string, event domain.FunnelEvent, mutate func(*domain.Session) error) (domain.Session, error) {
	sess, err := s.sessions.Update(ctx, id, func(sess *domain.Session) error {
		if _, ok := domain.NextState(sess.State, event); !ok {
			return fmt.Errorf("%w: %s from %s", domain.ErrInvalidTransition, event, sess.State)
		}
		if mutate != nil {
			if err := mutate(sess); err != nil {
				return err
			}
		}
		return sess.Apply(event, s.now())
	})
	if err != nil {
		return domain.Session{}, err
	}
	s.metrics.IncTransition(string(sess.State))
	s.logger.Info("funnel transition",
		zap.String("session_id", sess.ID),
		zap.String("event", string(event)),
		zap.String("state", string(sess.State)),
	)
	return sess, nil
}

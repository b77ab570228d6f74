package email

import (
	"context"

	"go.uber.org/zap"

	"growthmind/internal/domain"
)

// LeadNotification es lo que recibe el equipo comercial cuando se captura un lead.
type LeadNotification struct {
	SessionID   string
	Contact     domain.ContactInfo
	Profile     domain.BusinessProfile
	Audit       domain.AuditResult
	AuditSource domain.AuditSource
}

// LeadNotifier define la interfaz para avisar de un lead nuevo.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead LeadNotification) error
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier se usa cuando no hay SMTP configurado: solo deja el lead en el log.
func NewLogNotifier(logger *zap.Logger) LeadNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) NotifyLead(_ context.Context, lead LeadNotification) error {
	n.logger.Info("lead captured",
		zap.String("session_id", lead.SessionID),
		zap.String("name", lead.Contact.Name),
		zap.String("email", lead.Contact.Email),
		zap.String("company", lead.Contact.CompanyName),
		zap.String("industry", lead.Profile.Industry),
		zap.Int("overall_score", lead.Audit.OverallScore),
		zap.String("audit_source", string(lead.AuditSource)),
	)
	return nil
}

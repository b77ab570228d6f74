package domain

import (
	"fmt"
	"time"
)

// AuditSource distingue una auditoria real de la de respaldo.
type AuditSource string

const (
	AuditSourceLive     AuditSource = "live"
	AuditSourceFallback AuditSource = "fallback"
)

// Session es el estado de un recorrido del embudo.
type Session struct {
	ID             string          `json:"id"`
	State          FunnelState     `json:"state"`
	Step           int             `json:"step"`
	Profile        BusinessProfile `json:"profile"`
	Audit          *AuditResult    `json:"-"`
	AuditSource    AuditSource     `json:"audit_source,omitempty"`
	Contact        *ContactInfo    `json:"-"`
	AnalyzingSince time.Time       `json:"analyzing_since"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewSession arranca en LANDING con el perfil vacio.
func NewSession(id string, now time.Time) Session {
	return Session{
		ID:        id,
		State:     StateLanding,
		Step:      1,
		Profile:   BusinessProfile{MarketingChannels: []string{}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply ejecuta un evento contra la tabla de transiciones.
func (s *Session) Apply(event FunnelEvent, now time.Time) error {
	to, ok := NextState(s.State, event)
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, s.State)
	}
	s.State = to
	s.UpdatedAt = now
	return nil
}

package repository

import (
	"context"
	"sync"
	"time"

	"growthmind/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	// Update aplica fn sobre una copia y la guarda solo si fn no devuelve error.
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (domain.Session, error)
}

// MemorySessionRepository guarda sesiones en memoria del proceso.
// Las sesiones sin actividad por mas de ttl se descartan.
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) Create(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	r.sessions[session.ID] = copySession(session)
	return nil
}

func (r *MemorySessionRepository) GetByID(_ context.Context, id string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok || r.expiredLocked(session) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (r *MemorySessionRepository) Update(_ context.Context, id string, fn func(*domain.Session) error) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.sessions[id]
	if !ok || r.expiredLocked(current) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	working := copySession(current)
	if err := fn(&working); err != nil {
		return copySession(current), err
	}
	r.sessions[id] = copySession(working)
	return working, nil
}

// Len devuelve la cantidad de sesiones vigentes.
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	return len(r.sessions)
}

func (r *MemorySessionRepository) expiredLocked(s domain.Session) bool {
	return r.ttl > 0 && r.now().Sub(s.UpdatedAt) > r.ttl
}

func (r *MemorySessionRepository) pruneLocked() {
	if r.ttl <= 0 {
		return
	}
	for id, s := range r.sessions {
		if r.expiredLocked(s) {
			delete(r.sessions, id)
		}
	}
}

// AuditResult y ContactInfo se escriben una sola vez, asi que los punteros se comparten.
func copySession(s domain.Session) domain.Session {
	s.Profile = s.Profile.Clone()
	return s
}

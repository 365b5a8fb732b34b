package kiosk

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/services"
)

// Notifier receives kiosk state changes, e.g. for the admin console
type Notifier interface {
	BroadcastKiosk(schoolID string, snap Snapshot)
}

// Manager keeps the kiosk sessions of the running server
type Manager struct {
	log        logger.Logger
	verifier   Verifier
	dispatcher Dispatcher
	resetDelay time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	audit    services.AuditLogger
	notifier Notifier
}

// NewManager creates a new Manager. resetDelay <= 0 selects DefaultResetDelay.
func NewManager(log logger.Logger, verifier Verifier, dispatcher Dispatcher, resetDelay time.Duration) *Manager {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	return &Manager{
		log:        log,
		verifier:   verifier,
		dispatcher: dispatcher,
		resetDelay: resetDelay,
		sessions:   make(map[string]*Session),
	}
}

// SetAuditLogger sets the activity log sink for new sessions
func (m *Manager) SetAuditLogger(a services.AuditLogger) {
	m.mu.Lock()
	m.audit = a
	m.mu.Unlock()
}

// SetNotifier sets the receiver of state changes for new sessions
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	m.notifier = n
	m.mu.Unlock()
}

// Create registers a new kiosk for a school
func (m *Manager) Create(schoolID string) (*Session, error) {
	if models.Key(schoolID) == "" {
		return nil, errors.Validation("school id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := SessionConfig{
		ID:         uuid.NewString(),
		SchoolID:   schoolID,
		Verifier:   m.verifier,
		Dispatcher: m.dispatcher,
		Audit:      m.audit,
		ResetDelay: m.resetDelay,
	}
	if n := m.notifier; n != nil {
		school := models.Key(schoolID)
		cfg.OnChange = func(snap Snapshot) { n.BroadcastKiosk(school, snap) }
	}

	s := NewSession(m.log, cfg)
	m.sessions[s.ID()] = s
	m.log.Info("Kiosk registered", "kiosk", s.ID(), "school", s.SchoolID())
	return s, nil
}

// Get returns a kiosk by id
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrKioskNotFound
	}
	return s, nil
}

// List returns snapshots of a school's kiosks, ordered by id
func (m *Manager) List(schoolID string) []Snapshot {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if s.SchoolID() == models.Key(schoolID) {
			sessions = append(sessions, s)
		}
	}
	m.mu.RUnlock()

	snaps := make([]Snapshot, len(sessions))
	for i, s := range sessions {
		snaps[i] = s.Snapshot()
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
	return snaps
}

// Remove drops a kiosk and stops its pending work
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrKioskNotFound
	}
	s.Close()
	return nil
}

// Close stops every session
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

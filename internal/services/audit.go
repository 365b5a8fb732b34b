package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
)

// Audit actions
const (
	ActionVoteCast       = "vote_cast"
	ActionVotingOpened   = "voting_opened"
	ActionVotingClosed   = "voting_closed"
	ActionWindowUpdated  = "election_window_updated"
	ActionCanteenSignIn  = "canteen_sign_in"
	ActionCategoryDelete = "category_deleted"
	ActionKioskUnlocked  = "kiosk_unlocked"
)

// Administrator identity recorded for console actions
const (
	AdminActorID   = "admin"
	AdminActorName = "Administrator"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditLogger records actions in the activity log
type AuditLogger interface {
	LogAction(ctx context.Context, schoolID, actorID, actorName, action, details string) error
}

// AuditService stores activity log entries
type AuditService struct {
	log  logger.Logger
	repo repository.AuditRepository
	now  Clock
}

// NewAuditService creates a new AuditService
func NewAuditService(log logger.Logger, repo repository.AuditRepository) *AuditService {
	return &AuditService{log: log, repo: repo, now: time.Now}
}

// SetClock overrides the time source
func (s *AuditService) SetClock(now Clock) {
	s.now = now
}

// LogAction appends an entry to the activity log
func (s *AuditService) LogAction(ctx context.Context, schoolID, actorID, actorName, action, details string) error {
	return s.repo.InsertAuditEntry(ctx, models.AuditEntry{
		ID:        uuid.NewString(),
		SchoolID:  schoolID,
		ActorID:   actorID,
		ActorName: actorName,
		Action:    action,
		Details:   details,
		CreatedAt: s.now().UnixMilli(),
	})
}

// ListEntries returns the newest entries for a school
func (s *AuditService) ListEntries(ctx context.Context, schoolID string, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return s.repo.ListAuditEntries(ctx, schoolID, limit)
}

// recordAudit writes to the audit sink without letting a failure reach the
// caller; the triggering action has already been committed.
func recordAudit(ctx context.Context, log logger.Logger, audit AuditLogger, schoolID, actorID, actorName, action, details string) {
	if audit == nil {
		return
	}
	if err := audit.LogAction(ctx, schoolID, actorID, actorName, action, details); err != nil {
		log.Warn("Audit log write failed", "action", action, "school", schoolID, "error", err)
	}
}

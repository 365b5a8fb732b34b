package services

import (
	"context"
	"fmt"
	"time"

	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
)

// defaultWindow is the voting window given to a school on first read
const defaultWindow = 24 * time.Hour

// ElectionStatus is the settings plus everything derived from them at Now
type ElectionStatus struct {
	Settings     models.ElectionSettings `json:"settings"`
	Phase        models.Phase            `json:"phase"`
	Now          int64                   `json:"now"`
	MsUntilStart int64                   `json:"ms_until_start"`
	MsUntilEnd   int64                   `json:"ms_until_end"`
}

// SettingsService handles election configuration and phase resolution
type SettingsService struct {
	log         logger.Logger
	repo        repository.SettingsRepository
	broadcaster Broadcaster
	audit       AuditLogger
	now         Clock
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository) *SettingsService {
	return &SettingsService{log: log, repo: repo, now: time.Now}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *SettingsService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetAuditLogger sets the activity log sink
func (s *SettingsService) SetAuditLogger(a AuditLogger) {
	s.audit = a
}

// SetClock overrides the time source
func (s *SettingsService) SetClock(now Clock) {
	s.now = now
}

// GetElectionSettings returns the school's settings, creating the defaults
// (a 24 hour window starting now, voting closed) the first time they are read.
func (s *SettingsService) GetElectionSettings(ctx context.Context, schoolID string) (*models.ElectionSettings, error) {
	settings, err := s.repo.GetElectionSettings(ctx, schoolID)
	if err == nil {
		return settings, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}

	now := s.now()
	defaults := models.ElectionSettings{
		SchoolID:  schoolID,
		StartTime: now.UnixMilli(),
		EndTime:   now.Add(defaultWindow).UnixMilli(),
	}
	if err := s.repo.InsertElectionSettingsIfMissing(ctx, defaults); err != nil {
		return nil, err
	}
	s.log.Debug("Created default election settings", "school", models.Key(schoolID))

	// Another request may have created the row first; read back the winner.
	return s.repo.GetElectionSettings(ctx, schoolID)
}

// UpdateWindow sets the voting window. start must be before end.
func (s *SettingsService) UpdateWindow(ctx context.Context, schoolID string, start, end int64) (*ElectionStatus, error) {
	if start >= end {
		return nil, ErrInvalidWindow
	}

	settings, err := s.GetElectionSettings(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	settings.StartTime = start
	settings.EndTime = end
	if err := s.repo.SaveElectionSettings(ctx, *settings); err != nil {
		return nil, err
	}

	s.log.Info("Election window updated", "school", settings.SchoolID, "start", start, "end", end)
	recordAudit(ctx, s.log, s.audit, settings.SchoolID, AdminActorID, AdminActorName, ActionWindowUpdated,
		fmt.Sprintf("window %d..%d", start, end))

	status := s.statusAt(*settings, s.now())
	s.broadcastPhase(status)
	return status, nil
}

// SetVotingOpen sets the administrator override flag
func (s *SettingsService) SetVotingOpen(ctx context.Context, schoolID string, open bool) (*ElectionStatus, error) {
	settings, err := s.GetElectionSettings(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	settings.IsVotingOpen = open
	if err := s.repo.SaveElectionSettings(ctx, *settings); err != nil {
		return nil, err
	}

	action := ActionVotingClosed
	if open {
		action = ActionVotingOpened
	}
	s.log.Info("Voting flag changed", "school", settings.SchoolID, "open", open)
	recordAudit(ctx, s.log, s.audit, settings.SchoolID, AdminActorID, AdminActorName, action, "")

	status := s.statusAt(*settings, s.now())
	s.broadcastPhase(status)
	return status, nil
}

// GetPhase resolves the school's phase at the current time
func (s *SettingsService) GetPhase(ctx context.Context, schoolID string) (models.Phase, error) {
	settings, err := s.GetElectionSettings(ctx, schoolID)
	if err != nil {
		return "", err
	}
	return ResolvePhase(*settings, s.now().UnixMilli()), nil
}

// GetStatus returns settings, phase and time remaining
func (s *SettingsService) GetStatus(ctx context.Context, schoolID string) (*ElectionStatus, error) {
	settings, err := s.GetElectionSettings(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return s.statusAt(*settings, s.now()), nil
}

func (s *SettingsService) statusAt(settings models.ElectionSettings, at time.Time) *ElectionStatus {
	now := at.UnixMilli()
	return &ElectionStatus{
		Settings:     settings,
		Phase:        ResolvePhase(settings, now),
		Now:          now,
		MsUntilStart: max(settings.StartTime-now, 0),
		MsUntilEnd:   max(settings.EndTime-now, 0),
	}
}

func (s *SettingsService) broadcastPhase(status *ElectionStatus) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastPhase(status.Settings.SchoolID, status)
	}
}

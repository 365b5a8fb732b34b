package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
)

// BallotServiceRepository defines the repository methods needed by BallotService
type BallotServiceRepository interface {
	repository.BallotRepository
	ListCategories(ctx context.Context, schoolID string) ([]models.VotingCategory, error)
	ListContestants(ctx context.Context, schoolID string) ([]models.Contestant, error)
	CountCategories(ctx context.Context, schoolID string) (int, error)
}

// BallotService moves a student's choices from draft to final ballot
type BallotService struct {
	log         logger.Logger
	repo        BallotServiceRepository
	settings    SettingsServicer
	directory   Directory
	audit       AuditLogger
	broadcaster Broadcaster
	now         Clock

	// castMu serialises the check-and-insert of every final ballot
	castMu sync.Mutex
}

// NewBallotService creates a new BallotService
func NewBallotService(log logger.Logger, repo BallotServiceRepository, settings SettingsServicer, directory Directory) *BallotService {
	return &BallotService{
		log:       log,
		repo:      repo,
		settings:  settings,
		directory: directory,
		now:       time.Now,
	}
}

// SetAuditLogger sets the activity log sink
func (s *BallotService) SetAuditLogger(a AuditLogger) {
	s.audit = a
}

// SetBroadcaster sets the broadcaster notified after each cast
func (s *BallotService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock overrides the time source
func (s *BallotService) SetClock(now Clock) {
	s.now = now
}

// BallotView is everything a voting screen needs for one student
type BallotView struct {
	Status      *ElectionStatus         `json:"status"`
	Categories  []models.VotingCategory `json:"categories"`
	Contestants []models.Contestant     `json:"contestants"`
	Draft       *models.DraftVote       `json:"draft"`
	HasVoted    bool                    `json:"has_voted"`
}

// GetBallot assembles the ballot for a student. Vote counts are hidden.
func (s *BallotService) GetBallot(ctx context.Context, studentID, schoolID string) (*BallotView, error) {
	status, err := s.settings.GetStatus(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	contestants, err := s.repo.ListContestants(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	for i := range contestants {
		contestants[i].Votes = 0
	}

	view := &BallotView{Status: status, Categories: categories, Contestants: contestants}
	if models.Key(studentID) == "" {
		return view, nil
	}
	if student, err := s.resolve(ctx, studentID, schoolID); err == nil {
		studentID = student.ID
	}
	if view.HasVoted, err = s.HasVoted(ctx, studentID, schoolID); err != nil {
		return nil, err
	}
	if !view.HasVoted {
		if view.Draft, err = s.GetDraft(ctx, studentID, schoolID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// SaveDraft stores the student's choices, replacing any earlier draft.
// It does not check completeness or whether the student has voted.
func (s *BallotService) SaveDraft(ctx context.Context, studentID, schoolID string, choices models.Choices) error {
	return s.repo.SaveDraft(ctx, models.DraftVote{
		SchoolID:  schoolID,
		StudentID: strings.TrimSpace(studentID),
		Choices:   choices,
		UpdatedAt: s.now().UnixMilli(),
	})
}

// GetDraft returns the student's draft, or nil when there is none
func (s *BallotService) GetDraft(ctx context.Context, studentID, schoolID string) (*models.DraftVote, error) {
	draft, err := s.repo.GetDraft(ctx, schoolID, studentID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	return draft, err
}

// ClearDraft removes the student's draft if there is one
func (s *BallotService) ClearDraft(ctx context.Context, studentID, schoolID string) error {
	return s.repo.DeleteDraft(ctx, schoolID, studentID)
}

// HasVoted reports whether a final ballot exists for the student
func (s *BallotService) HasVoted(ctx context.Context, studentID, schoolID string) (bool, error) {
	return s.repo.HasVoted(ctx, schoolID, studentID)
}

// GetVoteRecord returns the student's final ballot, or nil when there is none
func (s *BallotService) GetVoteRecord(ctx context.Context, studentID, schoolID string) (*models.VoteRecord, error) {
	if student, err := s.resolve(ctx, studentID, schoolID); err == nil {
		studentID = student.ID
	}
	rec, err := s.repo.GetVoteRecord(ctx, schoolID, studentID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	return rec, err
}

// CastVote turns the choices into the student's final ballot.
//
// The phase and the student are checked first. Then, holding castMu, the
// phase is checked again and the ballot is committed in one transaction
// that refuses a second ballot, bumps each chosen contestant that still
// exists, and drops the draft. The audit entry and the results broadcast
// happen after the commit and cannot undo it.
func (s *BallotService) CastVote(ctx context.Context, studentID, schoolID string, choices models.Choices) (*models.VoteRecord, error) {
	if err := s.requireOpen(ctx, schoolID); err != nil {
		return nil, err
	}

	student, err := s.resolve(ctx, studentID, schoolID)
	if err != nil {
		return nil, err
	}

	// The ballot is keyed by the directory's id, never by the code typed
	// or scanned, so aliases of one student share a single record.
	record, err := s.commit(ctx, student.ID, schoolID, student.Name, choices)
	if err != nil {
		return nil, err
	}

	s.log.Info("Ballot cast", "school", record.SchoolID, "student", record.StudentID, "choices", len(record.Choices))
	recordAudit(ctx, s.log, s.audit, record.SchoolID, record.StudentID, record.StudentName, ActionVoteCast,
		fmt.Sprintf("student %s cast a ballot in %s", record.StudentID, record.SchoolID))
	if s.broadcaster != nil {
		s.broadcaster.BroadcastResultsUpdated(record.SchoolID)
	}
	return record, nil
}

// resolve looks the student up in the directory
func (s *BallotService) resolve(ctx context.Context, studentID, schoolID string) (*models.Student, error) {
	student, err := s.directory.ResolveIdentity(ctx, schoolID, studentID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("resolve student: %w", err))
	}
	if student == nil {
		return nil, ErrUnknownStudent
	}
	return student, nil
}

func (s *BallotService) commit(ctx context.Context, studentID, schoolID, studentName string, choices models.Choices) (*models.VoteRecord, error) {
	s.castMu.Lock()
	defer s.castMu.Unlock()

	// The window may have closed while the student was being resolved.
	if err := s.requireOpen(ctx, schoolID); err != nil {
		return nil, err
	}

	stored := make(models.Choices, len(choices))
	for k, v := range choices {
		stored[k] = v
	}
	record := &models.VoteRecord{
		SchoolID:    schoolID,
		StudentID:   strings.TrimSpace(studentID),
		StudentName: studentName,
		Choices:     stored,
		Timestamp:   s.now().UnixMilli(),
	}

	counted, err := s.repo.CommitBallot(ctx, record)
	if err == repository.ErrDuplicateBallot {
		return nil, ErrAlreadyVoted
	}
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("commit ballot: %w", err))
	}
	if skipped := len(stored) - counted; skipped > 0 {
		s.log.Warn("Ballot referenced contestants that no longer exist", "school", record.SchoolID, "skipped", skipped)
	}
	return record, nil
}

func (s *BallotService) requireOpen(ctx context.Context, schoolID string) error {
	phase, err := s.settings.GetPhase(ctx, schoolID)
	if err != nil {
		return errors.Internal(fmt.Errorf("resolve phase: %w", err))
	}
	if phase != models.PhaseOpen {
		return ErrVotingClosed
	}
	return nil
}

// CheckComplete fails with ErrIncompleteSelection unless there is exactly
// one choice per category of the school.
func (s *BallotService) CheckComplete(ctx context.Context, schoolID string, choices models.Choices) error {
	count, err := s.repo.CountCategories(ctx, schoolID)
	if err != nil {
		return err
	}
	filled := 0
	for _, contestantID := range choices {
		if strings.TrimSpace(contestantID) != "" {
			filled++
		}
	}
	if filled != count || len(choices) != count {
		return ErrIncompleteSelection
	}
	return nil
}

// SaveDraftForStudent is the entry point for saving from a voting screen:
// it refuses students who already voted and incomplete selections.
func (s *BallotService) SaveDraftForStudent(ctx context.Context, studentID, schoolID string, choices models.Choices) error {
	if models.Key(studentID) == "" {
		return errors.Validation("student id is required")
	}
	student, err := s.resolve(ctx, studentID, schoolID)
	if err != nil {
		return err
	}
	voted, err := s.HasVoted(ctx, student.ID, schoolID)
	if err != nil {
		return err
	}
	if voted {
		return ErrAlreadyVoted
	}
	if err := s.CheckComplete(ctx, schoolID, choices); err != nil {
		return err
	}
	return s.SaveDraft(ctx, student.ID, schoolID, choices)
}

// SubmitBallot is the entry point for confirming a ballot: it checks
// completeness before casting.
func (s *BallotService) SubmitBallot(ctx context.Context, studentID, schoolID string, choices models.Choices) (*models.VoteRecord, error) {
	if models.Key(studentID) == "" {
		return nil, errors.Validation("student id is required")
	}
	if err := s.CheckComplete(ctx, schoolID, choices); err != nil {
		return nil, err
	}
	return s.CastVote(ctx, studentID, schoolID, choices)
}

// SubmitSavedDraft casts the student's saved draft
func (s *BallotService) SubmitSavedDraft(ctx context.Context, studentID, schoolID string) (*models.VoteRecord, error) {
	student, err := s.resolve(ctx, studentID, schoolID)
	if err != nil {
		return nil, err
	}
	draft, err := s.GetDraft(ctx, student.ID, schoolID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		voted, err := s.HasVoted(ctx, student.ID, schoolID)
		if err != nil {
			return nil, err
		}
		if voted {
			return nil, ErrAlreadyVoted
		}
		return nil, ErrIncompleteSelection
	}
	return s.SubmitBallot(ctx, student.ID, schoolID, draft.Choices)
}

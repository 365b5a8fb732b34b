package mock

import (
	"context"

	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.CommitBallotError = errors.New("database error")
//	svc := services.NewBallotService(log, mockRepo, dir, nil, nil)
//	_, err := svc.CastVote(ctx, "school-a", "stu-1", choices)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Settings Errors =====
	GetElectionSettingsError             error
	InsertElectionSettingsIfMissingError error
	SaveElectionSettingsError            error

	// ===== Category Errors =====
	ListCategoriesError  error
	GetCategoryError     error
	CreateCategoryError  error
	UpdateCategoryError  error
	DeleteCategoryError  error
	CountCategoriesError error

	// ===== Contestant Errors =====
	ListContestantsError  error
	GetContestantError    error
	CreateContestantError error
	UpdateContestantError error
	DeleteContestantError error

	// ===== Ballot Errors =====
	SaveDraftError      error
	GetDraftError       error
	DeleteDraftError    error
	GetVoteRecordError  error
	HasVotedError       error
	CommitBallotError   error
	GetBallotStatsError error

	// ===== Student Errors =====
	GetStudentError    error
	UpsertStudentError error
	ListStudentsError  error
	DeleteStudentError error

	// ===== Canteen Errors =====
	GetActiveCanteenOrderError    error
	CreateCanteenOrderError       error
	MarkCanteenOrderAttendedError error

	// ===== Audit Errors =====
	InsertAuditEntryError  error
	ListAuditEntriesError  error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Settings Methods =====

func (m *Repository) GetElectionSettings(ctx context.Context, schoolID string) (*models.ElectionSettings, error) {
	if m.GetElectionSettingsError != nil {
		return nil, m.GetElectionSettingsError
	}
	return m.FullRepository.GetElectionSettings(ctx, schoolID)
}

func (m *Repository) InsertElectionSettingsIfMissing(ctx context.Context, s models.ElectionSettings) error {
	if m.InsertElectionSettingsIfMissingError != nil {
		return m.InsertElectionSettingsIfMissingError
	}
	return m.FullRepository.InsertElectionSettingsIfMissing(ctx, s)
}

func (m *Repository) SaveElectionSettings(ctx context.Context, s models.ElectionSettings) error {
	if m.SaveElectionSettingsError != nil {
		return m.SaveElectionSettingsError
	}
	return m.FullRepository.SaveElectionSettings(ctx, s)
}

// ===== Category Methods =====

func (m *Repository) ListCategories(ctx context.Context, schoolID string) ([]models.VotingCategory, error) {
	if m.ListCategoriesError != nil {
		return nil, m.ListCategoriesError
	}
	return m.FullRepository.ListCategories(ctx, schoolID)
}

func (m *Repository) GetCategory(ctx context.Context, id string) (*models.VotingCategory, error) {
	if m.GetCategoryError != nil {
		return nil, m.GetCategoryError
	}
	return m.FullRepository.GetCategory(ctx, id)
}

func (m *Repository) CreateCategory(ctx context.Context, cat *models.VotingCategory) error {
	if m.CreateCategoryError != nil {
		return m.CreateCategoryError
	}
	return m.FullRepository.CreateCategory(ctx, cat)
}

func (m *Repository) UpdateCategory(ctx context.Context, id, title string) error {
	if m.UpdateCategoryError != nil {
		return m.UpdateCategoryError
	}
	return m.FullRepository.UpdateCategory(ctx, id, title)
}

func (m *Repository) DeleteCategory(ctx context.Context, id string) error {
	if m.DeleteCategoryError != nil {
		return m.DeleteCategoryError
	}
	return m.FullRepository.DeleteCategory(ctx, id)
}

func (m *Repository) CountCategories(ctx context.Context, schoolID string) (int, error) {
	if m.CountCategoriesError != nil {
		return 0, m.CountCategoriesError
	}
	return m.FullRepository.CountCategories(ctx, schoolID)
}

// ===== Contestant Methods =====

func (m *Repository) ListContestants(ctx context.Context, schoolID string) ([]models.Contestant, error) {
	if m.ListContestantsError != nil {
		return nil, m.ListContestantsError
	}
	return m.FullRepository.ListContestants(ctx, schoolID)
}

func (m *Repository) GetContestant(ctx context.Context, id string) (*models.Contestant, error) {
	if m.GetContestantError != nil {
		return nil, m.GetContestantError
	}
	return m.FullRepository.GetContestant(ctx, id)
}

func (m *Repository) CreateContestant(ctx context.Context, c models.Contestant) error {
	if m.CreateContestantError != nil {
		return m.CreateContestantError
	}
	return m.FullRepository.CreateContestant(ctx, c)
}

func (m *Repository) UpdateContestant(ctx context.Context, c models.Contestant) error {
	if m.UpdateContestantError != nil {
		return m.UpdateContestantError
	}
	return m.FullRepository.UpdateContestant(ctx, c)
}

func (m *Repository) DeleteContestant(ctx context.Context, id string) error {
	if m.DeleteContestantError != nil {
		return m.DeleteContestantError
	}
	return m.FullRepository.DeleteContestant(ctx, id)
}

// ===== Ballot Methods =====

func (m *Repository) SaveDraft(ctx context.Context, draft models.DraftVote) error {
	if m.SaveDraftError != nil {
		return m.SaveDraftError
	}
	return m.FullRepository.SaveDraft(ctx, draft)
}

func (m *Repository) GetDraft(ctx context.Context, schoolID, studentID string) (*models.DraftVote, error) {
	if m.GetDraftError != nil {
		return nil, m.GetDraftError
	}
	return m.FullRepository.GetDraft(ctx, schoolID, studentID)
}

func (m *Repository) DeleteDraft(ctx context.Context, schoolID, studentID string) error {
	if m.DeleteDraftError != nil {
		return m.DeleteDraftError
	}
	return m.FullRepository.DeleteDraft(ctx, schoolID, studentID)
}

func (m *Repository) GetVoteRecord(ctx context.Context, schoolID, studentID string) (*models.VoteRecord, error) {
	if m.GetVoteRecordError != nil {
		return nil, m.GetVoteRecordError
	}
	return m.FullRepository.GetVoteRecord(ctx, schoolID, studentID)
}

func (m *Repository) HasVoted(ctx context.Context, schoolID, studentID string) (bool, error) {
	if m.HasVotedError != nil {
		return false, m.HasVotedError
	}
	return m.FullRepository.HasVoted(ctx, schoolID, studentID)
}

func (m *Repository) CommitBallot(ctx context.Context, record *models.VoteRecord) (int, error) {
	if m.CommitBallotError != nil {
		return 0, m.CommitBallotError
	}
	return m.FullRepository.CommitBallot(ctx, record)
}

func (m *Repository) GetBallotStats(ctx context.Context, schoolID string) (*repository.BallotStats, error) {
	if m.GetBallotStatsError != nil {
		return nil, m.GetBallotStatsError
	}
	return m.FullRepository.GetBallotStats(ctx, schoolID)
}

// ===== Student Methods =====

func (m *Repository) GetStudent(ctx context.Context, schoolID, studentID string) (*models.Student, error) {
	if m.GetStudentError != nil {
		return nil, m.GetStudentError
	}
	return m.FullRepository.GetStudent(ctx, schoolID, studentID)
}

func (m *Repository) UpsertStudent(ctx context.Context, s models.Student) error {
	if m.UpsertStudentError != nil {
		return m.UpsertStudentError
	}
	return m.FullRepository.UpsertStudent(ctx, s)
}

func (m *Repository) ListStudents(ctx context.Context, schoolID string) ([]models.Student, error) {
	if m.ListStudentsError != nil {
		return nil, m.ListStudentsError
	}
	return m.FullRepository.ListStudents(ctx, schoolID)
}

func (m *Repository) DeleteStudent(ctx context.Context, schoolID, studentID string) error {
	if m.DeleteStudentError != nil {
		return m.DeleteStudentError
	}
	return m.FullRepository.DeleteStudent(ctx, schoolID, studentID)
}

// ===== Canteen Methods =====

func (m *Repository) GetActiveCanteenOrder(ctx context.Context, schoolID, studentID string) (*models.CanteenOrder, error) {
	if m.GetActiveCanteenOrderError != nil {
		return nil, m.GetActiveCanteenOrderError
	}
	return m.FullRepository.GetActiveCanteenOrder(ctx, schoolID, studentID)
}

func (m *Repository) CreateCanteenOrder(ctx context.Context, o models.CanteenOrder) error {
	if m.CreateCanteenOrderError != nil {
		return m.CreateCanteenOrderError
	}
	return m.FullRepository.CreateCanteenOrder(ctx, o)
}

func (m *Repository) MarkCanteenOrderAttended(ctx context.Context, id string) error {
	if m.MarkCanteenOrderAttendedError != nil {
		return m.MarkCanteenOrderAttendedError
	}
	return m.FullRepository.MarkCanteenOrderAttended(ctx, id)
}

// ===== Audit Methods =====

func (m *Repository) InsertAuditEntry(ctx context.Context, e models.AuditEntry) error {
	if m.InsertAuditEntryError != nil {
		return m.InsertAuditEntryError
	}
	return m.FullRepository.InsertAuditEntry(ctx, e)
}

func (m *Repository) ListAuditEntries(ctx context.Context, schoolID string, limit int) ([]models.AuditEntry, error) {
	if m.ListAuditEntriesError != nil {
		return nil, m.ListAuditEntriesError
	}
	return m.FullRepository.ListAuditEntries(ctx, schoolID, limit)
}

package repository

import (
	"context"

	"github.com/abrezinsky/campusvote/internal/models"
)

// SettingsRepository defines election settings operations
type SettingsRepository interface {
	GetElectionSettings(ctx context.Context, schoolID string) (*models.ElectionSettings, error)
	InsertElectionSettingsIfMissing(ctx context.Context, settings models.ElectionSettings) error
	SaveElectionSettings(ctx context.Context, settings models.ElectionSettings) error
}

// CategoryRepository defines voting category operations
type CategoryRepository interface {
	ListCategories(ctx context.Context, schoolID string) ([]models.VotingCategory, error)
	GetCategory(ctx context.Context, id string) (*models.VotingCategory, error)
	CreateCategory(ctx context.Context, cat *models.VotingCategory) error
	UpdateCategory(ctx context.Context, id, title string) error
	DeleteCategory(ctx context.Context, id string) error
	CountCategories(ctx context.Context, schoolID string) (int, error)
}

// ContestantRepository defines contestant operations
type ContestantRepository interface {
	ListContestants(ctx context.Context, schoolID string) ([]models.Contestant, error)
	GetContestant(ctx context.Context, id string) (*models.Contestant, error)
	CreateContestant(ctx context.Context, c models.Contestant) error
	UpdateContestant(ctx context.Context, c models.Contestant) error
	DeleteContestant(ctx context.Context, id string) error
}

// BallotRepository defines draft and final vote operations
type BallotRepository interface {
	SaveDraft(ctx context.Context, draft models.DraftVote) error
	GetDraft(ctx context.Context, schoolID, studentID string) (*models.DraftVote, error)
	DeleteDraft(ctx context.Context, schoolID, studentID string) error
	GetVoteRecord(ctx context.Context, schoolID, studentID string) (*models.VoteRecord, error)
	HasVoted(ctx context.Context, schoolID, studentID string) (bool, error)
	CommitBallot(ctx context.Context, record *models.VoteRecord) (int, error)
	GetBallotStats(ctx context.Context, schoolID string) (*BallotStats, error)
}

// StudentRepository defines the local roster operations
type StudentRepository interface {
	GetStudent(ctx context.Context, schoolID, studentID string) (*models.Student, error)
	UpsertStudent(ctx context.Context, student models.Student) error
	ListStudents(ctx context.Context, schoolID string) ([]models.Student, error)
	DeleteStudent(ctx context.Context, schoolID, studentID string) error
}

// CanteenRepository defines canteen attendance operations
type CanteenRepository interface {
	GetActiveCanteenOrder(ctx context.Context, schoolID, studentID string) (*models.CanteenOrder, error)
	CreateCanteenOrder(ctx context.Context, order models.CanteenOrder) error
	MarkCanteenOrderAttended(ctx context.Context, id string) error
}

// AuditRepository defines activity log operations
type AuditRepository interface {
	InsertAuditEntry(ctx context.Context, entry models.AuditEntry) error
	ListAuditEntries(ctx context.Context, schoolID string, limit int) ([]models.AuditEntry, error)
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	SettingsRepository
	CategoryRepository
	ContestantRepository
	BallotRepository
	StudentRepository
	CanteenRepository
	AuditRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)

package services

import (
	"context"

	"github.com/abrezinsky/campusvote/internal/models"
)

// Broadcaster pushes live updates to connected screens
type Broadcaster interface {
	BroadcastPhase(schoolID string, status *ElectionStatus)
	BroadcastResultsUpdated(schoolID string)
}

// SettingsServicer defines the interface for election configuration
type SettingsServicer interface {
	GetElectionSettings(ctx context.Context, schoolID string) (*models.ElectionSettings, error)
	UpdateWindow(ctx context.Context, schoolID string, start, end int64) (*ElectionStatus, error)
	SetVotingOpen(ctx context.Context, schoolID string, open bool) (*ElectionStatus, error)
	GetPhase(ctx context.Context, schoolID string) (models.Phase, error)
	GetStatus(ctx context.Context, schoolID string) (*ElectionStatus, error)
	SetBroadcaster(b Broadcaster)
}

// CategoryServicer defines the interface for category and contestant operations
type CategoryServicer interface {
	ListCategories(ctx context.Context, schoolID string) ([]models.VotingCategory, error)
	CreateCategory(ctx context.Context, schoolID, title string) (*models.VotingCategory, error)
	UpdateCategory(ctx context.Context, schoolID, id, title string) error
	DeleteCategory(ctx context.Context, schoolID, id string) error
	ListContestants(ctx context.Context, schoolID string) ([]models.Contestant, error)
	GetContestant(ctx context.Context, schoolID, id string) (*models.Contestant, error)
	CreateContestant(ctx context.Context, schoolID string, in Contestant) (*models.Contestant, error)
	UpdateContestant(ctx context.Context, schoolID, id string, in Contestant) (*models.Contestant, error)
	DeleteContestant(ctx context.Context, schoolID, id string) error
}

// BallotServicer defines the interface for draft and final ballot operations
type BallotServicer interface {
	GetBallot(ctx context.Context, studentID, schoolID string) (*BallotView, error)
	SaveDraft(ctx context.Context, studentID, schoolID string, choices models.Choices) error
	GetDraft(ctx context.Context, studentID, schoolID string) (*models.DraftVote, error)
	ClearDraft(ctx context.Context, studentID, schoolID string) error
	HasVoted(ctx context.Context, studentID, schoolID string) (bool, error)
	GetVoteRecord(ctx context.Context, studentID, schoolID string) (*models.VoteRecord, error)
	CastVote(ctx context.Context, studentID, schoolID string, choices models.Choices) (*models.VoteRecord, error)
	CheckComplete(ctx context.Context, schoolID string, choices models.Choices) error
	SaveDraftForStudent(ctx context.Context, studentID, schoolID string, choices models.Choices) error
	SubmitBallot(ctx context.Context, studentID, schoolID string, choices models.Choices) (*models.VoteRecord, error)
	SubmitSavedDraft(ctx context.Context, studentID, schoolID string) (*models.VoteRecord, error)
}

// ResultsServicer defines the interface for results operations
type ResultsServicer interface {
	GetResults(ctx context.Context, schoolID string) (*FullResults, error)
	GetCategoryResults(ctx context.Context, schoolID, categoryID string) (*CategoryTally, error)
	GetWinners(ctx context.Context, schoolID string) ([]Winner, error)
}

// DispatchServicer defines the interface for scan dispatch
type DispatchServicer interface {
	ComputeTasks(ctx context.Context, code, schoolID string) (*DispatchResult, error)
}

// StudentServicer defines the interface for local roster operations
type StudentServicer interface {
	ListStudents(ctx context.Context, schoolID string) ([]models.Student, error)
	RegisterStudent(ctx context.Context, student models.Student) (*models.Student, error)
	DeleteStudent(ctx context.Context, schoolID, studentID string) error
	GenerateBadge(ctx context.Context, schoolID, studentID string) ([]byte, error)
	SyncFromRoster(ctx context.Context, schoolID string) (*SyncResult, error)
}

// CanteenServicer defines the interface for canteen attendance
type CanteenServicer interface {
	PlaceOrder(ctx context.Context, schoolID, studentID, item string) (*models.CanteenOrder, error)
	ActiveAttendance(ctx context.Context, schoolID, studentID string) (*models.CanteenOrder, error)
	SignIn(ctx context.Context, schoolID, studentID string) (*models.CanteenOrder, error)
}

// AuditServicer defines the interface for the activity log
type AuditServicer interface {
	AuditLogger
	ListEntries(ctx context.Context, schoolID string, limit int) ([]models.AuditEntry, error)
}

// Ensure concrete types implement interfaces
var (
	_ SettingsServicer = (*SettingsService)(nil)
	_ CategoryServicer = (*CategoryService)(nil)
	_ BallotServicer   = (*BallotService)(nil)
	_ ResultsServicer  = (*ResultsService)(nil)
	_ DispatchServicer = (*DispatchService)(nil)
	_ StudentServicer  = (*StudentService)(nil)
	_ CanteenServicer  = (*CanteenService)(nil)
	_ AuditServicer    = (*AuditService)(nil)
	_ Directory        = (*LocalDirectory)(nil)
	_ Directory        = (*RosterDirectory)(nil)
	_ Directory        = ChainDirectory(nil)
)

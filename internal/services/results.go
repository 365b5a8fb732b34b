package services

import (
	"context"

	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	ListCategories(ctx context.Context, schoolID string) ([]models.VotingCategory, error)
	ListContestants(ctx context.Context, schoolID string) ([]models.Contestant, error)
	GetBallotStats(ctx context.Context, schoolID string) (*repository.BallotStats, error)
}

// ResultsService derives tallies and winners from the live counters
type ResultsService struct {
	log      logger.Logger
	repo     ResultsServiceRepository
	settings SettingsServicer
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository, settings SettingsServicer) *ResultsService {
	return &ResultsService{log: log, repo: repo, settings: settings}
}

// ResultsStats summarises turnout
type ResultsStats struct {
	BallotsCast int          `json:"ballots_cast"`
	Drafts      int          `json:"drafts"`
	Phase       models.Phase `json:"phase"`
}

// FullResults contains all tallies for a school
type FullResults struct {
	Categories []CategoryTally `json:"categories"`
	Stats      ResultsStats    `json:"stats"`
}

// Winner is the leading contestant of one category
type Winner struct {
	CategoryID    string            `json:"category_id"`
	CategoryTitle string            `json:"category_title"`
	Contestant    models.Contestant `json:"contestant"`
	Votes         int               `json:"votes"`
	Percentage    float64           `json:"percentage"`
	Tied          bool              `json:"tied"`
}

// GetResults tallies every category of the school
func (s *ResultsService) GetResults(ctx context.Context, schoolID string) (*FullResults, error) {
	categories, err := s.repo.ListCategories(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	contestants, err := s.repo.ListContestants(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.GetBallotStats(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	results := &FullResults{
		Categories: Tally(categories, contestants),
		Stats: ResultsStats{
			BallotsCast: stats.BallotsCast,
			Drafts:      stats.Drafts,
		},
	}
	if s.settings != nil {
		phase, err := s.settings.GetPhase(ctx, schoolID)
		if err != nil {
			return nil, err
		}
		results.Stats.Phase = phase
	}
	return results, nil
}

// GetCategoryResults returns the tally of a single category, or nil when
// the category has no contestants
func (s *ResultsService) GetCategoryResults(ctx context.Context, schoolID, categoryID string) (*CategoryTally, error) {
	results, err := s.GetResults(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	for _, cat := range results.Categories {
		if cat.Category.ID == categoryID {
			return &cat, nil
		}
	}
	return nil, nil
}

// GetWinners returns the leader of every category that has received votes
func (s *ResultsService) GetWinners(ctx context.Context, schoolID string) ([]Winner, error) {
	results, err := s.GetResults(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	winners := []Winner{}
	for _, cat := range results.Categories {
		if cat.Winner == nil || cat.TotalVotes == 0 {
			continue
		}
		winners = append(winners, Winner{
			CategoryID:    cat.Category.ID,
			CategoryTitle: cat.Category.Title,
			Contestant:    cat.Winner.Contestant,
			Votes:         cat.Winner.Votes,
			Percentage:    cat.Winner.Percentage,
			Tied:          cat.Tied,
		})
	}
	return winners, nil
}

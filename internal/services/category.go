package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
)

// CategoryServiceRepository defines the repository methods needed by CategoryService
type CategoryServiceRepository interface {
	repository.CategoryRepository
	repository.ContestantRepository
}

// CategoryService manages voting categories and their contestants
type CategoryService struct {
	log   logger.Logger
	repo  CategoryServiceRepository
	audit AuditLogger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(log logger.Logger, repo CategoryServiceRepository) *CategoryService {
	return &CategoryService{log: log, repo: repo}
}

// SetAuditLogger sets the activity log sink
func (s *CategoryService) SetAuditLogger(a AuditLogger) {
	s.audit = a
}

// Contestant holds the editable fields of a contestant. The vote counter
// is not among them.
type Contestant struct {
	CategoryID string
	Name       string
	Class      string
	AvatarURL  string
	Manifesto  string
}

// ListCategories returns the school's categories in display order
func (s *CategoryService) ListCategories(ctx context.Context, schoolID string) ([]models.VotingCategory, error) {
	return s.repo.ListCategories(ctx, schoolID)
}

// CreateCategory adds a category at the end of the school's list
func (s *CategoryService) CreateCategory(ctx context.Context, schoolID, title string) (*models.VotingCategory, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.Validation("category title is required")
	}
	if models.Key(schoolID) == "" {
		return nil, errors.Validation("school id is required")
	}

	cat := &models.VotingCategory{ID: uuid.NewString(), SchoolID: schoolID, Title: title}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	s.log.Info("Category created", "school", cat.SchoolID, "id", cat.ID, "order", cat.Order)
	return cat, nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, schoolID, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.Validation("category title is required")
	}
	if _, err := s.categoryInSchool(ctx, schoolID, id); err != nil {
		return err
	}
	return s.repo.UpdateCategory(ctx, id, title)
}

// DeleteCategory removes a category together with its contestants
func (s *CategoryService) DeleteCategory(ctx context.Context, schoolID, id string) error {
	cat, err := s.categoryInSchool(ctx, schoolID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.log.Info("Category deleted", "school", cat.SchoolID, "id", id)
	recordAudit(ctx, s.log, s.audit, cat.SchoolID, AdminActorID, AdminActorName, ActionCategoryDelete, cat.Title)
	return nil
}

// ListContestants returns every contestant of the school
func (s *CategoryService) ListContestants(ctx context.Context, schoolID string) ([]models.Contestant, error) {
	return s.repo.ListContestants(ctx, schoolID)
}

// GetContestant returns one contestant of the school
func (s *CategoryService) GetContestant(ctx context.Context, schoolID, id string) (*models.Contestant, error) {
	c, err := s.repo.GetContestant(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.SchoolID != models.Key(schoolID) {
		return nil, errors.NotFound("contestant not found")
	}
	return c, nil
}

// CreateContestant adds a contestant with zero votes
func (s *CategoryService) CreateContestant(ctx context.Context, schoolID string, in Contestant) (*models.Contestant, error) {
	if err := validateContestant(in); err != nil {
		return nil, err
	}
	if _, err := s.categoryInSchool(ctx, schoolID, in.CategoryID); err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	c := models.Contestant{
		ID:         uuid.NewString(),
		SchoolID:   models.Key(schoolID),
		CategoryID: in.CategoryID,
		Name:       strings.TrimSpace(in.Name),
		Class:      strings.TrimSpace(in.Class),
		AvatarURL:  strings.TrimSpace(in.AvatarURL),
		Manifesto:  in.Manifesto,
	}
	if err := s.repo.CreateContestant(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("Contestant created", "school", c.SchoolID, "category", c.CategoryID, "id", c.ID)
	return &c, nil
}

// UpdateContestant edits a contestant's profile, possibly moving it to
// another category of the same school
func (s *CategoryService) UpdateContestant(ctx context.Context, schoolID, id string, in Contestant) (*models.Contestant, error) {
	if err := validateContestant(in); err != nil {
		return nil, err
	}
	existing, err := s.GetContestant(ctx, schoolID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryInSchool(ctx, schoolID, in.CategoryID); err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	existing.CategoryID = in.CategoryID
	existing.Name = strings.TrimSpace(in.Name)
	existing.Class = strings.TrimSpace(in.Class)
	existing.AvatarURL = strings.TrimSpace(in.AvatarURL)
	existing.Manifesto = in.Manifesto
	if err := s.repo.UpdateContestant(ctx, *existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteContestant removes a contestant
func (s *CategoryService) DeleteContestant(ctx context.Context, schoolID, id string) error {
	if _, err := s.GetContestant(ctx, schoolID, id); err != nil {
		return err
	}
	return s.repo.DeleteContestant(ctx, id)
}

func (s *CategoryService) categoryInSchool(ctx context.Context, schoolID, id string) (*models.VotingCategory, error) {
	cat, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat.SchoolID != models.Key(schoolID) {
		return nil, errors.NotFound("category not found")
	}
	return cat, nil
}

func validateContestant(in Contestant) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Validation("contestant name is required")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return errors.Validation("category id is required")
	}
	return nil
}

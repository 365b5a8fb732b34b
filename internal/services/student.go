package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
	"github.com/abrezinsky/campusvote/pkg/roster"
)

// badgeSize is the edge length in pixels of a badge QR image
const badgeSize = 256

// StudentService manages the local roster and prints badges
type StudentService struct {
	log    logger.Logger
	repo   repository.StudentRepository
	client roster.Client
}

// NewStudentService creates a new StudentService. client may be nil when
// no remote roster is configured.
func NewStudentService(log logger.Logger, repo repository.StudentRepository, client roster.Client) *StudentService {
	return &StudentService{log: log, repo: repo, client: client}
}

// SyncResult reports a roster import
type SyncResult struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ListStudents returns the local roster of a school
func (s *StudentService) ListStudents(ctx context.Context, schoolID string) ([]models.Student, error) {
	return s.repo.ListStudents(ctx, schoolID)
}

// RegisterStudent adds or updates a student in the local roster
func (s *StudentService) RegisterStudent(ctx context.Context, student models.Student) (*models.Student, error) {
	student.ID = strings.TrimSpace(student.ID)
	student.Name = strings.TrimSpace(student.Name)
	student.Class = strings.TrimSpace(student.Class)
	if student.ID == "" {
		return nil, errors.Validation("student id is required")
	}
	if student.Name == "" {
		return nil, errors.Validation("student name is required")
	}
	if models.Key(student.SchoolID) == "" {
		return nil, errors.Validation("school id is required")
	}
	if err := s.repo.UpsertStudent(ctx, student); err != nil {
		return nil, err
	}
	student.SchoolID = models.Key(student.SchoolID)
	return &student, nil
}

// DeleteStudent removes a student from the local roster
func (s *StudentService) DeleteStudent(ctx context.Context, schoolID, studentID string) error {
	return s.repo.DeleteStudent(ctx, schoolID, studentID)
}

// GenerateBadge renders the student's QR badge as PNG
func (s *StudentService) GenerateBadge(ctx context.Context, schoolID, studentID string) ([]byte, error) {
	student, err := s.repo.GetStudent(ctx, schoolID, studentID)
	if err == repository.ErrNotFound {
		return nil, ErrUnknownStudent
	}
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(EncodeBadge(student.SchoolID, student.ID), qrcode.Medium, badgeSize)
}

// SyncFromRoster copies the remote roster of a school into the local one
func (s *StudentService) SyncFromRoster(ctx context.Context, schoolID string) (*SyncResult, error) {
	if s.client == nil {
		return &SyncResult{Status: "error", Message: "no roster service configured"}, nil
	}

	remote, err := s.client.ListStudents(ctx, schoolID)
	if err != nil {
		return &SyncResult{
			Status:  "error",
			Message: fmt.Sprintf("failed to fetch roster: %v", err),
		}, nil
	}

	result := &SyncResult{Status: "success"}
	for _, r := range remote {
		if r.ID.String() == "" || strings.TrimSpace(r.Name) == "" {
			result.Skipped++
			continue
		}
		err := s.repo.UpsertStudent(ctx, models.Student{
			ID:       r.ID.String(),
			SchoolID: schoolID,
			Name:     strings.TrimSpace(r.Name),
			Class:    r.Class.String(),
		})
		if err != nil {
			return nil, err
		}
		result.Imported++
	}

	s.log.Info("Roster synced", "school", models.Key(schoolID), "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

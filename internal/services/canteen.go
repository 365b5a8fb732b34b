package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
)

// CanteenService is a thin stand-in for canteen order management
type CanteenService struct {
	log       logger.Logger
	repo      repository.CanteenRepository
	directory Directory
	audit     AuditLogger
	now       Clock
}

// NewCanteenService creates a new CanteenService
func NewCanteenService(log logger.Logger, repo repository.CanteenRepository, directory Directory) *CanteenService {
	return &CanteenService{log: log, repo: repo, directory: directory, now: time.Now}
}

// SetAuditLogger sets the activity log sink
func (s *CanteenService) SetAuditLogger(a AuditLogger) {
	s.audit = a
}

// SetClock overrides the time source
func (s *CanteenService) SetClock(now Clock) {
	s.now = now
}

// PlaceOrder records a pending order for a known student
func (s *CanteenService) PlaceOrder(ctx context.Context, schoolID, studentID, item string) (*models.CanteenOrder, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, errors.Validation("item is required")
	}
	student, err := s.resolve(ctx, schoolID, studentID)
	if err != nil {
		return nil, err
	}

	order := models.CanteenOrder{
		ID:        uuid.NewString(),
		SchoolID:  models.Key(schoolID),
		StudentID: student.ID,
		Item:      item,
		Status:    models.CanteenPending,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.repo.CreateCanteenOrder(ctx, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ActiveAttendance returns the student's pending order, or nil
func (s *CanteenService) ActiveAttendance(ctx context.Context, schoolID, studentID string) (*models.CanteenOrder, error) {
	return s.directory.ActiveCanteenAttendance(ctx, studentID, schoolID)
}

// SignIn marks the student's pending order as attended
func (s *CanteenService) SignIn(ctx context.Context, schoolID, studentID string) (*models.CanteenOrder, error) {
	student, err := s.resolve(ctx, schoolID, studentID)
	if err != nil {
		return nil, err
	}
	order, err := s.directory.ActiveCanteenAttendance(ctx, student.ID, schoolID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNoActiveOrder
	}
	if err := s.repo.MarkCanteenOrderAttended(ctx, order.ID); err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrNoActiveOrder
		}
		return nil, err
	}
	order.Status = models.CanteenAttended

	recordAudit(ctx, s.log, s.audit, order.SchoolID, student.ID, student.Name, ActionCanteenSignIn,
		fmt.Sprintf("order %s (%s)", order.ID, order.Item))
	return order, nil
}

func (s *CanteenService) resolve(ctx context.Context, schoolID, studentID string) (*models.Student, error) {
	student, err := s.directory.ResolveIdentity(ctx, schoolID, studentID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("resolve student: %w", err))
	}
	if student == nil {
		return nil, ErrUnknownStudent
	}
	return student, nil
}

package services

import (
	"context"
	stderrors "errors"

	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
	"github.com/abrezinsky/campusvote/pkg/roster"
)

// Directory resolves identities and canteen attendance for a school.
// Both lookups return nil, nil when there is nothing to find; an error
// means the directory itself could not be consulted.
type Directory interface {
	ResolveIdentity(ctx context.Context, schoolID, raw string) (*models.Student, error)
	ActiveCanteenAttendance(ctx context.Context, studentID, schoolID string) (*models.CanteenOrder, error)
}

// LocalDirectoryRepository defines the repository methods needed by LocalDirectory
type LocalDirectoryRepository interface {
	repository.StudentRepository
	repository.CanteenRepository
}

// LocalDirectory answers directory lookups from the local SQLite roster
type LocalDirectory struct {
	repo LocalDirectoryRepository
}

// NewLocalDirectory creates a directory backed by the local roster tables
func NewLocalDirectory(repo LocalDirectoryRepository) *LocalDirectory {
	return &LocalDirectory{repo: repo}
}

// ResolveIdentity looks the student up in the local roster
func (d *LocalDirectory) ResolveIdentity(ctx context.Context, schoolID, raw string) (*models.Student, error) {
	if models.Key(raw) == "" {
		return nil, nil
	}
	student, err := d.repo.GetStudent(ctx, schoolID, raw)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	return student, err
}

// ActiveCanteenAttendance returns the student's newest pending order
func (d *LocalDirectory) ActiveCanteenAttendance(ctx context.Context, studentID, schoolID string) (*models.CanteenOrder, error) {
	order, err := d.repo.GetActiveCanteenOrder(ctx, schoolID, studentID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	return order, err
}

// RosterDirectory answers directory lookups from the remote school system
type RosterDirectory struct {
	client roster.Client
}

// NewRosterDirectory creates a directory backed by a roster client
func NewRosterDirectory(client roster.Client) *RosterDirectory {
	return &RosterDirectory{client: client}
}

// ResolveIdentity asks the roster service for the student
func (d *RosterDirectory) ResolveIdentity(ctx context.Context, schoolID, raw string) (*models.Student, error) {
	s, err := d.client.ResolveIdentity(ctx, schoolID, raw)
	if stderrors.Is(err, roster.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.Student{
		ID:       s.ID.String(),
		SchoolID: models.Key(schoolID),
		Name:     s.Name,
		Class:    s.Class.String(),
	}, nil
}

// ActiveCanteenAttendance asks the roster service for a pending order
func (d *RosterDirectory) ActiveCanteenAttendance(ctx context.Context, studentID, schoolID string) (*models.CanteenOrder, error) {
	o, err := d.client.ActiveCanteenOrder(ctx, schoolID, studentID)
	if stderrors.Is(err, roster.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	status := o.Status
	if status == "" {
		status = models.CanteenPending
	}
	return &models.CanteenOrder{
		ID:        o.ID.String(),
		SchoolID:  models.Key(schoolID),
		StudentID: studentID,
		Item:      o.Item,
		Status:    status,
		CreatedAt: o.CreatedAt,
	}, nil
}

// ChainDirectory consults each directory in turn and returns the first hit.
// A failing directory is skipped when a later one can answer.
type ChainDirectory []Directory

// ResolveIdentity returns the first directory's match
func (c ChainDirectory) ResolveIdentity(ctx context.Context, schoolID, raw string) (*models.Student, error) {
	var firstErr error
	for _, d := range c {
		s, err := d.ResolveIdentity(ctx, schoolID, raw)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, firstErr
}

// ActiveCanteenAttendance returns the first directory's pending order
func (c ChainDirectory) ActiveCanteenAttendance(ctx context.Context, studentID, schoolID string) (*models.CanteenOrder, error) {
	var firstErr error
	for _, d := range c {
		o, err := d.ActiveCanteenAttendance(ctx, studentID, schoolID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if o != nil {
			return o, nil
		}
	}
	return nil, firstErr
}

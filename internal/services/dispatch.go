package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
)

// TaskKind identifies an action offered after a scan
type TaskKind string

const (
	TaskCastSavedVote TaskKind = "cast_saved_vote"
	TaskVoteNow       TaskKind = "vote_now"
	TaskCanteenSignIn TaskKind = "canteen_sign_in"
	TaskVisitorAccess TaskKind = "visitor_access"
)

// Priority is a rendering hint; high tasks are emphasised, not reordered
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Task is one actionable item for a scanned student
type Task struct {
	Kind     TaskKind `json:"kind"`
	Priority Priority `json:"priority"`
	Label    string   `json:"label"`
}

// DispatchResult is the resolved student and the tasks available to them
type DispatchResult struct {
	Student models.Student `json:"student"`
	Tasks   []Task         `json:"tasks"`
}

// BadgePayload is the structured content of a printed student badge
type BadgePayload struct {
	SchoolID  string `json:"schoolId"`
	StudentID string `json:"studentId"`
}

// EncodeBadge renders the payload printed on a student's badge
func EncodeBadge(schoolID, studentID string) string {
	data, _ := json.Marshal(BadgePayload{SchoolID: schoolID, StudentID: studentID})
	return string(data)
}

// DecodeScan extracts the student id from a scanned code. A structured
// badge must name schoolID; anything else is taken as a plain student id.
func DecodeScan(code, schoolID string) (string, error) {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, "{") {
		var payload BadgePayload
		if err := json.Unmarshal([]byte(code), &payload); err == nil && payload.StudentID != "" {
			if payload.SchoolID != "" && models.Key(payload.SchoolID) != models.Key(schoolID) {
				return "", ErrWrongSchool
			}
			return strings.TrimSpace(payload.StudentID), nil
		}
	}
	return code, nil
}

// DispatchService turns a scanned identity into the tasks open to it
type DispatchService struct {
	log       logger.Logger
	directory Directory
	settings  SettingsServicer
	ballots   BallotServicer
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(log logger.Logger, directory Directory, settings SettingsServicer, ballots BallotServicer) *DispatchService {
	return &DispatchService{log: log, directory: directory, settings: settings, ballots: ballots}
}

// ComputeTasks resolves the scanned code within the school and lists, in
// order, the voting task (when voting is open and the student has not
// voted), the canteen task (when an order is pending) and the visitor
// shortcut. Nothing is stored.
func (s *DispatchService) ComputeTasks(ctx context.Context, code, schoolID string) (*DispatchResult, error) {
	studentID, err := DecodeScan(code, schoolID)
	if err != nil {
		return nil, err
	}
	if studentID == "" {
		return nil, ErrUnknownStudent
	}

	student, err := s.directory.ResolveIdentity(ctx, schoolID, studentID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("resolve student: %w", err))
	}
	if student == nil {
		return nil, ErrUnknownStudent
	}

	tasks := []Task{}

	phase, err := s.settings.GetPhase(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if phase == models.PhaseOpen {
		voted, err := s.ballots.HasVoted(ctx, student.ID, schoolID)
		if err != nil {
			return nil, err
		}
		if !voted {
			draft, err := s.ballots.GetDraft(ctx, student.ID, schoolID)
			if err != nil {
				return nil, err
			}
			if draft != nil {
				tasks = append(tasks, Task{Kind: TaskCastSavedVote, Priority: PriorityHigh, Label: "Cast saved vote"})
			} else {
				tasks = append(tasks, Task{Kind: TaskVoteNow, Priority: PriorityNormal, Label: "Vote now"})
			}
		}
	}

	order, err := s.directory.ActiveCanteenAttendance(ctx, student.ID, schoolID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("canteen lookup: %w", err))
	}
	if order != nil {
		tasks = append(tasks, Task{Kind: TaskCanteenSignIn, Priority: PriorityHigh, Label: "Canteen sign-in"})
	}

	tasks = append(tasks, Task{Kind: TaskVisitorAccess, Priority: PriorityNormal, Label: "Visitor access"})

	s.log.Debug("Dispatch computed", "school", models.Key(schoolID), "student", student.ID, "tasks", len(tasks))
	return &DispatchResult{Student: *student, Tasks: tasks}, nil
}

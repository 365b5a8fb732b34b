package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	apperrors "github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/services"
	"github.com/abrezinsky/campusvote/internal/testutil"
	"github.com/abrezinsky/campusvote/pkg/roster"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestStudentService_RegisterAndList(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	svc := services.NewStudentService(logger.Discard(), repo, nil)
	ctx := context.Background()

	s, err := svc.RegisterStudent(ctx, models.Student{ID: " stu002 ", SchoolID: "S1", Name: " Zainab ", Class: "SS1"})
	if err != nil {
		t.Fatalf("RegisterStudent failed: %v", err)
	}
	if s.ID != "stu002" || s.Name != "Zainab" || s.SchoolID != "s1" {
		t.Errorf("unexpected student: %+v", s)
	}
	if _, err := svc.RegisterStudent(ctx, models.Student{ID: "stu001", SchoolID: "S1", Name: "Amaka"}); err != nil {
		t.Fatalf("RegisterStudent failed: %v", err)
	}

	list, err := svc.ListStudents(ctx, "S1")
	if err != nil {
		t.Fatalf("ListStudents failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Amaka" {
		t.Errorf("expected roster sorted by name, got %+v", list)
	}

	if err := svc.DeleteStudent(ctx, "S1", "STU001"); err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}
	if err := svc.DeleteStudent(ctx, "S1", "STU001"); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestStudentService_RegisterValidation(t *testing.T) {
	svc := services.NewStudentService(logger.Discard(), testutil.NewTestRepository(t), nil)

	for _, s := range []models.Student{
		{SchoolID: "S1", Name: "Ada"},
		{ID: "stu001", SchoolID: "S1", Name: "  "},
		{ID: "stu001", Name: "Ada"},
	} {
		if _, err := svc.RegisterStudent(context.Background(), s); apperrors.KindOf(err) != apperrors.ErrValidation {
			t.Errorf("RegisterStudent(%+v): expected validation error, got %v", s, err)
		}
	}
}

func TestStudentService_GenerateBadge(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	testutil.SeedStudent(t, repo, "S1", "stu001", "Uche")
	svc := services.NewStudentService(logger.Discard(), repo, nil)

	png, err := svc.GenerateBadge(context.Background(), "S1", "STU001")
	if err != nil {
		t.Fatalf("GenerateBadge failed: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("expected PNG output")
	}

	if _, err := svc.GenerateBadge(context.Background(), "S1", "ghost"); err != services.ErrUnknownStudent {
		t.Errorf("expected ErrUnknownStudent, got %v", err)
	}
}

func TestStudentService_SyncFromRoster(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	client := roster.NewMockClient(roster.WithStudents(append(roster.DefaultMockStudents(),
		roster.Student{ID: "", SchoolID: "s1", Name: "No Id"},
		roster.Student{ID: "stu009", SchoolID: "s1", Name: "  "},
	)))
	svc := services.NewStudentService(logger.Discard(), repo, client)
	ctx := context.Background()

	result, err := svc.SyncFromRoster(ctx, "S1")
	if err != nil {
		t.Fatalf("SyncFromRoster failed: %v", err)
	}
	if result.Status != "success" || result.Imported != 3 || result.Skipped != 2 {
		t.Errorf("unexpected result: %+v", result)
	}

	dir := services.NewLocalDirectory(repo)
	s, err := dir.ResolveIdentity(ctx, "s1", "stu003")
	if err != nil || s == nil || s.Class != "SS1" {
		t.Errorf("expected synced student, got %+v (err %v)", s, err)
	}
	if s, _ := dir.ResolveIdentity(ctx, "s2", "stu100"); s != nil {
		t.Error("expected only the requested school to be imported")
	}

	// Re-syncing updates in place.
	if result, _ := svc.SyncFromRoster(ctx, "S1"); result.Imported != 3 {
		t.Errorf("expected re-sync to import 3, got %+v", result)
	}
	list, _ := svc.ListStudents(ctx, "S1")
	if len(list) != 3 {
		t.Errorf("expected 3 students after re-sync, got %d", len(list))
	}
}

func TestStudentService_SyncErrors(t *testing.T) {
	ctx := context.Background()

	noClient := services.NewStudentService(logger.Discard(), testutil.NewTestRepository(t), nil)
	result, err := noClient.SyncFromRoster(ctx, "S1")
	if err != nil || result.Status != "error" {
		t.Errorf("expected error result without a client, got %+v (err %v)", result, err)
	}

	failing := services.NewStudentService(logger.Discard(), testutil.NewTestRepository(t),
		roster.NewMockClient(roster.WithListError(errors.New("timeout"))))
	result, err = failing.SyncFromRoster(ctx, "S1")
	if err != nil || result.Status != "error" || result.Message == "" {
		t.Errorf("expected error result on fetch failure, got %+v (err %v)", result, err)
	}
}

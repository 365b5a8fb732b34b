package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// SeedCategory creates a category and returns it with its assigned order
func SeedCategory(t *testing.T, repo repository.CategoryRepository, schoolID, id, title string) models.VotingCategory {
	t.Helper()

	cat := models.VotingCategory{ID: id, SchoolID: schoolID, Title: title}
	if err := repo.CreateCategory(context.Background(), &cat); err != nil {
		t.Fatalf("failed to seed category %s: %v", id, err)
	}
	return cat
}

// SeedContestant creates a contestant with zero votes
func SeedContestant(t *testing.T, repo repository.ContestantRepository, schoolID, categoryID, id, name string) models.Contestant {
	t.Helper()

	c := models.Contestant{ID: id, SchoolID: schoolID, CategoryID: categoryID, Name: name}
	if err := repo.CreateContestant(context.Background(), c); err != nil {
		t.Fatalf("failed to seed contestant %s: %v", id, err)
	}
	return c
}

// SeedStudent adds a student to the local roster
func SeedStudent(t *testing.T, repo repository.StudentRepository, schoolID, id, name string) models.Student {
	t.Helper()

	s := models.Student{ID: id, SchoolID: schoolID, Name: name}
	if err := repo.UpsertStudent(context.Background(), s); err != nil {
		t.Fatalf("failed to seed student %s: %v", id, err)
	}
	return s
}

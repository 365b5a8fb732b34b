package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedCategory(t *testing.T, repo *Repository, school, id, title string) models.VotingCategory {
	t.Helper()
	cat := models.VotingCategory{ID: id, SchoolID: school, Title: title}
	if err := repo.CreateCategory(context.Background(), &cat); err != nil {
		t.Fatalf("CreateCategory(%s) failed: %v", id, err)
	}
	return cat
}

func seedContestant(t *testing.T, repo *Repository, school, categoryID, id, name string) {
	t.Helper()
	err := repo.CreateContestant(context.Background(), models.Contestant{
		ID: id, SchoolID: school, CategoryID: categoryID, Name: name,
	})
	if err != nil {
		t.Fatalf("CreateContestant(%s) failed: %v", id, err)
	}
}

func votesFor(t *testing.T, repo *Repository, id string) int {
	t.Helper()
	c, err := repo.GetContestant(context.Background(), id)
	if err != nil {
		t.Fatalf("GetContestant(%s) failed: %v", id, err)
	}
	return c.Votes
}

// ==================== Settings Tests ====================

func TestGetElectionSettings_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetElectionSettings(context.Background(), "school-a")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertElectionSettingsIfMissing_DoesNotOverwrite(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := models.ElectionSettings{SchoolID: "School-A", StartTime: 1000, EndTime: 2000, IsVotingOpen: true}
	if err := repo.InsertElectionSettingsIfMissing(ctx, first); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	second := models.ElectionSettings{SchoolID: "school-a", StartTime: 5, EndTime: 6}
	if err := repo.InsertElectionSettingsIfMissing(ctx, second); err != nil {
		t.Fatalf("second insert failed: %v", err)
	}

	got, err := repo.GetElectionSettings(ctx, " SCHOOL-A ")
	if err != nil {
		t.Fatalf("GetElectionSettings failed: %v", err)
	}
	if got.StartTime != 1000 || got.EndTime != 2000 || !got.IsVotingOpen {
		t.Errorf("expected first settings to survive, got %+v", got)
	}
	if got.SchoolID != "school-a" {
		t.Errorf("expected normalised school id, got %q", got.SchoolID)
	}
}

func TestSaveElectionSettings_Upserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveElectionSettings(ctx, models.ElectionSettings{SchoolID: "s", StartTime: 1, EndTime: 2}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.SaveElectionSettings(ctx, models.ElectionSettings{SchoolID: "s", StartTime: 10, EndTime: 20, IsVotingOpen: true}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.GetElectionSettings(ctx, "s")
	if err != nil {
		t.Fatalf("GetElectionSettings failed: %v", err)
	}
	if got.StartTime != 10 || got.EndTime != 20 || !got.IsVotingOpen {
		t.Errorf("unexpected settings: %+v", got)
	}
}

func TestSaveElectionSettings_RejectsInvertedWindow(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SaveElectionSettings(context.Background(), models.ElectionSettings{SchoolID: "s", StartTime: 20, EndTime: 10})
	if err == nil {
		t.Error("expected CHECK constraint failure for start >= end")
	}
}

// ==================== Category Tests ====================

func TestCreateCategory_AssignsSequentialOrder(t *testing.T) {
	repo := newTestRepo(t)

	a := seedCategory(t, repo, "school-a", "c1", "Head Prefect")
	b := seedCategory(t, repo, "school-a", "c2", "Sports Captain")
	other := seedCategory(t, repo, "school-b", "c3", "Head Prefect")

	if a.Order != 0 || b.Order != 1 {
		t.Errorf("expected orders 0 and 1, got %d and %d", a.Order, b.Order)
	}
	if other.Order != 0 {
		t.Errorf("expected order to be per school, got %d", other.Order)
	}
}

func TestCreateCategory_OrderAfterDeleteIsMaxPlusOne(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "s", "c1", "A")
	seedCategory(t, repo, "s", "c2", "B")
	if err := repo.DeleteCategory(ctx, "c1"); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	c := seedCategory(t, repo, "s", "c3", "C")
	if c.Order != 2 {
		t.Errorf("expected order 2, got %d", c.Order)
	}
}

func TestListCategories_SortedAndScoped(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "s", "c1", "First")
	seedCategory(t, repo, "s", "c2", "Second")
	seedCategory(t, repo, "other", "c3", "Elsewhere")

	cats, err := repo.ListCategories(ctx, "S")
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].ID != "c1" || cats[1].ID != "c2" {
		t.Errorf("unexpected order: %+v", cats)
	}

	count, err := repo.CountCategories(ctx, "s")
	if err != nil {
		t.Fatalf("CountCategories failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestListCategories_EmptyIsNotNil(t *testing.T) {
	repo := newTestRepo(t)

	cats, err := repo.ListCategories(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if cats == nil {
		t.Error("expected empty slice, got nil")
	}
}

func TestGetCategory_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetCategory(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCategory(t, repo, "s", "c1", "Old")

	if err := repo.UpdateCategory(ctx, "c1", "New"); err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	got, err := repo.GetCategory(ctx, "c1")
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if got.Title != "New" {
		t.Errorf("expected title New, got %q", got.Title)
	}

	if err := repo.UpdateCategory(ctx, "missing", "x"); !errors.IsNotFound(err) {
		t.Errorf("expected not found for missing category, got %v", err)
	}
}

func TestDeleteCategory_RemovesContestants(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "s", "c1", "Head Prefect")
	seedCategory(t, repo, "s", "c2", "Sports Captain")
	seedContestant(t, repo, "s", "c1", "p1", "Ada")
	seedContestant(t, repo, "s", "c2", "p2", "Bola")

	if err := repo.DeleteCategory(ctx, "c1"); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	contestants, err := repo.ListContestants(ctx, "s")
	if err != nil {
		t.Fatalf("ListContestants failed: %v", err)
	}
	if len(contestants) != 1 || contestants[0].ID != "p2" {
		t.Errorf("expected only p2 to remain, got %+v", contestants)
	}

	if err := repo.DeleteCategory(ctx, "c1"); !errors.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

// ==================== Contestant Tests ====================

func TestCreateContestant_StartsAtZeroVotes(t *testing.T) {
	repo := newTestRepo(t)
	seedCategory(t, repo, "s", "c1", "Head Prefect")

	err := repo.CreateContestant(context.Background(), models.Contestant{
		ID: "p1", SchoolID: "s", CategoryID: "c1", Name: "Ada", Class: "JSS3", Votes: 99,
	})
	if err != nil {
		t.Fatalf("CreateContestant failed: %v", err)
	}
	if v := votesFor(t, repo, "p1"); v != 0 {
		t.Errorf("expected 0 votes, got %d", v)
	}
}

func TestCreateContestant_UnknownCategory(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.CreateContestant(context.Background(), models.Contestant{ID: "p1", SchoolID: "s", CategoryID: "nope", Name: "Ada"})
	if err == nil {
		t.Error("expected foreign key failure")
	}
}

func TestUpdateContestant_KeepsVotes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCategory(t, repo, "s", "c1", "Head Prefect")
	seedContestant(t, repo, "s", "c1", "p1", "Ada")

	if _, err := repo.CommitBallot(ctx, &models.VoteRecord{SchoolID: "s", StudentID: "u1", Choices: models.Choices{"c1": "p1"}}); err != nil {
		t.Fatalf("CommitBallot failed: %v", err)
	}

	err := repo.UpdateContestant(ctx, models.Contestant{ID: "p1", CategoryID: "c1", Name: "Ada O.", Manifesto: "More books", Votes: 0})
	if err != nil {
		t.Fatalf("UpdateContestant failed: %v", err)
	}

	got, err := repo.GetContestant(ctx, "p1")
	if err != nil {
		t.Fatalf("GetContestant failed: %v", err)
	}
	if got.Name != "Ada O." || got.Manifesto != "More books" {
		t.Errorf("profile not updated: %+v", got)
	}
	if got.Votes != 1 {
		t.Errorf("expected votes to be preserved at 1, got %d", got.Votes)
	}
}

func TestDeleteContestant(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedCategory(t, repo, "s", "c1", "Head Prefect")
	seedContestant(t, repo, "s", "c1", "p1", "Ada")

	if err := repo.DeleteContestant(ctx, "p1"); err != nil {
		t.Fatalf("DeleteContestant failed: %v", err)
	}
	if _, err := repo.GetContestant(ctx, "p1"); !errors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := repo.DeleteContestant(ctx, "p1"); !errors.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

// ==================== Draft Tests ====================

func TestSaveDraft_OverwritesAndNormalisesKey(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveDraft(ctx, models.DraftVote{SchoolID: "s", StudentID: "STU-1", Choices: models.Choices{"c1": "p1"}, UpdatedAt: 1}); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	if err := repo.SaveDraft(ctx, models.DraftVote{SchoolID: "s", StudentID: " stu-1", Choices: models.Choices{"c1": "p2"}, UpdatedAt: 2}); err != nil {
		t.Fatalf("SaveDraft overwrite failed: %v", err)
	}

	got, err := repo.GetDraft(ctx, "S", "Stu-1")
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if got.Choices["c1"] != "p2" || got.UpdatedAt != 2 {
		t.Errorf("expected overwritten draft, got %+v", got)
	}
}

func TestGetDraft_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetDraft(context.Background(), "s", "nobody")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDraft_MissingIsNoop(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.DeleteDraft(context.Background(), "s", "nobody"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

// ==================== CommitBallot Tests ====================

func TestCommitBallot_IncrementsAndClearsDraft(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "s", "c1", "Head Prefect")
	seedCategory(t, repo, "s", "c2", "Sports Captain")
	seedContestant(t, repo, "s", "c1", "p1", "Ada")
	seedContestant(t, repo, "s", "c2", "p2", "Bola")

	choices := models.Choices{"c1": "p1", "c2": "p2"}
	if err := repo.SaveDraft(ctx, models.DraftVote{SchoolID: "s", StudentID: "u1", Choices: choices}); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	rec := &models.VoteRecord{SchoolID: "S", StudentID: "U1", StudentName: "Uche", Choices: choices, Timestamp: 42}
	counted, err := repo.CommitBallot(ctx, rec)
	if err != nil {
		t.Fatalf("CommitBallot failed: %v", err)
	}
	if counted != 2 {
		t.Errorf("expected 2 counters incremented, got %d", counted)
	}
	if rec.ID == 0 {
		t.Error("expected record ID to be assigned")
	}
	if votesFor(t, repo, "p1") != 1 || votesFor(t, repo, "p2") != 1 {
		t.Error("expected each chosen contestant to have 1 vote")
	}

	if _, err := repo.GetDraft(ctx, "s", "u1"); err != ErrNotFound {
		t.Errorf("expected draft to be deleted, got %v", err)
	}

	voted, err := repo.HasVoted(ctx, "s", "u1")
	if err != nil || !voted {
		t.Errorf("expected HasVoted true, got %v (err %v)", voted, err)
	}

	stored, err := repo.GetVoteRecord(ctx, "s", "u1")
	if err != nil {
		t.Fatalf("GetVoteRecord failed: %v", err)
	}
	if stored.StudentName != "Uche" || stored.Timestamp != 42 || stored.Choices["c2"] != "p2" {
		t.Errorf("unexpected stored record: %+v", stored)
	}
}

func TestCommitBallot_DuplicateRejectedWithoutSideEffects(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "s", "c1", "Head Prefect")
	seedContestant(t, repo, "s", "c1", "p1", "Ada")
	seedContestant(t, repo, "s", "c1", "p2", "Bola")

	if _, err := repo.CommitBallot(ctx, &models.VoteRecord{SchoolID: "s", StudentID: "u1", Choices: models.Choices{"c1": "p1"}}); err != nil {
		t.Fatalf("first CommitBallot failed: %v", err)
	}

	_, err := repo.CommitBallot(ctx, &models.VoteRecord{SchoolID: "s", StudentID: " U1 ", Choices: models.Choices{"c1": "p2"}})
	if err != ErrDuplicateBallot {
		t.Fatalf("expected ErrDuplicateBallot, got %v", err)
	}
	if votesFor(t, repo, "p2") != 0 {
		t.Error("expected no increment on duplicate ballot")
	}
	if votesFor(t, repo, "p1") != 1 {
		t.Error("expected first ballot to stand")
	}
}

func TestCommitBallot_SkipsUnknownAndMismatchedChoices(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "s", "c1", "Head Prefect")
	seedCategory(t, repo, "s", "c2", "Sports Captain")
	seedContestant(t, repo, "s", "c1", "p1", "Ada")
	seedContestant(t, repo, "s", "c2", "p2", "Bola")

	// p2 is in c2, not c1; "ghost" does not exist
	counted, err := repo.CommitBallot(ctx, &models.VoteRecord{
		SchoolID: "s", StudentID: "u1",
		Choices: models.Choices{"c1": "p2", "c2": "ghost"},
	})
	if err != nil {
		t.Fatalf("CommitBallot failed: %v", err)
	}
	if counted != 0 {
		t.Errorf("expected 0 increments, got %d", counted)
	}
	if votesFor(t, repo, "p2") != 0 {
		t.Error("expected mismatched contestant to stay at 0")
	}
	if voted, _ := repo.HasVoted(ctx, "s", "u1"); !voted {
		t.Error("expected the record to be stored anyway")
	}
}

func TestCommitBallot_IsolatedBySchool(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "a", "c1", "Head Prefect")
	seedContestant(t, repo, "a", "c1", "p1", "Ada")

	// Same student id at another school may vote; a choice pointing at a
	// contestant of school a is ignored.
	if _, err := repo.CommitBallot(ctx, &models.VoteRecord{SchoolID: "a", StudentID: "u1", Choices: models.Choices{"c1": "p1"}}); err != nil {
		t.Fatalf("CommitBallot school a failed: %v", err)
	}
	counted, err := repo.CommitBallot(ctx, &models.VoteRecord{SchoolID: "b", StudentID: "u1", Choices: models.Choices{"c1": "p1"}})
	if err != nil {
		t.Fatalf("CommitBallot school b failed: %v", err)
	}
	if counted != 0 {
		t.Errorf("expected cross-school choice to be ignored, got %d", counted)
	}
	if votesFor(t, repo, "p1") != 1 {
		t.Errorf("expected 1 vote, got %d", votesFor(t, repo, "p1"))
	}
}

func TestCommitBallot_ConcurrentSameStudent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedCategory(t, repo, "s", "c1", "Head Prefect")
	seedContestant(t, repo, "s", "c1", "p1", "Ada")

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, duplicates := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CommitBallot(ctx, &models.VoteRecord{SchoolID: "s", StudentID: "u1", Choices: models.Choices{"c1": "p1"}})
			mu.Lock()
			defer mu.Unlock()
			switch err {
			case nil:
				successes++
			case ErrDuplicateBallot:
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || duplicates != attempts-1 {
		t.Errorf("expected 1 success and %d duplicates, got %d and %d", attempts-1, successes, duplicates)
	}
	if votesFor(t, repo, "p1") != 1 {
		t.Errorf("expected exactly 1 vote, got %d", votesFor(t, repo, "p1"))
	}
}

func TestGetBallotStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := &models.VoteRecord{SchoolID: "s", StudentID: fmt.Sprintf("u%d", i), Choices: models.Choices{}}
		if _, err := repo.CommitBallot(ctx, rec); err != nil {
			t.Fatalf("CommitBallot failed: %v", err)
		}
	}
	if err := repo.SaveDraft(ctx, models.DraftVote{SchoolID: "s", StudentID: "u9", Choices: models.Choices{}}); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	stats, err := repo.GetBallotStats(ctx, "s")
	if err != nil {
		t.Fatalf("GetBallotStats failed: %v", err)
	}
	if stats.BallotsCast != 3 || stats.Drafts != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

// ==================== Student Tests ====================

func TestStudents_UpsertGetListDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertStudent(ctx, models.Student{ID: "STU-2", SchoolID: "s", Name: "zainab"}); err != nil {
		t.Fatalf("UpsertStudent failed: %v", err)
	}
	if err := repo.UpsertStudent(ctx, models.Student{ID: "STU-1", SchoolID: "s", Name: "Ada", Class: "JSS1"}); err != nil {
		t.Fatalf("UpsertStudent failed: %v", err)
	}
	if err := repo.UpsertStudent(ctx, models.Student{ID: "stu-1", SchoolID: "s", Name: "Ada L.", Class: "JSS2"}); err != nil {
		t.Fatalf("UpsertStudent update failed: %v", err)
	}

	got, err := repo.GetStudent(ctx, "S", "Stu-1")
	if err != nil {
		t.Fatalf("GetStudent failed: %v", err)
	}
	if got.Name != "Ada L." || got.Class != "JSS2" {
		t.Errorf("expected updated student, got %+v", got)
	}

	list, err := repo.ListStudents(ctx, "s")
	if err != nil {
		t.Fatalf("ListStudents failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Ada L." || list[1].Name != "zainab" {
		t.Errorf("expected case-insensitive name order, got %+v", list)
	}

	if err := repo.DeleteStudent(ctx, "s", "STU-1"); err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}
	if _, err := repo.GetStudent(ctx, "s", "stu-1"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteStudent(ctx, "s", "stu-1"); !errors.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

// ==================== Canteen Tests ====================

func TestCanteenOrders_ActiveAndAttended(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetActiveCanteenOrder(ctx, "s", "u1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound with no orders, got %v", err)
	}

	orders := []models.CanteenOrder{
		{ID: "o1", SchoolID: "s", StudentID: "U1", Item: "Rice", Status: models.CanteenPending, CreatedAt: 1},
		{ID: "o2", SchoolID: "s", StudentID: "u1", Item: "Beans", Status: models.CanteenPending, CreatedAt: 2},
	}
	for _, o := range orders {
		if err := repo.CreateCanteenOrder(ctx, o); err != nil {
			t.Fatalf("CreateCanteenOrder failed: %v", err)
		}
	}

	active, err := repo.GetActiveCanteenOrder(ctx, "s", "u1")
	if err != nil {
		t.Fatalf("GetActiveCanteenOrder failed: %v", err)
	}
	if active.ID != "o2" {
		t.Errorf("expected newest pending order o2, got %s", active.ID)
	}

	if err := repo.MarkCanteenOrderAttended(ctx, "o2"); err != nil {
		t.Fatalf("MarkCanteenOrderAttended failed: %v", err)
	}
	if err := repo.MarkCanteenOrderAttended(ctx, "o2"); !errors.IsNotFound(err) {
		t.Errorf("expected not found for already attended order, got %v", err)
	}

	active, err = repo.GetActiveCanteenOrder(ctx, "s", "u1")
	if err != nil {
		t.Fatalf("GetActiveCanteenOrder failed: %v", err)
	}
	if active.ID != "o1" {
		t.Errorf("expected o1 to be active now, got %s", active.ID)
	}
}

// ==================== Audit Tests ====================

func TestAuditEntries_NewestFirstWithLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		err := repo.InsertAuditEntry(ctx, models.AuditEntry{
			ID: fmt.Sprintf("a%d", i), SchoolID: "s", ActorID: "admin", Action: "TEST", CreatedAt: int64(i),
		})
		if err != nil {
			t.Fatalf("InsertAuditEntry failed: %v", err)
		}
	}
	if err := repo.InsertAuditEntry(ctx, models.AuditEntry{ID: "x", SchoolID: "other", Action: "TEST", CreatedAt: 9}); err != nil {
		t.Fatalf("InsertAuditEntry failed: %v", err)
	}

	entries, err := repo.ListAuditEntries(ctx, "s", 3)
	if err != nil {
		t.Fatalf("ListAuditEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].ID != "a5" || entries[2].ID != "a3" {
		t.Errorf("expected newest first, got %+v", entries)
	}
}

// ==================== Lifecycle Tests ====================

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent-dir/sub/campusvote.db")
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestPingAndClose(t *testing.T) {
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if repo.DB() == nil {
		t.Error("expected DB to be non-nil")
	}
	if err := repo.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := (&Repository{}).Close(); err != nil {
		t.Errorf("Close on nil db should be a no-op, got %v", err)
	}
}

package handlers_test

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/abrezinsky/campusvote/internal/handlers"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/services"
)

func TestAdmin_WindowAndVotingControl(t *testing.T) {
	s := newTestServer(t)
	s.login()
	now := time.Now()

	rec := s.do(http.MethodPut, "/api/admin/schools/s1/window", handlers.WindowRequest{
		StartTime: now.Add(time.Hour).UnixMilli(),
		EndTime:   now.UnixMilli(),
	})
	expectCode(t, rec, http.StatusBadRequest, "INVALID_WINDOW")

	rec = s.do(http.MethodPut, "/api/admin/schools/s1/window", handlers.WindowRequest{
		StartTime: now.Add(-time.Minute).UnixMilli(),
		EndTime:   now.Add(time.Hour).UnixMilli(),
	})
	expectStatus(t, rec, http.StatusOK)
	if status := decode[services.ElectionStatus](t, rec); status.Phase != models.PhaseClosed {
		t.Errorf("window alone must not open voting, got %s", status.Phase)
	}

	rec = s.do(http.MethodPost, "/api/admin/schools/s1/voting", handlers.VotingStatusRequest{Open: true})
	expectStatus(t, rec, http.StatusOK)
	if status := decode[services.ElectionStatus](t, rec); status.Phase != models.PhaseOpen {
		t.Errorf("expected open phase, got %s", status.Phase)
	}

	settings := decode[services.ElectionStatus](t, s.do(http.MethodGet, "/api/admin/schools/s1/settings", nil))
	if !settings.Settings.IsVotingOpen {
		t.Error("expected voting flag to be stored")
	}
}

func TestAdmin_Categories(t *testing.T) {
	s := newTestServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/api/admin/schools/s1/categories", handlers.CategoryRequest{Title: "Head Prefect"})
	expectStatus(t, rec, http.StatusCreated)
	first := decode[models.VotingCategory](t, rec)
	second := decode[models.VotingCategory](t, s.do(http.MethodPost, "/api/admin/schools/s1/categories",
		handlers.CategoryRequest{Title: "Labour Prefect"}))
	if second.Order <= first.Order {
		t.Errorf("expected increasing order, got %d then %d", first.Order, second.Order)
	}

	expectCode(t, s.do(http.MethodPost, "/api/admin/schools/s1/categories", handlers.CategoryRequest{Title: "  "}),
		http.StatusBadRequest, handlers.ErrCodeValidation)

	expectStatus(t, s.do(http.MethodPut, "/api/admin/schools/s1/categories/"+first.ID,
		handlers.CategoryRequest{Title: "Senior Prefect"}), http.StatusOK)

	list := decode[[]models.VotingCategory](t, s.do(http.MethodGet, "/api/admin/schools/s1/categories", nil))
	if len(list) != 2 || list[0].Title != "Senior Prefect" {
		t.Errorf("unexpected categories: %+v", list)
	}

	// Another school cannot see or delete them
	expectStatus(t, s.do(http.MethodDelete, "/api/admin/schools/s2/categories/"+first.ID, nil), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodDelete, "/api/admin/schools/s1/categories/"+first.ID, nil), http.StatusNoContent)
	expectStatus(t, s.do(http.MethodDelete, "/api/admin/schools/s1/categories/"+first.ID, nil), http.StatusNotFound)
}

func TestAdmin_Contestants(t *testing.T) {
	s := newTestServer(t)
	s.login()
	cat := decode[models.VotingCategory](t, s.do(http.MethodPost, "/api/admin/schools/s1/categories",
		handlers.CategoryRequest{Title: "Head Prefect"}))

	expectCode(t, s.do(http.MethodPost, "/api/admin/schools/s1/contestants",
		handlers.ContestantRequest{CategoryID: "nope", Name: "Ada"}), http.StatusNotFound, "CATEGORY_NOT_FOUND")

	rec := s.do(http.MethodPost, "/api/admin/schools/s1/contestants",
		handlers.ContestantRequest{CategoryID: cat.ID, Name: "Ada Obi", Class: "SS3", Manifesto: "Clean water"})
	expectStatus(t, rec, http.StatusCreated)
	c := decode[models.Contestant](t, rec)

	rec = s.do(http.MethodPut, "/api/admin/schools/s1/contestants/"+c.ID,
		handlers.ContestantRequest{CategoryID: cat.ID, Name: "Ada O. Obi", Class: "SS3"})
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Contestant](t, rec); got.Name != "Ada O. Obi" {
		t.Errorf("expected rename, got %q", got.Name)
	}

	got := decode[models.Contestant](t, s.do(http.MethodGet, "/api/admin/schools/s1/contestants/"+c.ID, nil))
	if got.Class != "SS3" {
		t.Errorf("unexpected contestant: %+v", got)
	}
	list := decode[[]models.Contestant](t, s.do(http.MethodGet, "/api/admin/schools/s1/contestants", nil))
	if len(list) != 1 {
		t.Errorf("expected 1 contestant, got %d", len(list))
	}

	expectStatus(t, s.do(http.MethodGet, "/api/admin/schools/s2/contestants/"+c.ID, nil), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodDelete, "/api/admin/schools/s1/contestants/"+c.ID, nil), http.StatusNoContent)
}

func TestAdmin_Students(t *testing.T) {
	s := newTestServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/api/admin/schools/s1/students", handlers.StudentRequest{ID: "stu009", Name: "Kemi", Class: "JSS3"})
	expectStatus(t, rec, http.StatusCreated)
	expectCode(t, s.do(http.MethodPost, "/api/admin/schools/s1/students", handlers.StudentRequest{ID: "stu010"}),
		http.StatusBadRequest, handlers.ErrCodeValidation)

	list := decode[[]models.Student](t, s.do(http.MethodGet, "/api/admin/schools/s1/students", nil))
	if len(list) != 1 || list[0].Name != "Kemi" {
		t.Fatalf("unexpected roster: %+v", list)
	}

	rec = s.do(http.MethodGet, "/api/admin/schools/s1/students/stu009/badge", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("expected image/png, got %s", rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("badge is not a PNG")
	}
	expectCode(t, s.do(http.MethodGet, "/api/admin/schools/s1/students/ghost/badge", nil),
		http.StatusNotFound, "UNKNOWN_STUDENT")

	expectStatus(t, s.do(http.MethodDelete, "/api/admin/schools/s1/students/stu009", nil), http.StatusNoContent)
}

func TestAdmin_SyncWithoutRoster(t *testing.T) {
	s := newTestServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/api/admin/schools/s1/students/sync", nil)
	expectStatus(t, rec, http.StatusOK)
	result := decode[services.SyncResult](t, rec)
	if result.Status == "success" || result.Imported != 0 {
		t.Errorf("sync without a roster service should not succeed, got %+v", result)
	}
}

func TestAdmin_CanteenOrders(t *testing.T) {
	s := newTestServer(t)
	s.seedElection()
	s.login()

	rec := s.do(http.MethodPost, "/api/admin/schools/s1/canteen/orders", handlers.OrderRequest{StudentID: "stu001", Item: "Meat pie"})
	expectStatus(t, rec, http.StatusCreated)
	order := decode[models.CanteenOrder](t, rec)
	if order.Status != models.CanteenPending || order.Item != "Meat pie" {
		t.Errorf("unexpected order: %+v", order)
	}

	expectCode(t, s.do(http.MethodPost, "/api/admin/schools/s1/canteen/orders", handlers.OrderRequest{StudentID: "ghost", Item: "Meat pie"}),
		http.StatusNotFound, "UNKNOWN_STUDENT")
}

func TestAdmin_Audit(t *testing.T) {
	s := newTestServer(t)
	s.seedElection()
	s.login()
	expectStatus(t, s.do(http.MethodPost, "/api/schools/s1/students/stu001/vote", fullBallot), http.StatusCreated)

	audit := decode[handlers.AuditResponse](t, s.do(http.MethodGet, "/api/admin/schools/s1/audit", nil))
	if len(audit.Entries) == 0 || audit.Entries[0].Action != services.ActionVoteCast {
		t.Fatalf("expected newest entry to be the cast, got %+v", audit.Entries)
	}

	limited := decode[handlers.AuditResponse](t, s.do(http.MethodGet, "/api/admin/schools/s1/audit?limit=1", nil))
	if len(limited.Entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(limited.Entries))
	}

	expectStatus(t, s.do(http.MethodGet, "/api/admin/schools/s1/audit?limit=lots", nil), http.StatusBadRequest)
}

func TestAdmin_Kiosks(t *testing.T) {
	s := newTestServer(t)
	a := s.newKiosk()
	s.newKiosk()

	list := decode[handlers.KioskListResponse](t, s.do(http.MethodGet, "/api/admin/schools/s1/kiosks", nil))
	if len(list.Kiosks) != 2 {
		t.Fatalf("expected 2 kiosks, got %d", len(list.Kiosks))
	}
	empty := decode[handlers.KioskListResponse](t, s.do(http.MethodGet, "/api/admin/schools/s2/kiosks", nil))
	if len(empty.Kiosks) != 0 {
		t.Errorf("expected no kiosks for s2, got %d", len(empty.Kiosks))
	}

	expectStatus(t, s.do(http.MethodDelete, "/api/admin/kiosks/"+a, nil), http.StatusNoContent)
	expectCode(t, s.do(http.MethodGet, "/api/kiosks/"+a, nil), http.StatusNotFound, "KIOSK_NOT_FOUND")
	expectCode(t, s.do(http.MethodDelete, "/api/admin/kiosks/"+a, nil), http.StatusNotFound, "KIOSK_NOT_FOUND")
}

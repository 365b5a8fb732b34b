package handlers

import (
	"net/http"

	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/services"
)

// ==================== Election window ====================

func (h *Handlers) handleUpdateWindow(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req WindowRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	status, err := h.Settings.UpdateWindow(r.Context(), school, req.StartTime, req.EndTime)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, status)
}

func (h *Handlers) handleSetVoting(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req VotingStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	status, err := h.Settings.SetVotingOpen(r.Context(), school, req.Open)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, status)
}

// ==================== Categories ====================

func (h *Handlers) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	categories, err := h.Category.ListCategories(r.Context(), school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, categories)
}

func (h *Handlers) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	cat, err := h.Category.CreateCategory(r.Context(), school, req.Title)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, cat)
}

func (h *Handlers) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	id, err := pathParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Category.UpdateCategory(r.Context(), school, id, req.Title); err != nil {
		h.respondError(w, err)
		return
	}
	respondSuccess(w, "Category updated")
}

func (h *Handlers) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	id, err := pathParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Category.DeleteCategory(r.Context(), school, id); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Contestants ====================

func (h *Handlers) handleGetContestants(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	contestants, err := h.Category.ListContestants(r.Context(), school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, contestants)
}

func (h *Handlers) handleGetContestant(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	id, err := pathParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	c, err := h.Category.GetContestant(r.Context(), school, id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, c)
}

func (h *Handlers) handleCreateContestant(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ContestantRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	c, err := h.Category.CreateContestant(r.Context(), school, contestantInput(req))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, c)
}

func (h *Handlers) handleUpdateContestant(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	id, err := pathParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ContestantRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	c, err := h.Category.UpdateContestant(r.Context(), school, id, contestantInput(req))
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, c)
}

func (h *Handlers) handleDeleteContestant(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	id, err := pathParam(r, "id")
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Category.DeleteContestant(r.Context(), school, id); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

func contestantInput(req ContestantRequest) services.Contestant {
	return services.Contestant{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Class:      req.Class,
		AvatarURL:  req.AvatarURL,
		Manifesto:  req.Manifesto,
	}
}

// ==================== Students ====================

func (h *Handlers) handleGetStudents(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	students, err := h.Student.ListStudents(r.Context(), school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, students)
}

func (h *Handlers) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req StudentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	student, err := h.Student.RegisterStudent(r.Context(), models.Student{
		ID:       req.ID,
		SchoolID: school,
		Name:     req.Name,
		Class:    req.Class,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, student)
}

func (h *Handlers) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Student.DeleteStudent(r.Context(), school, student); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleStudentBadge serves the student's printable QR badge as a PNG
func (h *Handlers) handleStudentBadge(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	png, err := h.Student.GenerateBadge(r.Context(), school, student)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// handleSyncStudents imports the school's students from the roster service.
// A failed sync is reported in the result body, not as an HTTP error.
func (h *Handlers) handleSyncStudents(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	result, err := h.Student.SyncFromRoster(r.Context(), school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, result)
}

// ==================== Canteen ====================

func (h *Handlers) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	order, err := h.Canteen.PlaceOrder(r.Context(), school, req.StudentID, req.Item)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, order)
}

// ==================== Activity log ====================

func (h *Handlers) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.respondError(w, err)
		return
	}
	entries, err := h.Audit.ListEntries(r.Context(), school, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, AuditResponse{Entries: entries})
}

// ==================== Kiosks ====================

func (h *Handlers) handleListKiosks(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, KioskListResponse{Kiosks: h.Kiosks.List(school)})
}

// handleCreateKiosk registers a new terminal for the school. The returned
// id is what the terminal uses in every kiosk request.
func (h *Handlers) handleCreateKiosk(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	s, err := h.Kiosks.Create(school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, KioskResponse{Kiosk: s.Snapshot()})
}

func (h *Handlers) handleDeleteKiosk(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "kiosk")
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Kiosks.Remove(id); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

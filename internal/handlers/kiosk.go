package handlers

import (
	"net/http"

	"github.com/abrezinsky/campusvote/internal/kiosk"
	"github.com/abrezinsky/campusvote/internal/services"
)

// kioskSession looks up the session named by the {kiosk} path parameter
func (h *Handlers) kioskSession(r *http.Request) (*kiosk.Session, error) {
	id, err := pathParam(r, "kiosk")
	if err != nil {
		return nil, err
	}
	return h.Kiosks.Get(id)
}

// respondKiosk writes the snapshot, or the error with the status it maps to
func (h *Handlers) respondKiosk(w http.ResponseWriter, snap kiosk.Snapshot, err error) {
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, KioskResponse{Kiosk: snap})
}

func (h *Handlers) handleGetKiosk(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondKiosk(w, s.Snapshot(), nil)
}

func (h *Handlers) handleKioskSelectFlow(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req FlowRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	flow, err := kiosk.ParseFlow(req.Flow)
	if err != nil {
		h.respondError(w, err)
		return
	}
	snap, err := s.SelectFlow(flow)
	h.respondKiosk(w, snap, err)
}

func (h *Handlers) handleKioskCancel(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondKiosk(w, s.Cancel(), nil)
}

func (h *Handlers) handleKioskConfirm(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondKiosk(w, s.Confirm(), nil)
}

func (h *Handlers) handleKioskUnlock(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req PasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	snap, err := s.Unlock(r.Context(), req.Password)
	h.respondKiosk(w, snap, err)
}

func (h *Handlers) handleKioskScan(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	snap, err := s.Scan(r.Context(), req.Code)
	h.respondKiosk(w, snap, err)
}

// handleKioskIdentify verifies a typed or scanned id inside a locked flow.
// A newer request, or leaving the flow, supersedes this one.
func (h *Handlers) handleKioskIdentify(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if s.Snapshot().State != kiosk.StateLocked {
		h.respondError(w, kiosk.ErrNotLocked)
		return
	}

	ticket := s.Begin(r.Context())
	result, err := h.Dispatch.ComputeTasks(ticket.Ctx, req.Code, s.SchoolID())
	if err != nil {
		if ticket.Ctx.Err() != nil {
			err = kiosk.ErrStaleOperation
		}
		h.respondError(w, err)
		return
	}
	snap, err := s.Identify(ticket, result.Student)
	h.respondKiosk(w, snap, err)
}

func (h *Handlers) handleKioskStartTask(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	snap, err := s.StartTask(services.TaskKind(req.Kind))
	h.respondKiosk(w, snap, err)
}

func (h *Handlers) handleKioskBack(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	snap, err := s.BackToHub()
	h.respondKiosk(w, snap, err)
}

// handleKioskVote casts the identified student's ballot and schedules the
// kiosk's return to its neutral screen
func (h *Handlers) handleKioskVote(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	student, err := s.RequireTask(kiosk.FlowVoting)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ChoicesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	record, err := h.Ballot.SubmitBallot(r.Context(), student.ID, s.SchoolID(), req.Choices)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, KioskVoteResponse{Record: record, Kiosk: s.TaskCompleted()})
}

func (h *Handlers) handleKioskSubmitSaved(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	student, err := s.RequireTask(kiosk.FlowVoting)
	if err != nil {
		h.respondError(w, err)
		return
	}
	record, err := h.Ballot.SubmitSavedDraft(r.Context(), student.ID, s.SchoolID())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, KioskVoteResponse{Record: record, Kiosk: s.TaskCompleted()})
}

// handleKioskSaveDraft keeps the identified student's choices for later
func (h *Handlers) handleKioskSaveDraft(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	student, err := s.RequireTask(kiosk.FlowVoting)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ChoicesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Ballot.SaveDraftForStudent(r.Context(), student.ID, s.SchoolID(), req.Choices); err != nil {
		h.respondError(w, err)
		return
	}
	h.respondKiosk(w, s.TaskCompleted(), nil)
}

func (h *Handlers) handleKioskCanteenSignIn(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	student, err := s.RequireTask(kiosk.FlowCanteen)
	if err != nil {
		h.respondError(w, err)
		return
	}
	order, err := h.Canteen.SignIn(r.Context(), s.SchoolID(), student.ID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, KioskCanteenResponse{Order: order, Kiosk: s.TaskCompleted()})
}

// handleKioskComplete marks a task that needs no server work, such as
// visitor access, as done
func (h *Handlers) handleKioskComplete(w http.ResponseWriter, r *http.Request) {
	s, err := h.kioskSession(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondKiosk(w, s.TaskCompleted(), nil)
}

package handlers

import (
	"net/http"
)

// schoolAndStudent reads the {school} and {student} path parameters
func schoolAndStudent(r *http.Request) (string, string, error) {
	school, err := pathParam(r, "school")
	if err != nil {
		return "", "", err
	}
	student, err := pathParam(r, "student")
	if err != nil {
		return "", "", err
	}
	return school, student, nil
}

func (h *Handlers) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	status, err := h.Settings.GetStatus(r.Context(), school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, status)
}

func (h *Handlers) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	ballot, err := h.Ballot.GetBallot(r.Context(), student, school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, ballot)
}

func (h *Handlers) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	draft, err := h.Ballot.GetDraft(r.Context(), student, school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, DraftResponse{Draft: draft})
}

// handleSaveDraft stores a draft for later submission at a kiosk
func (h *Handlers) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ChoicesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Ballot.SaveDraftForStudent(r.Context(), student, school, req.Choices); err != nil {
		h.respondError(w, err)
		return
	}
	respondSuccess(w, "Draft saved")
}

func (h *Handlers) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.Ballot.ClearDraft(r.Context(), student, school); err != nil {
		h.respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleGetVote(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	record, err := h.Ballot.GetVoteRecord(r.Context(), student, school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, VoteResponse{HasVoted: record != nil, Record: record})
}

func (h *Handlers) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ChoicesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	record, err := h.Ballot.SubmitBallot(r.Context(), student, school, req.Choices)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, record)
}

func (h *Handlers) handleSubmitSavedDraft(w http.ResponseWriter, r *http.Request) {
	school, student, err := schoolAndStudent(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	record, err := h.Ballot.SubmitSavedDraft(r.Context(), student, school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondCreated(w, record)
}

func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	results, err := h.Results.GetResults(r.Context(), school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, results)
}

func (h *Handlers) handleGetCategoryResults(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	category, err := pathParam(r, "category")
	if err != nil {
		h.respondError(w, err)
		return
	}
	tally, err := h.Results.GetCategoryResults(r.Context(), school, category)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if tally == nil {
		h.respondError(w, NotFound("No results for this category"))
		return
	}
	respondOK(w, tally)
}

func (h *Handlers) handleGetWinners(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	winners, err := h.Results.GetWinners(r.Context(), school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, WinnersResponse{Winners: winners})
}

// handleDispatch lists the tasks open to the student behind a scanned code
func (h *Handlers) handleDispatch(w http.ResponseWriter, r *http.Request) {
	school, err := pathParam(r, "school")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	if req.Code == "" {
		h.respondError(w, BadRequest("code is required"))
		return
	}
	result, err := h.Dispatch.ComputeTasks(r.Context(), req.Code, school)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondOK(w, result)
}

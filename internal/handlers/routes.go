package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.handleHealth)

	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Voting API (public)
	r.Route("/api/schools/{school}", func(r chi.Router) {
		r.Get("/status", h.handleGetStatus)
		r.Get("/results", h.handleGetResults)
		r.Get("/results/{category}", h.handleGetCategoryResults)
		r.Get("/winners", h.handleGetWinners)
		r.Post("/dispatch", h.handleDispatch)

		r.Route("/students/{student}", func(r chi.Router) {
			r.Get("/ballot", h.handleGetBallot)
			r.Get("/draft", h.handleGetDraft)
			r.Put("/draft", h.handleSaveDraft)
			r.Delete("/draft", h.handleClearDraft)
			r.Get("/vote", h.handleGetVote)
			r.Post("/vote", h.handleSubmitVote)
			r.Post("/vote/saved", h.handleSubmitSavedDraft)
		})
	})

	// Kiosk terminals (public; leaving a locked flow needs the admin secret)
	r.Route("/api/kiosks/{kiosk}", func(r chi.Router) {
		r.Get("/", h.handleGetKiosk)
		r.Post("/flow", h.handleKioskSelectFlow)
		r.Post("/cancel", h.handleKioskCancel)
		r.Post("/confirm", h.handleKioskConfirm)
		r.Post("/unlock", h.handleKioskUnlock)
		r.Post("/scan", h.handleKioskScan)
		r.Post("/identify", h.handleKioskIdentify)
		r.Post("/task", h.handleKioskStartTask)
		r.Post("/back", h.handleKioskBack)
		r.Post("/vote", h.handleKioskVote)
		r.Post("/vote/saved", h.handleKioskSubmitSaved)
		r.Post("/draft", h.handleKioskSaveDraft)
		r.Post("/canteen/sign-in", h.handleKioskCanteenSignIn)
		r.Post("/complete", h.handleKioskComplete)
	})

	// Auth routes (public)
	r.Post("/api/admin/login", h.handleLogin)
	r.Post("/api/admin/logout", h.handleLogout)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		r.Delete("/api/admin/kiosks/{kiosk}", h.handleDeleteKiosk)

		r.Route("/api/admin/schools/{school}", func(r chi.Router) {
			// Election window
			r.Get("/settings", h.handleGetStatus)
			r.Put("/window", h.handleUpdateWindow)
			r.Post("/voting", h.handleSetVoting)

			// Categories
			r.Get("/categories", h.handleGetCategories)
			r.Post("/categories", h.handleCreateCategory)
			r.Put("/categories/{id}", h.handleUpdateCategory)
			r.Delete("/categories/{id}", h.handleDeleteCategory)

			// Contestants
			r.Get("/contestants", h.handleGetContestants)
			r.Post("/contestants", h.handleCreateContestant)
			r.Get("/contestants/{id}", h.handleGetContestant)
			r.Put("/contestants/{id}", h.handleUpdateContestant)
			r.Delete("/contestants/{id}", h.handleDeleteContestant)

			// Roster
			r.Get("/students", h.handleGetStudents)
			r.Post("/students", h.handleRegisterStudent)
			r.Post("/students/sync", h.handleSyncStudents)
			r.Delete("/students/{student}", h.handleDeleteStudent)
			r.Get("/students/{student}/badge", h.handleStudentBadge)

			// Canteen
			r.Post("/canteen/orders", h.handlePlaceOrder)

			// Results, activity and kiosks
			r.Get("/results", h.handleGetResults)
			r.Get("/audit", h.handleGetAudit)
			r.Get("/kiosks", h.handleListKiosks)
			r.Post("/kiosks", h.handleCreateKiosk)
		})
	})

	return r
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, "ok")
}

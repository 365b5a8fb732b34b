package handlers

import (
	"net/http"

	"github.com/abrezinsky/campusvote/internal/auth"
)

// handleLogin exchanges the admin secret for a session cookie
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		h.respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondSuccess(w, "Logged in")
}

// handleLogout clears the session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// Package handlers exposes the election, kiosk and admin operations as a
// JSON API.
package handlers

import (
	"github.com/abrezinsky/campusvote/internal/auth"
	"github.com/abrezinsky/campusvote/internal/kiosk"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/services"
	"github.com/abrezinsky/campusvote/internal/websocket"
)

// Services groups the services the handlers call into
type Services struct {
	Settings services.SettingsServicer
	Category services.CategoryServicer
	Ballot   services.BallotServicer
	Results  services.ResultsServicer
	Dispatch services.DispatchServicer
	Student  services.StudentServicer
	Canteen  services.CanteenServicer
	Audit    services.AuditServicer
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Services
	Kiosks *kiosk.Manager
	Auth   *auth.Auth
	Hub    *websocket.Hub
	Log    logger.Logger
}

// New creates a new Handlers instance. hub may be nil, in which case the
// websocket endpoint is not mounted. A nil log discards output.
func New(svc Services, kiosks *kiosk.Manager, adminAuth *auth.Auth, hub *websocket.Hub, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.Discard()
	}
	return &Handlers{
		Services: svc,
		Kiosks:   kiosks,
		Auth:     adminAuth,
		Hub:      hub,
		Log:      log,
	}
}

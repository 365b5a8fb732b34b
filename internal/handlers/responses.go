package handlers

import (
	"github.com/abrezinsky/campusvote/internal/kiosk"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/services"
)

// DraftResponse wraps a draft that may not exist
type DraftResponse struct {
	Draft *models.DraftVote `json:"draft"`
}

// VoteResponse wraps a final ballot that may not exist
type VoteResponse struct {
	HasVoted bool               `json:"has_voted"`
	Record   *models.VoteRecord `json:"record,omitempty"`
}

// WinnersResponse lists the leaders of every category
type WinnersResponse struct {
	Winners []services.Winner `json:"winners"`
}

// KioskResponse is the kiosk's state after an action
type KioskResponse struct {
	Kiosk kiosk.Snapshot `json:"kiosk"`
}

// KioskVoteResponse is returned after a ballot is cast at a kiosk
type KioskVoteResponse struct {
	Record *models.VoteRecord `json:"record"`
	Kiosk  kiosk.Snapshot     `json:"kiosk"`
}

// KioskCanteenResponse is returned after a canteen sign-in at a kiosk
type KioskCanteenResponse struct {
	Order *models.CanteenOrder `json:"order"`
	Kiosk kiosk.Snapshot       `json:"kiosk"`
}

// KioskListResponse lists the kiosks of a school
type KioskListResponse struct {
	Kiosks []kiosk.Snapshot `json:"kiosks"`
}

// AuditResponse lists activity log entries, newest first
type AuditResponse struct {
	Entries []models.AuditEntry `json:"entries"`
}

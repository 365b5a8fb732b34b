package services

import (
	"time"

	"github.com/abrezinsky/campusvote/internal/models"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// ResolvePhase derives the election phase from the settings at now (epoch ms).
// Once the window has passed the election is Ended whatever the open flag says.
func ResolvePhase(s models.ElectionSettings, now int64) models.Phase {
	switch {
	case now > s.EndTime:
		return models.PhaseEnded
	case s.IsVotingOpen && now >= s.StartTime:
		return models.PhaseOpen
	case now < s.StartTime:
		return models.PhaseScheduled
	default:
		return models.PhaseClosed
	}
}

package services_test

import (
	"testing"

	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/services"
)

func TestResolvePhase(t *testing.T) {
	window := func(open bool) models.ElectionSettings {
		return models.ElectionSettings{StartTime: 1000, EndTime: 2000, IsVotingOpen: open}
	}

	tests := []struct {
		name     string
		settings models.ElectionSettings
		now      int64
		want     models.Phase
	}{
		{"before start, closed", window(false), 999, models.PhaseScheduled},
		{"before start, flag open", window(true), 999, models.PhaseScheduled},
		{"at start, open", window(true), 1000, models.PhaseOpen},
		{"inside window, open", window(true), 1500, models.PhaseOpen},
		{"at end, open", window(true), 2000, models.PhaseOpen},
		{"inside window, flag off", window(false), 1500, models.PhaseClosed},
		{"at end, flag off", window(false), 2000, models.PhaseClosed},
		{"after end, open", window(true), 2001, models.PhaseEnded},
		{"after end, closed", window(false), 5000, models.PhaseEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ResolvePhase(tt.settings, tt.now); got != tt.want {
				t.Errorf("ResolvePhase() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolvePhase_EndedIgnoresFlag(t *testing.T) {
	s := models.ElectionSettings{StartTime: 0, EndTime: 10}
	for now := int64(11); now < 100; now += 7 {
		for _, open := range []bool{true, false} {
			s.IsVotingOpen = open
			if got := services.ResolvePhase(s, now); got != models.PhaseEnded {
				t.Fatalf("now=%d open=%v: got %s, want ended", now, open, got)
			}
		}
	}
}

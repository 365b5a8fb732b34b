package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/repository"
	"github.com/abrezinsky/campusvote/internal/services"
)

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// testClock is a settable time source
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: baseTime}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recordingBroadcaster captures broadcasts
type recordingBroadcaster struct {
	mu      sync.Mutex
	phases  []models.Phase
	results []string
}

func (b *recordingBroadcaster) BroadcastPhase(schoolID string, status *services.ElectionStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phases = append(b.phases, status.Phase)
}

func (b *recordingBroadcaster) BroadcastResultsUpdated(schoolID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = append(b.results, schoolID)
}

func (b *recordingBroadcaster) resultCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.results)
}

// recordingAudit captures audit actions and can be told to fail
type recordingAudit struct {
	mu      sync.Mutex
	actions []string
	err     error
}

func (a *recordingAudit) LogAction(ctx context.Context, schoolID, actorID, actorName, action, details string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return a.err
}

func (a *recordingAudit) count(action string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, got := range a.actions {
		if got == action {
			n++
		}
	}
	return n
}

// stubDirectory resolves a fixed set of students
type stubDirectory struct {
	students   map[string]models.Student
	orders     map[string]models.CanteenOrder
	resolveErr error
}

func newStubDirectory(students ...models.Student) *stubDirectory {
	d := &stubDirectory{students: map[string]models.Student{}, orders: map[string]models.CanteenOrder{}}
	for _, s := range students {
		d.students[models.Key(s.SchoolID)+"/"+models.Key(s.ID)] = s
	}
	return d
}

// alias makes code resolve to the student, like a card number would
func (d *stubDirectory) alias(code string, s models.Student) {
	d.students[models.Key(s.SchoolID)+"/"+models.Key(code)] = s
}

func (d *stubDirectory) ResolveIdentity(ctx context.Context, schoolID, raw string) (*models.Student, error) {
	if d.resolveErr != nil {
		return nil, d.resolveErr
	}
	s, ok := d.students[models.Key(schoolID)+"/"+models.Key(raw)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (d *stubDirectory) ActiveCanteenAttendance(ctx context.Context, studentID, schoolID string) (*models.CanteenOrder, error) {
	o, ok := d.orders[models.Key(studentID)]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// openElection creates settings for school with the window around the
// clock and voting open
func openElection(t *testing.T, repo repository.SettingsRepository, clock *testClock, schoolID string) *services.SettingsService {
	t.Helper()
	svc := services.NewSettingsService(logger.Discard(), repo)
	svc.SetClock(clock.Now)
	ctx := context.Background()

	now := clock.Now()
	if _, err := svc.UpdateWindow(ctx, schoolID, now.Add(-time.Hour).UnixMilli(), now.Add(time.Hour).UnixMilli()); err != nil {
		t.Fatalf("UpdateWindow failed: %v", err)
	}
	if _, err := svc.SetVotingOpen(ctx, schoolID, true); err != nil {
		t.Fatalf("SetVotingOpen failed: %v", err)
	}
	return svc
}

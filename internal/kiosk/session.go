// Package kiosk implements the shared-terminal session controller: the
// home menu, the confirm-then-lock step, the locked single-purpose flows
// and the QR hub that dispatches a scanned student to a flow.
package kiosk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/services"
)

// State is the controller's top-level state
type State string

const (
	StateHome           State = "home"
	StateConfirmingLock State = "confirming_lock"
	StateLocked         State = "locked"
)

// Flow is a single-purpose screen a kiosk can be locked into
type Flow string

const (
	FlowHome    Flow = "home"
	FlowVoting  Flow = "voting"
	FlowCanteen Flow = "canteen"
	FlowVisitor Flow = "visitor"
	FlowQRHub   Flow = "qr_hub"
)

// DefaultResetDelay is how long a confirmation stays on screen after a task
const DefaultResetDelay = 5 * time.Second

// ParseFlow validates a flow name
func ParseFlow(s string) (Flow, error) {
	switch f := Flow(s); f {
	case FlowHome, FlowVoting, FlowCanteen, FlowVisitor, FlowQRHub:
		return f, nil
	}
	return "", ErrUnknownFlow
}

// Verifier checks the admin secret
type Verifier interface {
	Verify(password string) bool
}

// Dispatcher turns a scanned code into the tasks open to the student
type Dispatcher interface {
	ComputeTasks(ctx context.Context, code, schoolID string) (*services.DispatchResult, error)
}

// Snapshot is a read-only view of a session
type Snapshot struct {
	ID           string            `json:"id"`
	SchoolID     string            `json:"school_id"`
	State        State             `json:"state"`
	Flow         Flow              `json:"flow"`
	SubFlow      Flow              `json:"sub_flow,omitempty"`
	Identity     *models.Student   `json:"identity,omitempty"`
	Tasks        []services.Task   `json:"tasks,omitempty"`
	ActiveTask   services.TaskKind `json:"active_task,omitempty"`
	ResetPending bool              `json:"reset_pending"`
}

// Ticket identifies one in-flight asynchronous operation. Its context is
// cancelled as soon as the session moves on.
type Ticket struct {
	Ctx context.Context
	seq uint64
}

// Session is one kiosk's state machine. All methods are safe for
// concurrent use.
type Session struct {
	id         string
	schoolID   string
	log        logger.Logger
	verifier   Verifier
	dispatcher Dispatcher
	audit      services.AuditLogger
	notify     func(Snapshot)
	resetDelay time.Duration

	mu       sync.Mutex
	state    State
	flow     Flow
	subFlow  Flow
	identity *models.Student
	tasks    []services.Task
	task     services.TaskKind

	opSeq    uint64
	opCancel context.CancelFunc

	resetTimer *time.Timer
	resetSeq   uint64
}

// SessionConfig holds a session's collaborators
type SessionConfig struct {
	ID         string
	SchoolID   string
	Verifier   Verifier
	Dispatcher Dispatcher
	Audit      services.AuditLogger
	ResetDelay time.Duration
	// OnChange, when set, receives a snapshot after every state change.
	// It runs with the session locked and must not call back into it.
	OnChange func(Snapshot)
}

// NewSession creates a session on the home screen
func NewSession(log logger.Logger, cfg SessionConfig) *Session {
	delay := cfg.ResetDelay
	if delay <= 0 {
		delay = DefaultResetDelay
	}
	return &Session{
		id:         cfg.ID,
		schoolID:   models.Key(cfg.SchoolID),
		log:        log.With("kiosk", cfg.ID),
		verifier:   cfg.Verifier,
		dispatcher: cfg.Dispatcher,
		audit:      cfg.Audit,
		notify:     cfg.OnChange,
		resetDelay: delay,
		state:      StateHome,
		flow:       FlowHome,
	}
}

// ID returns the kiosk id
func (s *Session) ID() string {
	return s.id
}

// SchoolID returns the school the kiosk serves
func (s *Session) SchoolID() string {
	return s.schoolID
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:           s.id,
		SchoolID:     s.schoolID,
		State:        s.state,
		Flow:         s.flow,
		SubFlow:      s.subFlow,
		ActiveTask:   s.task,
		ResetPending: s.resetTimer != nil,
	}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	if len(s.tasks) > 0 {
		snap.Tasks = append([]services.Task(nil), s.tasks...)
	}
	return snap
}

// changed must be called with mu held; it returns the snapshot and hands
// it to the change hook.
func (s *Session) changed() Snapshot {
	snap := s.snapshotLocked()
	if s.notify != nil {
		s.notify(snap)
	}
	return snap
}

// SelectFlow asks to lock the kiosk into f. From Home this opens the
// confirmation step; selecting Home itself stays on Home. Anywhere else it
// does nothing.
func (s *Session) SelectFlow(f Flow) (Snapshot, error) {
	if _, err := ParseFlow(string(f)); err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHome || f == FlowHome {
		return s.snapshotLocked(), nil
	}
	s.navigateLocked()
	s.state = StateConfirmingLock
	s.flow = f
	return s.changed(), nil
}

// Cancel abandons the confirmation step
func (s *Session) Cancel() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfirmingLock {
		return s.snapshotLocked()
	}
	s.navigateLocked()
	s.state = StateHome
	s.flow = FlowHome
	return s.changed()
}

// Confirm locks the kiosk into the flow awaiting confirmation
func (s *Session) Confirm() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfirmingLock {
		return s.snapshotLocked()
	}
	s.navigateLocked()
	s.state = StateLocked
	s.log.Info("Kiosk locked", "school", s.schoolID, "flow", s.flow)
	return s.changed()
}

// Unlock returns a locked kiosk to Home when password is the admin secret.
// A wrong password leaves the state untouched.
func (s *Session) Unlock(ctx context.Context, password string) (Snapshot, error) {
	s.mu.Lock()
	if s.state != StateLocked {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	if s.verifier == nil || !s.verifier.Verify(password) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.log.Warn("Kiosk unlock refused", "school", s.schoolID)
		return snap, ErrAuthenticationFailed
	}

	flow := s.flow
	s.navigateLocked()
	s.state = StateHome
	s.flow = FlowHome
	s.clearIdentityLocked()
	snap := s.changed()
	s.mu.Unlock()

	s.log.Info("Kiosk unlocked", "school", s.schoolID, "flow", flow)
	if s.audit != nil {
		if err := s.audit.LogAction(ctx, s.schoolID, services.AdminActorID, services.AdminActorName,
			services.ActionKioskUnlocked, fmt.Sprintf("kiosk %s left %s", s.id, flow)); err != nil {
			s.log.Warn("Audit log write failed", "action", services.ActionKioskUnlocked, "error", err)
		}
	}
	return snap, nil
}

// Scan resolves a scanned code while the hub is showing. The dispatcher is
// consulted without holding the session; a result that arrives after the
// session moved on is dropped with ErrStaleOperation.
func (s *Session) Scan(ctx context.Context, code string) (Snapshot, error) {
	s.mu.Lock()
	if !s.inHubLocked() {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrNotInHub
	}
	ticket := s.beginLocked(ctx)
	s.mu.Unlock()

	result, err := s.dispatcher.ComputeTasks(ticket.Ctx, code, s.schoolID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(ticket) {
		return s.snapshotLocked(), ErrStaleOperation
	}
	s.finishLocked()
	if err != nil {
		return s.snapshotLocked(), err
	}

	student := result.Student
	s.identity = &student
	s.tasks = result.Tasks
	s.task = ""
	return s.changed(), nil
}

// StartTask opens the flow behind one of the scanned student's tasks,
// carrying the student into it
func (s *Session) StartTask(kind services.TaskKind) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.inHubLocked() {
		return s.snapshotLocked(), ErrNotInHub
	}
	if s.identity == nil {
		return s.snapshotLocked(), ErrNoIdentity
	}
	offered := false
	for _, t := range s.tasks {
		if t.Kind == kind {
			offered = true
			break
		}
	}
	sub, ok := taskFlows[kind]
	if !offered || !ok {
		return s.snapshotLocked(), ErrUnknownTask
	}

	s.navigateLocked()
	s.subFlow = sub
	s.task = kind
	return s.changed(), nil
}

var taskFlows = map[services.TaskKind]Flow{
	services.TaskCastSavedVote: FlowVoting,
	services.TaskVoteNow:       FlowVoting,
	services.TaskCanteenSignIn: FlowCanteen,
	services.TaskVisitorAccess: FlowVisitor,
}

// BackToHub leaves a dispatched flow and forgets the scanned student
func (s *Session) BackToHub() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLocked || s.flow != FlowQRHub {
		return s.snapshotLocked(), ErrNotInHub
	}
	s.navigateLocked()
	s.clearIdentityLocked()
	return s.changed(), nil
}

// Begin starts an asynchronous operation, such as verifying a typed id,
// and cancels the previous one
func (s *Session) Begin(ctx context.Context) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginLocked(ctx)
}

// Identify applies the outcome of the operation behind ticket, unless the
// session has moved on since it began
func (s *Session) Identify(ticket Ticket, student models.Student) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.currentLocked(ticket) {
		return s.snapshotLocked(), ErrStaleOperation
	}
	s.finishLocked()
	if s.state != StateLocked {
		return s.snapshotLocked(), ErrNotLocked
	}
	s.identity = &student
	return s.changed(), nil
}

// RequireTask returns the student being served when the kiosk is locked
// into f, either directly or as the hub's current sub-flow
func (s *Session) RequireTask(f Flow) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLocked {
		return nil, ErrWrongFlow
	}
	if s.flow != f && !(s.flow == FlowQRHub && s.subFlow == f) {
		return nil, ErrWrongFlow
	}
	if s.identity == nil {
		return nil, ErrNoIdentity
	}
	id := *s.identity
	return &id, nil
}

// Identity returns the student the kiosk is serving, or nil
func (s *Session) Identity() *models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// TaskCompleted schedules a return to the neutral screen of the current
// flow after the reset delay, leaving time to read the confirmation
func (s *Session) TaskCompleted() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopResetLocked()
	seq := s.resetSeq
	s.resetTimer = time.AfterFunc(s.resetDelay, func() {
		s.autoReset(seq)
	})
	return s.changed()
}

func (s *Session) autoReset(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.resetSeq || s.resetTimer == nil {
		return
	}
	s.resetTimer = nil
	s.cancelOpLocked()
	s.clearIdentityLocked()
	s.log.Debug("Kiosk reset", "school", s.schoolID, "flow", s.flow)
	s.changed()
}

// Close stops pending work
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelOpLocked()
	s.stopResetLocked()
}

func (s *Session) inHubLocked() bool {
	return s.state == StateLocked && s.flow == FlowQRHub && s.subFlow == ""
}

func (s *Session) clearIdentityLocked() {
	s.identity = nil
	s.tasks = nil
	s.task = ""
	s.subFlow = ""
}

// navigateLocked is called on every transition: it abandons in-flight
// operations and any pending reset.
func (s *Session) navigateLocked() {
	s.cancelOpLocked()
	s.stopResetLocked()
}

func (s *Session) beginLocked(ctx context.Context) Ticket {
	s.cancelOpLocked()
	opCtx, cancel := context.WithCancel(ctx)
	s.opSeq++
	s.opCancel = cancel
	return Ticket{Ctx: opCtx, seq: s.opSeq}
}

func (s *Session) currentLocked(t Ticket) bool {
	return t.seq == s.opSeq && s.opCancel != nil && t.Ctx.Err() == nil
}

func (s *Session) finishLocked() {
	if s.opCancel != nil {
		s.opCancel()
		s.opCancel = nil
	}
}

func (s *Session) cancelOpLocked() {
	if s.opCancel != nil {
		s.opCancel()
		s.opCancel = nil
	}
	s.opSeq++
}

func (s *Session) stopResetLocked() {
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.resetSeq++
}

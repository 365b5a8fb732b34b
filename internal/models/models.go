package models

import "strings"

// Key normalises a school or student identifier for lookups.
// Identifiers are compared case-insensitively and ignore surrounding space.
func Key(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Phase is the election's derived state
type Phase string

const (
	PhaseScheduled Phase = "scheduled"
	PhaseOpen      Phase = "open"
	PhaseClosed    Phase = "closed"
	PhaseEnded     Phase = "ended"
)

// ElectionSettings holds the voting window for one school.
// StartTime and EndTime are epoch milliseconds.
type ElectionSettings struct {
	SchoolID     string `json:"school_id"`
	StartTime    int64  `json:"start_time"`
	EndTime      int64  `json:"end_time"`
	IsVotingOpen bool   `json:"is_voting_open"`
}

// VotingCategory represents a post students vote for (e.g. "Head Prefect")
type VotingCategory struct {
	ID       string `json:"id"`
	SchoolID string `json:"school_id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
}

// Contestant represents a candidate standing in one category
type Contestant struct {
	ID         string `json:"id"`
	SchoolID   string `json:"school_id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Class      string `json:"class"`
	AvatarURL  string `json:"avatar_url"`
	Manifesto  string `json:"manifesto"`
	Votes      int    `json:"votes"`
}

// Choices maps a category id to the chosen contestant id
type Choices map[string]string

// DraftVote is a student's editable, not yet submitted selection
type DraftVote struct {
	SchoolID  string  `json:"school_id"`
	StudentID string  `json:"student_id"`
	Choices   Choices `json:"choices"`
	UpdatedAt int64   `json:"updated_at"`
}

// VoteRecord is a final ballot. At most one exists per school and student.
type VoteRecord struct {
	ID          int64   `json:"id"`
	SchoolID    string  `json:"school_id"`
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	Choices     Choices `json:"choices"`
	Timestamp   int64   `json:"timestamp"`
}

// Student is a verified identity returned by the roster
type Student struct {
	ID       string `json:"id"`
	SchoolID string `json:"school_id"`
	Name     string `json:"name"`
	Class    string `json:"class"`
}

// Canteen order statuses
const (
	CanteenPending  = "pending"
	CanteenAttended = "attended"
)

// CanteenOrder is an order awaiting sign-in at the canteen station
type CanteenOrder struct {
	ID        string `json:"id"`
	SchoolID  string `json:"school_id"`
	StudentID string `json:"student_id"`
	Item      string `json:"item"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// AuditEntry is one line of the activity log
type AuditEntry struct {
	ID        string `json:"id"`
	SchoolID  string `json:"school_id"`
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	CreatedAt int64  `json:"created_at"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

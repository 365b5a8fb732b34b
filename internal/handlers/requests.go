package handlers

import "github.com/abrezinsky/campusvote/internal/models"

// ChoicesRequest carries a ballot or a draft
type ChoicesRequest struct {
	Choices models.Choices `json:"choices"`
}

// ScanRequest carries a scanned badge or a typed student id
type ScanRequest struct {
	Code string `json:"code"`
}

// WindowRequest sets the voting window, in epoch milliseconds
type WindowRequest struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
}

// VotingStatusRequest represents a request to set voting open/closed
type VotingStatusRequest struct {
	Open bool `json:"open"`
}

// CategoryRequest creates or renames a category
type CategoryRequest struct {
	Title string `json:"title"`
}

// ContestantRequest creates or updates a contestant
type ContestantRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Class      string `json:"class"`
	AvatarURL  string `json:"avatar_url"`
	Manifesto  string `json:"manifesto"`
}

// StudentRequest registers a student in the local roster
type StudentRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
}

// OrderRequest places a canteen order for a student
type OrderRequest struct {
	StudentID string `json:"student_id"`
	Item      string `json:"item"`
}

// FlowRequest selects a kiosk flow from the home menu
type FlowRequest struct {
	Flow string `json:"flow"`
}

// TaskRequest starts one of the tasks offered to a scanned student
type TaskRequest struct {
	Kind string `json:"kind"`
}

// PasswordRequest carries the admin secret
type PasswordRequest struct {
	Password string `json:"password"`
}

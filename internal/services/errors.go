package services

// Service errors
var (
	ErrVotingClosed        = &ServiceError{Code: "VOTING_CLOSED", Message: "voting is currently closed"}
	ErrAlreadyVoted        = &ServiceError{Code: "ALREADY_VOTED", Message: "this student has already voted"}
	ErrUnknownStudent      = &ServiceError{Code: "UNKNOWN_STUDENT", Message: "student not found in this school"}
	ErrWrongSchool         = &ServiceError{Code: "WRONG_SCHOOL", Message: "this code belongs to a different school"}
	ErrIncompleteSelection = &ServiceError{Code: "INCOMPLETE_SELECTION", Message: "a choice is required for every category"}
	ErrInvalidWindow       = &ServiceError{Code: "INVALID_WINDOW", Message: "start time must be before end time"}
	ErrCategoryNotFound    = &ServiceError{Code: "CATEGORY_NOT_FOUND", Message: "category not found in this school"}
	ErrNoActiveOrder       = &ServiceError{Code: "NO_ACTIVE_ORDER", Message: "no pending canteen order for this student"}
)

// ServiceError represents a recoverable, user-facing rejection.
// Code is stable and machine readable; Message is shown to people.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

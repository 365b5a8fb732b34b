package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateBallot is returned when a final vote record already exists for
// the school and student.
var ErrDuplicateBallot = errors.New("vote record already exists")

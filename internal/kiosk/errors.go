package kiosk

import "github.com/abrezinsky/campusvote/internal/services"

// Kiosk errors share the service error shape so handlers map them the same way
var (
	ErrAuthenticationFailed = &services.ServiceError{Code: "AUTHENTICATION_FAILED", Message: "incorrect admin password"}
	ErrStaleOperation       = &services.ServiceError{Code: "STALE_OPERATION", Message: "the kiosk has moved on; result discarded"}
	ErrNotInHub             = &services.ServiceError{Code: "NOT_IN_HUB", Message: "the kiosk is not showing the QR hub"}
	ErrNoIdentity           = &services.ServiceError{Code: "NO_IDENTITY", Message: "scan a badge first"}
	ErrUnknownTask          = &services.ServiceError{Code: "UNKNOWN_TASK", Message: "that task is not available for this student"}
	ErrUnknownFlow          = &services.ServiceError{Code: "UNKNOWN_FLOW", Message: "unknown kiosk flow"}
	ErrKioskNotFound        = &services.ServiceError{Code: "KIOSK_NOT_FOUND", Message: "kiosk not found"}
	ErrNotLocked            = &services.ServiceError{Code: "NOT_LOCKED", Message: "the kiosk is not locked into a flow"}
	ErrWrongFlow            = &services.ServiceError{Code: "WRONG_FLOW", Message: "the kiosk is not serving that task"}
)

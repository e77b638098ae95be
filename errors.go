package kbadmin

import "github.com/kailas-cloud/kbadmin/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation   = domain.ErrValidation
	ErrNotFound     = domain.ErrNotFound
	ErrBackend      = domain.ErrBackend
	ErrNetwork      = domain.ErrNetwork
	ErrPrecondition = domain.ErrPrecondition
	ErrSyncInFlight = domain.ErrSyncInFlight
)

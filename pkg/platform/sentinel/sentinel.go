package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Document engines and session stores return
// these (optionally wrapped) so concepts can translate them into domain errors.
//
//   - ErrNotFound: no document matched the filter
//   - ErrConflict: the stored document version moved since it was read
//   - ErrAlreadyUsed: a unique index already holds the value
//   - ErrExpired: session record has expired
//   - ErrUnavailable: backing store temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)

package domain

import "errors"

// The ledger's failure modes form a closed set; callers match with
// errors.Is and map each member to a stable code.
var ErrInvalidIdentity = errors.New("invalid identity")
var ErrSelfReference = errors.New("self reference not allowed")
var ErrEmptyText = errors.New("empty text")
var ErrTextTooLong = errors.New("text too long")
var ErrExpirationInPast = errors.New("expiration in past")
var ErrExpirationTooLarge = errors.New("expiration too large")
var ErrEmptyBatch = errors.New("empty batch")
var ErrBatchTooLarge = errors.New("batch too large")
var ErrLengthMismatch = errors.New("length mismatch")
var ErrConsentNotFound = errors.New("consent not found")
var ErrRequestNotFound = errors.New("request not found")
var ErrUnauthorized = errors.New("unauthorized")
var ErrAlreadyInactive = errors.New("consent already inactive")
var ErrAlreadyProcessed = errors.New("request already processed")
var ErrUnknownHash = errors.New("unknown hash")
var ErrReentrant = errors.New("operation in progress")

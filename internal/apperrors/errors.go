package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrAmbiguous indicates that a lookup matched more than one row where
// exactly one was required.
var ErrAmbiguous = errors.New("ambiguous resolution")

// ErrUnauthorized indicates that the ledger refused the harness credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConnectivity indicates that the ledger API or database was unreachable.
var ErrConnectivity = errors.New("connectivity failure")

package coordinator

import "errors"

// Local, reported errors. None of these are retried by the coordinator
// itself; the only internally retried condition is conditional-update
// contention, which surfaces as ErrConflict once the retries are spent.
var (
	ErrInvalidRequest     = errors.New("invalid signing request")
	ErrNotFound           = errors.New("signing request not found")
	ErrInvalidSignature   = errors.New("signature verification failed")
	ErrAlreadySigned      = errors.New("signer slot already resolved")
	ErrConflict           = errors.New("concurrent update contention")
	ErrFinalizationFailed = errors.New("final artifact generation failed")
)

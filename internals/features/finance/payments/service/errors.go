package service

import "errors"

/* =========================================================
   Domain errors. Controllers map these onto the response
   envelope; nothing below the controller knows about HTTP.
========================================================= */

var (
	// ErrNotFound: payment/registration/event/user absent.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCallback: malformed or incomplete gateway payload. Hard
	// reject, payment stays pending.
	ErrInvalidCallback = errors.New("invalid gateway callback")

	// ErrSignatureMismatch: inbound signature does not verify. Potential
	// tampering; always rejected, never retried.
	ErrSignatureMismatch = errors.New("gateway signature mismatch")

	// ErrGatewayUnavailable: the independent status query failed or timed
	// out. Retryable; a callback alone is never enough to mark success.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidState: an operator action was attempted from a state that
	// does not permit it.
	ErrInvalidState = errors.New("invalid payment state")

	// ErrAlreadyConfirmed: confirm on a payment that is already success or
	// released. Callers treat this as an idempotent no-op, not a failure.
	ErrAlreadyConfirmed = errors.New("payment already confirmed")
)

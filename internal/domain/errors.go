package domain

import "errors"

var (
	ErrInvalidRequest          = errors.New("invalid request")
	ErrInvalidUPIRequest       = errors.New("invalid UPI payment request")
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
	ErrNoJSONFound             = errors.New("no JSON object found in text")
	// ErrUnrepairable marks an engine invariant violation: repair produced a
	// bundle its own validator still rejects after the forced-default pass.
	ErrUnrepairable = errors.New("document could not be repaired")
)

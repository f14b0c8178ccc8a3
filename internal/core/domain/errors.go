package domain

import "errors"

// Error kinds for the relay. Handlers map these onto HTTP statuses with
// errors.Is; everything outbound is wrapped into one of them so no request
// failure can escalate beyond its own response.
var (
	// ErrInvalidInput marks malformed or missing request fields, reported
	// before any outbound call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction marks a failed metadata resolution: the extraction tool
	// exited non-zero, timed out, produced unparsable output, or the remote
	// API reported an error.
	ErrExtraction = errors.New("extraction failed")

	// ErrDownloadFailed marks a failed download before any response bytes
	// were written.
	ErrDownloadFailed = errors.New("download failed")
)

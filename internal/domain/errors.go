package domain

import (
	"errors"
)

// Common domain errors
var (
	ErrInvalidManifest  = errors.New("invalid manifest")
	ErrResourceNotFound = errors.New("resource not in manifest")

	// Transfer errors
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// Extraction errors
	ErrNotZipArchive   = errors.New("not a zip archive")
	ErrUnsafeEntryPath = errors.New("archive entry escapes target directory")

	// ErrInterrupted marks a run stopped by the user; re-running resumes it
	ErrInterrupted = errors.New("interrupted")
)

// TransferError represents a failed download of a manifest resource.
// The partially written destination has already been removed when this is returned.
type TransferError struct {
	Resource string
	URL      string
	Err      error
}

// Error returns the error message
func (e *TransferError) Error() string {
	msg := "transfer failed"
	if e.Resource != "" {
		msg += " for " + e.Resource
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *TransferError) Unwrap() error {
	return e.Err
}

// NewTransferError creates a new transfer error for a resource
func NewTransferError(res ResourceDescriptor, err error) *TransferError {
	return &TransferError{Resource: res.ID, URL: res.URL, Err: err}
}

// IsTransferError returns true if err is or wraps a TransferError
func IsTransferError(err error) bool {
	var te *TransferError
	return errors.As(err, &te)
}

// ExtractionError represents a failure while unpacking an archive.
// The archive is left in place and partial output stays on disk.
type ExtractionError struct {
	Archive string
	Entry   string
	Err     error
}

// Error returns the error message
func (e *ExtractionError) Error() string {
	msg := "extraction failed"
	if e.Archive != "" {
		msg += " for " + e.Archive
	}
	if e.Entry != "" {
		msg += " (entry " + e.Entry + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new extraction error
func NewExtractionError(archive, entry string, err error) *ExtractionError {
	return &ExtractionError{Archive: archive, Entry: entry, Err: err}
}

// IsExtractionError returns true if err is or wraps an ExtractionError
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}

// IsInterrupted returns true if the run was stopped by the user
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

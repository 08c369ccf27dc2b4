package models

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

var (
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// ValidationError rejects a candidate before any request is made. Kind is one of
// ErrTooLarge or ErrUnsupportedType and is reachable through errors.Is.
type ValidationError struct {
	Kind      error
	Name      string
	Size      int64
	MediaType string
}

func (e *ValidationError) Error() string {
	if errors.Is(e.Kind, ErrTooLarge) {
		return fmt.Sprintf("%s: %s is %s, limit %s", e.Kind, e.Name, humanize.IBytes(uint64(e.Size)), humanize.IBytes(MaxFileSize))
	}
	return fmt.Sprintf("%s: %s (%q)", e.Kind, e.Name, e.MediaType)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// ProcessingError is a server-signaled failure or a response that could not be read
// as a result.
type ProcessingError struct {
	Message   string
	Malformed bool
	Cause     error
}

func (e *ProcessingError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "processing failed"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// TransportError means the request never produced a response.
type TransportError struct {
	Endpoint string
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Endpoint, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ActionError is a failed export, audio or summary request.
type ActionError struct {
	Action string
	Status int
	Cause  error
}

func (e *ActionError) Error() string {
	switch {
	case e.Cause != nil && e.Status != 0:
		return fmt.Sprintf("%s failed with status %d: %v", e.Action, e.Status, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s failed: %v", e.Action, e.Cause)
	case e.Status != 0:
		return fmt.Sprintf("%s failed with status %d", e.Action, e.Status)
	}
	return e.Action + " failed"
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}

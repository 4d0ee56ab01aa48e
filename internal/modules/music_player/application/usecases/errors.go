package usecases

import (
	"errors"
	"fmt"
)

// FailureReason classifies why a registry operation failed.
type FailureReason string

const (
	ReasonInvalidQuery    FailureReason = "invalid_query"
	ReasonNoResults       FailureReason = "no_results"
	ReasonQueueFull       FailureReason = "queue_full"
	ReasonNothingPlaying  FailureReason = "nothing_playing"
	ReasonNothingToResume FailureReason = "nothing_to_resume"
	ReasonNotConnected    FailureReason = "not_connected"
	ReasonConnectFailed   FailureReason = "connect_failed"
	ReasonSessionClosed   FailureReason = "session_closed"
	ReasonEngineFailure   FailureReason = "engine_failure"
)

// Failure is the error value returned by every SessionRegistry operation.
// Two failures match under errors.Is when their reasons are equal.
type Failure struct {
	Reason  FailureReason
	Message string // user-facing text
	Err     error  // underlying cause, if any
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is reports whether target is a Failure with the same reason.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Reason == f.Reason
}

// Registry failures.
var (
	// ErrInvalidQuery is returned when play is called with an empty query.
	ErrInvalidQuery = &Failure{Reason: ReasonInvalidQuery, Message: "query must not be empty"}

	// ErrNoResults is returned when a query resolves to nothing.
	ErrNoResults = &Failure{Reason: ReasonNoResults, Message: "no results found for your search"}

	// ErrQueueFull is returned when the pending queue is at its configured maximum.
	ErrQueueFull = &Failure{Reason: ReasonQueueFull, Message: "queue is full"}

	// ErrNothingPlaying is returned when an operation needs a loaded track.
	ErrNothingPlaying = &Failure{Reason: ReasonNothingPlaying, Message: "nothing is currently playing"}

	// ErrNothingToResume is returned when resume finds no paused track.
	ErrNothingToResume = &Failure{Reason: ReasonNothingToResume, Message: "nothing is currently paused"}

	// ErrNotConnected is returned when an operation requires a session.
	ErrNotConnected = &Failure{Reason: ReasonNotConnected, Message: "not connected to a voice channel"}

	// ErrConnectFailed is returned when the voice connection could not be established.
	ErrConnectFailed = &Failure{Reason: ReasonConnectFailed, Message: "failed to join the voice channel"}

	// ErrSessionClosed is returned when the session left while play was resolving its query.
	ErrSessionClosed = &Failure{
		Reason:  ReasonSessionClosed,
		Message: "the player left before the track was ready",
	}

	// ErrEngineFailure is returned when the playback engine rejects a pause or resume.
	ErrEngineFailure = &Failure{Reason: ReasonEngineFailure, Message: "the player did not respond"}
)

func queueFull(maxSize int) *Failure {
	return &Failure{
		Reason:  ReasonQueueFull,
		Message: fmt.Sprintf("queue is full (maximum %d tracks)", maxSize),
	}
}

func wrapFailure(base *Failure, err error) *Failure {
	return &Failure{Reason: base.Reason, Message: base.Message, Err: err}
}

// ReasonOf returns the FailureReason carried by err, or an empty reason.
func ReasonOf(err error) FailureReason {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ""
}

// MessageOf returns the user-facing message carried by err, or a generic text.
func MessageOf(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return "something went wrong"
}

package assistant

import (
	"context"
	"errors"
	"fmt"
)

// Pipeline stage names, reported on upstream failures.
const (
	StageTranscription = "transcription"
	StageReasoning     = "reasoning"
	StageSynthesis     = "synthesis"
)

// ErrInvalidInput rejects a request before any collaborator is invoked.
var ErrInvalidInput = errors.New("empty audio input")

// ErrBusy rejects a request while another one is in flight.
var ErrBusy = errors.New("voice request already in flight")

// UpstreamError reports a collaborator failure. It aborts the in-flight
// request and propagates to the caller with the failing stage attached.
type UpstreamError struct {
	Stage   string
	Timeout bool
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s timed out: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// upstream wraps a collaborator error with its stage, flagging expired
// call deadlines as timeouts.
func upstream(stage string, err error) error {
	return &UpstreamError{
		Stage:   stage,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}

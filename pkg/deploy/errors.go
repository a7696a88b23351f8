package deploy

import (
	"errors"
	"fmt"
)

// ErrNoPullRequests is returned when there is no open pull request to pick
var ErrNoPullRequests = errors.New("no open pull requests found")

// ValidationError reports a bad environment number or commit SHA
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// StageError records which pipeline stage failed
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage.Description(), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

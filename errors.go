// Package asynciter error types, following the teacher package's ES2022-style
// cause-chain convention (see eventloop/errors.go: TypeError, RangeError,
// TimeoutError, all with Unwrap/Is support).

package asynciter

import (
	"errors"
	"fmt"
)

// ContractError reports a violation of this package's synchronous API
// contract: a done callback invoked twice, a source whose destination is
// already claimed, and similar programmer errors. Per spec.md §7, these are thrown (panicked) immediately
// from the offending call rather than surfaced through the error event.
type ContractError struct {
	Message string
	Cause   error
}

func (e *ContractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("asynciter: %s: %v", e.Message, e.Cause)
	}
	return "asynciter: " + e.Message
}

func (e *ContractError) Unwrap() error { return e.Cause }

func newContractError(message string) *ContractError {
	return &ContractError{Message: message}
}

// TypeError reports a value of the wrong shape. No function in this package
// returns one: Wrap and its siblings take typed parameters, so an
// unsupported input is rejected at compile time.
type TypeError struct {
	Message string
	Cause   error
}

func (e *TypeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("asynciter: type error: %s: %v", e.Message, e.Cause)
	}
	return "asynciter: type error: " + e.Message
}

func (e *TypeError) Unwrap() error { return e.Cause }

// AbortError wraps a Destroy(cause) reason for delivery through the "error"
// event (spec.md §5: "error(cause) is emitted iff a cause exists").
type AbortError struct {
	Reason any
}

func (e *AbortError) Error() string {
	if err, ok := e.Reason.(error); ok {
		return "asynciter: destroyed: " + err.Error()
	}
	return fmt.Sprintf("asynciter: destroyed: %v", e.Reason)
}

func (e *AbortError) Unwrap() error {
	err, _ := e.Reason.(error)
	return err
}

// Is reports true for any *AbortError, matching the teacher's
// AggregateError.Is behavior of matching by type rather than by value.
func (e *AbortError) Is(target error) bool {
	var other *AbortError
	return errors.As(target, &other)
}

// causeOf extracts an error reason from an arbitrary destroy cause, so that
// both error-typed and non-error causes (as accepted by Destroy) can be
// delivered uniformly through the "error" event.
func causeOf(cause any) error {
	if cause == nil {
		return nil
	}
	if err, ok := cause.(error); ok {
		return err
	}
	return &AbortError{Reason: cause}
}

package mcast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports a malformed address literal or an
	// out-of-range port during endpoint construction.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoSuchInterface reports that no local interface carries the
	// requested address.
	ErrNoSuchInterface = errors.New("no such interface")
)

// SocketError wraps an OS-level failure from bind, option setup, group join,
// send or receive. Op names the operation that failed.
type SocketError struct {
	Op  string
	Err error
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SocketError) Unwrap() error {
	return e.Err
}

func sockErr(op string, err error) error {
	return &SocketError{Op: op, Err: err}
}

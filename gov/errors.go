package gov

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the caller lacks ownership of the
	// contract.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPaused rejects state-mutating calls while the circuit breaker is
	// engaged.
	ErrPaused = errors.New("paused")
	// ErrNotPaused rejects Release when the contract is already running.
	ErrNotPaused = errors.New("not paused")
)

// RoleNotExistError reports a missing role grant.
type RoleNotExistError struct {
	Addr string
	Role string
}

func (e *RoleNotExistError) Error() string {
	return fmt.Sprintf("role error: addr %s has not role %s", e.Addr, e.Role)
}

// InvalidArgumentError reports a rejected argument with a human-readable
// reason.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return e.Msg
}

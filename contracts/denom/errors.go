package denom

import (
	"errors"
	"fmt"
)

// ErrUnknownMessage is returned for a message with no recognized branch.
var ErrUnknownMessage = errors.New("denom manager: unknown message")

// DenomNotFoundError reports a Convert miss.
type DenomNotFoundError struct {
	Denom string
}

func (e *DenomNotFoundError) Error() string {
	return fmt.Sprintf("denom not found: %s", e.Denom)
}

package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMessage is returned for a message with no recognized branch.
	ErrUnknownMessage = errors.New("gateway: unknown message")
	// ErrMustPayOne rejects Send calls that do not attach exactly one coin.
	ErrMustPayOne = errors.New("pay error: you must send one asset")
	// ErrInvalidPubKey covers both a key that does not derive to the owner
	// and a signature that fails verification against the registered key.
	ErrInvalidPubKey = errors.New("invalid pub key")
	// ErrPublicKeyNotRegistered is returned by Execute before any key exists.
	ErrPublicKeyNotRegistered = errors.New("public key not registered")
	// ErrWithdrawNotFlushed rejects staging a second withdraw context while
	// one is still pending its reply.
	ErrWithdrawNotFlushed = errors.New("withdraw not flushed")
	// ErrUnbondNotFlushed is the unbond-context counterpart.
	ErrUnbondNotFlushed = errors.New("unbond not flushed")
	// ErrWrongLength rejects keys and signatures of the wrong byte length.
	ErrWrongLength = errors.New("lengths wrong")
)

// ReplyIDNotFoundError reports a reply with an unknown correlation id.
type ReplyIDNotFoundError struct {
	ID uint64
}

func (e *ReplyIDNotFoundError) Error() string {
	return fmt.Sprintf("reply id not found: %d", e.ID)
}

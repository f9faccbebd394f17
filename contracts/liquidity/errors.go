package liquidity

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMessage is returned for a message with no recognized branch.
	ErrUnknownMessage = errors.New("liquidity manager: unknown message")
	// ErrAssetNotFound rejects deposits carrying no funds.
	ErrAssetNotFound = errors.New("assets not found")
	// ErrInsufficientWithdrawableAsset rejects withdrawals exceeding the
	// depositor's ledger balance.
	ErrInsufficientWithdrawableAsset = errors.New("insufficient withdrawable asset")
	// ErrDelegateAssetNotMatches rejects delegate/undelegate/bond payments
	// that are not exactly one coin of the expected denom.
	ErrDelegateAssetNotMatches = errors.New("delegate asset not matches")
	// ErrInsufficientUndelegateAsset guards the global delegate scalar from
	// going negative.
	ErrInsufficientUndelegateAsset = errors.New("insufficient undelegate asset")
	// ErrInsufficientBondAmount rejects unbonds exceeding the bonded amount
	// net of pending unbonds.
	ErrInsufficientBondAmount = errors.New("insufficient bond amount")
	// ErrUnbondingNotStarted is returned when no bond or unbond record
	// exists for the request.
	ErrUnbondingNotStarted = errors.New("unbonding not started")
	// ErrUnbondingNotFinished is returned before the unbonding period has
	// elapsed.
	ErrUnbondingNotFinished = errors.New("unbonding not finished")

	errUnauthorizedUnbond = errors.New("unbond owned by another account")
)

// DepositAssetNotFoundError reports a withdrawal against a denom the
// depositor never funded.
type DepositAssetNotFoundError struct {
	Denom string
}

func (e *DepositAssetNotFoundError) Error() string {
	return fmt.Sprintf("deposit asset %s not found", e.Denom)
}

// ReplyIDNotFoundError reports a reply with an unknown correlation id.
type ReplyIDNotFoundError struct {
	ID uint64
}

func (e *ReplyIDNotFoundError) Error() string {
	return fmt.Sprintf("reply id not found: %d", e.ID)
}

package chain

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNoFunds is returned when a call that requires payment carries none.
	ErrNoFunds = errors.New("chain: no funds attached")
	// ErrMultipleDenoms is returned when a call expecting a single coin
	// receives several.
	ErrMultipleDenoms = errors.New("chain: more than one coin attached")
)

// OneCoin returns the single coin attached to the call, failing when zero or
// multiple coins were sent or the amount is zero.
func OneCoin(info MessageInfo) (Coin, error) {
	switch len(info.Funds) {
	case 0:
		return Coin{}, ErrNoFunds
	case 1:
		coin := info.Funds[0]
		if coin.Amount == nil || coin.Amount.Sign() <= 0 {
			return Coin{}, fmt.Errorf("chain: zero amount of %s", coin.Denom)
		}
		return coin.Clone(), nil
	default:
		return Coin{}, ErrMultipleDenoms
	}
}

// MustPay returns the attached amount of denom, failing when the payment is
// missing, mixed or of a different denom.
func MustPay(info MessageInfo, denom string) (*big.Int, error) {
	coin, err := OneCoin(info)
	if err != nil {
		return nil, err
	}
	if coin.Denom != denom {
		return nil, fmt.Errorf("chain: expected denom %s, got %s", denom, coin.Denom)
	}
	return coin.Amount, nil
}

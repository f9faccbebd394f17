package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrDenomExists is returned when a subdenom is created twice by the
	// same owner.
	ErrDenomExists = errors.New("tokenfactory: denom already exists")
	// ErrNotDenomOwner is returned when a non-creator tries to mint or burn.
	ErrNotDenomOwner = errors.New("tokenfactory: sender does not own denom")
	// ErrDenomNotCreated is returned for mint/burn of an unknown factory
	// denom.
	ErrDenomNotCreated = errors.New("tokenfactory: denom not created")
)

var (
	tfOwnerPrefix  = []byte("tokenfactory/owner/")
	tfSupplyPrefix = []byte("tokenfactory/supply/")
)

func tfOwnerKey(denom string) []byte {
	return append(append([]byte(nil), tfOwnerPrefix...), denom...)
}

func tfSupplyKey(denom string) []byte {
	return append(append([]byte(nil), tfSupplyPrefix...), denom...)
}

// TokenFactoryKeeper manages factory/<creator>/<subdenom> tokens. A denom is
// owned by the address that created it; only the owner may mint or burn.
type TokenFactoryKeeper struct {
	store *MemKV
	bank  *BankKeeper
}

// NewTokenFactoryKeeper returns a keeper sharing the host store and bank.
func NewTokenFactoryKeeper(store *MemKV, bank *BankKeeper) *TokenFactoryKeeper {
	return &TokenFactoryKeeper{store: store, bank: bank}
}

// CreateDenom registers a new factory denom owned by sender and returns its
// full identifier.
func (t *TokenFactoryKeeper) CreateDenom(sender, subdenom string) (string, error) {
	subdenom = strings.TrimSpace(subdenom)
	if subdenom == "" {
		return "", errors.New("tokenfactory: empty subdenom")
	}
	denom := fmt.Sprintf("factory/%s/%s", sender, subdenom)
	var owner string
	ok, err := t.store.KVGet(tfOwnerKey(denom), &owner)
	if err != nil {
		return "", err
	}
	if ok {
		return "", fmt.Errorf("%w: %s", ErrDenomExists, denom)
	}
	if err := t.store.KVPut(tfOwnerKey(denom), sender); err != nil {
		return "", err
	}
	if err := t.store.KVPut(tfSupplyKey(denom), big.NewInt(0)); err != nil {
		return "", err
	}
	return denom, nil
}

func (t *TokenFactoryKeeper) assertOwner(sender, denom string) error {
	var owner string
	ok, err := t.store.KVGet(tfOwnerKey(denom), &owner)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrDenomNotCreated, denom)
	}
	if owner != sender {
		return fmt.Errorf("%w: %s", ErrNotDenomOwner, denom)
	}
	return nil
}

// Mint credits coin to the sender's balance and grows total supply.
func (t *TokenFactoryKeeper) Mint(sender string, coin Coin) error {
	if err := t.assertOwner(sender, coin.Denom); err != nil {
		return err
	}
	supply, err := t.TotalSupply(coin.Denom)
	if err != nil {
		return err
	}
	if err := t.bank.Mint(sender, coin); err != nil {
		return err
	}
	return t.store.KVPut(tfSupplyKey(coin.Denom), new(big.Int).Add(supply, coin.Amount))
}

// Burn debits coin from the sender's balance and shrinks total supply.
func (t *TokenFactoryKeeper) Burn(sender string, coin Coin) error {
	if err := t.assertOwner(sender, coin.Denom); err != nil {
		return err
	}
	supply, err := t.TotalSupply(coin.Denom)
	if err != nil {
		return err
	}
	if supply.Cmp(coin.Amount) < 0 {
		return fmt.Errorf("tokenfactory: burn exceeds supply of %s", coin.Denom)
	}
	if err := t.bank.Burn(sender, coin); err != nil {
		return err
	}
	return t.store.KVPut(tfSupplyKey(coin.Denom), new(big.Int).Sub(supply, coin.Amount))
}

// TotalSupply reports the circulating amount of a factory denom.
func (t *TokenFactoryKeeper) TotalSupply(denom string) (*big.Int, error) {
	supply := new(big.Int)
	ok, err := t.store.KVGet(tfSupplyKey(denom), supply)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return supply, nil
}

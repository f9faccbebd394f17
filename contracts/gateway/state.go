package gateway

import (
	"errors"
	"math/big"

	"osmobridge/chain"
)

var (
	liquidityManagerKey = []byte("liquidity_manager")
	denomManagerKey     = []byte("denom_manager")
	publicKeyKey        = []byte("public_key")
	withdrawContextKey  = []byte("context/withdraw")
	unbondContextKey    = []byte("context/unbond")
)

// WithdrawContext is the staged half of a two-step withdraw: written before
// the liquidity-manager submessage is dispatched, consumed when its success
// reply fires. At most one may exist between two entry points.
type WithdrawContext struct {
	ToAddress string
	Denom     string
	Amount    *big.Int
}

// UnbondContext is the unbond counterpart of WithdrawContext.
type UnbondContext struct {
	ToAddress string
	Denom     string
	Amount    *big.Int
}

func loadAddr(store chain.Storage, key []byte, what string) (string, error) {
	var addr string
	ok, err := store.KVGet(key, &addr)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("gateway: " + what + " not initialised")
	}
	return addr, nil
}

func loadLiquidityManager(store chain.Storage) (string, error) {
	return loadAddr(store, liquidityManagerKey, "liquidity manager")
}

func saveLiquidityManager(store chain.Storage, addr string) error {
	return store.KVPut(liquidityManagerKey, addr)
}

func loadDenomManager(store chain.Storage) (string, error) {
	return loadAddr(store, denomManagerKey, "denom manager")
}

func saveDenomManager(store chain.Storage, addr string) error {
	return store.KVPut(denomManagerKey, addr)
}

func loadPublicKey(store chain.Storage) ([]byte, error) {
	var key []byte
	ok, err := store.KVGet(publicKeyKey, &key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPublicKeyNotRegistered
	}
	return key, nil
}

func savePublicKey(store chain.Storage, key []byte) error {
	return store.KVPut(publicKeyKey, key)
}

// setWithdrawInfo stages a withdraw context, failing when one is already
// pending.
func setWithdrawInfo(store chain.Storage, ctx WithdrawContext) error {
	var existing WithdrawContext
	ok, err := store.KVGet(withdrawContextKey, &existing)
	if err != nil {
		return err
	}
	if ok {
		return ErrWithdrawNotFlushed
	}
	return store.KVPut(withdrawContextKey, ctx)
}

// takeWithdrawInfo loads and clears the staged withdraw context.
func takeWithdrawInfo(store chain.Storage) (WithdrawContext, error) {
	var ctx WithdrawContext
	ok, err := store.KVGet(withdrawContextKey, &ctx)
	if err != nil {
		return WithdrawContext{}, err
	}
	if !ok {
		return WithdrawContext{}, errors.New("gateway: withdraw context not staged")
	}
	if err := store.KVDelete(withdrawContextKey); err != nil {
		return WithdrawContext{}, err
	}
	return ctx, nil
}

func setUnbondInfo(store chain.Storage, ctx UnbondContext) error {
	var existing UnbondContext
	ok, err := store.KVGet(unbondContextKey, &existing)
	if err != nil {
		return err
	}
	if ok {
		return ErrUnbondNotFlushed
	}
	return store.KVPut(unbondContextKey, ctx)
}

func takeUnbondInfo(store chain.Storage) (UnbondContext, error) {
	var ctx UnbondContext
	ok, err := store.KVGet(unbondContextKey, &ctx)
	if err != nil {
		return UnbondContext{}, err
	}
	if !ok {
		return UnbondContext{}, errors.New("gateway: unbond context not staged")
	}
	if err := store.KVDelete(unbondContextKey); err != nil {
		return UnbondContext{}, err
	}
	return ctx, nil
}

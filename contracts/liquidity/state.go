package liquidity

import (
	"encoding/binary"
	"errors"
	"math/big"

	"osmobridge/chain"
)

var (
	denomInfoKey       = []byte("denom")
	configKey          = []byte("config")
	delegateAmountKey  = []byte("delegates")
	balancePrefix      = []byte("balances/")
	bondPrefix         = []byte("bonds/")
	unbondRecordPrefix = []byte("unbonds/id/")
	unbondOwnerPrefix  = []byte("unbonds/owner/")
	unbondCounterKey   = []byte("unbonds/index")
)

// DenomInfo pairs the pool denom with the LP denom minted against it. The
// LP denom is empty until the create-denom reply fires.
type DenomInfo struct {
	Denom   string
	LpDenom string
}

// ConfigInfo holds the owner-tunable parameters.
type ConfigInfo struct {
	UnbondingPeriod uint64
}

// BondInfo tracks LP tokens locked by one address. BondTime is set on the
// first bond only.
type BondInfo struct {
	Amount   *big.Int
	BondTime uint64
}

// UnbondInfo is one pending two-phase unbond. UnbondTime is the expected
// finalization timestamp (start time plus the unbonding period in force when
// the unbond started).
type UnbondInfo struct {
	UnbondID   uint64
	Owner      string
	Amount     *big.Int
	UnbondTime uint64
}

func balanceKey(depositor, denom string) []byte {
	buf := make([]byte, 0, len(balancePrefix)+len(depositor)+1+len(denom))
	buf = append(buf, balancePrefix...)
	buf = append(buf, depositor...)
	buf = append(buf, '/')
	buf = append(buf, denom...)
	return buf
}

func bondKey(bonder string) []byte {
	return append(append([]byte(nil), bondPrefix...), bonder...)
}

func unbondRecordKey(id uint64) []byte {
	buf := make([]byte, len(unbondRecordPrefix)+8)
	copy(buf, unbondRecordPrefix)
	binary.BigEndian.PutUint64(buf[len(unbondRecordPrefix):], id)
	return buf
}

func unbondOwnerKey(owner string, id uint64) []byte {
	buf := make([]byte, 0, len(unbondOwnerPrefix)+len(owner)+1+8)
	buf = append(buf, unbondOwnerPrefix...)
	buf = append(buf, owner...)
	buf = append(buf, '/')
	var idBytes [8]byte
	binary.BigEndian.PutUint64(idBytes[:], id)
	return append(buf, idBytes[:]...)
}

func loadDenomInfo(store chain.Storage) (DenomInfo, error) {
	var info DenomInfo
	ok, err := store.KVGet(denomInfoKey, &info)
	if err != nil {
		return DenomInfo{}, err
	}
	if !ok {
		return DenomInfo{}, errors.New("liquidity manager: denom info not initialised")
	}
	return info, nil
}

func saveDenomInfo(store chain.Storage, info DenomInfo) error {
	return store.KVPut(denomInfoKey, info)
}

func loadConfig(store chain.Storage) (ConfigInfo, error) {
	var cfg ConfigInfo
	ok, err := store.KVGet(configKey, &cfg)
	if err != nil {
		return ConfigInfo{}, err
	}
	if !ok {
		return ConfigInfo{}, errors.New("liquidity manager: config not initialised")
	}
	return cfg, nil
}

func saveConfig(store chain.Storage, cfg ConfigInfo) error {
	return store.KVPut(configKey, cfg)
}

// --- balance ledger ---

func depositBalance(store chain.Storage, depositor string, funds []chain.Coin) error {
	for _, coin := range funds {
		key := balanceKey(depositor, coin.Denom)
		current := new(big.Int)
		ok, err := store.KVGet(key, current)
		if err != nil {
			return err
		}
		if !ok {
			current = big.NewInt(0)
		}
		if err := store.KVPut(key, new(big.Int).Add(current, coin.Amount)); err != nil {
			return err
		}
	}
	return nil
}

func withdrawBalance(store chain.Storage, withdrawer string, claim chain.Coin) (chain.Coin, error) {
	key := balanceKey(withdrawer, claim.Denom)
	current := new(big.Int)
	ok, err := store.KVGet(key, current)
	if err != nil {
		return chain.Coin{}, err
	}
	if !ok {
		return chain.Coin{}, &DepositAssetNotFoundError{Denom: claim.Denom}
	}
	if current.Cmp(claim.Amount) < 0 {
		return chain.Coin{}, ErrInsufficientWithdrawableAsset
	}
	if err := store.KVPut(key, new(big.Int).Sub(current, claim.Amount)); err != nil {
		return chain.Coin{}, err
	}
	return claim, nil
}

func inquiryBalance(store chain.Storage, depositor string) ([]chain.Coin, error) {
	prefix := balanceKey(depositor, "")
	coins := make([]chain.Coin, 0)
	err := store.KVIteratePrefix(prefix, func(key, _ []byte) bool {
		denom := string(key[len(prefix):])
		amount := new(big.Int)
		if ok, err := store.KVGet(balanceKey(depositor, denom), amount); err != nil || !ok {
			return true
		}
		coins = append(coins, chain.Coin{Denom: denom, Amount: amount})
		return true
	})
	if err != nil {
		return nil, err
	}
	return coins, nil
}

// --- delegate scalar ---

func loadDelegateAmount(store chain.Storage) (*big.Int, error) {
	amount := new(big.Int)
	ok, err := store.KVGet(delegateAmountKey, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return amount, nil
}

func saveDelegateAmount(store chain.Storage, amount *big.Int) error {
	return store.KVPut(delegateAmountKey, amount)
}

// --- bond / unbond state machine ---

func loadBond(store chain.Storage, bonder string) (BondInfo, bool, error) {
	var bond BondInfo
	ok, err := store.KVGet(bondKey(bonder), &bond)
	if err != nil {
		return BondInfo{}, false, err
	}
	return bond, ok, nil
}

func addBond(store chain.Storage, now uint64, bonder string, amount *big.Int) (BondInfo, error) {
	existing, ok, err := loadBond(store, bonder)
	if err != nil {
		return BondInfo{}, err
	}
	if !ok {
		existing = BondInfo{Amount: big.NewInt(0), BondTime: now}
	}
	existing.Amount = new(big.Int).Add(existing.Amount, amount)
	if err := store.KVPut(bondKey(bonder), existing); err != nil {
		return BondInfo{}, err
	}
	return existing, nil
}

func nextUnbondID(store chain.Storage) (uint64, error) {
	var id uint64
	if _, err := store.KVGet(unbondCounterKey, &id); err != nil {
		return 0, err
	}
	id++
	if err := store.KVPut(unbondCounterKey, id); err != nil {
		return 0, err
	}
	return id, nil
}

func saveUnbond(store chain.Storage, unbond UnbondInfo) error {
	if err := store.KVPut(unbondRecordKey(unbond.UnbondID), unbond); err != nil {
		return err
	}
	// Secondary index: owner -> id, maintained at write time so
	// by-owner lookups avoid a full scan.
	return store.KVPut(unbondOwnerKey(unbond.Owner, unbond.UnbondID), unbond.UnbondID)
}

func loadUnbond(store chain.Storage, id uint64) (UnbondInfo, bool, error) {
	var unbond UnbondInfo
	ok, err := store.KVGet(unbondRecordKey(id), &unbond)
	if err != nil {
		return UnbondInfo{}, false, err
	}
	return unbond, ok, nil
}

func removeUnbond(store chain.Storage, unbond UnbondInfo) error {
	if err := store.KVDelete(unbondRecordKey(unbond.UnbondID)); err != nil {
		return err
	}
	return store.KVDelete(unbondOwnerKey(unbond.Owner, unbond.UnbondID))
}

func unbondsByOwner(store chain.Storage, owner string) ([]UnbondInfo, error) {
	prefix := append(append([]byte(nil), unbondOwnerPrefix...), owner...)
	prefix = append(prefix, '/')
	unbonds := make([]UnbondInfo, 0)
	var iterErr error
	err := store.KVIteratePrefix(prefix, func(key, _ []byte) bool {
		id := binary.BigEndian.Uint64(key[len(prefix):])
		unbond, ok, err := loadUnbond(store, id)
		if err != nil {
			iterErr = err
			return false
		}
		if ok {
			unbonds = append(unbonds, unbond)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return unbonds, nil
}

func pendingUnbondTotal(store chain.Storage, owner string) (*big.Int, error) {
	unbonds, err := unbondsByOwner(store, owner)
	if err != nil {
		return nil, err
	}
	total := big.NewInt(0)
	for _, unbond := range unbonds {
		total.Add(total, unbond.Amount)
	}
	return total, nil
}

func createUnbond(store chain.Storage, now uint64, bonder string, amount *big.Int) (UnbondInfo, error) {
	bondInfo, ok, err := loadBond(store, bonder)
	if err != nil {
		return UnbondInfo{}, err
	}
	if !ok {
		return UnbondInfo{}, ErrUnbondingNotStarted
	}
	pending, err := pendingUnbondTotal(store, bonder)
	if err != nil {
		return UnbondInfo{}, err
	}
	available := new(big.Int).Sub(bondInfo.Amount, pending)
	if amount.Cmp(available) > 0 {
		return UnbondInfo{}, ErrInsufficientBondAmount
	}
	cfg, err := loadConfig(store)
	if err != nil {
		return UnbondInfo{}, err
	}
	id, err := nextUnbondID(store)
	if err != nil {
		return UnbondInfo{}, err
	}
	unbond := UnbondInfo{
		UnbondID:   id,
		Owner:      bonder,
		Amount:     new(big.Int).Set(amount),
		UnbondTime: now + cfg.UnbondingPeriod,
	}
	if err := saveUnbond(store, unbond); err != nil {
		return UnbondInfo{}, err
	}
	return unbond, nil
}

func finishUnbond(store chain.Storage, now uint64, bonder string, id uint64) (UnbondInfo, error) {
	unbond, ok, err := loadUnbond(store, id)
	if err != nil {
		return UnbondInfo{}, err
	}
	if !ok {
		return UnbondInfo{}, ErrUnbondingNotStarted
	}
	if unbond.Owner != bonder {
		return UnbondInfo{}, errUnauthorizedUnbond
	}
	if now < unbond.UnbondTime {
		return UnbondInfo{}, ErrUnbondingNotFinished
	}
	if err := removeUnbond(store, unbond); err != nil {
		return UnbondInfo{}, err
	}
	bondInfo, ok, err := loadBond(store, bonder)
	if err != nil {
		return UnbondInfo{}, err
	}
	if !ok {
		return UnbondInfo{}, ErrUnbondingNotStarted
	}
	remaining := new(big.Int).Sub(bondInfo.Amount, unbond.Amount)
	if remaining.Sign() <= 0 {
		if err := store.KVDelete(bondKey(bonder)); err != nil {
			return UnbondInfo{}, err
		}
	} else {
		bondInfo.Amount = remaining
		if err := store.KVPut(bondKey(bonder), bondInfo); err != nil {
			return UnbondInfo{}, err
		}
	}
	return unbond, nil
}

package chain

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
)

var (
	// ErrInsufficientFunds is returned when a transfer or burn exceeds the
	// sender's balance.
	ErrInsufficientFunds = errors.New("bank: insufficient funds")
)

var bankBalancePrefix = []byte("bank/balance/")

func bankBalanceKey(addr, denom string) []byte {
	buf := make([]byte, 0, len(bankBalancePrefix)+len(addr)+1+len(denom))
	buf = append(buf, bankBalancePrefix...)
	buf = append(buf, addr...)
	buf = append(buf, '/')
	buf = append(buf, denom...)
	return buf
}

// BankKeeper ledgers native coin holdings per address. It shares the host
// store so transaction snapshots cover balance mutations.
type BankKeeper struct {
	store *MemKV
}

// NewBankKeeper returns a keeper bound to the host store.
func NewBankKeeper(store *MemKV) *BankKeeper {
	return &BankKeeper{store: store}
}

// Balance returns the holding of addr in denom. Missing entries read as zero.
func (b *BankKeeper) Balance(addr, denom string) (*big.Int, error) {
	amount := new(big.Int)
	ok, err := b.store.KVGet(bankBalanceKey(addr, denom), amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return amount, nil
}

// AllBalances returns every non-zero holding of addr sorted by denom.
func (b *BankKeeper) AllBalances(addr string) ([]Coin, error) {
	prefix := bankBalanceKey(addr, "")
	coins := make([]Coin, 0)
	var iterErr error
	err := b.store.KVIteratePrefix(prefix, func(key, _ []byte) bool {
		denom := string(key[len(prefix):])
		amount, err := b.Balance(addr, denom)
		if err != nil {
			iterErr = err
			return false
		}
		if amount.Sign() > 0 {
			coins = append(coins, Coin{Denom: denom, Amount: amount})
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	sort.Slice(coins, func(i, j int) bool { return coins[i].Denom < coins[j].Denom })
	return coins, nil
}

func (b *BankKeeper) setBalance(addr, denom string, amount *big.Int) error {
	if amount.Sign() == 0 {
		return b.store.KVDelete(bankBalanceKey(addr, denom))
	}
	return b.store.KVPut(bankBalanceKey(addr, denom), amount)
}

// Send moves coins from one address to another.
func (b *BankKeeper) Send(from, to string, coins []Coin) error {
	for _, coin := range coins {
		if coin.Amount == nil || coin.Amount.Sign() < 0 {
			return fmt.Errorf("bank: invalid amount for %s", coin.Denom)
		}
		fromBalance, err := b.Balance(from, coin.Denom)
		if err != nil {
			return err
		}
		if fromBalance.Cmp(coin.Amount) < 0 {
			return fmt.Errorf("%w: %s has %s, needs %s %s",
				ErrInsufficientFunds, from, fromBalance, coin.Amount, coin.Denom)
		}
		toBalance, err := b.Balance(to, coin.Denom)
		if err != nil {
			return err
		}
		if err := b.setBalance(from, coin.Denom, new(big.Int).Sub(fromBalance, coin.Amount)); err != nil {
			return err
		}
		if err := b.setBalance(to, coin.Denom, new(big.Int).Add(toBalance, coin.Amount)); err != nil {
			return err
		}
	}
	return nil
}

// Mint credits newly created coins to addr.
func (b *BankKeeper) Mint(addr string, coin Coin) error {
	if coin.Amount == nil || coin.Amount.Sign() < 0 {
		return fmt.Errorf("bank: invalid mint amount for %s", coin.Denom)
	}
	balance, err := b.Balance(addr, coin.Denom)
	if err != nil {
		return err
	}
	return b.setBalance(addr, coin.Denom, new(big.Int).Add(balance, coin.Amount))
}

// Burn removes coins from addr's balance.
func (b *BankKeeper) Burn(addr string, coin Coin) error {
	if coin.Amount == nil || coin.Amount.Sign() < 0 {
		return fmt.Errorf("bank: invalid burn amount for %s", coin.Denom)
	}
	balance, err := b.Balance(addr, coin.Denom)
	if err != nil {
		return err
	}
	if balance.Cmp(coin.Amount) < 0 {
		return fmt.Errorf("%w: burn %s %s from %s", ErrInsufficientFunds, coin.Amount, coin.Denom, addr)
	}
	return b.setBalance(addr, coin.Denom, new(big.Int).Sub(balance, coin.Amount))
}

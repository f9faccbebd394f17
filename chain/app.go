package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"osmobridge/crypto"
)

// Api exposes host-native helpers to contracts, mirroring the verifier and
// address services the chain provides.
type Api interface {
	Secp256k1Verify(digest, signature, pubKey []byte) (bool, error)
	AddressFromPubKey(pubKey []byte) (string, error)
	ValidateAddress(addr string) error
}

// Context is the per-invocation environment handed to contract entry points.
type Context struct {
	Env   Env
	Store Storage
	Api   Api
}

// Contract is the entry-point surface of a deployed contract instance. Every
// invocation runs to completion single-threaded; reentry happens only via
// Reply for correlated submessages.
type Contract interface {
	Instantiate(ctx Context, info MessageInfo, msg json.RawMessage) (*Response, error)
	Execute(ctx Context, info MessageInfo, msg json.RawMessage) (*Response, error)
	Query(ctx Context, msg json.RawMessage) ([]byte, error)
	Reply(ctx Context, reply Reply) (*Response, error)
}

// ErrContractNotFound is returned for calls addressed to an unknown instance.
var ErrContractNotFound = errors.New("chain: contract not found")

// App is the in-process host runtime: it owns the shared store, the bank and
// token-factory keepers, registered contract instances and the block clock.
// Every entry-point invocation either commits all writes or reverts them.
type App struct {
	mu        sync.Mutex
	store     *MemKV
	bank      *BankKeeper
	factory   *TokenFactoryKeeper
	contracts map[string]Contract
	emitter   Emitter
	block     BlockInfo
	sequence  uint64
}

// NewApp creates a runtime starting at the given unix time.
func NewApp(genesisTime uint64) *App {
	store := NewMemKV()
	bank := NewBankKeeper(store)
	return &App{
		store:     store,
		bank:      bank,
		factory:   NewTokenFactoryKeeper(store, bank),
		contracts: make(map[string]Contract),
		emitter:   NoopEmitter{},
		block:     BlockInfo{Height: 1, Time: genesisTime},
	}
}

// SetEmitter configures the committed-event sink. Passing nil resets it to a
// no-op implementation.
func (a *App) SetEmitter(emitter Emitter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if emitter == nil {
		a.emitter = NoopEmitter{}
		return
	}
	a.emitter = emitter
}

// Bank returns the native balance keeper.
func (a *App) Bank() *BankKeeper { return a.bank }

// TokenFactory returns the factory-denom keeper.
func (a *App) TokenFactory() *TokenFactoryKeeper { return a.factory }

// BlockTime returns the current block timestamp in unix seconds.
func (a *App) BlockTime() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.block.Time
}

// AdvanceTime moves the block clock forward and bumps the height.
func (a *App) AdvanceTime(seconds uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.block.Time += seconds
	a.block.Height++
}

// FundAccount mints genesis coins to an account. Test and bootstrap helper.
func (a *App) FundAccount(addr string, coins ...Coin) error {
	for _, coin := range coins {
		if err := a.bank.Mint(addr, coin); err != nil {
			return err
		}
	}
	return nil
}

// Secp256k1Verify implements Api.
func (a *App) Secp256k1Verify(digest, signature, pubKey []byte) (bool, error) {
	return crypto.Secp256k1Verify(digest, signature, pubKey)
}

// AddressFromPubKey implements Api.
func (a *App) AddressFromPubKey(pubKey []byte) (string, error) {
	return crypto.PubKeyToAddress(pubKey)
}

// ValidateAddress implements Api.
func (a *App) ValidateAddress(addr string) error {
	return crypto.ValidateAddress(addr)
}

func (a *App) contractStore(addr string) Storage {
	prefix := fmt.Sprintf("wasm/%s/", addr)
	return NewPrefixStore(a.store, []byte(prefix))
}

func (a *App) contractContext(addr string) Context {
	return Context{
		Env:   Env{Block: a.block, Contract: addr},
		Store: a.contractStore(addr),
		Api:   a,
	}
}

// Instantiate deploys a contract instance, derives its address, credits the
// attached funds and runs its Instantiate entry point (including any
// submessages) atomically.
func (a *App) Instantiate(contract Contract, sender string, msg interface{}, funds []Coin, label string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	a.sequence++
	addr := crypto.NewContractAddress(label, a.sequence)
	a.contracts[addr] = contract

	snapshot := a.store.Snapshot()
	events := make([]Event, 0)
	err = func() error {
		if len(funds) > 0 {
			if err := a.bank.Send(sender, addr, funds); err != nil {
				return err
			}
		}
		resp, err := contract.Instantiate(a.contractContext(addr), MessageInfo{Sender: sender, Funds: CloneCoins(funds)}, raw)
		if err != nil {
			return err
		}
		return a.processResponse(addr, resp, &events)
	}()
	if err != nil {
		a.store.RevertTo(snapshot)
		delete(a.contracts, addr)
		return "", err
	}
	a.store.Commit(snapshot)
	a.emitAll(events)
	return addr, nil
}

// ExecResult carries the committed events of a successful execution.
type ExecResult struct {
	Events []Event
}

// Execute runs a transaction against a contract. On any error the entire
// call tree's writes are reverted and no events are emitted.
func (a *App) Execute(sender, contractAddr string, msg interface{}, funds []Coin) (*ExecResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	snapshot := a.store.Snapshot()
	events := make([]Event, 0)
	if err := a.executeContract(sender, contractAddr, raw, funds, &events); err != nil {
		a.store.RevertTo(snapshot)
		return nil, err
	}
	a.store.Commit(snapshot)
	a.emitAll(events)
	return &ExecResult{Events: events}, nil
}

// Query runs a read-only query against a contract and unmarshals the result
// into out when non-nil.
func (a *App) Query(contractAddr string, msg interface{}, out interface{}) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	contract, ok := a.contracts[contractAddr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, contractAddr)
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	data, err := contract.Query(a.contractContext(contractAddr), raw)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (a *App) executeContract(sender, contractAddr string, raw json.RawMessage, funds []Coin, events *[]Event) error {
	contract, ok := a.contracts[contractAddr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContractNotFound, contractAddr)
	}
	if len(funds) > 0 {
		if err := a.bank.Send(sender, contractAddr, funds); err != nil {
			return err
		}
	}
	resp, err := contract.Execute(a.contractContext(contractAddr), MessageInfo{Sender: sender, Funds: CloneCoins(funds)}, raw)
	if err != nil {
		return err
	}
	return a.processResponse(contractAddr, resp, events)
}

// processResponse records the response attributes and dispatches its
// messages in declaration order, servicing correlated replies before any
// subsequent sibling message.
func (a *App) processResponse(origin string, resp *Response, events *[]Event) error {
	if resp == nil {
		return nil
	}
	if len(resp.Attributes) > 0 {
		*events = append(*events, Event{Contract: origin, Attributes: resp.Attributes})
	}
	for _, sub := range resp.Messages {
		snapshot := a.store.Snapshot()
		data, err := a.dispatchMsg(origin, sub.Msg, events)
		if err != nil {
			if sub.ReplyOn != ReplyOnError {
				return err
			}
			a.store.RevertTo(snapshot)
			if err := a.deliverReply(origin, Reply{ID: sub.ID, Err: err.Error()}, events); err != nil {
				return err
			}
			continue
		}
		a.store.Commit(snapshot)
		if sub.ReplyOn == ReplyOnSuccess {
			if err := a.deliverReply(origin, Reply{ID: sub.ID, Data: data}, events); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) deliverReply(origin string, reply Reply, events *[]Event) error {
	contract, ok := a.contracts[origin]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContractNotFound, origin)
	}
	resp, err := contract.Reply(a.contractContext(origin), reply)
	if err != nil {
		return err
	}
	return a.processResponse(origin, resp, events)
}

// dispatchMsg executes one host message emitted by origin and returns the
// handler's data payload, if any.
func (a *App) dispatchMsg(origin string, msg Msg, events *[]Event) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case msg.Bank != nil:
		if msg.Bank.Send == nil {
			return nil, errors.New("chain: empty bank message")
		}
		return nil, a.bank.Send(origin, msg.Bank.Send.ToAddress, msg.Bank.Send.Amount)
	case msg.Wasm != nil:
		if msg.Wasm.Execute == nil {
			return nil, errors.New("chain: empty wasm message")
		}
		exec := msg.Wasm.Execute
		return nil, a.executeContract(origin, exec.ContractAddr, exec.Msg, exec.Funds, events)
	case msg.TokenFactory != nil:
		return a.dispatchTokenFactory(origin, msg.TokenFactory)
	}
	return nil, errAmbiguousMsg
}

func (a *App) dispatchTokenFactory(origin string, msg *TokenFactoryMsg) ([]byte, error) {
	switch {
	case msg.CreateDenom != nil:
		if msg.CreateDenom.Sender != origin {
			return nil, fmt.Errorf("tokenfactory: sender %s is not the dispatching contract", msg.CreateDenom.Sender)
		}
		denom, err := a.factory.CreateDenom(origin, msg.CreateDenom.Subdenom)
		if err != nil {
			return nil, err
		}
		return json.Marshal(TokenFactoryCreateDenomResponse{NewTokenDenom: denom})
	case msg.Mint != nil:
		if msg.Mint.Sender != origin {
			return nil, fmt.Errorf("tokenfactory: sender %s is not the dispatching contract", msg.Mint.Sender)
		}
		return nil, a.factory.Mint(origin, msg.Mint.Amount)
	case msg.Burn != nil:
		if msg.Burn.Sender != origin {
			return nil, fmt.Errorf("tokenfactory: sender %s is not the dispatching contract", msg.Burn.Sender)
		}
		return nil, a.factory.Burn(origin, msg.Burn.Amount)
	}
	return nil, errors.New("chain: empty token factory message")
}

func (a *App) emitAll(events []Event) {
	for _, event := range events {
		a.emitter.Emit(event)
	}
}

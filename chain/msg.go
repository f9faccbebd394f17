package chain

import (
	"encoding/json"
	"errors"
)

// Msg is the tagged union of host messages a contract may emit. Exactly one
// branch must be set. The JSON form of a []Msg batch is the canonical signing
// preimage shared with the off-chain relayer, so field order and tags here
// are part of the wire contract.
type Msg struct {
	Bank         *BankMsg         `json:"bank,omitempty"`
	Wasm         *WasmMsg         `json:"wasm,omitempty"`
	TokenFactory *TokenFactoryMsg `json:"token_factory,omitempty"`
}

// BankMsg groups bank-module operations.
type BankMsg struct {
	Send *BankSend `json:"send,omitempty"`
}

// BankSend transfers native coins from the emitting contract to ToAddress.
type BankSend struct {
	ToAddress string `json:"to_address"`
	Amount    []Coin `json:"amount"`
}

// WasmMsg groups contract-call operations.
type WasmMsg struct {
	Execute *WasmExecute `json:"execute,omitempty"`
}

// WasmExecute invokes another contract, forwarding Funds from the emitting
// contract's balance.
type WasmExecute struct {
	ContractAddr string          `json:"contract_addr"`
	Msg          json.RawMessage `json:"msg"`
	Funds        []Coin          `json:"funds"`
}

// TokenFactoryMsg groups token-factory operations. Denoms created through the
// factory are owned by the creating contract instance; only the owner may
// mint or burn.
type TokenFactoryMsg struct {
	CreateDenom *TokenFactoryCreateDenom `json:"create_denom,omitempty"`
	Mint        *TokenFactoryMint        `json:"mint,omitempty"`
	Burn        *TokenFactoryBurn        `json:"burn,omitempty"`
}

// TokenFactoryCreateDenom registers factory/<sender>/<subdenom> owned by the
// sender. The handler returns a TokenFactoryCreateDenomResponse as reply
// data; callers must capture the denom from there rather than formatting it
// themselves, since the host normalizes the creator representation.
type TokenFactoryCreateDenom struct {
	Sender   string `json:"sender"`
	Subdenom string `json:"subdenom"`
}

// TokenFactoryCreateDenomResponse is the reply payload of a create-denom
// submessage.
type TokenFactoryCreateDenomResponse struct {
	NewTokenDenom string `json:"new_token_denom"`
}

// TokenFactoryMint mints Amount of a factory denom to the sender's balance.
type TokenFactoryMint struct {
	Sender string `json:"sender"`
	Amount Coin   `json:"amount"`
}

// TokenFactoryBurn burns Amount of a factory denom from the sender's balance.
type TokenFactoryBurn struct {
	Sender string `json:"sender"`
	Amount Coin   `json:"amount"`
}

var errAmbiguousMsg = errors.New("chain: message must set exactly one branch")

// Validate checks that exactly one branch of the union is populated.
func (m Msg) Validate() error {
	set := 0
	if m.Bank != nil {
		set++
	}
	if m.Wasm != nil {
		set++
	}
	if m.TokenFactory != nil {
		set++
	}
	if set != 1 {
		return errAmbiguousMsg
	}
	return nil
}

// CanonicalJSON serializes a message batch into the byte-exact form both the
// relayer and the gateway hash for signing. It is plain encoding/json output;
// no extra key sorting is applied beyond what the codec specifies.
func CanonicalJSON(msgs []Msg) ([]byte, error) {
	return json.Marshal(msgs)
}

package chain

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Coin is a native token amount. Amounts are serialized as decimal strings on
// the wire so that relayer and contract agree byte-for-byte on the canonical
// JSON form.
type Coin struct {
	Denom  string
	Amount *big.Int
}

// NewCoin returns a coin for the given denom and integer amount.
func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: big.NewInt(amount)}
}

// Clone returns a deep copy so callers can mutate the result freely.
func (c Coin) Clone() Coin {
	out := Coin{Denom: c.Denom, Amount: big.NewInt(0)}
	if c.Amount != nil {
		out.Amount.Set(c.Amount)
	}
	return out
}

func (c Coin) String() string {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return amount + c.Denom
}

type coinJSON struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

func (c Coin) MarshalJSON() ([]byte, error) {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return json.Marshal(coinJSON{Denom: c.Denom, Amount: amount})
}

func (c *Coin) UnmarshalJSON(data []byte) error {
	var raw coinJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, ok := new(big.Int).SetString(raw.Amount, 10)
	if !ok {
		return fmt.Errorf("invalid coin amount: %q", raw.Amount)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("negative coin amount: %q", raw.Amount)
	}
	c.Denom = raw.Denom
	c.Amount = amount
	return nil
}

// CloneCoins deep-copies a coin slice.
func CloneCoins(coins []Coin) []Coin {
	if coins == nil {
		return nil
	}
	out := make([]Coin, len(coins))
	for i := range coins {
		out[i] = coins[i].Clone()
	}
	return out
}

// BlockInfo carries the consensus-determined block context for a call.
type BlockInfo struct {
	Height uint64
	Time   uint64 // unix seconds
}

// Env describes the execution environment handed to a contract entry point.
type Env struct {
	Block    BlockInfo
	Contract string // bech32 address of the executing contract instance
}

// MessageInfo identifies the caller and the native funds attached to the call.
// The host credits Funds to the contract's bank balance atomically before the
// entry point runs.
type MessageInfo struct {
	Sender string
	Funds  []Coin
}

// Attribute is a single key/value pair attached to a response. Attribute sets
// form the event contract consumed by off-chain indexers.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attr is shorthand for constructing an Attribute.
func Attr(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// ReplyOn selects when a submessage re-enters the originating contract.
type ReplyOn uint8

const (
	ReplyNever ReplyOn = iota
	ReplyOnSuccess
	ReplyOnError
)

// SubMsg is a message dispatched on behalf of a contract. When ReplyOn is not
// ReplyNever the host invokes the contract's Reply entry point with the
// correlation ID after the message resolves.
type SubMsg struct {
	ID      uint64
	Msg     Msg
	ReplyOn ReplyOn
}

// NewSubMsg wraps a plain fire-and-forget message.
func NewSubMsg(msg Msg) SubMsg {
	return SubMsg{Msg: msg, ReplyOn: ReplyNever}
}

// ReplyOnSuccessMsg wraps a message whose success re-enters the caller.
func ReplyOnSuccessMsg(msg Msg, id uint64) SubMsg {
	return SubMsg{ID: id, Msg: msg, ReplyOn: ReplyOnSuccess}
}

// ReplyOnErrorMsg wraps a message whose failure re-enters the caller instead
// of aborting the transaction.
func ReplyOnErrorMsg(msg Msg, id uint64) SubMsg {
	return SubMsg{ID: id, Msg: msg, ReplyOn: ReplyOnError}
}

// Reply is delivered to the originating contract after a correlated
// submessage resolves. Err is empty on success; Data carries the payload
// returned by the message handler, if any.
type Reply struct {
	ID   uint64
	Err  string
	Data []byte
}

// Response is the result of a successful contract invocation: messages for
// the host to dispatch in declaration order, attributes for the event stream
// and an optional data payload surfaced to reply handlers.
type Response struct {
	Messages   []SubMsg
	Attributes []Attribute
	Data       []byte
}

// NewResponse returns an empty response.
func NewResponse() *Response {
	return &Response{}
}

// AddMessage appends a fire-and-forget message.
func (r *Response) AddMessage(msg Msg) *Response {
	r.Messages = append(r.Messages, NewSubMsg(msg))
	return r
}

// AddSubMessage appends a correlated submessage.
func (r *Response) AddSubMessage(sub SubMsg) *Response {
	r.Messages = append(r.Messages, sub)
	return r
}

// AddAttribute appends a single event attribute.
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attr(key, value))
	return r
}

// AddAttributes appends a batch of event attributes.
func (r *Response) AddAttributes(attrs ...Attribute) *Response {
	r.Attributes = append(r.Attributes, attrs...)
	return r
}

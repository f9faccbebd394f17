package chain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoContract exercises the dispatch loop: its execute message tells it
// which messages to emit and whether to fail.
type echoContract struct {
	replies []Reply
}

type echoExec struct {
	Fail bool   `json:"fail,omitempty"`
	Send *Coin  `json:"send,omitempty"`
	To   string `json:"to,omitempty"`
	// ReplyOn mirrors the SubMsg field for the dispatched bank send.
	ReplyOn ReplyOn `json:"reply_on,omitempty"`
	ID      uint64  `json:"id,omitempty"`
	// Key/Value writes land in contract storage before any dispatch.
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

func (e *echoContract) Instantiate(ctx Context, info MessageInfo, msg json.RawMessage) (*Response, error) {
	return NewResponse().AddAttribute("action", "instantiate"), nil
}

func (e *echoContract) Execute(ctx Context, info MessageInfo, raw json.RawMessage) (*Response, error) {
	var msg echoExec
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	if msg.Key != "" {
		if err := ctx.Store.KVPut([]byte(msg.Key), msg.Value); err != nil {
			return nil, err
		}
	}
	if msg.Fail {
		return nil, errors.New("forced failure")
	}
	resp := NewResponse().AddAttribute("action", "echo")
	if msg.Send != nil {
		send := Msg{Bank: &BankMsg{Send: &BankSend{ToAddress: msg.To, Amount: []Coin{*msg.Send}}}}
		resp.AddSubMessage(SubMsg{ID: msg.ID, Msg: send, ReplyOn: msg.ReplyOn})
	}
	return resp, nil
}

func (e *echoContract) Query(ctx Context, raw json.RawMessage) ([]byte, error) {
	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, err
	}
	var value string
	ok, err := ctx.Store.KVGet([]byte(key), &value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("key not found")
	}
	return json.Marshal(value)
}

func (e *echoContract) Reply(ctx Context, reply Reply) (*Response, error) {
	e.replies = append(e.replies, reply)
	return NewResponse().AddAttribute("action", "reply"), nil
}

func TestExecuteMovesAttachedFunds(t *testing.T) {
	app := NewApp(1000)
	contract := &echoContract{}
	addr, err := app.Instantiate(contract, "osmo1sender", echoExec{}, nil, "echo")
	require.NoError(t, err)

	require.NoError(t, app.FundAccount("osmo1sender", NewCoin("uosmo", 500)))
	_, err = app.Execute("osmo1sender", addr, echoExec{}, []Coin{NewCoin("uosmo", 200)})
	require.NoError(t, err)

	balance, err := app.Bank().Balance(addr, "uosmo")
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance.Int64())
	remaining, err := app.Bank().Balance("osmo1sender", "uosmo")
	require.NoError(t, err)
	assert.Equal(t, int64(300), remaining.Int64())
}

func TestExecuteRevertsEverythingOnError(t *testing.T) {
	app := NewApp(1000)
	contract := &echoContract{}
	addr, err := app.Instantiate(contract, "osmo1sender", echoExec{}, nil, "echo")
	require.NoError(t, err)
	require.NoError(t, app.FundAccount("osmo1sender", NewCoin("uosmo", 500)))

	_, err = app.Execute("osmo1sender", addr, echoExec{Key: "k", Value: "v", Fail: true}, []Coin{NewCoin("uosmo", 100)})
	require.Error(t, err)

	// The attached funds and the storage write are both rolled back.
	balance, err := app.Bank().Balance("osmo1sender", "uosmo")
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance.Int64())
	_, err = app.Query(addr, "k", nil)
	assert.Error(t, err)
}

func TestSubMessageReplyOnError(t *testing.T) {
	app := NewApp(1000)
	contract := &echoContract{}
	addr, err := app.Instantiate(contract, "osmo1sender", echoExec{}, nil, "echo")
	require.NoError(t, err)

	// The contract holds nothing, so the dispatched bank send fails. With
	// ReplyOnError the failure is absorbed and delivered as a reply.
	coin := NewCoin("uosmo", 50)
	_, err = app.Execute("osmo1sender", addr, echoExec{
		Send: &coin, To: "osmo1recipient", ReplyOn: ReplyOnError, ID: 7,
	}, nil)
	require.NoError(t, err)
	require.Len(t, contract.replies, 1)
	assert.Equal(t, uint64(7), contract.replies[0].ID)
	assert.NotEmpty(t, contract.replies[0].Err)
}

func TestSubMessageFailureAbortsWithoutReplyOnError(t *testing.T) {
	app := NewApp(1000)
	contract := &echoContract{}
	addr, err := app.Instantiate(contract, "osmo1sender", echoExec{}, nil, "echo")
	require.NoError(t, err)

	coin := NewCoin("uosmo", 50)
	_, err = app.Execute("osmo1sender", addr, echoExec{Send: &coin, To: "osmo1recipient"}, nil)
	require.Error(t, err)
	assert.Empty(t, contract.replies)
}

func TestEventsEmittedOnlyOnCommit(t *testing.T) {
	app := NewApp(1000)
	emitter := &CollectEmitter{}
	app.SetEmitter(emitter)
	contract := &echoContract{}
	addr, err := app.Instantiate(contract, "osmo1sender", echoExec{}, nil, "echo")
	require.NoError(t, err)
	emitter.Drain()

	_, err = app.Execute("osmo1sender", addr, echoExec{Fail: true}, nil)
	require.Error(t, err)
	assert.Empty(t, emitter.Drain())

	_, err = app.Execute("osmo1sender", addr, echoExec{}, nil)
	require.NoError(t, err)
	events := emitter.Drain()
	require.Len(t, events, 1)
	assert.Equal(t, "echo", events[0].EventType())
}

func TestAdvanceTimeBumpsHeight(t *testing.T) {
	app := NewApp(1000)
	app.AdvanceTime(30)
	assert.Equal(t, uint64(1030), app.BlockTime())
}

func TestMsgValidateExactlyOneBranch(t *testing.T) {
	assert.Error(t, Msg{}.Validate())
	assert.Error(t, Msg{
		Bank: &BankMsg{Send: &BankSend{}},
		Wasm: &WasmMsg{Execute: &WasmExecute{}},
	}.Validate())
	assert.NoError(t, Msg{Bank: &BankMsg{Send: &BankSend{}}}.Validate())
}

func TestCanonicalJSONStable(t *testing.T) {
	msgs := []Msg{{Bank: &BankMsg{Send: &BankSend{
		ToAddress: "osmo1recipient",
		Amount:    []Coin{NewCoin("uosmo", 100000)},
	}}}}
	a, err := CanonicalJSON(msgs)
	require.NoError(t, err)
	b, err := CanonicalJSON(msgs)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), `"amount":"100000"`)
}

func TestTokenFactoryLifecycle(t *testing.T) {
	app := NewApp(1000)
	denom, err := app.TokenFactory().CreateDenom("osmo1creator", "ulp")
	require.NoError(t, err)
	assert.Equal(t, "factory/osmo1creator/ulp", denom)

	_, err = app.TokenFactory().CreateDenom("osmo1creator", "ulp")
	assert.ErrorIs(t, err, ErrDenomExists)

	require.NoError(t, app.TokenFactory().Mint("osmo1creator", NewCoin(denom, 1000)))
	supply, err := app.TokenFactory().TotalSupply(denom)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), supply.Int64())

	err = app.TokenFactory().Mint("osmo1other", NewCoin(denom, 1))
	assert.ErrorIs(t, err, ErrNotDenomOwner)

	require.NoError(t, app.TokenFactory().Burn("osmo1creator", NewCoin(denom, 400)))
	supply, err = app.TokenFactory().TotalSupply(denom)
	require.NoError(t, err)
	assert.Equal(t, int64(600), supply.Int64())
}

func TestOneCoin(t *testing.T) {
	_, err := OneCoin(MessageInfo{})
	assert.ErrorIs(t, err, ErrNoFunds)

	_, err = OneCoin(MessageInfo{Funds: []Coin{NewCoin("a", 1), NewCoin("b", 1)}})
	assert.ErrorIs(t, err, ErrMultipleDenoms)

	coin, err := OneCoin(MessageInfo{Funds: []Coin{NewCoin("uosmo", 5)}})
	require.NoError(t, err)
	assert.Equal(t, "uosmo", coin.Denom)

	_, err = OneCoin(MessageInfo{Funds: []Coin{NewCoin("uosmo", 0)}})
	assert.Error(t, err)
}

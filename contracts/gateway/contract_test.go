package gateway

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osmobridge/chain"
	"osmobridge/contracts/denom"
	"osmobridge/contracts/liquidity"
	"osmobridge/crypto"
	"osmobridge/gov"
)

const (
	alice     = "osmo1alice"
	poolDenom = "uusdc"
	lpSub     = "ulp"
	period    = 20
)

// fixture deploys the full contract triple with an owner derived from a real
// relayer key, the way the daemon bootstraps the bridge.
type fixture struct {
	app   *chain.App
	key   *crypto.PrivateKey
	owner string
	lm    string
	dm    string
	gw    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	key, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	owner, err := crypto.PubKeyToAddress(key.PubKey().Compressed())
	require.NoError(t, err)

	app := chain.NewApp(1000)
	lm, err := app.Instantiate(liquidity.New(), owner, liquidity.InstantiateMsg{
		Denom:           poolDenom,
		LpDenom:         lpSub,
		UnbondingPeriod: period,
	}, nil, "liquidity-manager")
	require.NoError(t, err)
	dm, err := app.Instantiate(denom.New(), owner, denom.InstantiateMsg{}, nil, "denom-manager")
	require.NoError(t, err)
	gw, err := app.Instantiate(New(), owner, InstantiateMsg{
		LiquidityManager: lm,
		DenomManager:     dm,
		PublicKey:        key.PubKey().Compressed(),
	}, nil, "gateway")
	require.NoError(t, err)

	_, err = app.Execute(owner, lm, liquidity.ExecuteMsg{
		GrantRole: &liquidity.RoleMsg{Role: gov.RoleGateway, Addr: gw},
	}, nil)
	require.NoError(t, err)

	return &fixture{app: app, key: key, owner: owner, lm: lm, dm: dm, gw: gw}
}

func (f *fixture) sign(t *testing.T, msgs []chain.Msg) []byte {
	t.Helper()
	preimage, err := chain.CanonicalJSON(msgs)
	require.NoError(t, err)
	sig, err := f.key.SignCompact(crypto.Sha256(preimage))
	require.NoError(t, err)
	return sig
}

func (f *fixture) lpDenom() string {
	return "factory/" + f.lm + "/" + lpSub
}

func (f *fixture) balanceOf(t *testing.T, addr, denom string) int64 {
	t.Helper()
	balance, err := f.app.Bank().Balance(addr, denom)
	require.NoError(t, err)
	return balance.Int64()
}

func TestInstantiateStoresConfig(t *testing.T) {
	f := newFixture(t)

	var cfg ConfigResponse
	_, err := f.app.Query(f.gw, QueryMsg{GetConfig: &GetConfigQuery{}}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, f.owner, cfg.Owner)
	assert.Equal(t, f.lm, cfg.LiquidityManager)
	assert.Equal(t, f.dm, cfg.DenomManager)
	assert.Equal(t, f.key.PubKey().Compressed(), cfg.PublicKey)
}

func TestInstantiateRejectsMismatchedKey(t *testing.T) {
	f := newFixture(t)
	other, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	_, err = f.app.Instantiate(New(), f.owner, InstantiateMsg{
		LiquidityManager: f.lm,
		DenomManager:     f.dm,
		PublicKey:        other.PubKey().Compressed(),
	}, nil, "gateway-bad-key")
	assert.ErrorIs(t, err, ErrInvalidPubKey)

	_, err = f.app.Instantiate(New(), f.owner, InstantiateMsg{
		LiquidityManager: f.lm,
		DenomManager:     f.dm,
		PublicKey:        []byte{0x02, 0x01},
	}, nil, "gateway-short-key")
	assert.ErrorIs(t, err, ErrWrongLength)
}

func TestSendDepositsAndEmitsRouting(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.FundAccount(alice, chain.NewCoin(poolDenom, 100000)))

	res, err := f.app.Execute(alice, f.gw, ExecuteMsg{Send: &SendMsg{
		To:     "0xdeadbeef",
		OpID:   7,
		OpArgs: [][]byte{[]byte("memo")},
	}}, []chain.Coin{chain.NewCoin(poolDenom, 100000)})
	require.NoError(t, err)

	var sendEvent *chain.Event
	for i := range res.Events {
		if res.Events[i].Contract == f.gw {
			sendEvent = &res.Events[i]
		}
	}
	require.NotNil(t, sendEvent)
	attrs := sendEvent.Attributes
	assert.Equal(t, chain.Attr("action", "send"), attrs[0])
	assert.Equal(t, chain.Attr("executor", alice), attrs[1])
	assert.Equal(t, chain.Attr("amount", "100000"+poolDenom), attrs[2])
	assert.Equal(t, chain.Attr("to", "0xdeadbeef"), attrs[3])
	assert.Equal(t, chain.Attr("op_id", "7"), attrs[4])

	// The coin lands on the liquidity manager, booked to the gateway.
	assert.Equal(t, int64(100000), f.balanceOf(t, f.lm, poolDenom))
	var balance liquidity.GetBalanceResponse
	_, err = f.app.Query(f.lm, liquidity.QueryMsg{
		GetBalance: &liquidity.GetBalanceQuery{Depositor: f.gw},
	}, &balance)
	require.NoError(t, err)
	assert.Equal(t, []liquidity.WireCoin{{Denom: poolDenom, Amount: "100000"}}, balance.Assets)
}

func TestSendRequiresExactlyOneCoin(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.FundAccount(alice,
		chain.NewCoin(poolDenom, 100), chain.NewCoin("uosmo", 100)))

	_, err := f.app.Execute(alice, f.gw, ExecuteMsg{Send: &SendMsg{To: "0x1"}}, nil)
	assert.ErrorIs(t, err, ErrMustPayOne)

	_, err = f.app.Execute(alice, f.gw, ExecuteMsg{Send: &SendMsg{To: "0x1"}},
		[]chain.Coin{chain.NewCoin(poolDenom, 100), chain.NewCoin("uosmo", 100)})
	assert.ErrorIs(t, err, ErrMustPayOne)
}

func TestExecuteBatchVerifiesSignature(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.FundAccount(f.gw, chain.NewCoin(poolDenom, 1000)))
	recipient := crypto.NewContractAddress("recipient", 50)

	msgs := []chain.Msg{{Bank: &chain.BankMsg{Send: &chain.BankSend{
		ToAddress: recipient,
		Amount:    []chain.Coin{chain.NewCoin(poolDenom, 400)},
	}}}}
	sig := f.sign(t, msgs)

	// Only the owner may submit a batch, even a correctly signed one.
	_, err := f.app.Execute(alice, f.gw, ExecuteMsg{
		Execute: &ExecuteBatchMsg{Msgs: msgs, Signature: sig},
	}, nil)
	assert.ErrorIs(t, err, gov.ErrUnauthorized)

	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{
		Execute: &ExecuteBatchMsg{Msgs: msgs, Signature: sig},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(400), f.balanceOf(t, recipient, poolDenom))
}

func TestExecuteBatchRejectsTampering(t *testing.T) {
	f := newFixture(t)
	recipient := crypto.NewContractAddress("recipient", 50)
	msgs := []chain.Msg{{Bank: &chain.BankMsg{Send: &chain.BankSend{
		ToAddress: recipient,
		Amount:    []chain.Coin{chain.NewCoin(poolDenom, 400)},
	}}}}
	sig := f.sign(t, msgs)

	// Tampered message set.
	tampered := []chain.Msg{{Bank: &chain.BankMsg{Send: &chain.BankSend{
		ToAddress: recipient,
		Amount:    []chain.Coin{chain.NewCoin(poolDenom, 9999)},
	}}}}
	_, err := f.app.Execute(f.owner, f.gw, ExecuteMsg{
		Execute: &ExecuteBatchMsg{Msgs: tampered, Signature: sig},
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidPubKey)

	// Tampered signature bytes.
	badSig := append([]byte(nil), sig...)
	badSig[3] ^= 0x01
	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{
		Execute: &ExecuteBatchMsg{Msgs: msgs, Signature: badSig},
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidPubKey)

	// Truncated signature fails the length gate first.
	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{
		Execute: &ExecuteBatchMsg{Msgs: msgs, Signature: sig[:32]},
	}, nil)
	assert.ErrorIs(t, err, ErrWrongLength)
}

func TestTwoStepWithdraw(t *testing.T) {
	f := newFixture(t)
	recipient := crypto.NewContractAddress("recipient", 50)
	require.NoError(t, f.app.FundAccount(alice, chain.NewCoin(poolDenom, 100000)))
	_, err := f.app.Execute(alice, f.gw, ExecuteMsg{Send: &SendMsg{To: "0x1", OpID: 1}},
		[]chain.Coin{chain.NewCoin(poolDenom, 100000)})
	require.NoError(t, err)

	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{Withdraw: &WithdrawMsg{
		To:     recipient,
		Amount: WireCoin{Denom: poolDenom, Amount: "60000"},
	}}, nil)
	require.NoError(t, err)

	// The coin travelled liquidity manager -> gateway -> recipient and the
	// staged context was consumed.
	assert.Equal(t, int64(60000), f.balanceOf(t, recipient, poolDenom))
	assert.Zero(t, f.balanceOf(t, f.gw, poolDenom))
	assert.Equal(t, int64(40000), f.balanceOf(t, f.lm, poolDenom))

	var balance liquidity.GetBalanceResponse
	_, err = f.app.Query(f.lm, liquidity.QueryMsg{
		GetBalance: &liquidity.GetBalanceQuery{Depositor: f.gw},
	}, &balance)
	require.NoError(t, err)
	assert.Equal(t, []liquidity.WireCoin{{Denom: poolDenom, Amount: "40000"}}, balance.Assets)
}

func TestTwoStepWithdrawViaSignedBatch(t *testing.T) {
	f := newFixture(t)
	recipient := crypto.NewContractAddress("recipient", 50)
	require.NoError(t, f.app.FundAccount(alice, chain.NewCoin(poolDenom, 100000)))
	_, err := f.app.Execute(alice, f.gw, ExecuteMsg{Send: &SendMsg{To: "0x1", OpID: 1}},
		[]chain.Coin{chain.NewCoin(poolDenom, 100000)})
	require.NoError(t, err)

	// The relayer-built batch has the gateway execute its own withdraw.
	inner, err := json.Marshal(ExecuteMsg{Withdraw: &WithdrawMsg{
		To:     recipient,
		Amount: WireCoin{Denom: poolDenom, Amount: "100000"},
	}})
	require.NoError(t, err)
	msgs := []chain.Msg{{Wasm: &chain.WasmMsg{Execute: &chain.WasmExecute{
		ContractAddr: f.gw,
		Msg:          inner,
	}}}}
	sig := f.sign(t, msgs)

	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{
		Execute: &ExecuteBatchMsg{Msgs: msgs, Signature: sig},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), f.balanceOf(t, recipient, poolDenom))
}

func TestWithdrawRejectsNonOwner(t *testing.T) {
	f := newFixture(t)
	recipient := crypto.NewContractAddress("recipient", 50)

	_, err := f.app.Execute(alice, f.gw, ExecuteMsg{Withdraw: &WithdrawMsg{
		To:     recipient,
		Amount: WireCoin{Denom: poolDenom, Amount: "1"},
	}}, nil)
	assert.ErrorIs(t, err, gov.ErrUnauthorized)
}

func TestWithdrawContextMustBeFlushed(t *testing.T) {
	store := chain.NewMemKV()
	wctx := WithdrawContext{ToAddress: alice, Denom: poolDenom, Amount: big.NewInt(100)}
	require.NoError(t, setWithdrawInfo(store, wctx))
	assert.ErrorIs(t, setWithdrawInfo(store, wctx), ErrWithdrawNotFlushed)

	taken, err := takeWithdrawInfo(store)
	require.NoError(t, err)
	assert.Equal(t, alice, taken.ToAddress)
	require.NoError(t, setWithdrawInfo(store, wctx))

	uctx := UnbondContext{ToAddress: alice, Denom: poolDenom, Amount: big.NewInt(100)}
	require.NoError(t, setUnbondInfo(store, uctx))
	assert.ErrorIs(t, setUnbondInfo(store, uctx), ErrUnbondNotFlushed)
}

func TestTwoStepUnbond(t *testing.T) {
	f := newFixture(t)
	recipient := crypto.NewContractAddress("recipient", 50)
	lp := f.lpDenom()

	// Put bonded LP under the gateway's name via a signed batch: bond, then
	// start the unbond, both executed by the gateway against the manager.
	require.NoError(t, f.app.FundAccount(f.gw, chain.NewCoin(lp, 5000)))
	bond, err := json.Marshal(liquidity.ExecuteMsg{Bond: &liquidity.BondMsg{}})
	require.NoError(t, err)
	start, err := json.Marshal(liquidity.ExecuteMsg{StartUnbond: &liquidity.StartUnbondMsg{Amount: "5000"}})
	require.NoError(t, err)
	msgs := []chain.Msg{
		{Wasm: &chain.WasmMsg{Execute: &chain.WasmExecute{
			ContractAddr: f.lm,
			Msg:          bond,
			Funds:        []chain.Coin{chain.NewCoin(lp, 5000)},
		}}},
		{Wasm: &chain.WasmMsg{Execute: &chain.WasmExecute{
			ContractAddr: f.lm,
			Msg:          start,
		}}},
	}
	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{
		Execute: &ExecuteBatchMsg{Msgs: msgs, Signature: f.sign(t, msgs)},
	}, nil)
	require.NoError(t, err)

	// Too early: the whole two-step transaction reverts, context included.
	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{Unbond: &UnbondMsg{
		To:       recipient,
		UnbondID: 1,
		Amount:   WireCoin{Denom: lp, Amount: "5000"},
	}}, nil)
	assert.ErrorIs(t, err, liquidity.ErrUnbondingNotFinished)

	f.app.AdvanceTime(period + 1)
	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{Unbond: &UnbondMsg{
		To:       recipient,
		UnbondID: 1,
		Amount:   WireCoin{Denom: lp, Amount: "5000"},
	}}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), f.balanceOf(t, recipient, lp))
	assert.Zero(t, f.balanceOf(t, f.gw, lp))
}

func TestChangeOwnerRotatesKey(t *testing.T) {
	f := newFixture(t)
	nextKey, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	nextOwner, err := crypto.PubKeyToAddress(nextKey.PubKey().Compressed())
	require.NoError(t, err)

	// Key and owner must stay coupled.
	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{ChangeOwner: &ChangeOwnerMsg{
		NewOwner:     nextOwner,
		NewPublicKey: f.key.PubKey().Compressed(),
	}}, nil)
	assert.ErrorIs(t, err, ErrInvalidPubKey)

	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{ChangeOwner: &ChangeOwnerMsg{
		NewOwner:     nextOwner,
		NewPublicKey: nextKey.PubKey().Compressed(),
	}}, nil)
	require.NoError(t, err)

	var cfg ConfigResponse
	_, err = f.app.Query(f.gw, QueryMsg{GetConfig: &GetConfigQuery{}}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, nextOwner, cfg.Owner)
	assert.Equal(t, nextKey.PubKey().Compressed(), cfg.PublicKey)

	// Batches signed with the retired key stop verifying.
	msgs := []chain.Msg{{Bank: &chain.BankMsg{Send: &chain.BankSend{
		ToAddress: alice,
		Amount:    []chain.Coin{chain.NewCoin(poolDenom, 1)},
	}}}}
	_, err = f.app.Execute(nextOwner, f.gw, ExecuteMsg{
		Execute: &ExecuteBatchMsg{Msgs: msgs, Signature: f.sign(t, msgs)},
	}, nil)
	assert.ErrorIs(t, err, ErrInvalidPubKey)
}

func TestChangePublicKeyMustMatchOwner(t *testing.T) {
	f := newFixture(t)
	other, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{ChangePublicKey: &ChangePublicKeyMsg{
		PublicKey: other.PubKey().Compressed(),
	}}, nil)
	assert.ErrorIs(t, err, ErrInvalidPubKey)

	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{ChangePublicKey: &ChangePublicKeyMsg{
		PublicKey: f.key.PubKey().Compressed(),
	}}, nil)
	require.NoError(t, err)
}

func TestChangeManagers(t *testing.T) {
	f := newFixture(t)
	next, err := f.app.Instantiate(denom.New(), f.owner, denom.InstantiateMsg{}, nil, "scratch")
	require.NoError(t, err)

	_, err = f.app.Execute(alice, f.gw, ExecuteMsg{
		ChangeLiquidityManager: &ChangeLiquidityManagerMsg{NewLiquidityManager: next},
	}, nil)
	assert.ErrorIs(t, err, gov.ErrUnauthorized)

	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{
		ChangeLiquidityManager: &ChangeLiquidityManagerMsg{NewLiquidityManager: next},
	}, nil)
	require.NoError(t, err)
	_, err = f.app.Execute(f.owner, f.gw, ExecuteMsg{
		ChangeDenomManager: &ChangeDenomManagerMsg{NewDenomManager: next},
	}, nil)
	require.NoError(t, err)

	var cfg ConfigResponse
	_, err = f.app.Query(f.gw, QueryMsg{GetConfig: &GetConfigQuery{}}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, next, cfg.LiquidityManager)
	assert.Equal(t, next, cfg.DenomManager)
}

func TestPauseBlocksSend(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.FundAccount(alice, chain.NewCoin(poolDenom, 100)))

	_, err := f.app.Execute(f.owner, f.gw, ExecuteMsg{
		Pause: &PauseMsg{ExpiresAt: f.app.BlockTime() + 100},
	}, nil)
	require.NoError(t, err)

	_, err = f.app.Execute(alice, f.gw, ExecuteMsg{Send: &SendMsg{To: "0x1"}},
		[]chain.Coin{chain.NewCoin(poolDenom, 100)})
	assert.ErrorIs(t, err, gov.ErrPaused)

	f.app.AdvanceTime(101)
	_, err = f.app.Execute(alice, f.gw, ExecuteMsg{Send: &SendMsg{To: "0x1"}},
		[]chain.Coin{chain.NewCoin(poolDenom, 100)})
	require.NoError(t, err)
}

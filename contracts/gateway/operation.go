package gateway

import (
	"encoding/json"
	"math/big"

	"osmobridge/chain"
	"osmobridge/contracts/liquidity"
	"osmobridge/crypto"
	"osmobridge/gov"
)

// send accepts exactly one coin, deposits it into the liquidity manager under
// the gateway's own name and emits the routing attributes the off-chain
// relayer indexes. Per-user accounting on the source chain is deliberately
// not kept; correlation with the destination transfer happens via op_id.
func (c *Contract) send(ctx chain.Context, info chain.MessageInfo, msg *SendMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	coin, err := chain.OneCoin(info)
	if err != nil {
		return nil, ErrMustPayOne
	}
	lm, err := loadLiquidityManager(ctx.Store)
	if err != nil {
		return nil, err
	}
	deposit, err := json.Marshal(liquidity.ExecuteMsg{
		Deposit: &liquidity.DepositMsg{Depositor: ctx.Env.Contract},
	})
	if err != nil {
		return nil, err
	}
	opArgs, err := json.Marshal(msg.OpArgs)
	if err != nil {
		return nil, err
	}
	execute := chain.Msg{Wasm: &chain.WasmMsg{Execute: &chain.WasmExecute{
		ContractAddr: lm,
		Msg:          deposit,
		Funds:        chain.CloneCoins(info.Funds),
	}}}
	return chain.NewResponse().
		AddMessage(execute).
		AddAttributes(
			chain.Attr("action", "send"),
			chain.Attr("executor", info.Sender),
			chain.Attr("amount", coin.Amount.String()+coin.Denom),
			chain.Attr("to", msg.To),
			chain.Attr("op_id", formatUint(msg.OpID)),
			chain.Attr("op_args", string(opArgs)),
		), nil
}

// executeBatch verifies the relayer signature over the batch's canonical JSON
// and attaches every message for atomic dispatch by the host.
func (c *Contract) executeBatch(ctx chain.Context, info chain.MessageInfo, msg *ExecuteBatchMsg) (*chain.Response, error) {
	if err := gov.AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	publicKey, err := loadPublicKey(ctx.Store)
	if err != nil {
		return nil, err
	}
	if len(msg.Signature) != SignatureLen {
		return nil, ErrWrongLength
	}
	preimage, err := chain.CanonicalJSON(msg.Msgs)
	if err != nil {
		return nil, err
	}
	digest := crypto.Sha256(preimage)
	verified, err := ctx.Api.Secp256k1Verify(digest, msg.Signature, publicKey)
	if err != nil || !verified {
		return nil, ErrInvalidPubKey
	}
	resp := chain.NewResponse().AddAttributes(
		chain.Attr("action", "execute"),
		chain.Attr("executor", info.Sender),
	)
	for _, m := range msg.Msgs {
		resp.AddMessage(m)
	}
	return resp, nil
}

// assertOwnerOrSelf gates the two-step entry points: they are reached either
// directly by the owner or by the gateway executing a signed batch against
// itself.
func assertOwnerOrSelf(ctx chain.Context, sender string) error {
	if sender == ctx.Env.Contract {
		return nil
	}
	return gov.AssertOwner(ctx.Store, sender)
}

// withdraw stages the recipient and pulls the coin out of the liquidity
// manager as a reply-on-success submessage. The success reply consumes the
// context and forwards the coin; the whole chain commits or reverts as one
// transaction.
func (c *Contract) withdraw(ctx chain.Context, info chain.MessageInfo, msg *WithdrawMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := assertOwnerOrSelf(ctx, info.Sender); err != nil {
		return nil, err
	}
	if err := ctx.Api.ValidateAddress(msg.To); err != nil {
		return nil, err
	}
	amount, ok := new(big.Int).SetString(msg.Amount.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, &gov.InvalidArgumentError{Msg: "withdraw amount must be a positive integer"}
	}
	if err := setWithdrawInfo(ctx.Store, WithdrawContext{
		ToAddress: msg.To,
		Denom:     msg.Amount.Denom,
		Amount:    amount,
	}); err != nil {
		return nil, err
	}
	lm, err := loadLiquidityManager(ctx.Store)
	if err != nil {
		return nil, err
	}
	withdraw, err := json.Marshal(liquidity.ExecuteMsg{
		Withdraw: &liquidity.WithdrawMsg{
			Withdrawer: ctx.Env.Contract,
			Amount:     liquidity.WireCoin{Denom: msg.Amount.Denom, Amount: msg.Amount.Amount},
		},
	})
	if err != nil {
		return nil, err
	}
	execute := chain.Msg{Wasm: &chain.WasmMsg{Execute: &chain.WasmExecute{
		ContractAddr: lm,
		Msg:          withdraw,
	}}}
	return chain.NewResponse().
		AddSubMessage(chain.ReplyOnSuccessMsg(execute, replyWithdrawSuccess)).
		AddAttributes(
			chain.Attr("action", "withdraw"),
			chain.Attr("executor", info.Sender),
			chain.Attr("to", msg.To),
			chain.Attr("amount", amount.String()+msg.Amount.Denom),
		), nil
}

// unbond finalizes a liquidity-manager unbond through the same staged
// two-step pattern, forwarding the released LP tokens to the recipient.
func (c *Contract) unbond(ctx chain.Context, info chain.MessageInfo, msg *UnbondMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := assertOwnerOrSelf(ctx, info.Sender); err != nil {
		return nil, err
	}
	if err := ctx.Api.ValidateAddress(msg.To); err != nil {
		return nil, err
	}
	amount, ok := new(big.Int).SetString(msg.Amount.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, &gov.InvalidArgumentError{Msg: "unbond amount must be a positive integer"}
	}
	if err := setUnbondInfo(ctx.Store, UnbondContext{
		ToAddress: msg.To,
		Denom:     msg.Amount.Denom,
		Amount:    amount,
	}); err != nil {
		return nil, err
	}
	lm, err := loadLiquidityManager(ctx.Store)
	if err != nil {
		return nil, err
	}
	unbond, err := json.Marshal(liquidity.ExecuteMsg{
		Unbond: &liquidity.UnbondMsg{UnbondID: msg.UnbondID},
	})
	if err != nil {
		return nil, err
	}
	execute := chain.Msg{Wasm: &chain.WasmMsg{Execute: &chain.WasmExecute{
		ContractAddr: lm,
		Msg:          unbond,
	}}}
	return chain.NewResponse().
		AddSubMessage(chain.ReplyOnSuccessMsg(execute, replyUnbondSuccess)).
		AddAttributes(
			chain.Attr("action", "unbond"),
			chain.Attr("executor", info.Sender),
			chain.Attr("to", msg.To),
			chain.Attr("unbond_id", formatUint(msg.UnbondID)),
		), nil
}

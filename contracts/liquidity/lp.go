package liquidity

import (
	"math/big"

	"osmobridge/chain"
	"osmobridge/gov"
)

// delegate takes pool-denom inventory and issues LP tokens one to one. The
// mint lands on the contract balance first and is forwarded with a bank send
// so the two messages stay in declaration order on the wire.
func (c *Contract) delegate(ctx chain.Context, info chain.MessageInfo) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	denomInfo, err := loadDenomInfo(ctx.Store)
	if err != nil {
		return nil, err
	}
	coin, err := chain.OneCoin(info)
	if err != nil || coin.Denom != denomInfo.Denom {
		return nil, ErrDelegateAssetNotMatches
	}
	delegated, err := loadDelegateAmount(ctx.Store)
	if err != nil {
		return nil, err
	}
	if err := saveDelegateAmount(ctx.Store, new(big.Int).Add(delegated, coin.Amount)); err != nil {
		return nil, err
	}
	lp := chain.Coin{Denom: denomInfo.LpDenom, Amount: coin.Amount}
	mint := chain.Msg{TokenFactory: &chain.TokenFactoryMsg{Mint: &chain.TokenFactoryMint{
		Sender: ctx.Env.Contract,
		Amount: lp,
	}}}
	send := chain.Msg{Bank: &chain.BankMsg{Send: &chain.BankSend{
		ToAddress: info.Sender,
		Amount:    []chain.Coin{lp},
	}}}
	return chain.NewResponse().
		AddMessage(mint).
		AddMessage(send).
		AddAttributes(
			chain.Attr("action", "delegate"),
			chain.Attr("executor", info.Sender),
			chain.Attr("amount", coin.Amount.String()+coin.Denom),
		), nil
}

// undelegate burns returned LP tokens and releases pool-denom inventory.
func (c *Contract) undelegate(ctx chain.Context, info chain.MessageInfo) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	denomInfo, err := loadDenomInfo(ctx.Store)
	if err != nil {
		return nil, err
	}
	coin, err := chain.OneCoin(info)
	if err != nil || coin.Denom != denomInfo.LpDenom {
		return nil, ErrDelegateAssetNotMatches
	}
	delegated, err := loadDelegateAmount(ctx.Store)
	if err != nil {
		return nil, err
	}
	if delegated.Cmp(coin.Amount) < 0 {
		return nil, ErrInsufficientUndelegateAsset
	}
	if err := saveDelegateAmount(ctx.Store, new(big.Int).Sub(delegated, coin.Amount)); err != nil {
		return nil, err
	}
	burn := chain.Msg{TokenFactory: &chain.TokenFactoryMsg{Burn: &chain.TokenFactoryBurn{
		Sender: ctx.Env.Contract,
		Amount: coin,
	}}}
	send := chain.Msg{Bank: &chain.BankMsg{Send: &chain.BankSend{
		ToAddress: info.Sender,
		Amount:    []chain.Coin{{Denom: denomInfo.Denom, Amount: coin.Amount}},
	}}}
	return chain.NewResponse().
		AddMessage(burn).
		AddMessage(send).
		AddAttributes(
			chain.Attr("action", "undelegate"),
			chain.Attr("executor", info.Sender),
			chain.Attr("amount", coin.Amount.String()+coin.Denom),
		), nil
}

// bond locks attached LP tokens. The bond time is set on the first bond only
// and preserved across top-ups.
func (c *Contract) bond(ctx chain.Context, info chain.MessageInfo) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	denomInfo, err := loadDenomInfo(ctx.Store)
	if err != nil {
		return nil, err
	}
	coin, err := chain.OneCoin(info)
	if err != nil || coin.Denom != denomInfo.LpDenom {
		return nil, ErrDelegateAssetNotMatches
	}
	bondInfo, err := addBond(ctx.Store, ctx.Env.Block.Time, info.Sender, coin.Amount)
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "bond"),
		chain.Attr("executor", info.Sender),
		chain.Attr("amount", coin.Amount.String()+coin.Denom),
		chain.Attr("bonded", bondInfo.Amount.String()),
	), nil
}

func (c *Contract) startUnbond(ctx chain.Context, info chain.MessageInfo, msg *StartUnbondMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	amount, ok := new(big.Int).SetString(msg.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, &gov.InvalidArgumentError{Msg: "unbond amount must be a positive integer"}
	}
	unbond, err := createUnbond(ctx.Store, ctx.Env.Block.Time, info.Sender, amount)
	if err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "start_unbond"),
		chain.Attr("executor", info.Sender),
		chain.Attr("unbond_id", formatUint(unbond.UnbondID)),
		chain.Attr("amount", unbond.Amount.String()),
		chain.Attr("unbond_time", formatUint(unbond.UnbondTime)),
	), nil
}

func (c *Contract) unbond(ctx chain.Context, info chain.MessageInfo, msg *UnbondMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	unbond, err := finishUnbond(ctx.Store, ctx.Env.Block.Time, info.Sender, msg.UnbondID)
	if err != nil {
		return nil, err
	}
	denomInfo, err := loadDenomInfo(ctx.Store)
	if err != nil {
		return nil, err
	}
	send := chain.Msg{Bank: &chain.BankMsg{Send: &chain.BankSend{
		ToAddress: unbond.Owner,
		Amount:    []chain.Coin{{Denom: denomInfo.LpDenom, Amount: unbond.Amount}},
	}}}
	return chain.NewResponse().
		AddMessage(send).
		AddAttributes(
			chain.Attr("action", "unbond"),
			chain.Attr("executor", info.Sender),
			chain.Attr("unbond_id", formatUint(unbond.UnbondID)),
			chain.Attr("amount", unbond.Amount.String()),
		), nil
}

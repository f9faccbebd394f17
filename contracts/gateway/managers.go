package gateway

import (
	"osmobridge/chain"
	"osmobridge/gov"
)

func (c *Contract) changeLiquidityManager(ctx chain.Context, info chain.MessageInfo, msg *ChangeLiquidityManagerMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := gov.AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := ctx.Api.ValidateAddress(msg.NewLiquidityManager); err != nil {
		return nil, err
	}
	if err := saveLiquidityManager(ctx.Store, msg.NewLiquidityManager); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "change_liquidity_manager"),
		chain.Attr("executor", info.Sender),
		chain.Attr("new_liquidity_manager", msg.NewLiquidityManager),
	), nil
}

func (c *Contract) changeDenomManager(ctx chain.Context, info chain.MessageInfo, msg *ChangeDenomManagerMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := gov.AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := ctx.Api.ValidateAddress(msg.NewDenomManager); err != nil {
		return nil, err
	}
	if err := saveDenomManager(ctx.Store, msg.NewDenomManager); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "change_denom_manager"),
		chain.Attr("executor", info.Sender),
		chain.Attr("new_denom_manager", msg.NewDenomManager),
	), nil
}

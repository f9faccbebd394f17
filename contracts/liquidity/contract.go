// Package liquidity implements the liquidity manager: a per-pool deposit
// ledger, LP token issuance through the token factory and a two-phase
// bond/unbond state machine, guarded by the shared governance substrate.
package liquidity

import (
	"encoding/json"
	"math/big"

	"osmobridge/chain"
	"osmobridge/gov"
)

// Reply correlation ids for submessages dispatched by this contract.
const (
	replyCreateDenom     uint64 = 1
	replyWithdrawFailure uint64 = 2
)

// Contract is the liquidity manager instance.
type Contract struct{}

// New returns the liquidity manager contract.
func New() *Contract {
	return &Contract{}
}

// Instantiate stores the initial configuration and dispatches the LP denom
// creation. The full LP denom string is captured later, in the create-denom
// reply.
func (c *Contract) Instantiate(ctx chain.Context, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	if msg.Denom == "" || msg.LpDenom == "" {
		return nil, &gov.InvalidArgumentError{Msg: "denom and lp_denom are required"}
	}
	if err := gov.SetOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := gov.SavePauseInfo(ctx.Store, gov.PauseInfo{}); err != nil {
		return nil, err
	}
	if err := saveDenomInfo(ctx.Store, DenomInfo{Denom: msg.Denom}); err != nil {
		return nil, err
	}
	if err := saveConfig(ctx.Store, ConfigInfo{UnbondingPeriod: msg.UnbondingPeriod}); err != nil {
		return nil, err
	}
	if err := saveDelegateAmount(ctx.Store, big.NewInt(0)); err != nil {
		return nil, err
	}
	createDenom := chain.Msg{TokenFactory: &chain.TokenFactoryMsg{
		CreateDenom: &chain.TokenFactoryCreateDenom{
			Sender:   ctx.Env.Contract,
			Subdenom: msg.LpDenom,
		},
	}}
	return chain.NewResponse().
		AddSubMessage(chain.ReplyOnSuccessMsg(createDenom, replyCreateDenom)).
		AddAttributes(
			chain.Attr("method", "instantiate"),
			chain.Attr("owner", info.Sender),
			chain.Attr("denom", msg.Denom),
		), nil
}

// Execute dispatches a state-mutating message.
func (c *Contract) Execute(ctx chain.Context, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	switch {
	case msg.Deposit != nil:
		return c.deposit(ctx, info, msg.Deposit)
	case msg.Withdraw != nil:
		return c.withdraw(ctx, info, msg.Withdraw)
	case msg.Delegate != nil:
		return c.delegate(ctx, info)
	case msg.Undelegate != nil:
		return c.undelegate(ctx, info)
	case msg.Bond != nil:
		return c.bond(ctx, info)
	case msg.StartUnbond != nil:
		return c.startUnbond(ctx, info, msg.StartUnbond)
	case msg.Unbond != nil:
		return c.unbond(ctx, info, msg.Unbond)
	case msg.ChangeOwner != nil:
		return gov.HandleChangeOwner(ctx, info, msg.ChangeOwner.NewOwner)
	case msg.GrantRole != nil:
		return gov.HandleGrantRole(ctx, info, msg.GrantRole.Role, msg.GrantRole.Addr)
	case msg.RevokeRole != nil:
		return gov.HandleRevokeRole(ctx, info, msg.RevokeRole.Role, msg.RevokeRole.Addr)
	case msg.Pause != nil:
		return gov.HandlePause(ctx, info, msg.Pause.ExpiresAt)
	case msg.Release != nil:
		return gov.HandleRelease(ctx, info)
	case msg.ChangeConfig != nil:
		return c.changeConfig(ctx, info, msg.ChangeConfig)
	}
	return nil, ErrUnknownMessage
}

func (c *Contract) changeConfig(ctx chain.Context, info chain.MessageInfo, msg *ChangeConfigMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := gov.AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := saveConfig(ctx.Store, ConfigInfo{UnbondingPeriod: msg.UnbondingPeriod}); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "change_config"),
		chain.Attr("executor", info.Sender),
		chain.Attr("unbonding_period", formatUint(msg.UnbondingPeriod)),
	), nil
}

// Reply handles submessage completions. The create-denom reply captures the
// full LP denom; the withdraw-failure reply only records the failure, the
// host has already rolled the bank send back.
func (c *Contract) Reply(ctx chain.Context, reply chain.Reply) (*chain.Response, error) {
	switch reply.ID {
	case replyCreateDenom:
		var data chain.TokenFactoryCreateDenomResponse
		if err := json.Unmarshal(reply.Data, &data); err != nil {
			return nil, err
		}
		denomInfo, err := loadDenomInfo(ctx.Store)
		if err != nil {
			return nil, err
		}
		denomInfo.LpDenom = data.NewTokenDenom
		if err := saveDenomInfo(ctx.Store, denomInfo); err != nil {
			return nil, err
		}
		return chain.NewResponse().AddAttributes(
			chain.Attr("action", "register_lp_denom"),
			chain.Attr("lp_denom", data.NewTokenDenom),
		), nil
	case replyWithdrawFailure:
		return chain.NewResponse().AddAttributes(
			chain.Attr("action", "withdraw_submessage_failed"),
			chain.Attr("error", reply.Err),
		), nil
	}
	return nil, &ReplyIDNotFoundError{ID: reply.ID}
}

package liquidity

import (
	"fmt"

	"osmobridge/chain"
	"osmobridge/gov"
)

func (c *Contract) deposit(ctx chain.Context, info chain.MessageInfo, msg *DepositMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if len(info.Funds) == 0 {
		return nil, ErrAssetNotFound
	}
	depositor := info.Sender
	if msg.Depositor != "" {
		if err := ctx.Api.ValidateAddress(msg.Depositor); err != nil {
			return nil, &gov.InvalidArgumentError{Msg: fmt.Sprintf("invalid depositor: %v", err)}
		}
		depositor = msg.Depositor
	}
	if err := depositBalance(ctx.Store, depositor, info.Funds); err != nil {
		return nil, err
	}
	resp := chain.NewResponse().AddAttributes(
		chain.Attr("action", "deposit"),
		chain.Attr("executor", info.Sender),
		chain.Attr("depositor", depositor),
	)
	for _, coin := range info.Funds {
		resp.AddAttribute("amount", coin.Amount.String()+coin.Denom)
	}
	return resp, nil
}

func (c *Contract) withdraw(ctx chain.Context, info chain.MessageInfo, msg *WithdrawMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	withdrawer := info.Sender
	if msg.Withdrawer != "" && msg.Withdrawer != info.Sender {
		// Withdrawing on behalf of another account is restricted to the
		// owner and the gateway, which stages withdraw contexts for
		// relayed operations.
		if err := gov.AssertOwnerOrRole(ctx.Store, gov.RoleGateway, info.Sender); err != nil {
			return nil, err
		}
		if err := ctx.Api.ValidateAddress(msg.Withdrawer); err != nil {
			return nil, &gov.InvalidArgumentError{Msg: fmt.Sprintf("invalid withdrawer: %v", err)}
		}
		withdrawer = msg.Withdrawer
	}
	amount, ok := msg.Amount.BigAmount()
	if !ok || amount.Sign() <= 0 {
		return nil, &gov.InvalidArgumentError{Msg: "withdraw amount must be a positive integer"}
	}
	claim, err := withdrawBalance(ctx.Store, withdrawer, chain.Coin{Denom: msg.Amount.Denom, Amount: amount})
	if err != nil {
		return nil, err
	}
	send := chain.Msg{Bank: &chain.BankMsg{Send: &chain.BankSend{
		ToAddress: withdrawer,
		Amount:    []chain.Coin{claim},
	}}}
	return chain.NewResponse().
		AddSubMessage(chain.ReplyOnErrorMsg(send, replyWithdrawFailure)).
		AddAttributes(
			chain.Attr("action", "withdraw"),
			chain.Attr("executor", info.Sender),
			chain.Attr("withdrawer", withdrawer),
			chain.Attr("amount", claim.Amount.String()+claim.Denom),
		), nil
}

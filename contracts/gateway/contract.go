// Package gateway implements the user-facing bridge contract: it custodies
// deposits in the liquidity manager, emits the cross-chain event contract for
// the relayer and dispatches relayer-signed message batches.
package gateway

import (
	"encoding/json"
	"strconv"

	"osmobridge/chain"
	"osmobridge/gov"
)

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// Reply correlation ids for submessages dispatched by this contract.
const (
	replyWithdrawSuccess uint64 = 1
	replyUnbondSuccess   uint64 = 2
)

// PublicKeyLen is the compressed secp256k1 key length accepted on the wire.
const PublicKeyLen = 33

// SignatureLen is the compact r||s signature length accepted by Execute.
const SignatureLen = 64

// Contract is the gateway instance.
type Contract struct{}

// New returns the gateway contract.
func New() *Contract {
	return &Contract{}
}

// Instantiate stores the sender as owner and couples it to the relayer key:
// the supplied public key must bech32-derive to the sender.
func (c *Contract) Instantiate(ctx chain.Context, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	if err := ctx.Api.ValidateAddress(msg.LiquidityManager); err != nil {
		return nil, err
	}
	if err := ctx.Api.ValidateAddress(msg.DenomManager); err != nil {
		return nil, err
	}
	if err := gov.SetOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := gov.SavePauseInfo(ctx.Store, gov.PauseInfo{}); err != nil {
		return nil, err
	}
	if err := saveLiquidityManager(ctx.Store, msg.LiquidityManager); err != nil {
		return nil, err
	}
	if err := saveDenomManager(ctx.Store, msg.DenomManager); err != nil {
		return nil, err
	}
	if err := c.registerPublicKey(ctx, info.Sender, msg.PublicKey); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("method", "instantiate"),
		chain.Attr("owner", info.Sender),
	), nil
}

// registerPublicKey checks the owner/key coupling and persists the key.
func (c *Contract) registerPublicKey(ctx chain.Context, owner string, pubKey []byte) error {
	if len(pubKey) != PublicKeyLen {
		return ErrWrongLength
	}
	derived, err := ctx.Api.AddressFromPubKey(pubKey)
	if err != nil {
		return ErrInvalidPubKey
	}
	if derived != owner {
		return ErrInvalidPubKey
	}
	return savePublicKey(ctx.Store, pubKey)
}

// Execute dispatches a state-mutating message.
func (c *Contract) Execute(ctx chain.Context, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	switch {
	case msg.ChangeOwner != nil:
		return c.changeOwner(ctx, info, msg.ChangeOwner)
	case msg.ChangePublicKey != nil:
		return c.changePublicKey(ctx, info, msg.ChangePublicKey)
	case msg.ChangeLiquidityManager != nil:
		return c.changeLiquidityManager(ctx, info, msg.ChangeLiquidityManager)
	case msg.ChangeDenomManager != nil:
		return c.changeDenomManager(ctx, info, msg.ChangeDenomManager)
	case msg.Send != nil:
		return c.send(ctx, info, msg.Send)
	case msg.Execute != nil:
		return c.executeBatch(ctx, info, msg.Execute)
	case msg.Withdraw != nil:
		return c.withdraw(ctx, info, msg.Withdraw)
	case msg.Unbond != nil:
		return c.unbond(ctx, info, msg.Unbond)
	case msg.GrantRole != nil:
		return gov.HandleGrantRole(ctx, info, msg.GrantRole.Role, msg.GrantRole.Addr)
	case msg.RevokeRole != nil:
		return gov.HandleRevokeRole(ctx, info, msg.RevokeRole.Role, msg.RevokeRole.Addr)
	case msg.Pause != nil:
		return gov.HandlePause(ctx, info, msg.Pause.ExpiresAt)
	case msg.Release != nil:
		return gov.HandleRelease(ctx, info)
	}
	return nil, ErrUnknownMessage
}

// Query dispatches a read-only message.
func (c *Contract) Query(ctx chain.Context, raw json.RawMessage) ([]byte, error) {
	var msg QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	switch {
	case msg.GetConfig != nil:
		owner, err := gov.Owner(ctx.Store)
		if err != nil {
			return nil, err
		}
		lm, err := loadLiquidityManager(ctx.Store)
		if err != nil {
			return nil, err
		}
		dm, err := loadDenomManager(ctx.Store)
		if err != nil {
			return nil, err
		}
		pubKey, err := loadPublicKey(ctx.Store)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ConfigResponse{
			Owner:            owner,
			LiquidityManager: lm,
			DenomManager:     dm,
			PublicKey:        pubKey,
		})
	}
	return nil, ErrUnknownMessage
}

// Reply finishes the staged two-step flows: it consumes the matching context
// and forwards the recovered coin to the staged recipient.
func (c *Contract) Reply(ctx chain.Context, reply chain.Reply) (*chain.Response, error) {
	switch reply.ID {
	case replyWithdrawSuccess:
		wctx, err := takeWithdrawInfo(ctx.Store)
		if err != nil {
			return nil, err
		}
		send := chain.Msg{Bank: &chain.BankMsg{Send: &chain.BankSend{
			ToAddress: wctx.ToAddress,
			Amount:    []chain.Coin{{Denom: wctx.Denom, Amount: wctx.Amount}},
		}}}
		return chain.NewResponse().
			AddMessage(send).
			AddAttributes(
				chain.Attr("action", "reply_withdraw"),
				chain.Attr("to", wctx.ToAddress),
				chain.Attr("amount", wctx.Amount.String()+wctx.Denom),
			), nil
	case replyUnbondSuccess:
		uctx, err := takeUnbondInfo(ctx.Store)
		if err != nil {
			return nil, err
		}
		send := chain.Msg{Bank: &chain.BankMsg{Send: &chain.BankSend{
			ToAddress: uctx.ToAddress,
			Amount:    []chain.Coin{{Denom: uctx.Denom, Amount: uctx.Amount}},
		}}}
		return chain.NewResponse().
			AddMessage(send).
			AddAttributes(
				chain.Attr("action", "reply_unbond"),
				chain.Attr("to", uctx.ToAddress),
				chain.Attr("amount", uctx.Amount.String()+uctx.Denom),
			), nil
	}
	return nil, &ReplyIDNotFoundError{ID: reply.ID}
}

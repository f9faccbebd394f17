package gateway

import (
	"encoding/hex"

	"osmobridge/chain"
	"osmobridge/gov"
)

// changeOwner transfers ownership and rotates the relayer key in one step.
// The gateway overrides the shared handler because its owner is coupled to
// the key: the new key must derive to the new owner.
func (c *Contract) changeOwner(ctx chain.Context, info chain.MessageInfo, msg *ChangeOwnerMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := gov.AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := c.registerPublicKey(ctx, msg.NewOwner, msg.NewPublicKey); err != nil {
		return nil, err
	}
	if err := gov.SetOwner(ctx.Store, msg.NewOwner); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "change_owner"),
		chain.Attr("executor", info.Sender),
		chain.Attr("new_owner", msg.NewOwner),
		chain.Attr("new_public_key", hex.EncodeToString(msg.NewPublicKey)),
	), nil
}

// changePublicKey rotates the relayer key; the new key must still derive to
// the current owner.
func (c *Contract) changePublicKey(ctx chain.Context, info chain.MessageInfo, msg *ChangePublicKeyMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := gov.AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	owner, err := gov.Owner(ctx.Store)
	if err != nil {
		return nil, err
	}
	if err := c.registerPublicKey(ctx, owner, msg.PublicKey); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "change_public_key"),
		chain.Attr("executor", info.Sender),
		chain.Attr("public_key", hex.EncodeToString(msg.PublicKey)),
	), nil
}

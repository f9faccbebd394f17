// Package denom implements the denom manager: a token-to-alias map used for
// cross-chain denom translation, guarded by the shared governance substrate.
package denom

import (
	"encoding/json"
	"fmt"

	"osmobridge/chain"
	"osmobridge/gov"
)

// Contract is the denom manager instance. All state lives in the
// per-instance store handed in through the call context.
type Contract struct{}

// New returns the denom manager contract.
func New() *Contract {
	return &Contract{}
}

// Instantiate stores the sender as owner with the breaker released.
func (c *Contract) Instantiate(ctx chain.Context, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg InstantiateMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	if err := gov.SetOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := gov.SavePauseInfo(ctx.Store, gov.PauseInfo{}); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("method", "instantiate"),
		chain.Attr("owner", info.Sender),
	), nil
}

// Execute dispatches a state-mutating message.
func (c *Contract) Execute(ctx chain.Context, info chain.MessageInfo, raw json.RawMessage) (*chain.Response, error) {
	var msg ExecuteMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	switch {
	case msg.AddAlias != nil:
		return c.addAlias(ctx, info, msg.AddAlias)
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
	}
	return nil, ErrUnknownMessage
}

func (c *Contract) addAlias(ctx chain.Context, info chain.MessageInfo, msg *AddAliasMsg) (*chain.Response, error) {
	if err := gov.EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := gov.AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := addAlias(ctx.Store, msg.Token, msg.Denom); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "add_alias"),
		chain.Attr("executor", info.Sender),
		chain.Attr("token", msg.Token),
		chain.Attr("denom", msg.Denom),
	), nil
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
		return json.Marshal(ConfigResponse{Owner: owner})
	case msg.Convert != nil:
		alias, err := convert(ctx.Store, msg.Convert.Token)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ConvertResponse{Token: msg.Convert.Token, Alias: alias})
	}
	return nil, ErrUnknownMessage
}

// Reply is never expected; the denom manager dispatches no submessages.
func (c *Contract) Reply(ctx chain.Context, reply chain.Reply) (*chain.Response, error) {
	return nil, fmt.Errorf("denom manager: reply id not found: %d", reply.ID)
}

package gov

import (
	"fmt"

	"osmobridge/chain"
)

// The handlers below implement the governance execute surface shared by all
// bridge contracts. They apply one uniform ordering: pause-check (with lazy
// expiry refresh) first, ownership second, argument validation third, state
// change last. The gateway overrides ChangeOwner because its owner is
// coupled to the relayer public key.

// HandleChangeOwner transfers ownership to newOwner.
func HandleChangeOwner(ctx chain.Context, info chain.MessageInfo, newOwner string) (*chain.Response, error) {
	if err := EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := ctx.Api.ValidateAddress(newOwner); err != nil {
		return nil, &InvalidArgumentError{Msg: fmt.Sprintf("invalid new owner: %v", err)}
	}
	if err := SetOwner(ctx.Store, newOwner); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "change_owner"),
		chain.Attr("executor", info.Sender),
		chain.Attr("new_owner", newOwner),
	), nil
}

// HandleGrantRole grants role to addr.
func HandleGrantRole(ctx chain.Context, info chain.MessageInfo, role, addr string) (*chain.Response, error) {
	if err := EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := GrantRole(ctx.Store, role, addr); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "grant_role"),
		chain.Attr("executor", info.Sender),
		chain.Attr("role", role),
		chain.Attr("addr", addr),
	), nil
}

// HandleRevokeRole revokes role from addr.
func HandleRevokeRole(ctx chain.Context, info chain.MessageInfo, role, addr string) (*chain.Response, error) {
	if err := EnsureNotPaused(ctx.Store, ctx.Env.Block.Time); err != nil {
		return nil, err
	}
	if err := AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := RevokeRole(ctx.Store, role, addr); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "revoke_role"),
		chain.Attr("executor", info.Sender),
		chain.Attr("role", role),
		chain.Attr("addr", addr),
	), nil
}

// HandlePause engages the circuit breaker until expiresAt.
func HandlePause(ctx chain.Context, info chain.MessageInfo, expiresAt uint64) (*chain.Response, error) {
	now := ctx.Env.Block.Time
	if err := EnsureNotPaused(ctx.Store, now); err != nil {
		return nil, err
	}
	if err := AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if expiresAt <= now {
		return nil, &InvalidArgumentError{Msg: "expires_at must be in the future"}
	}
	if err := SavePauseInfo(ctx.Store, PauseInfo{Paused: true, ExpiresAt: expiresAt}); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "pause"),
		chain.Attr("executor", info.Sender),
		chain.Attr("expires_at", fmt.Sprintf("%d", expiresAt)),
	), nil
}

// HandleRelease clears an engaged breaker ahead of its expiry.
func HandleRelease(ctx chain.Context, info chain.MessageInfo) (*chain.Response, error) {
	now := ctx.Env.Block.Time
	if err := EnsurePaused(ctx.Store, now); err != nil {
		return nil, err
	}
	if err := AssertOwner(ctx.Store, info.Sender); err != nil {
		return nil, err
	}
	if err := SavePauseInfo(ctx.Store, PauseInfo{}); err != nil {
		return nil, err
	}
	return chain.NewResponse().AddAttributes(
		chain.Attr("action", "release"),
		chain.Attr("executor", info.Sender),
	), nil
}

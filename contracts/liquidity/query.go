package liquidity

import (
	"encoding/json"
	"strconv"

	"osmobridge/chain"
	"osmobridge/gov"
)

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// Query dispatches a read-only message. Queries never write, so an expired
// pause is reported as unpaused without persisting the cleared state.
func (c *Contract) Query(ctx chain.Context, raw json.RawMessage) ([]byte, error) {
	var msg QueryMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	switch {
	case msg.GetConfig != nil:
		return c.queryConfig(ctx)
	case msg.PauseInfo != nil:
		return c.queryPauseInfo(ctx)
	case msg.GetBalance != nil:
		return c.queryBalance(ctx, msg.GetBalance.Depositor)
	case msg.GetBond != nil:
		return c.queryBond(ctx, msg.GetBond.Bonder)
	case msg.GetUnbond != nil:
		return c.queryUnbond(ctx, msg.GetUnbond.UnbondID)
	case msg.GetUnbondsByOwner != nil:
		return c.queryUnbondsByOwner(ctx, msg.GetUnbondsByOwner.Owner)
	}
	return nil, ErrUnknownMessage
}

func (c *Contract) queryConfig(ctx chain.Context) ([]byte, error) {
	owner, err := gov.Owner(ctx.Store)
	if err != nil {
		return nil, err
	}
	denomInfo, err := loadDenomInfo(ctx.Store)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(ctx.Store)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ConfigResponse{
		Owner:           owner,
		Denom:           denomInfo.Denom,
		LpDenom:         denomInfo.LpDenom,
		UnbondingPeriod: cfg.UnbondingPeriod,
	})
}

func (c *Contract) queryPauseInfo(ctx chain.Context) ([]byte, error) {
	info, err := gov.LoadPauseInfo(ctx.Store)
	if err != nil {
		return nil, err
	}
	if info.Paused && info.ExpiresAt != 0 && info.ExpiresAt <= ctx.Env.Block.Time {
		info = gov.PauseInfo{}
	}
	resp := PauseInfoResponse{Paused: info.Paused}
	if info.Paused {
		expiresAt := info.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	return json.Marshal(resp)
}

func (c *Contract) queryBalance(ctx chain.Context, depositor string) ([]byte, error) {
	coins, err := inquiryBalance(ctx.Store, depositor)
	if err != nil {
		return nil, err
	}
	assets := make([]WireCoin, 0, len(coins))
	for _, coin := range coins {
		assets = append(assets, WireCoin{Denom: coin.Denom, Amount: coin.Amount.String()})
	}
	return json.Marshal(GetBalanceResponse{Depositor: depositor, Assets: assets})
}

func (c *Contract) queryBond(ctx chain.Context, bonder string) ([]byte, error) {
	bondInfo, ok, err := loadBond(ctx.Store, bonder)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnbondingNotStarted
	}
	return json.Marshal(GetBondResponse{
		Amount:   bondInfo.Amount.String(),
		BondTime: bondInfo.BondTime,
	})
}

func (c *Contract) queryUnbond(ctx chain.Context, id uint64) ([]byte, error) {
	unbond, ok, err := loadUnbond(ctx.Store, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnbondingNotStarted
	}
	return json.Marshal(unbondResponse(unbond))
}

func (c *Contract) queryUnbondsByOwner(ctx chain.Context, owner string) ([]byte, error) {
	unbonds, err := unbondsByOwner(ctx.Store, owner)
	if err != nil {
		return nil, err
	}
	resp := GetUnbondsByOwnerResponse{Unbonds: make([]UnbondResponse, 0, len(unbonds))}
	for _, unbond := range unbonds {
		resp.Unbonds = append(resp.Unbonds, unbondResponse(unbond))
	}
	return json.Marshal(resp)
}

func unbondResponse(unbond UnbondInfo) UnbondResponse {
	return UnbondResponse{
		UnbondID:   unbond.UnbondID,
		Owner:      unbond.Owner,
		Amount:     unbond.Amount.String(),
		UnbondTime: unbond.UnbondTime,
	}
}

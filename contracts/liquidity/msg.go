package liquidity

import "math/big"

// InstantiateMsg configures a new liquidity manager. LpDenom is a
// token-factory subdenom; the full denom is captured from the create-denom
// reply, never reconstructed by formatting.
type InstantiateMsg struct {
	Denom           string `json:"denom"`
	LpDenom         string `json:"lp_denom"`
	UnbondingPeriod uint64 `json:"unbonding_period"`
}

// ExecuteMsg is the tagged union of state-mutating calls.
type ExecuteMsg struct {
	Deposit      *DepositMsg      `json:"deposit,omitempty"`
	Withdraw     *WithdrawMsg     `json:"withdraw,omitempty"`
	Delegate     *DelegateMsg     `json:"delegate,omitempty"`
	Undelegate   *UndelegateMsg   `json:"undelegate,omitempty"`
	Bond         *BondMsg         `json:"bond,omitempty"`
	StartUnbond  *StartUnbondMsg  `json:"start_unbond,omitempty"`
	Unbond       *UnbondMsg       `json:"unbond,omitempty"`
	ChangeOwner  *ChangeOwnerMsg  `json:"change_owner,omitempty"`
	GrantRole    *RoleMsg         `json:"grant_role,omitempty"`
	RevokeRole   *RoleMsg         `json:"revoke_role,omitempty"`
	Pause        *PauseMsg        `json:"pause,omitempty"`
	Release      *ReleaseMsg      `json:"release,omitempty"`
	ChangeConfig *ChangeConfigMsg `json:"change_config,omitempty"`
}

// DepositMsg credits the attached funds to Depositor (the sender when
// empty).
type DepositMsg struct {
	Depositor string `json:"depositor,omitempty"`
}

// WithdrawMsg debits Amount from Withdrawer's ledger balance and bank-sends
// it out. Withdrawing on behalf of another account requires the owner or the
// gateway role.
type WithdrawMsg struct {
	Withdrawer string   `json:"withdrawer,omitempty"`
	Amount     WireCoin `json:"amount"`
}

// WireCoin mirrors chain.Coin on the JSON surface with a string amount.
type WireCoin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// BigAmount parses the wire amount.
func (w WireCoin) BigAmount() (*big.Int, bool) {
	return new(big.Int).SetString(w.Amount, 10)
}

// DelegateMsg supplies pool inventory in exchange for freshly minted LP
// tokens. The attached payment must be exactly one coin of the configured
// denom.
type DelegateMsg struct{}

// UndelegateMsg returns LP tokens for pool inventory. The attached payment
// must be exactly one coin of the LP denom.
type UndelegateMsg struct{}

// BondMsg locks the attached LP tokens for yield eligibility.
type BondMsg struct{}

// StartUnbondMsg begins the two-phase return of bonded LP tokens.
type StartUnbondMsg struct {
	Amount string `json:"amount"`
}

// UnbondMsg finalizes an unbond once the unbonding period has elapsed.
type UnbondMsg struct {
	UnbondID uint64 `json:"unbond_id"`
}

// ChangeOwnerMsg transfers ownership.
type ChangeOwnerMsg struct {
	NewOwner string `json:"new_owner"`
}

// RoleMsg grants or revokes a named role.
type RoleMsg struct {
	Role string `json:"role"`
	Addr string `json:"addr"`
}

// PauseMsg engages the circuit breaker until ExpiresAt (unix seconds).
type PauseMsg struct {
	ExpiresAt uint64 `json:"expires_at"`
}

// ReleaseMsg clears the circuit breaker.
type ReleaseMsg struct{}

// ChangeConfigMsg updates the unbonding period.
type ChangeConfigMsg struct {
	UnbondingPeriod uint64 `json:"unbonding_period"`
}

// QueryMsg is the tagged union of read-only calls.
type QueryMsg struct {
	GetConfig         *GetConfigQuery         `json:"get_config,omitempty"`
	PauseInfo         *PauseInfoQuery         `json:"pause_info,omitempty"`
	GetBalance        *GetBalanceQuery        `json:"get_balance,omitempty"`
	GetBond           *GetBondQuery           `json:"get_bond,omitempty"`
	GetUnbond         *GetUnbondQuery         `json:"get_unbond,omitempty"`
	GetUnbondsByOwner *GetUnbondsByOwnerQuery `json:"get_unbonds_by_owner,omitempty"`
}

// GetConfigQuery requests the contract configuration.
type GetConfigQuery struct{}

// PauseInfoQuery requests the circuit-breaker state.
type PauseInfoQuery struct{}

// GetBalanceQuery requests a depositor's ledger balances.
type GetBalanceQuery struct {
	Depositor string `json:"depositor"`
}

// GetBondQuery requests a bonder's bond state.
type GetBondQuery struct {
	Bonder string `json:"bonder"`
}

// GetUnbondQuery requests a single unbond record.
type GetUnbondQuery struct {
	UnbondID uint64 `json:"unbond_id"`
}

// GetUnbondsByOwnerQuery lists an owner's pending unbonds.
type GetUnbondsByOwnerQuery struct {
	Owner string `json:"owner"`
}

// ConfigResponse is the GetConfig result.
type ConfigResponse struct {
	Owner           string `json:"owner"`
	Denom           string `json:"denom"`
	LpDenom         string `json:"lp_denom"`
	UnbondingPeriod uint64 `json:"unbonding_period"`
}

// PauseInfoResponse is the PauseInfo result.
type PauseInfoResponse struct {
	Paused    bool    `json:"paused"`
	ExpiresAt *uint64 `json:"expires_at,omitempty"`
}

// GetBalanceResponse is the GetBalance result.
type GetBalanceResponse struct {
	Depositor string     `json:"depositor"`
	Assets    []WireCoin `json:"assets"`
}

// GetBondResponse is the GetBond result.
type GetBondResponse struct {
	Amount   string `json:"amount"`
	BondTime uint64 `json:"bond_time"`
}

// UnbondResponse describes one pending unbond.
type UnbondResponse struct {
	UnbondID   uint64 `json:"unbond_id"`
	Owner      string `json:"owner"`
	Amount     string `json:"amount"`
	UnbondTime uint64 `json:"unbond_time"`
}

// GetUnbondsByOwnerResponse lists the owner's pending unbonds in id order.
type GetUnbondsByOwnerResponse struct {
	Unbonds []UnbondResponse `json:"unbonds"`
}

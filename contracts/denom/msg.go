package denom

// InstantiateMsg configures a new denom manager instance. The instantiating
// sender becomes the owner.
type InstantiateMsg struct{}

// ExecuteMsg is the tagged union of state-mutating calls. Exactly one branch
// is set per message.
type ExecuteMsg struct {
	AddAlias    *AddAliasMsg    `json:"add_alias,omitempty"`
	ChangeOwner *ChangeOwnerMsg `json:"change_owner,omitempty"`
	GrantRole   *RoleMsg        `json:"grant_role,omitempty"`
	RevokeRole  *RoleMsg        `json:"revoke_role,omitempty"`
	Pause       *PauseMsg       `json:"pause,omitempty"`
	Release     *ReleaseMsg     `json:"release,omitempty"`
}

// AddAliasMsg maps a foreign token identifier to a local denom, overwriting
// any existing alias.
type AddAliasMsg struct {
	Token string `json:"token"`
	Denom string `json:"denom"`
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

// QueryMsg is the tagged union of read-only calls.
type QueryMsg struct {
	GetConfig *GetConfigQuery `json:"get_config,omitempty"`
	Convert   *ConvertQuery   `json:"convert,omitempty"`
}

// GetConfigQuery requests the contract configuration.
type GetConfigQuery struct{}

// ConvertQuery translates a foreign token identifier.
type ConvertQuery struct {
	Token string `json:"token"`
}

// ConfigResponse is the GetConfig result.
type ConfigResponse struct {
	Owner string `json:"owner"`
}

// ConvertResponse is the Convert result.
type ConvertResponse struct {
	Token string `json:"token"`
	Alias string `json:"alias"`
}

package gateway

import "osmobridge/chain"

// InstantiateMsg wires the gateway to its collaborating contracts and
// registers the relayer public key. The key must derive to the sender, who
// becomes owner.
type InstantiateMsg struct {
	LiquidityManager string `json:"liquidity_manager"`
	DenomManager     string `json:"denom_manager"`
	PublicKey        []byte `json:"public_key"`
}

// ExecuteMsg is the tagged union of state-mutating calls.
type ExecuteMsg struct {
	ChangeOwner            *ChangeOwnerMsg            `json:"change_owner,omitempty"`
	ChangePublicKey        *ChangePublicKeyMsg        `json:"change_public_key,omitempty"`
	ChangeLiquidityManager *ChangeLiquidityManagerMsg `json:"change_liquidity_manager,omitempty"`
	ChangeDenomManager     *ChangeDenomManagerMsg     `json:"change_denom_manager,omitempty"`
	Send                   *SendMsg                   `json:"send,omitempty"`
	Execute                *ExecuteBatchMsg           `json:"execute,omitempty"`
	Withdraw               *WithdrawMsg               `json:"withdraw,omitempty"`
	Unbond                 *UnbondMsg                 `json:"unbond,omitempty"`
	GrantRole              *RoleMsg                   `json:"grant_role,omitempty"`
	RevokeRole             *RoleMsg                   `json:"revoke_role,omitempty"`
	Pause                  *PauseMsg                  `json:"pause,omitempty"`
	Release                *ReleaseMsg                `json:"release,omitempty"`
}

// ChangeOwnerMsg transfers ownership together with the relayer key; the new
// key must derive to the new owner.
type ChangeOwnerMsg struct {
	NewOwner     string `json:"new_owner"`
	NewPublicKey []byte `json:"new_public_key"`
}

// ChangePublicKeyMsg rotates the relayer key without transferring ownership;
// the key must derive to the current owner.
type ChangePublicKeyMsg struct {
	PublicKey []byte `json:"public_key"`
}

// ChangeLiquidityManagerMsg repoints the liquidity manager address.
type ChangeLiquidityManagerMsg struct {
	NewLiquidityManager string `json:"new_liquidity_manager"`
}

// ChangeDenomManagerMsg repoints the denom manager address.
type ChangeDenomManagerMsg struct {
	NewDenomManager string `json:"new_denom_manager"`
}

// SendMsg starts a cross-chain transfer: the attached coin is deposited into
// the liquidity manager under the gateway's name and the routing data is
// emitted for the relayer to index.
type SendMsg struct {
	To     string   `json:"to"`
	OpID   uint64   `json:"op_id"`
	OpArgs [][]byte `json:"op_args"`
}

// ExecuteBatchMsg submits a relayer-signed message batch. Signature is the
// 64-byte compact secp256k1 signature over SHA-256 of the batch's canonical
// JSON.
type ExecuteBatchMsg struct {
	Msgs      []chain.Msg `json:"msgs"`
	Signature []byte      `json:"signature"`
}

// WithdrawMsg runs the two-step withdraw: stage the recipient, pull the coin
// out of the liquidity manager, forward it on the success reply.
type WithdrawMsg struct {
	To     string   `json:"to"`
	Amount WireCoin `json:"amount"`
}

// UnbondMsg runs the same two-step pattern for a finished LP unbond.
type UnbondMsg struct {
	To       string   `json:"to"`
	UnbondID uint64   `json:"unbond_id"`
	Amount   WireCoin `json:"amount"`
}

// WireCoin mirrors chain.Coin on the JSON surface with a string amount.
type WireCoin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
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
}

// GetConfigQuery requests the gateway configuration.
type GetConfigQuery struct{}

// ConfigResponse is the GetConfig result.
type ConfigResponse struct {
	Owner            string `json:"owner"`
	LiquidityManager string `json:"liquidity_manager"`
	DenomManager     string `json:"denom_manager"`
	PublicKey        []byte `json:"public_key"`
}

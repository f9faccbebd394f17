package relayer

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"osmobridge/chain"
	"osmobridge/contracts/denom"
	"osmobridge/contracts/gateway"
)

// Host is the chain surface the relayer drives: transaction submission and
// read-only queries. *chain.App satisfies it.
type Host interface {
	Execute(sender, contractAddr string, msg interface{}, funds []chain.Coin) (*chain.ExecResult, error)
	Query(contractAddr string, msg interface{}, out interface{}) ([]byte, error)
}

// Relayer turns indexed send operations into signed withdraw batches on the
// destination gateway. It submits as the gateway owner, which is the address
// its signing key derives to.
type Relayer struct {
	gateway      string
	denomManager string
	signer       *Signer
	host         Host
	log          *slog.Logger
}

// New wires a relayer against a destination gateway. denomManager may be
// empty when source and destination denoms coincide.
func New(gatewayAddr, denomManager string, signer *Signer, host Host, log *slog.Logger) *Relayer {
	if log == nil {
		log = slog.Default()
	}
	return &Relayer{
		gateway:      gatewayAddr,
		denomManager: denomManager,
		signer:       signer,
		host:         host,
		log:          log,
	}
}

// WithdrawBatch builds the message batch that pays amount out to recipient
// through the gateway's two-step withdraw.
func WithdrawBatch(gatewayAddr, recipient string, amount chain.Coin) ([]chain.Msg, error) {
	msg, err := json.Marshal(gateway.ExecuteMsg{
		Withdraw: &gateway.WithdrawMsg{
			To:     recipient,
			Amount: gateway.WireCoin{Denom: amount.Denom, Amount: amount.Amount.String()},
		},
	})
	if err != nil {
		return nil, err
	}
	return []chain.Msg{{Wasm: &chain.WasmMsg{Execute: &chain.WasmExecute{
		ContractAddr: gatewayAddr,
		Msg:          msg,
	}}}}, nil
}

// Relay translates the operation's denom, signs the withdraw batch and
// submits it to the destination gateway.
func (r *Relayer) Relay(op Operation) error {
	amount := op.Amount.Clone()
	translated, err := r.translateDenom(amount.Denom)
	if err != nil {
		return err
	}
	amount.Denom = translated

	msgs, err := WithdrawBatch(r.gateway, op.To, amount)
	if err != nil {
		return err
	}
	signature, err := r.signer.SignBatch(msgs)
	if err != nil {
		return err
	}
	sender, err := r.signer.Address()
	if err != nil {
		return err
	}
	_, err = r.host.Execute(sender, r.gateway, gateway.ExecuteMsg{
		Execute: &gateway.ExecuteBatchMsg{Msgs: msgs, Signature: signature},
	}, nil)
	if err != nil {
		return fmt.Errorf("relay op %d: %w", op.OpID, err)
	}
	r.log.Info("relayed operation",
		"correlation_id", op.ID.String(),
		"op_id", op.OpID,
		"to", op.To,
		"amount", amount.Amount.String()+amount.Denom,
	)
	return nil
}

// ProcessPending drains the indexer and relays every operation, returning the
// first error after attempting all of them.
func (r *Relayer) ProcessPending(ix *Indexer) error {
	var firstErr error
	for _, op := range ix.Drain() {
		if err := r.Relay(op); err != nil {
			r.log.Error("relay failed", "correlation_id", op.ID.String(), "op_id", op.OpID, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Relayer) translateDenom(token string) (string, error) {
	if r.denomManager == "" {
		return token, nil
	}
	var resp denom.ConvertResponse
	_, err := r.host.Query(r.denomManager, denom.QueryMsg{
		Convert: &denom.ConvertQuery{Token: token},
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Alias, nil
}

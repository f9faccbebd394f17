package relayer

import (
	"encoding/json"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"osmobridge/chain"
)

// Operation is one indexed cross-chain send awaiting relay. ID is a local
// correlation id; OpID is the on-chain operation id chosen by the sender.
type Operation struct {
	ID     uuid.UUID
	OpID   uint64
	Sender string
	To     string
	Amount chain.Coin
	OpArgs [][]byte
}

// Indexer consumes the chain event stream and collects gateway send
// operations. It implements chain.Emitter so it can be plugged straight into
// the host runtime.
type Indexer struct {
	mu      sync.Mutex
	gateway string
	log     *slog.Logger
	pending []Operation
}

// NewIndexer watches send events emitted by the given gateway address.
func NewIndexer(gateway string, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{gateway: gateway, log: log}
}

// Emit implements chain.Emitter. Non-send events and events from other
// contracts are ignored.
func (ix *Indexer) Emit(event chain.Event) {
	if event.Contract != ix.gateway || event.EventType() != "send" {
		return
	}
	op, err := decodeSend(event)
	if err != nil {
		ix.log.Error("skipping malformed send event", "err", err)
		return
	}
	ix.mu.Lock()
	ix.pending = append(ix.pending, op)
	ix.mu.Unlock()
	ix.log.Info("indexed send operation",
		"correlation_id", op.ID.String(),
		"op_id", op.OpID,
		"to", op.To,
		"amount", op.Amount.Amount.String()+op.Amount.Denom,
	)
}

// Drain returns the pending operations and clears the queue.
func (ix *Indexer) Drain() []Operation {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ops := ix.pending
	ix.pending = nil
	return ops
}

func decodeSend(event chain.Event) (Operation, error) {
	op := Operation{
		ID:     uuid.New(),
		Sender: event.Attribute("executor"),
		To:     event.Attribute("to"),
	}
	opID, err := strconv.ParseUint(event.Attribute("op_id"), 10, 64)
	if err != nil {
		return Operation{}, err
	}
	op.OpID = opID
	amount, err := parseCoin(event.Attribute("amount"))
	if err != nil {
		return Operation{}, err
	}
	op.Amount = amount
	if raw := event.Attribute("op_args"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &op.OpArgs); err != nil {
			return Operation{}, err
		}
	}
	return op, nil
}

// parseCoin splits the attribute form "<integer><denom>".
func parseCoin(s string) (chain.Coin, error) {
	split := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if split <= 0 {
		return chain.Coin{}, &MalformedAmountError{Value: s}
	}
	amount, ok := new(big.Int).SetString(s[:split], 10)
	if !ok {
		return chain.Coin{}, &MalformedAmountError{Value: s}
	}
	return chain.Coin{Denom: s[split:], Amount: amount}, nil
}

// MalformedAmountError reports an amount attribute that does not parse as
// "<integer><denom>".
type MalformedAmountError struct {
	Value string
}

func (e *MalformedAmountError) Error() string {
	return "relayer: malformed amount attribute: " + e.Value
}

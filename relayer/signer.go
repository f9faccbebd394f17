// Package relayer implements the off-chain side of the bridge: it indexes the
// gateway's cross-chain send events and produces the signed message batches
// the gateway accepts.
package relayer

import (
	"osmobridge/chain"
	"osmobridge/crypto"
)

// Signer holds the relayer key. Its compressed public key must be the one
// registered with the gateway; the gateway owner address derives from it.
type Signer struct {
	key *crypto.PrivateKey
}

// NewSigner wraps an existing relayer key.
func NewSigner(key *crypto.PrivateKey) *Signer {
	return &Signer{key: key}
}

// PublicKey returns the 33-byte compressed public key.
func (s *Signer) PublicKey() []byte {
	return s.key.PubKey().Compressed()
}

// Address returns the bech32 address the public key derives to.
func (s *Signer) Address() (string, error) {
	return s.key.PubKey().Address()
}

// SignBatch produces the compact signature over SHA-256 of the batch's
// canonical JSON, the exact preimage the gateway verifies.
func (s *Signer) SignBatch(msgs []chain.Msg) ([]byte, error) {
	preimage, err := chain.CanonicalJSON(msgs)
	if err != nil {
		return nil, err
	}
	return s.key.SignCompact(crypto.Sha256(preimage))
}

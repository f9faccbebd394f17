package crypto

import (
	"crypto/sha256"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// CompactSignatureLen is the length of a compact r||s secp256k1 signature.
const CompactSignatureLen = 64

// Sha256 returns the SHA-256 digest of data.
func Sha256(data []byte) []byte {
	digest := sha256.Sum256(data)
	return digest[:]
}

// SignCompact signs a 32-byte digest and returns the 64-byte compact r||s
// signature accepted by Secp256k1Verify.
func (k *PrivateKey) SignCompact(digest []byte) ([]byte, error) {
	if len(digest) != sha256.Size {
		return nil, fmt.Errorf("digest must be %d bytes, got %d", sha256.Size, len(digest))
	}
	sig, err := ethcrypto.Sign(digest, k.PrivateKey)
	if err != nil {
		return nil, err
	}
	// Drop the recovery byte; verification uses the registered public key.
	return sig[:CompactSignatureLen], nil
}

// Secp256k1Verify checks a compact signature over a 32-byte digest against a
// compressed public key.
func Secp256k1Verify(digest, signature, pubKey []byte) (bool, error) {
	if len(digest) != sha256.Size {
		return false, fmt.Errorf("digest must be %d bytes, got %d", sha256.Size, len(digest))
	}
	if len(signature) != CompactSignatureLen {
		return false, fmt.Errorf("signature must be %d bytes, got %d", CompactSignatureLen, len(signature))
	}
	if len(pubKey) != CompressedPubKeyLen {
		return false, fmt.Errorf("public key must be %d bytes, got %d", CompressedPubKeyLen, len(pubKey))
	}
	if _, err := ethcrypto.DecompressPubkey(pubKey); err != nil {
		return false, fmt.Errorf("malformed public key: %w", err)
	}
	return ethcrypto.VerifySignature(pubKey, digest, signature), nil
}

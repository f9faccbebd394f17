package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // bech32 address derivation is defined over ripemd160
)

// AddressHRP is the human-readable bech32 prefix for all account and
// contract addresses on the host chain.
const AddressHRP = "osmo"

// CompressedPubKeyLen is the length of a compressed secp256k1 public key.
const CompressedPubKeyLen = 33

// Address is a 20-byte account identifier rendered as a bech32 string.
type Address struct {
	bytes []byte
}

// NewAddress wraps a 20-byte payload.
func NewAddress(b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("address must be 20 bytes, got %d", len(b))
	}
	return Address{bytes: append([]byte(nil), b...)}, nil
}

// String encodes the address with the chain HRP.
func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes, 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(AddressHRP, conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Bytes returns the raw 20-byte payload.
func (a Address) Bytes() []byte {
	return append([]byte(nil), a.bytes...)
}

// DecodeAddress parses a bech32 address and checks the HRP.
func DecodeAddress(addr string) (Address, error) {
	hrp, decoded, err := bech32.Decode(addr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	if hrp != AddressHRP {
		return Address{}, fmt.Errorf("unexpected address prefix %q", hrp)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	return NewAddress(conv)
}

// ValidateAddress reports whether addr is a well-formed account address.
func ValidateAddress(addr string) error {
	_, err := DecodeAddress(addr)
	return err
}

// PubKeyToAddress derives the bech32 account address controlled by a
// compressed secp256k1 public key: bech32(hrp, ripemd160(sha256(pubkey))).
func PubKeyToAddress(compressed []byte) (string, error) {
	if len(compressed) != CompressedPubKeyLen {
		return "", fmt.Errorf("compressed public key must be %d bytes, got %d", CompressedPubKeyLen, len(compressed))
	}
	sha := sha256.Sum256(compressed)
	hasher := ripemd160.New()
	hasher.Write(sha[:])
	addr, err := NewAddress(hasher.Sum(nil))
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

// NewContractAddress derives a deterministic contract-instance address from
// its label and instantiation sequence number.
func NewContractAddress(label string, sequence uint64) string {
	preimage := fmt.Sprintf("contract/%s/%d", label, sequence)
	sha := sha256.Sum256([]byte(preimage))
	hasher := ripemd160.New()
	hasher.Write(sha[:])
	addr, err := NewAddress(hasher.Sum(nil))
	if err != nil {
		panic(err)
	}
	return addr.String()
}

// --- Key management ---

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	*ecdsa.PrivateKey
}

// PublicKey wraps a secp256k1 public key.
type PublicKey struct {
	*ecdsa.PublicKey
}

// GeneratePrivateKey creates a fresh secp256k1 key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(ethcrypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// PrivateKeyFromBytes restores a key from its 32-byte scalar.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the 32-byte scalar.
func (k *PrivateKey) Bytes() []byte {
	return ethcrypto.FromECDSA(k.PrivateKey)
}

// PubKey returns the corresponding public key.
func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

// Compressed returns the 33-byte compressed encoding.
func (k *PublicKey) Compressed() []byte {
	return ethcrypto.CompressPubkey(k.PublicKey)
}

// Address derives the bech32 account address for the key.
func (k *PublicKey) Address() (string, error) {
	return PubKeyToAddress(k.Compressed())
}

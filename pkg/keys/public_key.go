package keys

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

// PublicKey is a secp256k1 public key.
type PublicKey struct {
	key *btcec.PublicKey
}

// PublicKeyFromBytes parses a serialized public key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	pubkey, err := btcec.ParsePubKey(b, btcec.S256())
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "parse public key")
	}
	return PublicKey{key: pubkey}, nil
}

// PublicKeyFromStr parses a hex encoded public key.
func PublicKeyFromStr(s string) (PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "decode hex")
	}
	return PublicKeyFromBytes(b)
}

// Bytes returns the serialized compressed key data.
func (k PublicKey) Bytes() []byte {
	if k.key == nil {
		return nil
	}
	return k.key.SerializeCompressed()
}

// String returns the hex encoded compressed key data.
func (k PublicKey) String() string {
	return hex.EncodeToString(k.Bytes())
}

// IsEmpty returns true if the key was never set.
func (k PublicKey) IsEmpty() bool {
	return k.key == nil
}

// Address returns the address of the public key.
func (k PublicKey) Address() Address {
	return AddressFromPublicKey(k.Bytes())
}

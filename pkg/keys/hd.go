package keys

import (
	"github.com/pkg/errors"
	bip32 "github.com/tyler-smith/go-bip32"
)

// ExtendedKey is a BIP-0032 hierarchical deterministic private key. The CLI uses it to
// derive a family of participant keys (owner, app, airlines) from one seed.
type ExtendedKey struct {
	key *bip32.Key
}

// GenerateExtendedKey creates a master key from a random seed.
func GenerateExtendedKey() (*ExtendedKey, error) {
	seed, err := bip32.NewSeed()
	if err != nil {
		return nil, errors.Wrap(err, "new seed")
	}
	return ExtendedKeyFromSeed(seed)
}

// ExtendedKeyFromSeed creates a master key from a seed.
func ExtendedKeyFromSeed(seed []byte) (*ExtendedKey, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "new master key")
	}
	return &ExtendedKey{key: key}, nil
}

// ExtendedKeyFromStr decodes a key from its base58 text form.
func ExtendedKeyFromStr(s string) (*ExtendedKey, error) {
	key, err := bip32.B58Deserialize(s)
	if err != nil {
		return nil, errors.Wrap(err, "deserialize extended key")
	}
	if !key.IsPrivate {
		return nil, errors.New("Extended key is not private")
	}
	return &ExtendedKey{key: key}, nil
}

// String returns the key formatted as text.
func (k *ExtendedKey) String() string {
	return k.key.B58Serialize()
}

// Child derives the hardened child key at index.
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	child, err := k.key.NewChildKey(bip32.FirstHardenedChild + index)
	if err != nil {
		return nil, errors.Wrapf(err, "derive child %d", index)
	}
	return &ExtendedKey{key: child}, nil
}

// Key returns the private key for this node.
func (k *ExtendedKey) Key() (*Key, error) {
	b := k.key.Key
	switch {
	case len(b) > keyLength:
		b = b[len(b)-keyLength:]
	case len(b) < keyLength:
		padded := make([]byte, keyLength)
		copy(padded[keyLength-len(b):], b)
		b = padded
	}
	return KeyFromBytes(b)
}

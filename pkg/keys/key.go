package keys

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
)

const (
	// keyVersion prefixes the base58check text form of a private key (WIF).
	keyVersion = 0x80

	keyLength = 32
)

var (
	ErrBadKeyLength  = errors.New("Key has invalid length")
	ErrBadKeyVersion = errors.New("Key version unknown")
)

// Key is a secp256k1 private key.
type Key struct {
	key *btcec.PrivateKey
}

// GenerateKey randomly generates a new key.
func GenerateKey() (*Key, error) {
	privkey, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errors.Wrap(err, "generate private key")
	}
	return &Key{key: privkey}, nil
}

// KeyFromBytes creates a key from a set of bytes that represents a 256 bit big-endian
// integer.
func KeyFromBytes(b []byte) (*Key, error) {
	if len(b) != keyLength {
		return nil, ErrBadKeyLength
	}
	privkey, _ := btcec.PrivKeyFromBytes(btcec.S256(), b)
	return &Key{key: privkey}, nil
}

// DecodeKeyString converts WIF (Wallet Import Format) key text to a key.
func DecodeKeyString(s string) (*Key, error) {
	b, version, err := base58.CheckDecode(s)
	if err != nil {
		return nil, errors.Wrap(err, "decode base58")
	}
	if version != keyVersion {
		return nil, ErrBadKeyVersion
	}

	// Compressed WIF keys carry a trailing 0x01 flag.
	if len(b) == keyLength+1 && b[keyLength] == 0x01 {
		b = b[:keyLength]
	}

	return KeyFromBytes(b)
}

// String returns the key data with a checksum, encoded with Base58.
func (k *Key) String() string {
	return base58.CheckEncode(k.Number(), keyVersion)
}

// Number returns 32 bytes representing the 256 bit big-endian integer of the private key.
func (k *Key) Number() []byte {
	b := k.key.Serialize()
	if len(b) == keyLength {
		return b
	}
	result := make([]byte, keyLength)
	copy(result[keyLength-len(b):], b)
	return result
}

// PublicKey returns the public key.
func (k *Key) PublicKey() PublicKey {
	return PublicKey{key: k.key.PubKey()}
}

// Address returns the address of the key's public key.
func (k *Key) Address() Address {
	return k.PublicKey().Address()
}

// Sign returns the signature of the hash for the private key.
func (k *Key) Sign(hash []byte) (Signature, error) {
	sig, err := k.key.Sign(hash)
	if err != nil {
		return Signature{}, errors.Wrap(err, "sign")
	}
	return Signature{sig: sig}, nil
}

package keys

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

const (
	// AddressLength is the size of an address hash.
	AddressLength = 20

	// addressVersion prefixes the base58check text form of an address.
	addressVersion = 0x00
)

var (
	ErrBadAddressLength  = errors.New("Address has invalid length")
	ErrBadAddressVersion = errors.New("Address version unknown")
)

// Address identifies a participant of the ledger. It is the Hash160 of the participant's
// compressed public key.
type Address [AddressLength]byte

// NewAddress copies a 20 byte hash into an Address.
func NewAddress(b []byte) (Address, error) {
	var result Address
	if len(b) != AddressLength {
		return result, ErrBadAddressLength
	}
	copy(result[:], b)
	return result, nil
}

// DecodeAddress decodes the base58check text form of an address.
func DecodeAddress(s string) (Address, error) {
	var result Address
	b, version, err := base58.CheckDecode(s)
	if err != nil {
		return result, errors.Wrap(err, "decode base58")
	}
	if version != addressVersion {
		return result, ErrBadAddressVersion
	}
	return NewAddress(b)
}

// AddressFromPublicKey returns the address of a serialized compressed public key.
func AddressFromPublicKey(pubkey []byte) Address {
	var result Address
	copy(result[:], Hash160(pubkey))
	return result
}

// String returns the base58check text form of the address.
func (a Address) String() string {
	return base58.CheckEncode(a[:], addressVersion)
}

// Bytes returns the hash data for the address.
func (a Address) Bytes() []byte {
	return a[:]
}

// Equal returns true if the parameter has the same value.
func (a Address) Equal(o Address) bool {
	return bytes.Equal(a[:], o[:])
}

// IsEmpty returns true if the address is all zeros.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// MarshalText converts to text. Addresses are used as JSON object keys so the text
// interfaces are implemented instead of the JSON ones.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText converts from text.
func (a *Address) UnmarshalText(text []byte) error {
	decoded, err := DecodeAddress(string(text))
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("address %q", string(text)))
	}
	*a = decoded
	return nil
}

// Hash160 returns RIPEMD160(SHA256(b)).
func Hash160(b []byte) []byte {
	hash256 := sha256.Sum256(b)
	hasher := ripemd160.New()
	hasher.Write(hash256[:])
	return hasher.Sum(nil)
}

// DoubleSha256 returns SHA256(SHA256(b)).
func DoubleSha256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

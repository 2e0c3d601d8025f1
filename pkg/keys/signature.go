package keys

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

// Signature is a DER encoded secp256k1 signature.
type Signature struct {
	sig *btcec.Signature
}

// SignatureFromBytes parses a DER encoded signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	sig, err := btcec.ParseDERSignature(b, btcec.S256())
	if err != nil {
		return Signature{}, errors.Wrap(err, "parse signature")
	}
	return Signature{sig: sig}, nil
}

// SignatureFromStr parses a hex encoded DER signature.
func SignatureFromStr(s string) (Signature, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Signature{}, errors.Wrap(err, "decode hex")
	}
	return SignatureFromBytes(b)
}

// Bytes returns the DER serialized signature.
func (s Signature) Bytes() []byte {
	if s.sig == nil {
		return nil
	}
	return s.sig.Serialize()
}

// String returns the hex encoded DER signature.
func (s Signature) String() string {
	return hex.EncodeToString(s.Bytes())
}

// Verify returns true if the signature is valid for this public key and hash.
func (s Signature) Verify(hash []byte, pubkey PublicKey) bool {
	if s.sig == nil || pubkey.key == nil {
		return false
	}
	return s.sig.Verify(hash, pubkey.key)
}

package inspector

import (
	"context"
	"encoding/json"
	"time"

	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// Request is a signed action submitted by a caller.
type Request struct {
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp uint64          `json:"timestamp"` // Nanoseconds since epoch
	PublicKey string          `json:"public_key"`
	Signature string          `json:"signature"`

	sender   keys.Address
	verified bool
}

// Verify checks the signature and timestamp of the request and sets the sender. A
// timeout of zero disables the timestamp check.
func (r *Request) Verify(ctx context.Context, now time.Time, timeout time.Duration) error {
	ctx, span := trace.StartSpan(ctx, "pkg.inspector.Verify")
	defer span.End()

	if len(r.Action) == 0 {
		return ErrMissingAction
	}

	if timeout > 0 {
		ts := time.Unix(0, int64(r.Timestamp))
		if ts.Before(now.Add(-timeout)) || ts.After(now.Add(timeout)) {
			return errors.Wrapf(ErrStale, "%s", now.Sub(ts))
		}
	}

	pubkey, err := keys.PublicKeyFromStr(r.PublicKey)
	if err != nil {
		return errors.Wrap(ErrBadSignature, err.Error())
	}

	sig, err := keys.SignatureFromStr(r.Signature)
	if err != nil {
		return errors.Wrap(ErrBadSignature, err.Error())
	}

	if !sig.Verify(SigHash(r.Action, r.Payload, r.Timestamp), pubkey) {
		return ErrBadSignature
	}

	r.sender = pubkey.Address()
	r.verified = true
	return nil
}

// Sender returns the address of the key that signed the request. It is empty until the
// request is verified.
func (r *Request) Sender() keys.Address {
	return r.sender
}

// IsVerified returns true once the signature has been checked.
func (r *Request) IsVerified() bool {
	return r.verified
}

// Decode unmarshals the payload into v.
func (r *Request) Decode(v interface{}) error {
	if len(r.Payload) == 0 {
		return errors.Wrap(ErrDecodeFail, "empty payload")
	}

	if err := json.Unmarshal(r.Payload, v); err != nil {
		return errors.Wrap(ErrDecodeFail, err.Error())
	}

	return nil
}

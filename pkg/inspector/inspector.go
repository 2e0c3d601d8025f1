package inspector

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
)

/**
 * Inspector Service
 *
 * What is my purpose?
 * - You look at signed requests that I give you
 * - You tell me who sent them and whether they can be trusted
 * - You give me back the decoded payload
 */

var (
	// ErrDecodeFail Failed to decode a request or its payload
	ErrDecodeFail = errors.New("Failed to decode payload")

	// ErrBadSignature The signature does not match the public key and content
	ErrBadSignature = errors.New("Bad signature")

	// ErrStale The request timestamp is outside the accepted window
	ErrStale = errors.New("Request timestamp out of range")

	// ErrMissingAction The request does not name an action
	ErrMissingAction = errors.New("Request is missing action")
)

// NewRequest builds a signed request for an action. The payload is JSON encoded and the
// timestamp is taken from now.
func NewRequest(ctx context.Context, key *keys.Key, action string, payload interface{},
	now time.Time) (*Request, error) {

	if len(action) == 0 {
		return nil, ErrMissingAction
	}

	var b []byte
	if payload == nil {
		b = []byte("{}")
	} else {
		var err error
		b, err = json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "marshal payload")
		}
	}

	req := &Request{
		Action:    action,
		Payload:   b,
		Timestamp: uint64(now.UnixNano()),
		PublicKey: key.PublicKey().String(),
	}

	sig, err := key.Sign(SigHash(req.Action, req.Payload, req.Timestamp))
	if err != nil {
		return nil, errors.Wrap(err, "sign request")
	}
	req.Signature = sig.String()
	req.sender = key.Address()
	req.verified = true

	return req, nil
}

// SigHash returns the double SHA256 hash that a request signature covers.
func SigHash(action string, payload []byte, timestamp uint64) []byte {
	var buf bytes.Buffer
	buf.WriteString(action)
	buf.WriteByte(0)
	buf.Write(payload)
	buf.WriteByte(0)
	binary.Write(&buf, binary.LittleEndian, timestamp)

	return keys.DoubleSha256(buf.Bytes())
}

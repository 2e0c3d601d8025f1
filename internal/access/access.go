package access

import (
	"fmt"

	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
)

var (
	// ErrPermissionDenied occurs when a caller lacks the capability an operation requires.
	ErrPermissionDenied = errors.New("Permission denied")
)

// Capability names what a caller must hold to invoke an operation.
type Capability uint8

const (
	CapabilityOwner Capability = iota + 1
	CapabilityAuthorized
	CapabilityParticipant
	CapabilityRegistered
)

func (c Capability) String() string {
	switch c {
	case CapabilityOwner:
		return "owner"
	case CapabilityAuthorized:
		return "authorized caller"
	case CapabilityParticipant:
		return "participant"
	case CapabilityRegistered:
		return "registered airline"
	}
	return fmt.Sprintf("capability(%d)", uint8(c))
}

// Authority answers the owner and authorized caller questions.
type Authority interface {
	IsOwner(address keys.Address) bool
	IsAuthorized(address keys.Address) bool
}

// Membership answers the airline questions.
type Membership interface {
	IsAirlineRegistered(address keys.Address) bool
	IsAirlineParticipant(address keys.Address) bool
}

// Permission is the result of a capability check.
type Permission struct {
	Caller     keys.Address
	Capability Capability
	Granted    bool
}

// Err returns nil when the permission was granted, otherwise a *PermissionError.
func (p Permission) Err() error {
	if p.Granted {
		return nil
	}
	return &PermissionError{
		Caller:     p.Caller,
		Capability: p.Capability,
	}
}

// PermissionError describes a denied permission. It matches ErrPermissionDenied.
type PermissionError struct {
	Caller     keys.Address
	Capability Capability
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s : %s is not %s", ErrPermissionDenied, e.Caller, e.Capability)
}

// Cause returns ErrPermissionDenied for errors.Cause.
func (e *PermissionError) Cause() error {
	return ErrPermissionDenied
}

// Is reports whether target is ErrPermissionDenied.
func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// IsPermissionDenied returns true if err was caused by a denied permission.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied) || errors.Cause(err) == ErrPermissionDenied
}

// RequireOwner checks the caller is the owner.
func RequireOwner(a Authority, caller keys.Address) Permission {
	return Permission{
		Caller:     caller,
		Capability: CapabilityOwner,
		Granted:    a.IsOwner(caller),
	}
}

// RequireAuthorized checks the caller is the owner or an authorized caller.
func RequireAuthorized(a Authority, caller keys.Address) Permission {
	return Permission{
		Caller:     caller,
		Capability: CapabilityAuthorized,
		Granted:    a.IsOwner(caller) || a.IsAuthorized(caller),
	}
}

// RequireParticipant checks the caller is a participating airline.
func RequireParticipant(m Membership, caller keys.Address) Permission {
	return Permission{
		Caller:     caller,
		Capability: CapabilityParticipant,
		Granted:    m.IsAirlineParticipant(caller),
	}
}

// RequireRegistered checks the caller is a registered airline.
func RequireRegistered(m Membership, caller keys.Address) Permission {
	return Permission{
		Caller:     caller,
		Capability: CapabilityRegistered,
		Granted:    m.IsAirlineRegistered(caller),
	}
}

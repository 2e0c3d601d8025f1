package airline

import (
	"context"
	"time"

	"github.com/flightsurety/smart-contract/internal/platform/state"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opencensus.io/trace"
)

// NameSize is the maximum size in bytes of an airline name.
const NameSize = 32

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Airline not found")

	// ErrInvalidName occurs when an airline name does not fit the name field.
	ErrInvalidName = errors.New("Airline name is not in its proper form")

	// ErrInvalidAmount occurs when a funding amount is negative.
	ErrInvalidAmount = errors.New("Amount must not be negative")

	// ErrNotRegistered occurs when funding a record that is not registered.
	ErrNotRegistered = errors.New("Airline not registered")
)

// ValidateName checks the name fits in the fixed size name field.
func ValidateName(name string) error {
	if len(name) > NameSize {
		return errors.Wrapf(ErrInvalidName, "%d bytes", len(name))
	}
	return nil
}

// ValidateAmount checks the amount is not negative.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errors.Wrap(ErrInvalidAmount, amount.String())
	}
	return nil
}

// Create returns a new registered airline with a zero balance.
func Create(ctx context.Context, address keys.Address, nu *NewAirline,
	now time.Time) (*state.Airline, error) {

	ctx, span := trace.StartSpan(ctx, "internal.airline.Create")
	defer span.End()

	if err := ValidateName(nu.Name); err != nil {
		return nil, err
	}

	a := state.Airline{
		Address:    address,
		Name:       nu.Name,
		Registered: true,
		Balance:    decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return &a, nil
}

// Fund adds the amount to the airline's balance. It returns true when the new balance
// reaches the threshold and the airline becomes a participant.
func Fund(ctx context.Context, a *state.Airline, upd *FundAirline, now time.Time) (bool, error) {
	ctx, span := trace.StartSpan(ctx, "internal.airline.Fund")
	defer span.End()

	if err := ValidateAmount(upd.Amount); err != nil {
		return false, err
	}

	if !a.Registered {
		return false, errors.Wrap(ErrNotRegistered, a.Address.String())
	}

	a.Balance = a.Balance.Add(upd.Amount)
	a.UpdatedAt = now

	if a.IsParticipant || a.Balance.LessThan(upd.Threshold) {
		return false, nil
	}

	a.IsParticipant = true
	return true, nil
}

package ledger

import (
	"context"
	"sync"

	"github.com/flightsurety/smart-contract/internal/access"
	"github.com/flightsurety/smart-contract/internal/airline"
	"github.com/flightsurety/smart-contract/internal/platform/db"
	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/internal/platform/node"
	"github.com/flightsurety/smart-contract/internal/platform/state"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opencensus.io/trace"
)

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Ledger not found")

	// ErrNotOperational occurs when a mutation is attempted while the ledger is paused.
	ErrNotOperational = errors.New("Ledger is not operational")

	// ErrInvalidThreshold occurs when the funding threshold is not positive.
	ErrInvalidThreshold = errors.New("Funding threshold must be positive")

	// ErrInvalidAddress occurs when a mutation names the empty address.
	ErrInvalidAddress = errors.New("Invalid address")
)

// Ledger is the data contract. It owns the ledger document and the airline records.
//
// Mutations hold the write lock for the whole operation, build new versions of the
// affected documents, commit them together and only then replace the in memory state.
type Ledger struct {
	dbConn    *db.DB
	threshold decimal.Decimal

	lock     sync.RWMutex
	doc      *state.Ledger
	airlines map[keys.Address]*state.Airline
}

// Load returns the ledger of the owner, creating it when storage holds none. A new
// ledger is operational and has the owner registered as a participating airline.
func Load(ctx context.Context, dbConn *db.DB, owner keys.Address,
	threshold decimal.Decimal) (*Ledger, error) {

	ctx, span := trace.StartSpan(ctx, "internal.ledger.Load")
	defer span.End()

	v := node.GetValues(ctx)

	if !threshold.IsPositive() {
		return nil, errors.Wrap(ErrInvalidThreshold, threshold.String())
	}

	l := &Ledger{
		dbConn:    dbConn,
		threshold: threshold,
		airlines:  make(map[keys.Address]*state.Airline),
	}

	doc, err := Fetch(ctx, dbConn, owner)
	if err == nil {
		airlines, err := airline.List(ctx, dbConn, owner)
		if err != nil {
			return nil, errors.Wrap(err, "list airlines")
		}

		for _, a := range airlines {
			l.airlines[a.Address] = a
		}
		l.doc = doc

		logger.Info(ctx, "%s : Loaded ledger %s at revision %d with %d airlines", v.TraceID,
			owner, doc.Revision, len(airlines))
		return l, nil
	}

	if err != ErrNotFound {
		return nil, errors.Wrap(err, "fetch ledger")
	}

	doc = &state.Ledger{
		Owner:             owner,
		Operational:       true,
		AuthorizedCallers: make(map[keys.Address]bool),
		AirlineCount:      1,
		ParticipantCount:  1,
		CreatedAt:         v.Now,
		UpdatedAt:         v.Now,
	}

	ownerAirline, err := airline.Create(ctx, owner, &airline.NewAirline{}, v.Now)
	if err != nil {
		return nil, errors.Wrap(err, "create owner airline")
	}
	ownerAirline.IsParticipant = true

	tx := dbConn.Begin()
	if err := Stage(tx, doc); err != nil {
		return nil, err
	}
	if err := airline.Stage(tx, owner, ownerAirline); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "commit new ledger")
	}

	l.doc = doc
	l.airlines[owner] = ownerAirline

	logger.Info(ctx, "%s : Created ledger %s", v.TraceID, owner)
	return l, nil
}

// AuthorizeCaller adds the address to the authorized caller registry. Only the owner may
// authorize callers.
func (l *Ledger) AuthorizeCaller(ctx context.Context, caller, address keys.Address) error {
	ctx, span := trace.StartSpan(ctx, "internal.ledger.AuthorizeCaller")
	defer span.End()

	l.lock.Lock()
	defer l.lock.Unlock()

	if !l.doc.Operational {
		return ErrNotOperational
	}

	if err := access.RequireOwner(l.doc, caller).Err(); err != nil {
		return err
	}

	if address.IsEmpty() {
		return ErrInvalidAddress
	}

	if l.doc.AuthorizedCallers[address] {
		return nil
	}

	doc := l.doc.Copy()
	doc.AuthorizedCallers[address] = true

	if err := l.commit(ctx, doc); err != nil {
		return errors.Wrap(err, "authorize caller")
	}

	logger.Info(ctx, "%s : Authorized caller %s", node.GetValues(ctx).TraceID, address)
	return nil
}

// DeauthorizeCaller removes the address from the authorized caller registry.
func (l *Ledger) DeauthorizeCaller(ctx context.Context, caller, address keys.Address) error {
	ctx, span := trace.StartSpan(ctx, "internal.ledger.DeauthorizeCaller")
	defer span.End()

	l.lock.Lock()
	defer l.lock.Unlock()

	if !l.doc.Operational {
		return ErrNotOperational
	}

	if err := access.RequireOwner(l.doc, caller).Err(); err != nil {
		return err
	}

	if address.IsEmpty() {
		return ErrInvalidAddress
	}

	if !l.doc.AuthorizedCallers[address] {
		return nil
	}

	doc := l.doc.Copy()
	delete(doc.AuthorizedCallers, address)

	if err := l.commit(ctx, doc); err != nil {
		return errors.Wrap(err, "deauthorize caller")
	}

	logger.Info(ctx, "%s : Deauthorized caller %s", node.GetValues(ctx).TraceID, address)
	return nil
}

// SetOperatingStatus sets the operational flag. Only the owner may change it and it can
// be changed while the ledger is not operational.
func (l *Ledger) SetOperatingStatus(ctx context.Context, caller keys.Address, operational bool) error {
	ctx, span := trace.StartSpan(ctx, "internal.ledger.SetOperatingStatus")
	defer span.End()

	l.lock.Lock()
	defer l.lock.Unlock()

	if err := access.RequireOwner(l.doc, caller).Err(); err != nil {
		return err
	}

	if l.doc.Operational == operational {
		return nil
	}

	doc := l.doc.Copy()
	doc.Operational = operational

	if err := l.commit(ctx, doc); err != nil {
		return errors.Wrap(err, "set operating status")
	}

	logger.Warn(ctx, "%s : Operational set to %t", node.GetValues(ctx).TraceID, operational)
	return nil
}

// RegisterAirline creates a registered airline record. Registering an address that
// already has a record leaves it unchanged.
func (l *Ledger) RegisterAirline(ctx context.Context, caller, address keys.Address,
	name string) (*state.Airline, error) {

	ctx, span := trace.StartSpan(ctx, "internal.ledger.RegisterAirline")
	defer span.End()

	v := node.GetValues(ctx)

	l.lock.Lock()
	defer l.lock.Unlock()

	if !l.doc.Operational {
		return nil, ErrNotOperational
	}

	if err := access.RequireAuthorized(l.doc, caller).Err(); err != nil {
		return nil, err
	}

	if address.IsEmpty() {
		return nil, ErrInvalidAddress
	}

	if err := airline.ValidateName(name); err != nil {
		return nil, err
	}

	if a, exists := l.airlines[address]; exists {
		logger.Verbose(ctx, "%s : Airline %s already registered", v.TraceID, address)
		return a.Copy(), nil
	}

	a, err := airline.Create(ctx, address, &airline.NewAirline{Name: name}, v.Now)
	if err != nil {
		return nil, err
	}

	doc := l.doc.Copy()
	doc.AirlineCount++

	if err := l.commit(ctx, doc, a); err != nil {
		return nil, errors.Wrap(err, "register airline")
	}

	logger.Info(ctx, "%s : Registered airline %s (%s)", v.TraceID, address, name)
	return a.Copy(), nil
}

// FundAirline adds the amount to the airline's balance and promotes it to participant
// when the balance reaches the funding threshold. Funding an address without a record
// changes nothing.
func (l *Ledger) FundAirline(ctx context.Context, caller, address keys.Address,
	amount decimal.Decimal) error {

	ctx, span := trace.StartSpan(ctx, "internal.ledger.FundAirline")
	defer span.End()

	v := node.GetValues(ctx)

	l.lock.Lock()
	defer l.lock.Unlock()

	if !l.doc.Operational {
		return ErrNotOperational
	}

	if err := access.RequireAuthorized(l.doc, caller).Err(); err != nil {
		return err
	}

	if address.IsEmpty() {
		return ErrInvalidAddress
	}

	if err := airline.ValidateAmount(amount); err != nil {
		return err
	}

	current, exists := l.airlines[address]
	if !exists {
		logger.Verbose(ctx, "%s : Funding ignored for unregistered airline %s", v.TraceID,
			address)
		return nil
	}

	a := current.Copy()
	promoted, err := airline.Fund(ctx, a, &airline.FundAirline{
		Amount:    amount,
		Threshold: l.threshold,
	}, v.Now)
	if err != nil {
		return err
	}

	doc := l.doc.Copy()
	if promoted {
		doc.ParticipantCount++
	}

	if err := l.commit(ctx, doc, a); err != nil {
		return errors.Wrap(err, "fund airline")
	}

	logger.Info(ctx, "%s : Funded airline %s with %s, balance %s", v.TraceID, address,
		amount, a.Balance)
	if promoted {
		logger.Info(ctx, "%s : Airline %s is now a participant", v.TraceID, address)
	}
	return nil
}

// commit writes new versions of the ledger document and the changed airlines, then
// replaces the in memory state. The write lock must be held.
func (l *Ledger) commit(ctx context.Context, doc *state.Ledger, changed ...*state.Airline) error {
	doc.Revision++
	doc.UpdatedAt = node.GetValues(ctx).Now

	tx := l.dbConn.Begin()
	if err := Stage(tx, doc); err != nil {
		return err
	}
	for _, a := range changed {
		if err := airline.Stage(tx, doc.Owner, a); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	l.doc = doc
	for _, a := range changed {
		l.airlines[a.Address] = a
	}
	return nil
}

// -------------------------------------------------------------------------
// Queries

// Owner returns the owner's address.
func (l *Ledger) Owner() keys.Address {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.doc.Owner
}

// IsOwner returns true if the address owns the ledger.
func (l *Ledger) IsOwner(address keys.Address) bool {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.doc.IsOwner(address)
}

// IsAuthorized returns true if the address is in the authorized caller registry.
func (l *Ledger) IsAuthorized(address keys.Address) bool {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.doc.IsAuthorized(address)
}

func (l *Ledger) IsOperational() bool {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.doc.Operational
}

// GetAirlineBalance returns the airline's balance, or zero when it has no record.
func (l *Ledger) GetAirlineBalance(address keys.Address) decimal.Decimal {
	l.lock.RLock()
	defer l.lock.RUnlock()

	a, exists := l.airlines[address]
	if !exists {
		return decimal.Zero
	}
	return a.Balance
}

// GetAirlineCount returns the number of registered airlines, including the owner.
func (l *Ledger) GetAirlineCount() int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.doc.AirlineCount
}

func (l *Ledger) GetParticipantCount() int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.doc.ParticipantCount
}

func (l *Ledger) IsAirlineRegistered(address keys.Address) bool {
	l.lock.RLock()
	defer l.lock.RUnlock()

	a, exists := l.airlines[address]
	return exists && a.Registered
}

func (l *Ledger) IsAirlineParticipant(address keys.Address) bool {
	l.lock.RLock()
	defer l.lock.RUnlock()

	a, exists := l.airlines[address]
	return exists && a.IsParticipant
}

// GetAirline returns a copy of the airline's record, or nil.
func (l *Ledger) GetAirline(address keys.Address) *state.Airline {
	l.lock.RLock()
	defer l.lock.RUnlock()

	a, exists := l.airlines[address]
	if !exists {
		return nil
	}
	return a.Copy()
}

// ListAirlines returns copies of all airline records ordered by registration.
func (l *Ledger) ListAirlines() []*state.Airline {
	l.lock.RLock()
	defer l.lock.RUnlock()

	result := make([]*state.Airline, 0, len(l.airlines))
	for _, a := range l.airlines {
		result = append(result, a.Copy())
	}

	airline.Sort(result)
	return result
}

// Snapshot returns a copy of the ledger document.
func (l *Ledger) Snapshot() *state.Ledger {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.doc.Copy()
}

// FundingThreshold returns the balance at which airlines become participants.
func (l *Ledger) FundingThreshold() decimal.Decimal {
	return l.threshold
}

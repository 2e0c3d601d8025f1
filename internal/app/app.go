package app

import (
	"context"
	"sync"

	"github.com/flightsurety/smart-contract/internal/access"
	"github.com/flightsurety/smart-contract/internal/airline"
	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/db"
	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/internal/platform/node"
	"github.com/flightsurety/smart-contract/internal/platform/state"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opencensus.io/trace"
)

// ErrNameMismatch occurs when a vote names an airline differently than its pending ballot.
var ErrNameMismatch = errors.New("Airline name does not match ballot")

// App is the app facing facade. It is the caller the ledger authorizes, and it applies
// the airline rules before forwarding requests to the ledger.
type App struct {
	dbConn  *db.DB
	ledger  *ledger.Ledger
	config  *node.Config
	address keys.Address

	lock    sync.Mutex
	ballots map[keys.Address]*state.Ballot
}

// New returns the app for an address, loading its pending ballots.
func New(ctx context.Context, dbConn *db.DB, l *ledger.Ledger, address keys.Address,
	config *node.Config) (*App, error) {

	ctx, span := trace.StartSpan(ctx, "internal.app.New")
	defer span.End()

	ballots, err := ListBallots(ctx, dbConn, address)
	if err != nil {
		return nil, errors.Wrap(err, "list ballots")
	}

	a := &App{
		dbConn:  dbConn,
		ledger:  l,
		config:  config,
		address: address,
		ballots: make(map[keys.Address]*state.Ballot),
	}

	for _, b := range ballots {
		a.ballots[b.Airline] = b
	}

	return a, nil
}

// Address returns the address the app calls the ledger with.
func (a *App) Address() keys.Address {
	return a.address
}

// RegisterAirline registers an airline on behalf of a participating airline. Until the
// ledger has MultipartyMinimum participants the registration is forwarded directly.
// After that each call is a vote and the registration is forwarded once the votes reach
// ConsensusPercent of the participants. Every vote must carry the name the ballot was
// opened with. A pending ballot is dropped once the airline is registered by any path.
func (a *App) RegisterAirline(ctx context.Context, sender, address keys.Address,
	name string) (*Registration, error) {

	ctx, span := trace.StartSpan(ctx, "internal.app.RegisterAirline")
	defer span.End()

	v := node.GetValues(ctx)

	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.check(sender, access.RequireParticipant); err != nil {
		return nil, err
	}

	if address.IsEmpty() {
		return nil, ledger.ErrInvalidAddress
	}

	if err := airline.ValidateName(name); err != nil {
		return nil, err
	}

	result := &Registration{Airline: address}

	if a.ledger.IsAirlineRegistered(address) {
		a.clearBallot(ctx, address)
		result.Registered = true
		return result, nil
	}

	participants := a.ledger.GetParticipantCount()
	if participants < a.config.MultipartyMinimum {
		if _, err := a.ledger.RegisterAirline(ctx, a.address, address, name); err != nil {
			return nil, err
		}

		result.Registered = true
		result.Votes = 1
		result.Required = 1
		return result, nil
	}

	ballot, exists := a.ballots[address]
	if exists {
		if ballot.Name != name {
			return nil, errors.Wrapf(ErrNameMismatch, "%s != %s", name, ballot.Name)
		}
		ballot = ballot.Copy()
	} else {
		ballot = &state.Ballot{
			Airline:   address,
			Name:      name,
			CreatedAt: v.Now,
		}
	}

	if !ballot.HasVoted(sender) {
		ballot.Voters = append(ballot.Voters, sender)
		ballot.UpdatedAt = v.Now
	}

	result.Votes = len(ballot.Voters)
	result.Required = RequiredVotes(participants, a.config.ConsensusPercent)

	if result.Votes < result.Required {
		if err := SaveBallot(ctx, a.dbConn, a.address, ballot); err != nil {
			return nil, errors.Wrap(err, "save ballot")
		}
		a.ballots[address] = ballot

		logger.Info(ctx, "%s : Vote from %s for airline %s (%d/%d)", v.TraceID, sender,
			address, result.Votes, result.Required)
		return result, nil
	}

	if _, err := a.ledger.RegisterAirline(ctx, a.address, address, ballot.Name); err != nil {
		return nil, err
	}
	result.Registered = true
	a.clearBallot(ctx, address)

	logger.Info(ctx, "%s : Airline %s registered by consensus (%d/%d)", v.TraceID, address,
		result.Votes, result.Required)
	return result, nil
}

// clearBallot drops the pending ballot of an airline. The lock must be held.
func (a *App) clearBallot(ctx context.Context, address keys.Address) {
	if _, exists := a.ballots[address]; !exists {
		return
	}

	delete(a.ballots, address)
	if err := RemoveBallot(ctx, a.dbConn, a.address, address); err != nil {
		logger.Warn(ctx, "%s : Failed to remove ballot for %s : %s", node.GetValues(ctx).TraceID,
			address, err)
	}
}

// Fund adds the amount to the sender's own balance. The sender must be a registered
// airline.
func (a *App) Fund(ctx context.Context, sender keys.Address, amount decimal.Decimal) error {
	ctx, span := trace.StartSpan(ctx, "internal.app.Fund")
	defer span.End()

	a.lock.Lock()
	defer a.lock.Unlock()

	if err := a.check(sender, access.RequireRegistered); err != nil {
		return err
	}

	return a.ledger.FundAirline(ctx, a.address, sender, amount)
}

// check verifies the ledger accepts mutations from the app and that the sender holds
// the capability.
func (a *App) check(sender keys.Address,
	require func(access.Membership, keys.Address) access.Permission) error {

	if !a.ledger.IsOperational() {
		return ledger.ErrNotOperational
	}

	if err := access.RequireAuthorized(a.ledger, a.address).Err(); err != nil {
		return err
	}

	return require(a.ledger, sender).Err()
}

// Ballot returns a copy of the pending ballot for an airline, or nil.
func (a *App) Ballot(address keys.Address) *state.Ballot {
	a.lock.Lock()
	defer a.lock.Unlock()

	b, exists := a.ballots[address]
	if !exists {
		return nil
	}
	return b.Copy()
}

// -------------------------------------------------------------------------
// Queries

func (a *App) IsOperational() bool {
	return a.ledger.IsOperational()
}

func (a *App) IsAirlineRegistered(address keys.Address) bool {
	return a.ledger.IsAirlineRegistered(address)
}

func (a *App) IsAirlineParticipant(address keys.Address) bool {
	return a.ledger.IsAirlineParticipant(address)
}

func (a *App) GetAirlineBalance(address keys.Address) decimal.Decimal {
	return a.ledger.GetAirlineBalance(address)
}

func (a *App) GetAirlineCount() int {
	return a.ledger.GetAirlineCount()
}

func (a *App) GetParticipantCount() int {
	return a.ledger.GetParticipantCount()
}

// RequiredVotes returns the number of votes that reach percent of participants.
func RequiredVotes(participants, percent int) int {
	required := (participants*percent + 99) / 100
	if required < 1 {
		required = 1
	}
	return required
}

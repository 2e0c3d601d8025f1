package handlers

import (
	"context"

	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/node"
	"github.com/flightsurety/smart-contract/pkg/inspector"

	"go.opencensus.io/trace"
)

// Ledger handles requests made directly to the data contract. The request sender is the
// caller the ledger checks permissions for.
type Ledger struct {
	Ledger *ledger.Ledger
	Config *node.Config
}

// AuthorizeCaller handles an authorize caller request.
func (l *Ledger) AuthorizeCaller(ctx context.Context, req *inspector.Request) (interface{}, error) {
	ctx, span := trace.StartSpan(ctx, "handlers.Ledger.AuthorizeCaller")
	defer span.End()

	var payload AddressRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	if err := l.Ledger.AuthorizeCaller(ctx, req.Sender(), payload.Address); err != nil {
		return nil, err
	}

	return BoolResult{Value: true}, nil
}

// DeauthorizeCaller handles a deauthorize caller request.
func (l *Ledger) DeauthorizeCaller(ctx context.Context, req *inspector.Request) (interface{}, error) {
	ctx, span := trace.StartSpan(ctx, "handlers.Ledger.DeauthorizeCaller")
	defer span.End()

	var payload AddressRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	if err := l.Ledger.DeauthorizeCaller(ctx, req.Sender(), payload.Address); err != nil {
		return nil, err
	}

	return BoolResult{Value: false}, nil
}

// SetOperatingStatus handles a request to pause or resume the ledger.
func (l *Ledger) SetOperatingStatus(ctx context.Context, req *inspector.Request) (interface{}, error) {
	ctx, span := trace.StartSpan(ctx, "handlers.Ledger.SetOperatingStatus")
	defer span.End()

	var payload StatusRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	if err := l.Ledger.SetOperatingStatus(ctx, req.Sender(), payload.Operational); err != nil {
		return nil, err
	}

	return BoolResult{Value: payload.Operational}, nil
}

// RegisterAirline handles a registration by an authorized caller.
func (l *Ledger) RegisterAirline(ctx context.Context, req *inspector.Request) (interface{}, error) {
	ctx, span := trace.StartSpan(ctx, "handlers.Ledger.RegisterAirline")
	defer span.End()

	var payload RegisterRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	return l.Ledger.RegisterAirline(ctx, req.Sender(), payload.Address, payload.Name)
}

// FundAirline handles a funding by an authorized caller.
func (l *Ledger) FundAirline(ctx context.Context, req *inspector.Request) (interface{}, error) {
	ctx, span := trace.StartSpan(ctx, "handlers.Ledger.FundAirline")
	defer span.End()

	var payload FundRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	if err := l.Ledger.FundAirline(ctx, req.Sender(), payload.Address, payload.Amount); err != nil {
		return nil, err
	}

	return BalanceResult{
		Address: payload.Address,
		Balance: l.Ledger.GetAirlineBalance(payload.Address),
	}, nil
}

// -------------------------------------------------------------------------
// Queries

func (l *Ledger) IsOperational(ctx context.Context, req *inspector.Request) (interface{}, error) {
	return BoolResult{Value: l.Ledger.IsOperational()}, nil
}

func (l *Ledger) IsAuthorized(ctx context.Context, req *inspector.Request) (interface{}, error) {
	var payload AddressRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	return BoolResult{Value: l.Ledger.IsAuthorized(payload.Address)}, nil
}

func (l *Ledger) GetAirlineCount(ctx context.Context, req *inspector.Request) (interface{}, error) {
	return CountResult{Count: l.Ledger.GetAirlineCount()}, nil
}

func (l *Ledger) GetParticipantCount(ctx context.Context, req *inspector.Request) (interface{}, error) {
	return CountResult{Count: l.Ledger.GetParticipantCount()}, nil
}

func (l *Ledger) IsAirlineRegistered(ctx context.Context, req *inspector.Request) (interface{}, error) {
	var payload AddressRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	return BoolResult{Value: l.Ledger.IsAirlineRegistered(payload.Address)}, nil
}

func (l *Ledger) IsAirlineParticipant(ctx context.Context, req *inspector.Request) (interface{}, error) {
	var payload AddressRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	return BoolResult{Value: l.Ledger.IsAirlineParticipant(payload.Address)}, nil
}

func (l *Ledger) GetAirlineBalance(ctx context.Context, req *inspector.Request) (interface{}, error) {
	var payload AddressRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	return BalanceResult{
		Address: payload.Address,
		Balance: l.Ledger.GetAirlineBalance(payload.Address),
	}, nil
}

// GetAirline returns the airline record, or null when there is none.
func (l *Ledger) GetAirline(ctx context.Context, req *inspector.Request) (interface{}, error) {
	var payload AddressRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	return l.Ledger.GetAirline(payload.Address), nil
}

func (l *Ledger) ListAirlines(ctx context.Context, req *inspector.Request) (interface{}, error) {
	return l.Ledger.ListAirlines(), nil
}

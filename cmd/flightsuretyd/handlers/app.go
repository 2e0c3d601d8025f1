package handlers

import (
	"context"

	"github.com/flightsurety/smart-contract/internal/app"
	"github.com/flightsurety/smart-contract/internal/platform/metrics"
	"github.com/flightsurety/smart-contract/pkg/inspector"

	"go.opencensus.io/trace"
)

// App handles requests from airlines to the app facade.
type App struct {
	App     *app.App
	Metrics *metrics.Metrics
}

// RegisterAirline handles a registration or vote by a participating airline.
func (a *App) RegisterAirline(ctx context.Context, req *inspector.Request) (interface{}, error) {
	ctx, span := trace.StartSpan(ctx, "handlers.App.RegisterAirline")
	defer span.End()

	var payload RegisterRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	r, err := a.App.RegisterAirline(ctx, req.Sender(), payload.Address, payload.Name)
	if err != nil {
		return nil, err
	}

	if r.Registered && r.Required > 1 && a.Metrics != nil {
		a.Metrics.BallotsFinalized.Inc()
	}

	return r, nil
}

// Fund handles an airline funding itself.
func (a *App) Fund(ctx context.Context, req *inspector.Request) (interface{}, error) {
	ctx, span := trace.StartSpan(ctx, "handlers.App.Fund")
	defer span.End()

	var payload FundRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	if err := a.App.Fund(ctx, req.Sender(), payload.Amount); err != nil {
		return nil, err
	}

	return BalanceResult{
		Address: req.Sender(),
		Balance: a.App.GetAirlineBalance(req.Sender()),
	}, nil
}

// Ballot returns the pending ballot for an airline, or null.
func (a *App) Ballot(ctx context.Context, req *inspector.Request) (interface{}, error) {
	var payload AddressRequest
	if err := req.Decode(&payload); err != nil {
		return nil, err
	}

	return a.App.Ballot(payload.Address), nil
}

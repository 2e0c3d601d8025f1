package handlers

import (
	"github.com/flightsurety/smart-contract/internal/app"
	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/metrics"
	"github.com/flightsurety/smart-contract/internal/platform/node"
	"github.com/flightsurety/smart-contract/internal/platform/protomux"
)

// Ledger actions.
const (
	ActionAuthorizeCaller      = "authorizeCaller"
	ActionDeauthorizeCaller    = "deauthorizeCaller"
	ActionSetOperatingStatus   = "setOperatingStatus"
	ActionRegisterAirline      = "registerAirline"
	ActionFundAirline          = "fundAirline"
	ActionIsOperational        = "isOperational"
	ActionIsAuthorized         = "getAuthorizedContracts"
	ActionGetAirlineCount      = "getAirlineCount"
	ActionGetParticipantCount  = "getParticipantCount"
	ActionIsAirlineRegistered  = "isAirlineRegistered"
	ActionIsAirlineParticipant = "isAirlineParticipant"
	ActionGetAirlineBalance    = "getAirlineBalance"
	ActionGetAirline           = "getAirline"
	ActionListAirlines         = "listAirlines"
)

// App actions.
const (
	ActionAppRegisterAirline = "app.registerAirline"
	ActionAppFund            = "app.fund"
	ActionAppBallot          = "app.ballot"
)

// API returns a handler for a set of routes for ledger and app actions.
func API(l *ledger.Ledger, a *app.App, config *node.Config, m *metrics.Metrics) protomux.Handler {

	api := node.New(RequestLogger, Counts(l, m))

	// Register ledger based actions.
	lh := Ledger{
		Ledger: l,
		Config: config,
	}

	api.Handle(ActionAuthorizeCaller, lh.AuthorizeCaller)
	api.Handle(ActionDeauthorizeCaller, lh.DeauthorizeCaller)
	api.Handle(ActionSetOperatingStatus, lh.SetOperatingStatus)
	api.Handle(ActionRegisterAirline, lh.RegisterAirline)
	api.Handle(ActionFundAirline, lh.FundAirline)
	api.Handle(ActionIsOperational, lh.IsOperational)
	api.Handle(ActionIsAuthorized, lh.IsAuthorized)
	api.Handle(ActionGetAirlineCount, lh.GetAirlineCount)
	api.Handle(ActionGetParticipantCount, lh.GetParticipantCount)
	api.Handle(ActionIsAirlineRegistered, lh.IsAirlineRegistered)
	api.Handle(ActionIsAirlineParticipant, lh.IsAirlineParticipant)
	api.Handle(ActionGetAirlineBalance, lh.GetAirlineBalance)
	api.Handle(ActionGetAirline, lh.GetAirline)
	api.Handle(ActionListAirlines, lh.ListAirlines)

	// Register app based actions.
	ah := App{
		App:     a,
		Metrics: m,
	}

	api.Handle(ActionAppRegisterAirline, ah.RegisterAirline)
	api.Handle(ActionAppFund, ah.Fund)
	api.Handle(ActionAppBallot, ah.Ballot)

	return api
}

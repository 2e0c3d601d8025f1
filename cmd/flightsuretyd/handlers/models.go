package handlers

import (
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/shopspring/decimal"
)

// Payloads

// AddressRequest names an address.
type AddressRequest struct {
	Address keys.Address `json:"address"`
}

// StatusRequest sets the operational flag.
type StatusRequest struct {
	Operational bool `json:"operational"`
}

// RegisterRequest registers an airline.
type RegisterRequest struct {
	Address keys.Address `json:"address"`
	Name    string       `json:"name"`
}

// FundRequest funds an airline. The address is ignored for app funding, where the
// sender funds itself.
type FundRequest struct {
	Address keys.Address    `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// Results

type BoolResult struct {
	Value bool `json:"value"`
}

type CountResult struct {
	Count int `json:"count"`
}

type BalanceResult struct {
	Address keys.Address    `json:"address"`
	Balance decimal.Decimal `json:"balance"`
}

// Response is the body returned for a request.
type Response struct {
	Action  string      `json:"action,omitempty"`
	TraceID string      `json:"trace_id"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

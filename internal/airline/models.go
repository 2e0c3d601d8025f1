package airline

import "github.com/shopspring/decimal"

// NewAirline defines what we require when creating an Airline record.
type NewAirline struct {
	Name string `json:"name"`
}

// FundAirline defines a funding of an existing Airline record.
type FundAirline struct {
	Amount    decimal.Decimal `json:"amount"`
	Threshold decimal.Decimal `json:"threshold"`
}

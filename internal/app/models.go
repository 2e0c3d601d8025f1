package app

import (
	"github.com/flightsurety/smart-contract/pkg/keys"
)

// Registration is the outcome of an airline registration request.
type Registration struct {
	Airline    keys.Address `json:"airline"`
	Registered bool         `json:"registered"`
	Votes      int          `json:"votes"`
	Required   int          `json:"required"`
}

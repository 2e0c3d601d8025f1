package state

import (
	"time"

	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/shopspring/decimal"
)

// Ledger is the data contract document. Airline records are stored separately.
type Ledger struct {
	Owner             keys.Address          `json:"Owner"`
	Operational       bool                  `json:"Operational"`
	AuthorizedCallers map[keys.Address]bool `json:"AuthorizedCallers,omitempty"`
	AirlineCount      int                   `json:"AirlineCount"`
	ParticipantCount  int                   `json:"ParticipantCount"`
	Revision          uint64                `json:"Revision"`
	CreatedAt         time.Time             `json:"CreatedAt"`
	UpdatedAt         time.Time             `json:"UpdatedAt"`
}

// Airline is a registered airline.
type Airline struct {
	Address       keys.Address    `json:"Address"`
	Name          string          `json:"Name"`
	Registered    bool            `json:"Registered"`
	IsParticipant bool            `json:"IsParticipant"`
	Balance       decimal.Decimal `json:"Balance"`
	CreatedAt     time.Time       `json:"CreatedAt"`
	UpdatedAt     time.Time       `json:"UpdatedAt"`
}

// Ballot collects participant votes for a pending airline registration.
type Ballot struct {
	Airline   keys.Address   `json:"Airline"`
	Name      string         `json:"Name"`
	Voters    []keys.Address `json:"Voters"`
	CreatedAt time.Time      `json:"CreatedAt"`
	UpdatedAt time.Time      `json:"UpdatedAt"`
}

// Copy returns a deep copy of the ledger document.
func (l *Ledger) Copy() *Ledger {
	result := *l
	result.AuthorizedCallers = make(map[keys.Address]bool, len(l.AuthorizedCallers))
	for address, authorized := range l.AuthorizedCallers {
		result.AuthorizedCallers[address] = authorized
	}
	return &result
}

// IsAuthorized returns true if the address is in the authorized caller registry.
func (l *Ledger) IsAuthorized(address keys.Address) bool {
	return l.AuthorizedCallers[address]
}

func (a *Airline) Copy() *Airline {
	result := *a
	return &result
}

// HasVoted returns true if the address already voted on the ballot.
func (b *Ballot) HasVoted(address keys.Address) bool {
	for _, voter := range b.Voters {
		if voter.Equal(address) {
			return true
		}
	}
	return false
}

func (b *Ballot) Copy() *Ballot {
	result := *b
	result.Voters = make([]keys.Address, len(b.Voters))
	copy(result.Voters, b.Voters)
	return &result
}

// IsOwner returns true if the address owns the ledger.
func (l *Ledger) IsOwner(address keys.Address) bool {
	return l.Owner.Equal(address)
}

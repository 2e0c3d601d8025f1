package airline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/flightsurety/smart-contract/internal/platform/db"
	"github.com/flightsurety/smart-contract/internal/platform/state"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
)

const (
	storageKey    = "ledgers"
	storageSubKey = "airlines"
)

// Stage adds a single airline to a transaction.
func Stage(tx *db.Tx, ledgerAddress keys.Address, a *state.Airline) error {
	data, err := json.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal airline")
	}

	tx.Put(buildStoragePath(ledgerAddress, a.Address), data)
	return nil
}

// Fetch a single airline from storage
func Fetch(ctx context.Context, dbConn *db.DB, ledgerAddress keys.Address,
	address keys.Address) (*state.Airline, error) {

	b, err := dbConn.Fetch(ctx, buildStoragePath(ledgerAddress, address))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch airline")
	}

	a := state.Airline{}
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal airline")
	}

	return &a, nil
}

// List fetches all airlines of a ledger ordered by creation.
func List(ctx context.Context, dbConn *db.DB, ledgerAddress keys.Address) ([]*state.Airline, error) {
	data, err := dbConn.Search(ctx, fmt.Sprintf("%s/%s/%s", storageKey, ledgerAddress, storageSubKey))
	if err != nil {
		return nil, errors.Wrap(err, "Failed to search airlines")
	}

	result := make([]*state.Airline, 0, len(data))
	for _, b := range data {
		a := state.Airline{}
		if err := json.Unmarshal(b, &a); err != nil {
			return nil, errors.Wrap(err, "Failed to unmarshal airline")
		}
		result = append(result, &a)
	}

	Sort(result)
	return result, nil
}

// Sort orders airlines by creation time then address.
func Sort(airlines []*state.Airline) {
	sort.Slice(airlines, func(i, j int) bool {
		if !airlines[i].CreatedAt.Equal(airlines[j].CreatedAt) {
			return airlines[i].CreatedAt.Before(airlines[j].CreatedAt)
		}
		return airlines[i].Address.String() < airlines[j].Address.String()
	})
}

// Returns the storage path for a given airline.
func buildStoragePath(ledgerAddress, address keys.Address) string {
	return fmt.Sprintf("%s/%s/%s/%s", storageKey, ledgerAddress, storageSubKey, address)
}

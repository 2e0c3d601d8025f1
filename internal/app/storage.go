package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flightsurety/smart-contract/internal/platform/db"
	"github.com/flightsurety/smart-contract/internal/platform/state"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
)

const (
	storageKey    = "apps"
	storageSubKey = "ballots"
)

// SaveBallot puts a single ballot in storage.
func SaveBallot(ctx context.Context, dbConn *db.DB, appAddress keys.Address, b *state.Ballot) error {
	data, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal ballot")
	}

	return dbConn.Put(ctx, buildStoragePath(appAddress, b.Airline), data)
}

// RemoveBallot removes a ballot from storage. A missing ballot is not an error.
func RemoveBallot(ctx context.Context, dbConn *db.DB, appAddress, airline keys.Address) error {
	if err := dbConn.Remove(ctx, buildStoragePath(appAddress, airline)); err != nil && err != db.ErrNotFound {
		return errors.Wrap(err, "Failed to remove ballot")
	}
	return nil
}

// ListBallots fetches all pending ballots of an app.
func ListBallots(ctx context.Context, dbConn *db.DB, appAddress keys.Address) ([]*state.Ballot, error) {
	data, err := dbConn.Search(ctx, fmt.Sprintf("%s/%s/%s", storageKey, appAddress, storageSubKey))
	if err != nil {
		return nil, errors.Wrap(err, "Failed to search ballots")
	}

	result := make([]*state.Ballot, 0, len(data))
	for _, b := range data {
		ballot := state.Ballot{}
		if err := json.Unmarshal(b, &ballot); err != nil {
			return nil, errors.Wrap(err, "Failed to unmarshal ballot")
		}
		result = append(result, &ballot)
	}

	return result, nil
}

// Returns the storage path for a given ballot.
func buildStoragePath(appAddress, airline keys.Address) string {
	return fmt.Sprintf("%s/%s/%s/%s", storageKey, appAddress, storageSubKey, airline)
}

package ledger

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
	storageKey    = "ledgers"
	storageSubKey = "ledger"
)

// Stage adds the ledger document to a transaction.
func Stage(tx *db.Tx, l *state.Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal ledger")
	}

	tx.Put(buildStoragePath(l.Owner), data)
	return nil
}

// Fetch a single ledger document from storage
func Fetch(ctx context.Context, dbConn *db.DB, owner keys.Address) (*state.Ledger, error) {
	b, err := dbConn.Fetch(ctx, buildStoragePath(owner))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch ledger")
	}

	l := state.Ledger{}
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal ledger")
	}

	// Initialize authorized caller map
	if l.AuthorizedCallers == nil {
		l.AuthorizedCallers = make(map[keys.Address]bool)
	}

	return &l, nil
}

// Returns the storage path for the ledger of an owner.
func buildStoragePath(owner keys.Address) string {
	return fmt.Sprintf("%s/%s/%s", storageKey, owner, storageSubKey)
}

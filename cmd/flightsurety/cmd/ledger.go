package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flightsurety/smart-contract/cmd/flightsuretyd/bootstrap"
	"github.com/flightsurety/smart-contract/internal/app"
	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
)

// session holds the configured ledger and the key commands act with.
type session struct {
	ctx    context.Context
	key    *keys.Key
	ledger *ledger.Ledger
	app    *app.App
	close  func()
}

// openSession opens the session commands run in.
var openSession = newSession

func newSession() (*session, error) {
	ctx := logger.NewContext()
	cfg := bootstrap.NewConfigFromEnv(ctx)
	ctx = bootstrap.NewContextWithLogger(ctx, cfg)

	owner := bootstrap.DecodeKey(ctx, cfg.Ledger.OwnerKey, "owner")

	var appAddress keys.Address
	if len(cfg.Ledger.AppKey) > 0 {
		appAddress = bootstrap.DecodeKey(ctx, cfg.Ledger.AppKey, "app").Address()
	}

	masterDB := bootstrap.NewMasterDB(ctx, cfg)
	nodeConfig := bootstrap.NewNodeConfig(ctx, cfg)

	l, a, err := bootstrap.LoadLedger(ctx, masterDB, nodeConfig, owner.Address(), appAddress)
	if err != nil {
		masterDB.Close(ctx)
		return nil, err
	}

	return &session{
		ctx:    ctx,
		key:    owner,
		ledger: l,
		app:    a,
		close: func() {
			masterDB.Close(ctx)
			logger.Sync(ctx)
		},
	}, nil
}

// withSession runs f with a session for the configured ledger.
func withSession(f func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return errors.Wrap(err, "open ledger")
	}
	defer s.close()

	return f(s)
}

func decodeAddress(s string) (keys.Address, error) {
	address, err := keys.DecodeAddress(s)
	if err != nil {
		return address, errors.Wrapf(err, "decode address %s", s)
	}
	return address, nil
}

func dumpJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}

	fmt.Printf("%s\n\n", b)
	return nil
}

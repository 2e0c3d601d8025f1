package cmd

import (
	"os"
	"testing"

	"github.com/flightsurety/smart-contract/cmd/flightsuretyd/bootstrap"
	"github.com/flightsurety/smart-contract/internal/access"
	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/tests"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var test *tests.Test

// sessionKey is the key commands act with.
var sessionKey *keys.Key

// TestMain is the entry point for testing.
func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	test = tests.New()
	if test == nil {
		return 1
	}
	defer test.TearDown()

	openSession = memorySession
	return m.Run()
}

// memorySession loads the ledger of the test owner from the test storage.
func memorySession() (*session, error) {
	l, a, err := bootstrap.LoadLedger(test.Context, test.MasterDB, &test.NodeConfig,
		test.OwnerKey.Address(), test.AppKey.Address())
	if err != nil {
		return nil, err
	}

	return &session{
		ctx:    test.Context,
		key:    sessionKey,
		ledger: l,
		app:    a,
		close:  func() {},
	}, nil
}

// run executes the command line and returns the error the process exits with.
func run(args ...string) error {
	scCmd.SetArgs(args)
	return scCmd.Execute()
}

// stored loads the ledger as currently committed to the test storage.
func stored(t *testing.T) *ledger.Ledger {
	l, err := ledger.Load(test.Context, test.MasterDB, test.OwnerKey.Address(),
		test.NodeConfig.FundingThreshold)
	if err != nil {
		t.Fatalf("\t%s\tFailed to load ledger : %v", tests.Failed, err)
	}
	return l
}

func TestAdminCommands(t *testing.T) {
	defer tests.Recover(t)

	test.Reset()
	sessionKey = test.OwnerKey
	appAddress := test.AppKey.Address()
	address := tests.RandomAddress()

	if err := run("authorize", appAddress.String()); err != nil {
		t.Fatalf("\t%s\tAuthorize : %v", tests.Failed, err)
	}
	if !stored(t).IsAuthorized(appAddress) {
		t.Fatalf("\t%s\tApp not authorized", tests.Failed)
	}
	t.Logf("\t%s\tAuthorized app", tests.Success)

	if err := run("register", address.String(), "CLI Air"); err != nil {
		t.Fatalf("\t%s\tRegister : %v", tests.Failed, err)
	}
	if err := run("fund", address.String(), "10"); err != nil {
		t.Fatalf("\t%s\tFund : %v", tests.Failed, err)
	}
	if err := run("balance", address.String()); err != nil {
		t.Fatalf("\t%s\tBalance : %v", tests.Failed, err)
	}

	l := stored(t)
	if l.GetAirlineCount() != 2 || !l.IsAirlineParticipant(address) {
		t.Fatalf("\t%s\tAirline not registered and funded : count %d", tests.Failed,
			l.GetAirlineCount())
	}
	if !l.GetAirlineBalance(address).Equal(decimal.NewFromInt(10)) {
		t.Fatalf("\t%s\tWrong balance : %s", tests.Failed, l.GetAirlineBalance(address))
	}
	t.Logf("\t%s\tRegistered and funded airline", tests.Success)

	if err := run("operating", "false"); err != nil {
		t.Fatalf("\t%s\tPause : %v", tests.Failed, err)
	}
	err := run("fund", address.String(), "1")
	if errors.Cause(err) != ledger.ErrNotOperational {
		t.Fatalf("\t%s\tFund while paused : got %v, want %v", tests.Failed, err,
			ledger.ErrNotOperational)
	}
	if code := ExitCode(err); code != 1 {
		t.Fatalf("\t%s\tPaused exit code : got %d, want 1", tests.Failed, code)
	}
	if err := run("operating", "true"); err != nil {
		t.Fatalf("\t%s\tResume : %v", tests.Failed, err)
	}
	if !stored(t).IsOperational() {
		t.Fatalf("\t%s\tLedger not resumed", tests.Failed)
	}
	t.Logf("\t%s\tPaused and resumed", tests.Success)

	if err := run("deauthorize", appAddress.String()); err != nil {
		t.Fatalf("\t%s\tDeauthorize : %v", tests.Failed, err)
	}
	if stored(t).IsAuthorized(appAddress) {
		t.Fatalf("\t%s\tApp still authorized", tests.Failed)
	}
	t.Logf("\t%s\tDeauthorized app", tests.Success)

	if code := ExitCode(run("register", "not-an-address", "Bad")); code != 1 {
		t.Fatalf("\t%s\tBad address exit code : got %d, want 1", tests.Failed, code)
	}
	if code := ExitCode(run("authorize")); code != 1 {
		t.Fatalf("\t%s\tMissing argument exit code : got %d, want 1", tests.Failed, code)
	}
	t.Logf("\t%s\tInvalid input exits with 1", tests.Success)
}

func TestPermissionDeniedExitCode(t *testing.T) {
	defer tests.Recover(t)

	test.Reset()
	stranger, err := tests.GenerateKey()
	if err != nil {
		t.Fatalf("\t%s\tFailed to generate key : %v", tests.Failed, err)
	}
	sessionKey = stranger
	defer func() { sessionKey = test.OwnerKey }()

	denied := [][]string{
		{"authorize", stranger.Address().String()},
		{"deauthorize", test.AppKey.Address().String()},
		{"operating", "false"},
		{"register", tests.RandomAddress().String(), "Denied Air"},
		{"fund", test.OwnerKey.Address().String(), "1"},
	}

	for _, args := range denied {
		err := run(args...)
		if !access.IsPermissionDenied(err) {
			t.Fatalf("\t%s\t%v : got %v, want permission denied", tests.Failed, args, err)
		}
		if code := ExitCode(err); code != ExitPermissionDenied {
			t.Fatalf("\t%s\t%v exit code : got %d, want %d", tests.Failed, args, code,
				ExitPermissionDenied)
		}
	}

	l := stored(t)
	if !l.IsOperational() || l.GetAirlineCount() != 1 || l.IsAuthorized(stranger.Address()) {
		t.Fatalf("\t%s\tDenied commands changed the ledger", tests.Failed)
	}
	t.Logf("\t%s\tDenied commands exit with %d", tests.Success, ExitPermissionDenied)

	// Queries need no permission.
	if err := run("balance", test.OwnerKey.Address().String()); err != nil {
		t.Fatalf("\t%s\tBalance : %v", tests.Failed, err)
	}
	if ExitCode(nil) != 0 {
		t.Fatalf("\t%s\tSuccess exit code not 0", tests.Failed)
	}
}

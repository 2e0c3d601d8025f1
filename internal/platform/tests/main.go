package tests

import (
	"context"
	"fmt"
	"runtime/debug"
	"testing"
	"time"

	"github.com/flightsurety/smart-contract/internal/platform/db"
	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/internal/platform/node"
	"github.com/flightsurety/smart-contract/pkg/keys"
	"github.com/flightsurety/smart-contract/pkg/storage"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"
)

// Success and failure markers.
const (
	Success = "✓"
	Failed  = "✗"
)

// Test owns state for running/shutting down tests.
type Test struct {
	Context    context.Context
	NodeConfig node.Config
	Storage    *storage.MockStorage
	MasterDB   *db.DB
	OwnerKey   *keys.Key
	AppKey     *keys.Key
}

// New is the entry point for tests.
func New() *Test {
	logConfig := logger.NewDevelopmentConfig()
	logConfig.MinLevel = zapcore.WarnLevel

	ctx := logger.ContextWithLogConfig(context.Background(), logConfig)
	ctx = logger.ContextWithTraceID(ctx, "TEST")

	test := &Test{
		Context: ctx,
		NodeConfig: node.Config{
			FundingThreshold:  decimal.NewFromInt(10),
			MultipartyMinimum: 4,
			ConsensusPercent:  50,
			RequestTimeout:    time.Minute,
		},
	}

	var err error
	test.OwnerKey, err = GenerateKey()
	if err != nil {
		fmt.Printf("main : Failed to generate owner key : %v\n", err)
		return nil
	}

	test.AppKey, err = GenerateKey()
	if err != nil {
		fmt.Printf("main : Failed to generate app key : %v\n", err)
		return nil
	}

	test.Reset()
	return test
}

// Reset replaces the storage with an empty one.
func (test *Test) Reset() {
	test.Storage = storage.NewMockStorage()
	test.MasterDB = db.NewWithStorage(test.Storage)
}

// TearDown is used for shutting down tests. Calling this should be
// done in a defer immediately after calling New.
func (test *Test) TearDown() {
	if test.MasterDB != nil {
		test.MasterDB.Close(test.Context)
	}
}

// GenerateKey returns a new random key.
func GenerateKey() (*keys.Key, error) {
	key, err := keys.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to generate key")
	}
	return key, nil
}

// Recover is used to prevent panics from allowing the test to cleanup.
func Recover(t testing.TB) {
	if r := recover(); r != nil {
		t.Fatal("Unhandled Exception:", string(debug.Stack()))
	}
}

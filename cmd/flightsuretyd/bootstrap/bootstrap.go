package bootstrap

import (
	"context"
	"encoding/json"

	"github.com/flightsurety/smart-contract/internal/app"
	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/config"
	"github.com/flightsurety/smart-contract/internal/platform/db"
	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/internal/platform/node"
	"github.com/flightsurety/smart-contract/pkg/keys"

	"github.com/pkg/errors"
)

// NewContextWithLogger returns a context with a logger built from the log configuration.
func NewContextWithLogger(ctx context.Context, cfg *config.Config) context.Context {
	var logConfig logger.Config
	if cfg.Log.Development {
		logConfig = logger.NewDevelopmentConfig()
	} else {
		logConfig = logger.NewProductionConfig()
	}
	logConfig.Format = cfg.Log.Format
	logConfig.FilePath = cfg.Log.FilePath

	return logger.ContextWithLogConfig(ctx, logConfig)
}

func NewConfigFromEnv(ctx context.Context) *config.Config {
	cfg, err := config.Environment()
	if err != nil {
		logger.Fatal(ctx, "Parsing Config : %s", err)
	}

	return cfg
}

// LogConfig logs the config with sensitive values masked.
func LogConfig(ctx context.Context, cfg *config.Config) {
	cfgSafe := config.SafeConfig(*cfg)
	cfgJSON, err := json.MarshalIndent(cfgSafe, "", "    ")
	if err != nil {
		logger.Fatal(ctx, "Marshalling Config to JSON : %s", err)
	}
	logger.Info(ctx, "Config : %v", string(cfgJSON))
}

func NewMasterDB(ctx context.Context, cfg *config.Config) *db.DB {
	masterDB, err := db.New(ctx, &db.StorageConfig{
		Backend:    cfg.Storage.Backend,
		Bucket:     cfg.Storage.Bucket,
		Root:       cfg.Storage.Root,
		MaxRetries: cfg.AWS.MaxRetries,
		RetryDelay: cfg.AWS.RetryDelay,
		Region:     cfg.AWS.Region,
		AccessKey:  cfg.AWS.AccessKeyID,
		Secret:     cfg.AWS.SecretAccessKey,
		DSN:        cfg.Storage.DSN,
		Database:   cfg.Storage.Database,
	})
	if err != nil {
		logger.Fatal(ctx, "Register DB : %s", err)
	}

	return masterDB
}

func NewNodeConfig(ctx context.Context, cfg *config.Config) *node.Config {
	if !cfg.Ledger.FundingThreshold.IsPositive() {
		logger.Fatal(ctx, "Funding threshold must be positive : %s", cfg.Ledger.FundingThreshold)
	}

	return &node.Config{
		FundingThreshold:  cfg.Ledger.FundingThreshold,
		MultipartyMinimum: cfg.Ledger.MultipartyMinimum,
		ConsensusPercent:  cfg.Ledger.ConsensusPercent,
		RequestTimeout:    cfg.Ledger.RequestTimeout,
	}
}

// DecodeKey decodes a WIF key from the config.
func DecodeKey(ctx context.Context, wif, name string) *keys.Key {
	if len(wif) == 0 {
		logger.Fatal(ctx, "Missing %s key", name)
	}

	key, err := keys.DecodeKeyString(wif)
	if err != nil {
		logger.Fatal(ctx, "Invalid %s key : %s", name, err)
	}

	return key
}

// LoadLedger loads the ledger and the app that calls it.
func LoadLedger(ctx context.Context, masterDB *db.DB, nodeConfig *node.Config,
	owner, appAddress keys.Address) (*ledger.Ledger, *app.App, error) {

	l, err := ledger.Load(ctx, masterDB, owner, nodeConfig.FundingThreshold)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load ledger")
	}

	a, err := app.New(ctx, masterDB, l, appAddress, nodeConfig)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load app")
	}

	if !l.IsAuthorized(appAddress) {
		logger.Warn(ctx, "App %s is not an authorized caller", appAddress)
	}

	return l, a, nil
}

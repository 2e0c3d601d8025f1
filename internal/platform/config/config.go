package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Prefix is the environment variable prefix. Every variable can also be given without it.
const Prefix = "FLIGHTSURETY"

const masked = "*** Masked ***"

// Config is used to hold all runtime configuration.
type Config struct {
	Ledger struct {
		OwnerKey          string          `envconfig:"OWNER_KEY" json:"OWNER_KEY"`
		AppKey            string          `envconfig:"APP_KEY" json:"APP_KEY"`
		FundingThreshold  decimal.Decimal `envconfig:"FUNDING_THRESHOLD" required:"true" json:"FUNDING_THRESHOLD"`
		MultipartyMinimum int             `default:"4" envconfig:"MULTIPARTY_MINIMUM" json:"MULTIPARTY_MINIMUM"`
		ConsensusPercent  int             `default:"50" envconfig:"CONSENSUS_PERCENT" json:"CONSENSUS_PERCENT"`
		RequestTimeout    time.Duration   `default:"1m" envconfig:"REQUEST_TIMEOUT" json:"REQUEST_TIMEOUT"`
	}
	Storage struct {
		Backend  string `envconfig:"STORAGE_BACKEND" json:"STORAGE_BACKEND"`
		Bucket   string `default:"standalone" envconfig:"STORAGE_BUCKET" json:"STORAGE_BUCKET"`
		Root     string `default:"./tmp" envconfig:"STORAGE_ROOT" json:"STORAGE_ROOT"`
		DSN      string `envconfig:"STORAGE_DSN" json:"STORAGE_DSN"`
		Database string `default:"flightsurety" envconfig:"STORAGE_DATABASE" json:"STORAGE_DATABASE"`
	}
	AWS struct {
		Region          string `default:"ap-southeast-2" envconfig:"AWS_REGION" json:"AWS_REGION"`
		AccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" json:"AWS_ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" json:"AWS_SECRET_ACCESS_KEY"`
		MaxRetries      int    `default:"4" envconfig:"AWS_MAX_RETRIES" json:"AWS_MAX_RETRIES"`
		RetryDelay      int    `default:"2000" envconfig:"AWS_RETRY_DELAY" json:"AWS_RETRY_DELAY"`
	}
	HTTP struct {
		Address string `default:":8080" envconfig:"HTTP_ADDRESS" json:"HTTP_ADDRESS"`
	}
	Log struct {
		Development bool   `default:"false" envconfig:"DEVELOPMENT" json:"DEVELOPMENT"`
		Format      string `default:"json" envconfig:"LOG_FORMAT" json:"LOG_FORMAT"`
		FilePath    string `envconfig:"LOG_FILE_PATH" json:"LOG_FILE_PATH"`
	}
}

// SafeConfig masks sensitive config values
func SafeConfig(cfg Config) *Config {
	cfgSafe := cfg

	if len(cfgSafe.Ledger.OwnerKey) > 0 {
		cfgSafe.Ledger.OwnerKey = masked
	}
	if len(cfgSafe.Ledger.AppKey) > 0 {
		cfgSafe.Ledger.AppKey = masked
	}
	if len(cfgSafe.Storage.DSN) > 0 {
		cfgSafe.Storage.DSN = masked
	}
	if len(cfgSafe.AWS.AccessKeyID) > 0 {
		cfgSafe.AWS.AccessKeyID = masked
	}
	if len(cfgSafe.AWS.SecretAccessKey) > 0 {
		cfgSafe.AWS.SecretAccessKey = masked
	}

	return &cfgSafe
}

// Environment returns configuration sourced from environment variables, after loading a
// .env file from the working directory when one exists.
func Environment() (*Config, error) {
	godotenv.Load()

	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

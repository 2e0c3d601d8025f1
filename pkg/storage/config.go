package storage

import "fmt"

const (
	// DefaultMaxRetries is the number of retries for a write operation
	DefaultMaxRetries = 4

	// DefaultRetryDelay is the number of milliseconds between retries.
	DefaultRetryDelay = 2000

	BackendFilesystem = "filesystem"
	BackendS3         = "s3"
	BackendPostgres   = "postgres"
	BackendMongo      = "mongo"
	BackendMemory     = "memory"

	// StandaloneBucket selects filesystem storage when no backend is named.
	StandaloneBucket = "standalone"
)

// Config holds all configuration for the Storage.
//
// Config is geared towards "bucket" style storage, where you have a
// specific root (the Bucket). The SQL and document backends use the bucket as the
// table or collection name.
type Config struct {
	Backend    string
	Bucket     string
	Root       string
	MaxRetries int
	RetryDelay int // Milliseconds between retries

	// AWS credentials for S3 storage.
	Region    string
	AccessKey string
	Secret    string

	// DSN is the connection string for postgres and mongo storage.
	DSN string

	// Database is the mongo database name.
	Database string
}

// NewConfig returns a new Config with AWS style options.
func NewConfig(bucket, root string) Config {
	return Config{
		Bucket:     bucket,
		Root:       root,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// BackendName returns the storage backend selected by the config.
func (c Config) BackendName() string {
	if len(c.Backend) > 0 {
		return c.Backend
	}
	if c.Bucket == StandaloneBucket {
		return BackendFilesystem
	}
	return BackendS3
}

func (c Config) String() string {
	root := ""
	if len(c.Root) > 0 {
		root = fmt.Sprintf("Root:%s", c.Root)
	}

	return fmt.Sprintf("{Backend:%v Bucket:%v %s MaxRetries:%v}",
		c.BackendName(),
		c.Bucket,
		root,
		c.MaxRetries)
}

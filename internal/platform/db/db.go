package db

import (
	"context"
	"fmt"
	"time"

	"github.com/flightsurety/smart-contract/pkg/storage"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ErrInvalidDBProvided is returned in the event that an uninitialized db is
	// used to perform actions against.
	ErrInvalidDBProvided = errors.New("Invalid DB provided")

	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Entity not found")
)

// DB is the document store the ledger persists to. Documents are JSON encoded by the
// packages that own them.
type DB struct {
	storage storage.Storage
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Backend    string
	Bucket     string
	Root       string
	MaxRetries int
	RetryDelay int // Milliseconds between retries
	Region     string
	AccessKey  string
	Secret     string
	DSN        string
	Database   string
}

// New returns a new DB value for use with document storage.
func New(ctx context.Context, sc *StorageConfig) (*DB, error) {
	var store storage.Storage
	if sc != nil {
		storeConfig := storage.NewConfig(sc.Bucket, sc.Root)
		storeConfig.Backend = sc.Backend
		storeConfig.Region = sc.Region
		storeConfig.AccessKey = sc.AccessKey
		storeConfig.Secret = sc.Secret
		storeConfig.DSN = sc.DSN
		storeConfig.Database = sc.Database
		if sc.MaxRetries > 0 {
			storeConfig.MaxRetries = sc.MaxRetries
		}
		if sc.RetryDelay > 0 {
			storeConfig.RetryDelay = sc.RetryDelay
		}

		var err error
		store, err = storage.New(ctx, storeConfig)
		if err != nil {
			return nil, errors.Wrap(err, "create storage")
		}
	}

	return NewWithStorage(store), nil
}

// NewWithStorage returns a DB backed by an existing store.
func NewWithStorage(store storage.Storage) *DB {
	return &DB{
		storage: store,
	}
}

// StatusCheck validates the DB status good.
func (db *DB) StatusCheck(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "platform.DB.StatusCheck")
	defer span.End()

	if db.storage == nil {
		return ErrInvalidDBProvided
	}

	// Generate a random key that is almost certain not to exist.
	uid, _ := uuid.NewRandom()
	ts := time.Now().UnixNano()
	k := fmt.Sprintf("healthcheck/%v/%v", uid, ts)

	// We should receive a "not found" error for a non-existant key.
	if _, err := db.Fetch(ctx, k); err != ErrNotFound {
		if err == nil {
			return errors.New("Health check key exists")
		}
		return err
	}

	return nil
}

// Close closes a DB value being used.
func (db *DB) Close(ctx context.Context) error {
	if db.storage == nil {
		return nil
	}

	var err error
	if closer, ok := db.storage.(storage.Closer); ok {
		err = closer.Close(ctx)
	}

	db.storage = nil
	return err
}

// -------------------------------------------------------------------------
// Storage

// Put something in storage
func (db *DB) Put(ctx context.Context, key string, body []byte) error {
	if db.storage == nil {
		return errors.Wrap(ErrInvalidDBProvided, "storage == nil")
	}

	return db.storage.Write(ctx, key, body, nil)
}

// Fetch something from storage
func (db *DB) Fetch(ctx context.Context, key string) ([]byte, error) {
	if db.storage == nil {
		return nil, errors.Wrap(ErrInvalidDBProvided, "storage == nil")
	}

	b, err := db.storage.Read(ctx, key)
	if err != nil {
		if err == storage.ErrNotFound {
			err = ErrNotFound
		}

		return nil, err
	}

	return b, nil
}

// Remove something from storage
func (db *DB) Remove(ctx context.Context, key string) error {
	if db.storage == nil {
		return errors.Wrap(ErrInvalidDBProvided, "storage == nil")
	}

	if err := db.storage.Remove(ctx, key); err != nil {
		if err == storage.ErrNotFound {
			return ErrNotFound
		}
		return err
	}

	return nil
}

// Search for things in storage
func (db *DB) Search(ctx context.Context, keyStart string) ([][]byte, error) {
	if db.storage == nil {
		return nil, errors.Wrap(ErrInvalidDBProvided, "storage == nil")
	}
	query := map[string]string{
		"path": keyStart,
	}

	return db.storage.Search(ctx, query)
}

// List returns the keys under a given path.
func (db *DB) List(ctx context.Context, key string) ([]string, error) {
	if db.storage == nil {
		return nil, errors.Wrap(ErrInvalidDBProvided, "storage == nil")
	}

	return db.storage.List(ctx, key)
}

// Clear removes everything directly under a given path.
func (db *DB) Clear(ctx context.Context, keyStart string) error {
	if db.storage == nil {
		return errors.Wrap(ErrInvalidDBProvided, "storage == nil")
	}
	query := map[string]string{
		"path": keyStart,
	}

	return db.storage.Clear(ctx, query)
}

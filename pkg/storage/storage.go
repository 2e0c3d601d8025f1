package storage

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("Not found")

	// ErrUnknownBackend is returned for an unsupported backend name.
	ErrUnknownBackend = errors.New("Unknown storage backend")
)

// Storage is a key/value document store. Keys are slash separated paths.
type Storage interface {
	Write(ctx context.Context, key string, body []byte, options *Options) error
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error

	// Search returns the objects stored directly under query["path"].
	Search(ctx context.Context, query map[string]string) ([][]byte, error)

	// List returns the keys stored directly under path.
	List(ctx context.Context, path string) ([]string, error)

	// Clear removes the objects stored directly under query["path"].
	Clear(ctx context.Context, query map[string]string) error
}

// Closer is implemented by backends holding connections.
type Closer interface {
	Close(ctx context.Context) error
}

// Options are applied to a write.
type Options struct {
	TTL     int64 // Seconds
	Mode    os.FileMode
	DirMode os.FileMode
}

// NewOptions returns the default write options.
func NewOptions() Options {
	return Options{
		Mode:    0644,
		DirMode: 0755,
	}
}

// New creates the backend selected by the config.
func New(ctx context.Context, config Config) (Storage, error) {
	switch config.BackendName() {
	case BackendFilesystem:
		return NewFilesystemStorage(config), nil
	case BackendS3:
		return NewS3Storage(config), nil
	case BackendMemory:
		return NewMockStorage(), nil
	case BackendPostgres:
		return NewPostgresStorage(ctx, config)
	case BackendMongo:
		return NewMongoStorage(ctx, config)
	}

	return nil, errors.Wrap(ErrUnknownBackend, config.Backend)
}

// childPrefix returns the prefix of keys directly under path.
func childPrefix(path string) string {
	path = strings.Trim(path, "/")
	if len(path) == 0 {
		return ""
	}
	return path + "/"
}

// isDirectChild returns true if key is directly under the prefix.
func isDirectChild(prefix, key string) bool {
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	rest := key[len(prefix):]
	return len(rest) > 0 && !strings.Contains(rest, "/")
}

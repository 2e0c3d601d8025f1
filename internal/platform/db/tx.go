package db

import (
	"context"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// Tx stages document writes and applies them together. If a write fails, the documents
// already written by the Tx are restored to their previous values.
type Tx struct {
	db     *DB
	writes []write
}

type write struct {
	key  string
	body []byte
}

type previous struct {
	key    string
	body   []byte
	exists bool
}

// Begin starts a new Tx.
func (db *DB) Begin() *Tx {
	return &Tx{db: db}
}

// Put stages a write. A later Put to the same key replaces the staged body.
func (tx *Tx) Put(key string, body []byte) {
	for i, w := range tx.writes {
		if w.key == key {
			tx.writes[i].body = body
			return
		}
	}
	tx.writes = append(tx.writes, write{key: key, body: body})
}

// Len returns the number of staged writes.
func (tx *Tx) Len() int {
	return len(tx.writes)
}

// Commit applies the staged writes in order.
func (tx *Tx) Commit(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "platform.DB.Commit")
	defer span.End()

	applied := make([]previous, 0, len(tx.writes))
	for _, w := range tx.writes {
		prev := previous{key: w.key}
		b, err := tx.db.Fetch(ctx, w.key)
		switch err {
		case nil:
			prev.body = b
			prev.exists = true
		case ErrNotFound:
		default:
			return errors.Wrapf(err, "read previous %s", w.key)
		}

		if err := tx.db.Put(ctx, w.key, w.body); err != nil {
			if rerr := tx.rollback(ctx, applied); rerr != nil {
				return errors.Wrapf(err, "write %s (rollback failed : %s)", w.key, rerr)
			}
			return errors.Wrapf(err, "write %s", w.key)
		}

		applied = append(applied, prev)
	}

	tx.writes = nil
	return nil
}

// rollback restores the documents in reverse order.
func (tx *Tx) rollback(ctx context.Context, applied []previous) error {
	var result error
	for i := len(applied) - 1; i >= 0; i-- {
		prev := applied[i]

		var err error
		if prev.exists {
			err = tx.db.Put(ctx, prev.key, prev.body)
		} else {
			err = tx.db.Remove(ctx, prev.key)
		}

		if err != nil && result == nil {
			result = errors.Wrapf(err, "restore %s", prev.key)
		}
	}

	return result
}

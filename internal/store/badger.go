package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore persists records in an embedded Badger database.
//
// Each record is written under doc/{collection}/{id}. Every timestamp field
// also gets an index key idx/{collection}/{field}/{time}/{id}, so the most
// recent records come out of a reverse prefix scan already sorted.
type BadgerStore struct {
	db  *badger.DB
	ids *idSource
	now func() time.Time
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return &BadgerStore{db: db, ids: newIDSource(), now: time.Now}, nil
}

// Name implements Gateway.
func (b *BadgerStore) Name() string {
	return BackendBadger
}

func docKey(collection, id string) []byte {
	return []byte("doc/" + collection + "/" + id)
}

func indexPrefix(collection, field string) []byte {
	return []byte("idx/" + collection + "/" + field + "/")
}

// Insert implements Gateway.
func (b *BadgerStore) Insert(ctx context.Context, collection string, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap("insert", collection, err)
	}

	now := b.now()
	id, err := b.ids.next(now)
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	stamped := stamp(fields, now)
	data, err := encodeFields(stamped)
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(docKey(collection, id), data); err != nil {
			return err
		}
		for field, t := range timeFields(stamped) {
			key := append(indexPrefix(collection, field), []byte(t.Format(TimeFormat)+"/"+id)...)
			if err := txn.Set(key, []byte(id)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", wrap("insert", collection, err)
	}

	return id, nil
}

// QueryRecent implements Gateway. Only timestamp fields are indexed, so
// ordering by any other field yields no records.
func (b *BadgerStore) QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("query", collection, err)
	}
	records := []Record{}
	if limit <= 0 {
		return records, nil
	}

	err := b.db.View(func(txn *badger.Txn) error {
		prefix := indexPrefix(collection, orderField)
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the last possible key under prefix.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if len(records) == limit {
				break
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			item, err := txn.Get(docKey(collection, string(id)))
			if err != nil {
				return fmt.Errorf("index points at missing record %s: %w", id, err)
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			fields, err := decodeFields(data)
			if err != nil {
				return err
			}
			records = append(records, Record{ID: string(id), Fields: fields})
		}
		return nil
	})
	if err != nil {
		return nil, wrap("query", collection, err)
	}

	return records, nil
}

// Ping implements Gateway.
func (b *BadgerStore) Ping(ctx context.Context) error {
	if b.db.IsClosed() {
		return wrap("ping", "", fmt.Errorf("badger database is closed"))
	}
	return nil
}

// Close implements Gateway.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

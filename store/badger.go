package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sicko7947/restddb"
)

// BadgerStore implements restddb.Store on an embedded BadgerDB. Every
// conditional write runs inside one badger transaction, so the existence
// check and the write are atomic.
type BadgerStore struct {
	db     *badger.DB
	tables map[string]restddb.KeySchema
}

// BadgerOptions configures the BadgerDB store
type BadgerOptions struct {
	// Path to the database directory. If empty, uses in-memory mode.
	Path string
	// InMemory forces in-memory mode even if Path is set.
	InMemory bool
	// Logger for BadgerDB. If nil, logging is disabled.
	Logger badger.Logger
}

// NewBadgerStore opens a BadgerDB-backed store serving the given tables
func NewBadgerStore(opts BadgerOptions, defs ...TableDefinition) (*BadgerStore, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)

	if opts.Path == "" || opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(opts.Logger)
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	tables := make(map[string]restddb.KeySchema, len(defs))
	for _, def := range defs {
		tables[def.Name] = append(restddb.KeySchema(nil), def.KeySchema...)
	}

	return &BadgerStore{
		db:     db,
		tables: tables,
	}, nil
}

// Close closes the BadgerDB database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) schema(table string) (restddb.KeySchema, error) {
	schema, ok := s.tables[table]
	if !ok {
		return nil, errTableNotFound(table)
	}
	return schema, nil
}

// badgerKey prefixes the encoded row key with its table
func badgerKey(table, key string) []byte {
	return []byte(table + keySeparator + key)
}

// Schema operations

func (s *BadgerStore) DescribeKeySchema(ctx context.Context, table string) (restddb.KeySchema, error) {
	schema, err := s.schema(table)
	if err != nil {
		return nil, err
	}
	return append(restddb.KeySchema(nil), schema...), nil
}

// Item operations

func (s *BadgerStore) GetItem(ctx context.Context, table string, key restddb.Id, projection []string) (restddb.Item, error) {
	schema, err := s.schema(table)
	if err != nil {
		return nil, err
	}

	if err := checkKey(schema, key); err != nil {
		return nil, err
	}

	k, err := encodeKey(schema, key)
	if err != nil {
		return nil, err
	}

	var row restddb.Item
	err = s.db.View(func(txn *badger.Txn) error {
		row, err = readRow(txn, badgerKey(table, k))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if row == nil {
		return nil, nil
	}
	return restddb.Project(row, projection), nil
}

func (s *BadgerStore) PutItem(ctx context.Context, table string, item restddb.Item, cond restddb.Condition) error {
	schema, err := s.schema(table)
	if err != nil {
		return err
	}

	k, err := encodeKey(schema, item)
	if err != nil {
		return err
	}

	val, err := json.Marshal(item)
	if err != nil {
		return errValidation("failed to serialize item: %v", err)
	}

	key := badgerKey(table, k)
	return s.db.Update(func(txn *badger.Txn) error {
		stored, err := readRow(txn, key)
		if err != nil {
			return fmt.Errorf("failed to read item: %w", err)
		}

		if !cond.Holds(stored) {
			return restddb.ConditionFailed(nil)
		}

		return txn.Set(key, val)
	})
}

func (s *BadgerStore) DeleteItem(ctx context.Context, table string, key restddb.Id) error {
	schema, err := s.schema(table)
	if err != nil {
		return err
	}

	if err := checkKey(schema, key); err != nil {
		return err
	}

	k, err := encodeKey(schema, key)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(table, k))
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (s *BadgerStore) UpdateItem(ctx context.Context, table string, key restddb.Id, cond restddb.Condition, update restddb.UpdateExpression) (restddb.Item, error) {
	schema, err := s.schema(table)
	if err != nil {
		return nil, err
	}

	if err := checkKey(schema, key); err != nil {
		return nil, err
	}

	k, err := encodeKey(schema, key)
	if err != nil {
		return nil, err
	}

	var row restddb.Item
	bk := badgerKey(table, k)
	err = s.db.Update(func(txn *badger.Txn) error {
		stored, err := readRow(txn, bk)
		if err != nil {
			return fmt.Errorf("failed to read item: %w", err)
		}

		if !cond.Holds(stored) {
			return restddb.ConditionFailed(nil)
		}

		row = stored
		if row == nil {
			row = restddb.NewItem(key, nil)
		}

		if err := applyUpdate(row, update); err != nil {
			return err
		}

		val, err := json.Marshal(row)
		if err != nil {
			return errValidation("failed to serialize item: %v", err)
		}
		return txn.Set(bk, val)
	})
	if err != nil {
		return nil, err
	}

	return row, nil
}

// readRow returns the decoded row at key, nil when absent
func readRow(txn *badger.Txn, key []byte) (restddb.Item, error) {
	entry, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	val, err := entry.ValueCopy(nil)
	if err != nil {
		return nil, err
	}

	row := restddb.Item{}
	if err := json.Unmarshal(val, &row); err != nil {
		return nil, fmt.Errorf("failed to deserialize item: %w", err)
	}
	return row, nil
}

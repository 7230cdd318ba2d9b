package store

import (
	"context"
	"sync"

	"github.com/sicko7947/restddb"
)

// MemoryStore implements restddb.Store using in-memory storage (for testing)
type MemoryStore struct {
	tables map[string]*memoryTable
	mu     sync.RWMutex
}

type memoryTable struct {
	schema restddb.KeySchema
	rows   map[string]restddb.Item // encoded key -> row
}

// NewMemoryStore creates a new in-memory store serving the given tables
func NewMemoryStore(defs ...TableDefinition) *MemoryStore {
	tables := make(map[string]*memoryTable, len(defs))
	for _, def := range defs {
		tables[def.Name] = &memoryTable{
			schema: append(restddb.KeySchema(nil), def.KeySchema...),
			rows:   make(map[string]restddb.Item),
		}
	}

	return &MemoryStore{tables: tables}
}

func (s *MemoryStore) table(name string) (*memoryTable, error) {
	t, ok := s.tables[name]
	if !ok {
		return nil, errTableNotFound(name)
	}
	return t, nil
}

// Len returns the number of rows in table
func (s *MemoryStore) Len(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[table]
	if !ok {
		return 0
	}
	return len(t.rows)
}

// Schema operations

func (s *MemoryStore) DescribeKeySchema(ctx context.Context, table string) (restddb.KeySchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	return append(restddb.KeySchema(nil), t.schema...), nil
}

// Item operations

func (s *MemoryStore) GetItem(ctx context.Context, table string, key restddb.Id, projection []string) (restddb.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	if err := checkKey(t.schema, key); err != nil {
		return nil, err
	}

	k, err := encodeKey(t.schema, key)
	if err != nil {
		return nil, err
	}

	row, exists := t.rows[k]
	if !exists {
		return nil, nil
	}

	return restddb.Project(restddb.CloneItem(row), projection), nil
}

func (s *MemoryStore) PutItem(ctx context.Context, table string, item restddb.Item, cond restddb.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return err
	}

	k, err := encodeKey(t.schema, item)
	if err != nil {
		return err
	}

	if !cond.Holds(t.rows[k]) {
		return restddb.ConditionFailed(nil)
	}

	t.rows[k] = restddb.CloneItem(item)
	return nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, table string, key restddb.Id) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return err
	}

	if err := checkKey(t.schema, key); err != nil {
		return err
	}

	k, err := encodeKey(t.schema, key)
	if err != nil {
		return err
	}

	delete(t.rows, k)
	return nil
}

func (s *MemoryStore) UpdateItem(ctx context.Context, table string, key restddb.Id, cond restddb.Condition, update restddb.UpdateExpression) (restddb.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	if err := checkKey(t.schema, key); err != nil {
		return nil, err
	}

	k, err := encodeKey(t.schema, key)
	if err != nil {
		return nil, err
	}

	stored, exists := t.rows[k]
	if !cond.Holds(stored) {
		return nil, restddb.ConditionFailed(nil)
	}

	row := restddb.CloneItem(stored)
	if !exists {
		row = restddb.NewItem(key, nil)
	}

	if err := applyUpdate(row, update); err != nil {
		return nil, err
	}

	t.rows[k] = row
	return restddb.CloneItem(row), nil
}

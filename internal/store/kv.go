// Package store provides the durable state that must survive a mid-session
// restart: per-position metadata (held days, max price since entry), the
// daily selection ledger, and the day-scoped indicator snapshot. Everything
// is keyed JSON on top of a small KV abstraction.
package store

import (
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/silverfox-lab/silverfox/pkg/errors"
)

// KV is keyed JSON persistence. Implementations must make Put durable
// before returning so state written by a fill callback survives a crash
// in the next instant.
type KV interface {
	// Get unmarshals the value at key into into, reporting presence.
	Get(key string, into any) (bool, error)
	// Put marshals value and stores it at key, replacing any prior value.
	Put(key string, value any) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases underlying resources.
	Close() error
}

// DuckDBKV stores JSON values in a DuckDB table.
type DuckDBKV struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

// NewDuckDBKV opens (creating if needed) the state database at path.
func NewDuckDBKV(path string) (*DuckDBKV, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to open state database", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (k VARCHAR PRIMARY KEY, v VARCHAR NOT NULL)`); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, "failed to create kv table", err)
	}

	return &DuckDBKV{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Get implements KV.
func (s *DuckDBKV) Get(key string, into any) (bool, error) {
	query, args, err := s.sq.Select("v").From("kv").Where(squirrel.Eq{"k": key}).ToSql()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build kv query", err)
	}

	var raw string
	if err := s.db.QueryRow(query, args...).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}

		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read kv entry", err)
	}

	if err := json.Unmarshal([]byte(raw), into); err != nil {
		return false, errors.Wrap(errors.ErrCodeEncodingFailed, "failed to decode kv entry", err)
	}

	return true, nil
}

// Put implements KV.
func (s *DuckDBKV) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncodingFailed, "failed to encode kv entry", err)
	}

	query, args, err := s.sq.
		Insert("kv").
		Columns("k", "v").
		Values(key, string(raw)).
		Suffix("ON CONFLICT (k) DO UPDATE SET v = excluded.v").
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build kv upsert", err)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to write kv entry", err)
	}

	return nil
}

// Delete implements KV.
func (s *DuckDBKV) Delete(key string) error {
	query, args, err := s.sq.Delete("kv").Where(squirrel.Eq{"k": key}).ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build kv delete", err)
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to delete kv entry", err)
	}

	return nil
}

// Close implements KV.
func (s *DuckDBKV) Close() error {
	return s.db.Close()
}

// MemoryKV is an in-memory KV used by tests and dry runs.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get implements KV.
func (s *MemoryKV) Get(key string, into any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, into); err != nil {
		return false, errors.Wrap(errors.ErrCodeEncodingFailed, "failed to decode kv entry", err)
	}

	return true, nil
}

// Put implements KV.
func (s *MemoryKV) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncodingFailed, "failed to encode kv entry", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw

	return nil
}

// Delete implements KV.
func (s *MemoryKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)

	return nil
}

// Close implements KV.
func (s *MemoryKV) Close() error {
	return nil
}

// Interface assertions.
var (
	_ KV = (*DuckDBKV)(nil)
	_ KV = (*MemoryKV)(nil)
)

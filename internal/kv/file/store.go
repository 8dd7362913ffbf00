package file

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type entry struct {
	bun.BaseModel `bun:"table:kv_entries"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// Store is the default kv.Store for the CLI: a single-file SQLite database
// so tokens and timers survive process restarts.
type Store struct {
	db *bun.DB
}

// Open creates (or opens) the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*entry)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	e := new(entry)
	err := s.db.NewSelect().Model(e).Where("key = ?", key).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	e := &entry{Key: key, Value: value}
	_, err := s.db.NewInsert().
		Model(e).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().Model((*entry)(nil)).Where("key = ?", key).Exec(ctx)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

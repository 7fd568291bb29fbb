package cache

import (
	"context"

	"github.com/dori/taskboard/internal/db"
	"github.com/dori/taskboard/internal/model"
)

// SQLite keeps the user in the kv table of the local database
type SQLite struct {
	db *db.DB
}

// NewSQLite creates a cache backed by database
func NewSQLite(database *db.DB) *SQLite {
	return &SQLite{db: database}
}

func (c *SQLite) Load(ctx context.Context) (*model.User, error) {
	data, err := c.db.Get(ctx, UserKey)
	if err != nil || data == nil {
		return nil, err
	}
	return decodeUser(data)
}

func (c *SQLite) Save(ctx context.Context, u model.User) error {
	data, err := encodeUser(u)
	if err != nil {
		return err
	}
	return c.db.Put(ctx, UserKey, data)
}

func (c *SQLite) Remove(ctx context.Context) error {
	return c.db.Delete(ctx, UserKey)
}

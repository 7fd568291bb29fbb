// Package cache stores the signed-in user between runs. It is the only
// durable state: one record under one fixed key.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dori/taskboard/internal/model"
)

// UserKey is the key the signed-in user is stored under
const UserKey = "user"

// UserCache persists at most one user
type UserCache interface {
	// Load returns the cached user, or nil if there is none
	Load(ctx context.Context) (*model.User, error)
	Save(ctx context.Context, u model.User) error
	Remove(ctx context.Context) error
}

func encodeUser(u model.User) ([]byte, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encoding user: %w", err)
	}
	return data, nil
}

func decodeUser(data []byte) (*model.User, error) {
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decoding cached user: %w", err)
	}
	return &u, nil
}

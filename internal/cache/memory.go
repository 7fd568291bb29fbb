package cache

import (
	"context"
	"sync"

	"github.com/dori/taskboard/internal/model"
)

// Memory is a process-local cache for tests and --no-cache runs
type Memory struct {
	mu   sync.Mutex
	user *model.User
}

// NewMemory creates an empty in-memory cache
func NewMemory() *Memory {
	return &Memory{}
}

func (c *Memory) Load(context.Context) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil, nil
	}
	u := *c.user
	return &u, nil
}

func (c *Memory) Save(_ context.Context, u model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = &u
	return nil
}

func (c *Memory) Remove(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
	return nil
}

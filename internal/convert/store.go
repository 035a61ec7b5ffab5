package convert

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type ListOpts struct {
	OwnerID string // empty = all owners (admin)
	Limit   int
	Offset  int
}

type Store interface {
	PutConversion(c Conversion) error
	GetConversion(id string) (Conversion, error)
	ListConversions(ctx context.Context, opts ListOpts) ([]Conversion, error)
}

type memoryStore struct {
	mu          sync.RWMutex
	conversions map[string]Conversion
}

// NewInMemoryStore is used by tests and throwaway deployments.
func NewInMemoryStore() Store {
	return &memoryStore{conversions: map[string]Conversion{}}
}

func (m *memoryStore) PutConversion(c Conversion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversions[c.ID] = c
	return nil
}

func (m *memoryStore) GetConversion(id string) (Conversion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conversions[id]
	if !ok {
		return Conversion{}, errors.New("conversion not found")
	}
	return c, nil
}

func (m *memoryStore) ListConversions(ctx context.Context, opts ListOpts) ([]Conversion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Conversion, 0, len(m.conversions))
	for _, c := range m.conversions {
		if opts.OwnerID != "" && c.OwnerID != opts.OwnerID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, opts), nil
}

func paginate(cs []Conversion, opts ListOpts) []Conversion {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if opts.Offset >= len(cs) {
		return nil
	}
	cs = cs[opts.Offset:]
	if len(cs) > limit {
		cs = cs[:limit]
	}
	return cs
}

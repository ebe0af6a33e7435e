package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/utils"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

// Memory is an in-memory interview store for tests and local tinkering.
type Memory struct {
	mu    sync.RWMutex
	items map[string]*structs.Interview
}

func NewMemory() *Memory {
	return &Memory{items: map[string]*structs.Interview{}}
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) Insert(in *structs.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *in
	m.items[in.ID] = &cp
	return nil
}

func (m *Memory) Get(id string) (*structs.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w interview %s", errors.ErrNotFound, id)
	}
	cp := *in
	return &cp, nil
}

func (m *Memory) Interviews(q *structs.Query) ([]*structs.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := []*structs.Interview{}
	for _, in := range m.items {
		if matches(in, q) {
			cp := *in
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt > all[j].CreatedAt })
	if q.Offset >= len(all) {
		return []*structs.Interview{}, nil
	}
	all = all[q.Offset:]
	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, nil
}

func (m *Memory) Update(id, etag string, u *Update) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	in, ok := m.items[id]
	if !ok {
		return 0, fmt.Errorf("%w interview %s", errors.ErrNotFound, id)
	}
	if etag != "" && in.ETag != etag {
		return 0, nil
	}
	applyUpdate(in, u, utils.NewRandomID(), timeNow())
	return 1, nil
}

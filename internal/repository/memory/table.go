// Package memory provides map-backed record stores for the memory driver and
// for tests. Rows are copied in and out so callers never alias stored state.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// Table implements domain.Repository over a map. When assign is non-nil the
// key is a surrogate: zero keys get the next sequence value on Save.
type Table[T any, K cmp.Ordered] struct {
	mu       sync.RWMutex
	rows     map[K]T
	seq      int64
	key      func(*T) K
	assign   func(*T, int64)
	notFound error
}

func NewTable[T any, K cmp.Ordered](key func(*T) K, assign func(*T, int64), notFound error) *Table[T, K] {
	return &Table[T, K]{
		rows:     make(map[K]T),
		key:      key,
		assign:   assign,
		notFound: notFound,
	}
}

// FindAll returns rows ordered by key.
func (t *Table[T, K]) FindAll(ctx context.Context) ([]*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]K, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		row := t.rows[k]
		out = append(out, &row)
	}
	return out, nil
}

func (t *Table[T, K]) FindByID(ctx context.Context, id K) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, t.notFound
	}
	return &row, nil
}

func (t *Table[T, K]) Save(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero K
	if t.assign != nil {
		if k := t.key(entity); k == zero {
			// skip sequence values already taken by explicit upserts
			for {
				t.seq++
				t.assign(entity, t.seq)
				if _, taken := t.rows[t.key(entity)]; !taken {
					break
				}
			}
		}
	}
	t.rows[t.key(entity)] = *entity
	return nil
}

func (t *Table[T, K]) DeleteByID(ctx context.Context, id K) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return t.notFound
	}
	delete(t.rows, id)
	return nil
}

// DeleteAll keeps the sequence so ids are never reused.
func (t *Table[T, K]) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.rows)
	return nil
}

func (t *Table[T, K]) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int64(len(t.rows)), nil
}

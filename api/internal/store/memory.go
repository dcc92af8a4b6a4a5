package store

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
)

// MemoryKV keeps blobs in process memory. A non-zero maxValueBytes rejects
// oversized values with ErrQuotaExceeded, the way browser storage does.
type MemoryKV struct {
	c             *cache.Cache
	maxValueBytes int
}

func NewMemoryKV(maxValueBytes int) *MemoryKV {
	return &MemoryKV{
		c:             cache.New(cache.NoExpiration, 0),
		maxValueBytes: maxValueBytes,
	}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b := v.([]byte)
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	if m.maxValueBytes > 0 && len(value) > m.maxValueBytes {
		return fmt.Errorf("%w: %d bytes > %d", ErrQuotaExceeded, len(value), m.maxValueBytes)
	}
	b := make([]byte, len(value))
	copy(b, value)
	m.c.Set(key, b, cache.NoExpiration)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len reports how many keys are held.
func (m *MemoryKV) Len() int { return m.c.ItemCount() }

package pdfstore

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// Memory is an in-process LRU bounded by entry count.
type Memory struct {
	cache *lru.Cache[string, []byte]
}

func NewMemory(maxEntries int) (*Memory, error) {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	c, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, errors.Wrap(err, "create lru cache")
	}
	return &Memory{cache: c}, nil
}

func (m *Memory) Get(_ context.Context, url string) ([]byte, bool, error) {
	b, ok := m.cache.Get(url)
	return b, ok, nil
}

func (m *Memory) Put(_ context.Context, url string, data []byte) error {
	m.cache.Add(url, data)
	return nil
}

func (m *Memory) Len() int { return m.cache.Len() }

var _ Store = (*Memory)(nil)

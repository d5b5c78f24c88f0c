package prefs

import (
	"fmt"
	"sync"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/log"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

// JSONStore persists preferences as a single JSON object through the swappable filesystem.
// Every write rewrites the whole file.
type JSONStore struct {
	accessors
	mu     sync.Mutex
	cacher *gache.Cache[map[string]any]
	values map[string]any
}

// NewJSONStore opens (or lazily creates) the JSON preference file at path.
func NewJSONStore(path string) (*JSONStore, error) {
	cacher := gache.New[map[string]any](
		&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		},
	)

	values, expired, err := cacher.Get()
	if err != nil {
		return nil, fmt.Errorf("prefs: reading %s: %w", path, err)
	}
	if expired || values == nil {
		values = make(map[string]any)
	}

	log.Debugf("prefs: loaded %s from %s", lo.Ternary(len(values) == 1, "1 key", fmt.Sprintf("%d keys", len(values))), path)

	s := &JSONStore{cacher: cacher, values: values}
	s.accessors = accessors{b: s}
	return s, nil
}

func (s *JSONStore) load(key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *JSONStore) save(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.cacher.Set(s.values)
}

func (s *JSONStore) remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.cacher.Set(s.values)
}

func (s *JSONStore) Close() error {
	return nil
}

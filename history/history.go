// Package history keeps the list of recently played movies.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

var (
	mu     sync.Mutex
	cacher *gache.Cache[map[string]*Entry]
)

func store() *gache.Cache[map[string]*Entry] {
	if cacher == nil {
		cacher = gache.New[map[string]*Entry](&gache.Options{
			Path:       where.History(),
			FileSystem: &filesystem.GacheFs{},
		})
	}
	return cacher
}

func get() (map[string]*Entry, error) {
	cached, expired, err := store().Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Get returns every entry keyed by movie path.
func Get() (map[string]*Entry, error) {
	mu.Lock()
	defer mu.Unlock()
	return get()
}

// Recent returns entries, most recently played first.
func Recent() ([]*Entry, error) {
	entries, err := Get()
	if err != nil {
		return nil, err
	}

	recent := lo.Values(entries)
	sort.SliceStable(recent, func(i, j int) bool {
		if !recent[i].PlayedAt.Equal(recent[j].PlayedAt) {
			return recent[i].PlayedAt.After(recent[j].PlayedAt)
		}
		return recent[i].Path < recent[j].Path
	})

	return recent, nil
}

// Save records entry, replacing any earlier one for the same path.
func Save(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	if entry.PlayedAt.IsZero() {
		entry.PlayedAt = time.Now()
	}

	saved[entry.Path] = &entry
	return store().Set(saved)
}

// Remove forgets path. Removing an unknown path is not an error.
func Remove(path string) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	if _, ok := saved[path]; !ok {
		return nil
	}

	delete(saved, path)
	return store().Set(saved)
}

// Package prefs persists small typed key/value preferences such as resume positions,
// the renderer's screen distance and the last played movie.
package prefs

import (
	"fmt"

	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/where"
	"github.com/spf13/cast"
)

// Well-known keys.
const (
	ScreenDist   = "screenDist"
	CurrentMovie = "currentMovie"
)

// Backend names accepted by NewStore.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// PositionKey is the key under which the last playback position of path is stored, in milliseconds.
func PositionKey(path string) string {
	return path + "_pos"
}

// LengthKey is the key under which the duration of path is stored, in milliseconds.
func LengthKey(path string) string {
	return path + "_len"
}

// Store is a typed preference store. Getters never fail: a missing key or an
// unreadable value yields the supplied default.
type Store interface {
	GetInt(key string, def int) int
	PutInt(key string, value int) error
	GetFloat(key string, def float64) float64
	PutFloat(key string, value float64) error
	GetString(key string, def string) string
	PutString(key string, value string) error
	Remove(key string) error
	Close() error
}

// NewStore opens the store selected by name at its default location.
func NewStore(name string) (Store, error) {
	switch name {
	case BackendJSON, "":
		return NewJSONStore(where.Prefs())
	case BackendSQLite:
		return NewSQLiteStore(where.PrefsDB())
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown prefs backend %q, expected one of %s, %s, %s", name, BackendJSON, BackendSQLite, BackendMemory)
	}
}

// backend is the untyped storage behind the typed accessors.
type backend interface {
	load(key string) (value any, ok bool, err error)
	save(key string, value any) error
	remove(key string) error
}

// accessors implements the typed half of Store on top of a backend.
type accessors struct {
	b backend
}

func (a accessors) lookup(key string) (any, bool) {
	v, ok, err := a.b.load(key)
	if err != nil {
		log.Warnf("prefs: reading %q: %s", key, err)
		return nil, false
	}
	return v, ok
}

func (a accessors) GetInt(key string, def int) int {
	v, ok := a.lookup(key)
	if !ok {
		return def
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		log.Warnf("prefs: %q is not an int: %s", key, err)
		return def
	}
	return i
}

func (a accessors) PutInt(key string, value int) error {
	return a.b.save(key, value)
}

func (a accessors) GetFloat(key string, def float64) float64 {
	v, ok := a.lookup(key)
	if !ok {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		log.Warnf("prefs: %q is not a float: %s", key, err)
		return def
	}
	return f
}

func (a accessors) PutFloat(key string, value float64) error {
	return a.b.save(key, value)
}

func (a accessors) GetString(key string, def string) string {
	v, ok := a.lookup(key)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		log.Warnf("prefs: %q is not a string: %s", key, err)
		return def
	}
	return s
}

func (a accessors) PutString(key string, value string) error {
	return a.b.save(key, value)
}

func (a accessors) Remove(key string) error {
	return a.b.remove(key)
}

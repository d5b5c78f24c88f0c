// Package library discovers movies on disk and keeps an index of them.
package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cinema-cli/cinema/filesystem"
	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/util"
	"github.com/cinema-cli/cinema/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Extensions lists the container formats picked up by a scan.
var Extensions = []string{
	".mp4", ".m4v", ".3gp", ".3g2", ".ts", ".webm",
	".mkv", ".wmv", ".asf", ".avi", ".flv",
}

// IsMovie reports whether path looks like a playable movie.
func IsMovie(path string) bool {
	name := filepath.Base(path)

	// resource forks left behind by macOS
	if strings.HasPrefix(name, "._") {
		return false
	}

	return lo.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// TitleFromPath derives a display title from a file name.
func TitleFromPath(path string) string {
	return strings.ReplaceAll(util.FileStem(path), "_", " ")
}

// ResolveRoots makes relative directories relative to the user's home.
func ResolveRoots(dirs []string) []string {
	return lo.Uniq(lo.Map(dirs, func(dir string, _ int) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(where.Home(), dir)
	}))
}

// Library is an index of the movies below a set of root directories.
type Library struct {
	roots []string

	// Debounce is how long Watch waits for the filesystem to settle before rescanning.
	Debounce time.Duration

	mu       sync.RWMutex
	movies   []*Movie
	byPath   map[string]*Movie
	lastScan time.Time
}

// New returns an empty library over roots. Call Scan to populate it.
func New(roots []string) *Library {
	return &Library{
		roots:    roots,
		Debounce: 500 * time.Millisecond,
		byPath:   make(map[string]*Movie),
	}
}

// Roots returns the scanned directories.
func (l *Library) Roots() []string {
	return slices.Clone(l.roots)
}

// Scan walks every root and replaces the index with what it finds.
// Missing roots are skipped; other walk errors are joined and returned after the index is updated.
func (l *Library) Scan() error {
	var (
		found    []*Movie
		scanErrs []error
	)

	for _, root := range l.roots {
		exists, err := filesystem.API().DirExists(root)
		if err != nil {
			scanErrs = append(scanErrs, err)
			continue
		}
		if !exists {
			log.Debugf("library: skipping missing root %s", root)
			continue
		}

		err = filesystem.API().Walk(root, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				scanErrs = append(scanErrs, err)
				return nil
			}

			if info.IsDir() || !IsMovie(path) {
				return nil
			}

			found = append(found, l.describe(path))
			return nil
		})
		if err != nil {
			scanErrs = append(scanErrs, err)
		}
	}

	found = lo.UniqBy(found, func(m *Movie) string { return m.Path })
	slices.SortFunc(found, func(a, b *Movie) int {
		return strings.Compare(a.Path, b.Path)
	})

	l.mu.Lock()
	l.movies = found
	l.byPath = lo.KeyBy(found, func(m *Movie) string { return m.Path })
	l.lastScan = time.Now()
	l.mu.Unlock()

	log.Infof("library: %s found", util.Quantify(len(found), "movie", "movies"))

	return errors.Join(scanErrs...)
}

// describe builds the entry for a single movie file.
func (l *Library) describe(path string) *Movie {
	slashed := filepath.ToSlash(path)

	m := &Movie{
		Path:                  path,
		Title:                 TitleFromPath(path),
		Is3D:                  strings.Contains(slashed, "/3D/"),
		Category:              MyVideos,
		AllowTheaterSelection: true,
	}

	if strings.Contains(slashed, "/Trailers/") {
		m.Category = Trailers
	}

	if err := readSidecar(m); err != nil {
		log.Warnf("library: %s", err)
	}

	m.Poster = existingPoster(path)
	return m
}

// All returns every movie, sorted by path.
func (l *Library) All() []*Movie {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.movies)
}

// List returns the movies in category.
func (l *Library) List(category Category) []*Movie {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return lo.Filter(l.movies, func(m *Movie, _ int) bool {
		return m.Category == category
	})
}

// Find looks a movie up by path.
func (l *Library) Find(path string) (*Movie, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.byPath[filepath.Clean(path)]
	return m, ok
}

// Search returns the movies whose titles fuzzily match query, best matches first.
// An empty query returns everything.
func (l *Library) Search(query string) []*Movie {
	movies := l.All()

	query = strings.TrimSpace(query)
	if query == "" {
		return movies
	}

	titles := lo.Map(movies, func(m *Movie, _ int) string { return m.Title })
	ranks := fuzzy.RankFindNormalizedFold(query, titles)

	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return a.Distance - b.Distance
	})

	return lo.Map(ranks, func(r fuzzy.Rank, _ int) *Movie {
		return movies[r.OriginalIndex]
	})
}

// LastScan returns when the index was last rebuilt.
func (l *Library) LastScan() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastScan
}

// Lookup resolves a movie argument: an indexed path, a file on disk or a title search.
func (l *Library) Lookup(arg string) (*Movie, bool) {
	if m, ok := l.Find(arg); ok {
		return m, true
	}

	if abs, err := filepath.Abs(arg); err == nil {
		if m, ok := l.Find(abs); ok {
			return m, true
		}

		if info, err := filesystem.API().Stat(abs); err == nil && !info.IsDir() {
			return l.describe(abs), true
		}
	}

	if matches := l.Search(arg); len(matches) > 0 {
		return matches[0], true
	}

	return nil, false
}

// exists reports whether a regular file is present at path.
func exists(path string) bool {
	info, err := filesystem.API().Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Debugf("library: stat %s: %s", path, err)
		}
		return false
	}
	return !info.IsDir()
}

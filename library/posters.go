package library

import (
	"context"
	"path/filepath"

	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/thumbnail"
	"github.com/cinema-cli/cinema/util"
	"github.com/cinema-cli/cinema/where"
	"golang.org/x/sync/errgroup"
)

// PosterPath is where a movie's own poster lives: next to it, sharing its stem.
func PosterPath(moviePath string) string {
	return util.StripExt(moviePath) + ".png"
}

// cachedPosterPath is where a generated poster goes when the movie's directory is not writable.
func cachedPosterPath(moviePath string) string {
	return filepath.Join(where.Thumbnails(), util.SanitizeFilename(util.StripExt(moviePath))+".png")
}

func existingPoster(moviePath string) string {
	if p := PosterPath(moviePath); exists(p) {
		return p
	}
	if p := cachedPosterPath(moviePath); exists(p) {
		return p
	}
	return ""
}

// LoadPosters generates posters for movies that have none, running at most workers grabs at once.
// A movie whose poster cannot be generated keeps an empty Poster. The returned error is
// only non-nil when ctx is cancelled.
func (l *Library) LoadPosters(ctx context.Context, grabber thumbnail.Grabber, workers int) (generated int, err error) {
	missing := l.withoutPoster()
	if len(missing) == 0 {
		return 0, nil
	}

	results := make([]string, len(missing))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, m := range missing {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = createPoster(ctx, grabber, m.Path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	for i, m := range missing {
		if results[i] != "" {
			m.Poster = results[i]
			generated++
		}
	}
	l.mu.Unlock()

	return generated, nil
}

func (l *Library) withoutPoster() []*Movie {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var missing []*Movie
	for _, m := range l.movies {
		if m.Poster == "" {
			missing = append(missing, m)
		}
	}
	return missing
}

func createPoster(ctx context.Context, grabber thumbnail.Grabber, moviePath string) string {
	frame, err := grabber.Grab(ctx, moviePath)
	if err != nil {
		log.Warnf("library: grabbing a frame of %s: %s", moviePath, err)
		return ""
	}

	if frame.Bounds().Empty() {
		log.Warnf("library: %s: %s", moviePath, thumbnail.ErrEmptyFrame)
		return ""
	}

	poster := thumbnail.Poster(frame, constant.PosterWidth, constant.PosterHeight)

	for _, out := range []string{PosterPath(moviePath), cachedPosterPath(moviePath)} {
		if err := thumbnail.Write(poster, out); err != nil {
			log.Warnf("library: writing poster %s: %s", out, err)
			continue
		}
		return out
	}

	return ""
}

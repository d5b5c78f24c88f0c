package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/cinema-cli/cinema/constant"
	"github.com/cinema-cli/cinema/focus"
	"github.com/cinema-cli/cinema/history"
	"github.com/cinema-cli/cinema/icon"
	"github.com/cinema-cli/cinema/key"
	"github.com/cinema-cli/cinema/library"
	"github.com/cinema-cli/cinema/log"
	"github.com/cinema-cli/cinema/playback"
	"github.com/cinema-cli/cinema/player"
	"github.com/cinema-cli/cinema/prefs"
	"github.com/cinema-cli/cinema/renderer"
	"github.com/cinema-cli/cinema/tui"
	"github.com/cinema-cli/cinema/util"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// app bundles the collaborators of one playback run.
type app struct {
	store      prefs.Store
	screen     *renderer.Screen
	arbiter    *focus.Manager
	controller *playback.Controller
	library    *library.Library
}

func newApp() (*app, error) {
	store, err := prefs.NewStore(viper.GetString(key.PrefsBackend))
	if err != nil {
		return nil, err
	}

	screen := renderer.NewScreen(store, renderer.Options{Title: constant.Cinema})
	screen.Load()

	arbiter := focus.NewManager()

	return &app{
		store:   store,
		screen:  screen,
		arbiter: arbiter,
		controller: playback.New(playback.Options{
			NewBackend: player.NewMPVBackend,
			Renderer:   screen,
			Prefs:      store,
			Focus:      arbiter,
		}),
		library: library.New(library.ResolveRoots(viper.GetStringSlice(key.LibraryDirs))),
	}, nil
}

// Close stops playback and flushes the renderer parameters.
func (a *app) Close() {
	a.controller.Close()

	if err := a.screen.Persist(); err != nil {
		log.Warnf("persist screen parameters: %s", err)
	}

	if err := a.store.Close(); err != nil {
		log.Warnf("close preferences: %s", err)
	}
}

// play runs the controls for movie, then keeps offering the picker while the user asks for it.
func (a *app) play(movie mo.Option[*library.Movie], resume bool) error {
	for {
		m, ok := movie.Get()
		if !ok {
			picked, err := a.pick()
			if err != nil {
				return err
			}

			if picked == nil {
				return nil
			}

			m = picked
		}

		movie = mo.None[*library.Movie]()

		log.Infof("playing %s (%s)", m.Title, m.Path)
		a.controller.StartMovie(m.Path, m.Title, resume, m.Encrypted)
		if a.controller.HadPlaybackError() {
			return fmt.Errorf("could not play %s, see logs for details", m.Title)
		}

		options := tui.Options{
			Player:      a.controller,
			SeekStep:    viper.GetInt(key.PlayerSeekStep),
			IdleTimeout: time.Duration(viper.GetInt(key.PlayerIdleClose)) * time.Second,
			ShowHelp:    viper.GetBool(key.TUIShowHelp),
		}

		if viper.GetBool(key.TUIShowSize) {
			options.VideoSize = a.screen.VideoSize
		}

		outcome, err := tui.Run(&options)
		if err != nil {
			return err
		}

		log.Infof("controls closed: %s", outcome)

		if outcome != tui.Failed {
			a.remember(m, outcome == tui.Finished)
		}

		switch outcome {
		case tui.Picker:
			continue
		case tui.Failed:
			return fmt.Errorf("playback of %s failed, see logs for details", m.Title)
		default:
			return nil
		}
	}
}

// remember adds the movie to the recently played list.
func (a *app) remember(m *library.Movie, finished bool) {
	session := a.controller.Session()
	err := history.Save(history.Entry{
		Path:       m.Path,
		Title:      m.Title,
		PositionMs: session.LastKnownPositionMs,
		DurationMs: session.DurationMs,
		Finished:   finished,
	})
	if err != nil {
		log.Warnf("save history: %s", err)
	}
}

// pick asks the user for a movie. It returns nil when the user backs out.
func (a *app) pick() (*library.Movie, error) {
	erase := util.PrintErasable(fmt.Sprintf("%s Scanning library...", icon.Get(icon.Progress)))
	err := a.library.Scan()
	erase()

	movies := a.library.All()
	if len(movies) == 0 {
		if err != nil {
			return nil, err
		}

		return nil, fmt.Errorf("no movies found in %s", strings.Join(a.library.Roots(), ", "))
	}

	if err != nil {
		log.Warn(err)
	}

	titles := lo.Map(movies, func(m *library.Movie, _ int) string {
		return pickerLabel(m)
	})

	pageSize := 15
	if _, height, err := util.TerminalSize(); err == nil && height > 8 {
		pageSize = height - 4
	}

	var index int
	prompt := &survey.Select{
		Message:  "Pick a movie",
		Options:  titles,
		PageSize: pageSize,
		Description: func(_ string, i int) string {
			return a.pickerDescription(movies[i])
		},
	}

	err = survey.AskOne(prompt, &index, survey.WithFilter(func(filter, value string, _ int) bool {
		return fuzzy.MatchNormalizedFold(filter, value)
	}))
	if errors.Is(err, terminal.InterruptErr) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return movies[index], nil
}

func pickerLabel(m *library.Movie) string {
	label := m.Title
	if m.Is3D {
		label += " [" + m.Format.String() + "]"
	}

	if m.Category == library.Trailers {
		label += " (trailer)"
	}

	return label
}

func (a *app) pickerDescription(m *library.Movie) string {
	var parts []string

	if startMs, resume := a.controller.CheckForMovieResume(m.Path); resume && startMs > 0 {
		parts = append(parts, "resume at "+util.FormatTime(startMs))
	}

	if viper.GetBool(key.LibraryShowPaths) {
		parts = append(parts, m.Path)
	}

	return strings.Join(parts, " ")
}

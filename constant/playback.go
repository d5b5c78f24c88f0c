package constant

// Resume thresholds in milliseconds.
const (
	// MinimumSeekTimeForResume is the saved position below which a movie restarts from the beginning.
	MinimumSeekTimeForResume = 60000

	// MinimumRemainingResumeTime is the tail window in which a movie restarts rather than resumes.
	MinimumRemainingResumeTime = 60000
)

// Poster dimensions used for generated library thumbnails.
const (
	PosterWidth  = 228
	PosterHeight = 344
)

// DefaultScreenDist is the virtual screen distance used until the renderer reports one.
const DefaultScreenDist = 1.2

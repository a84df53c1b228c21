package gridpath

import (
	"context"
	"log/slog"
	"runtime"
)

// Result contains the outcome of a successful search.
type Result struct {
	Path     []Position `json:"path"`
	Cost     float64    `json:"cost"`
	Expanded int        `json:"expanded"`
}

// Steps is the number of moves in the path.
func (r Result) Steps() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Options defines parameters for the search.
type Options struct {
	NumberOfWorkers int
	Logger          *slog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers specifies how many searches FindPaths runs at once.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithLogger sets the logger that receives a debug record per search.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{
		NumberOfWorkers: runtime.NumCPU(),
		Logger:          slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.NumberOfWorkers < 1 {
		searchOptions.NumberOfWorkers = 1
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = slog.New(slog.DiscardHandler)
	}
	return searchOptions
}

// FindPath runs A* on grid from its start cell to its goal cell.
//
// It returns a *ConfigurationError for unusable weights, a *PathNotFoundError
// when the goal is unreachable, and ctx.Err() if ctx is cancelled between
// expansions.
func FindPath(ctx context.Context, grid *Grid, cfg Config, options ...Option) (Result, error) {
	searchOptions := applyOptions(options)
	if grid == nil {
		return Result{}, configErrorf(InvariantDimensions, "nil grid")
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	s := newSearch(grid, cfg)
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		_, status := s.step()
		switch status {
		case stepExpanded:
			continue
		case stepExhausted:
			searchOptions.Logger.DebugContext(ctx, "no path",
				slog.Any("start", grid.Start()),
				slog.Any("goal", grid.Goal()),
				slog.Int("expanded", s.expanded))
			return Result{}, s.notFound()
		case stepFound:
			result, err := s.result()
			if err != nil {
				searchOptions.Logger.ErrorContext(ctx, "path reconstruction failed", slog.Any("error", err))
				return Result{}, err
			}
			searchOptions.Logger.DebugContext(ctx, "path found",
				slog.Any("start", grid.Start()),
				slog.Any("goal", grid.Goal()),
				slog.Float64("cost", result.Cost),
				slog.Int("steps", result.Steps()),
				slog.Int("expanded", result.Expanded))
			return result, nil
		}
	}
}

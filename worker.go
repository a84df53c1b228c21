package gridpath

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one independent search handed to FindPaths.
type Job struct {
	ID     string
	Grid   *Grid
	Config Config
}

// Outcome is the result of one Job. Err holds per-job failures such as
// *PathNotFoundError.
type Outcome struct {
	ID     string
	Result Result
	Err    error
}

// FindPaths solves jobs concurrently, at most NumberOfWorkers at a time.
// Outcomes are returned in job order. The returned error is non-nil only
// when ctx is cancelled before every job has finished.
func FindPaths(ctx context.Context, jobs []Job, options ...Option) ([]Outcome, error) {
	searchOptions := applyOptions(options)
	outcomes := make([]Outcome, len(jobs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(searchOptions.NumberOfWorkers)
	for i, job := range jobs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			result, err := FindPath(groupCtx, job.Grid, job.Config, WithLogger(searchOptions.Logger))
			if err != nil && groupCtx.Err() != nil {
				return groupCtx.Err()
			}
			outcomes[i] = Outcome{ID: job.ID, Result: result, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

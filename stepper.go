package gridpath

import (
	"context"
	"errors"
)

// StepSnapshot exposes the per-iteration state of the search.
type StepSnapshot struct {
	Current   Position   `json:"current"`
	Open      []Position `json:"open"`
	Visited   []Position `json:"visited"`
	Done      bool       `json:"done"`
	Found     bool       `json:"found"`
	Path      []Position `json:"path,omitempty"`
	Cost      float64    `json:"cost,omitempty"`
	StepIndex int        `json:"step"`
}

// Stepper runs the same search as FindPath one frontier pop at a time.
// It is not safe for concurrent use.
type Stepper struct {
	s       *search
	current Position

	stepCount int
	done      bool
	result    Result
	err       error
}

// NewStepper validates cfg and prepares a search over grid.
func NewStepper(grid *Grid, cfg Config) (*Stepper, error) {
	if grid == nil {
		return nil, configErrorf(InvariantDimensions, "nil grid")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Stepper{s: newSearch(grid, cfg), current: grid.Start()}, nil
}

// Done reports whether the search has terminated.
func (st *Stepper) Done() bool { return st.done }

// Result returns the final outcome. Before the search terminates it returns
// an error saying so.
func (st *Stepper) Result() (Result, error) {
	if !st.done {
		return Result{}, errors.New("gridpath: search still running")
	}
	return st.result, st.err
}

// Step advances the search by one frontier pop and returns a snapshot.
// Once the search is done every call returns the final snapshot.
func (st *Stepper) Step(ctx context.Context) (StepSnapshot, error) {
	if st.done {
		return st.snapshot(), nil
	}
	if err := ctx.Err(); err != nil {
		return StepSnapshot{}, err
	}

	cell, status := st.s.step()
	switch status {
	case stepExhausted:
		st.done = true
		st.err = st.s.notFound()
	case stepFound:
		st.stepCount++
		st.current = st.s.grid.position(cell)
		st.done = true
		st.result, st.err = st.s.result()
		if st.err != nil {
			return st.snapshot(), st.err
		}
	case stepExpanded:
		st.stepCount++
		st.current = st.s.grid.position(cell)
	}
	return st.snapshot(), nil
}

func (st *Stepper) snapshot() StepSnapshot {
	snap := StepSnapshot{
		Current:   st.current,
		Open:      st.s.positions(st.s.frontier.Cells()),
		Visited:   st.s.visitedPositions(),
		Done:      st.done,
		StepIndex: st.stepCount,
	}
	if st.done && st.err == nil {
		snap.Found = true
		snap.Path = append([]Position(nil), st.result.Path...)
		snap.Cost = st.result.Cost
	}
	return snap
}

package gridpath

import (
	"fmt"

	"github.com/pdrpinto/gridpath/internal"
)

// direction is one of the 8 neighbour offsets.
type direction struct{ dx, dy int }

func (d direction) diagonal() bool { return d.dx != 0 && d.dy != 0 }

// Orthogonal first, then diagonal: N, S, E, W, NW, NE, SE, SW.
var directions = [8]direction{
	{0, -1}, {0, 1}, {1, 0}, {-1, 0},
	{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
}

// cost is a g-cost that may not have been assigned yet.
type cost struct {
	value float64
	set   bool
}

type stepStatus uint8

const (
	stepExpanded stepStatus = iota
	stepFound
	stepExhausted
)

// search is the state of one A* run. It is never shared between runs.
type search struct {
	grid *Grid
	cfg  Config

	h        []float64
	g        []cost
	parents  []int32
	visited  []bool
	frontier *frontier

	expanded int
}

func newSearch(grid *Grid, cfg Config) *search {
	n := grid.size()
	s := &search{
		grid:     grid,
		cfg:      cfg,
		h:        precomputeHeuristic(grid, cfg),
		g:        make([]cost, n),
		parents:  make([]int32, n),
		visited:  make([]bool, n),
		frontier: newFrontier(n),
	}
	for i := range s.parents {
		s.parents[i] = internal.NoParent
	}

	// --- Initialize ---
	start := grid.start
	s.g[start] = cost{value: 0, set: true}
	s.frontier.Push(start, s.h[start])
	return s
}

// step pops the best frontier cell and, unless it is the goal, expands it.
func (s *search) step() (int, stepStatus) {
	if s.frontier.Len() == 0 {
		return -1, stepExhausted
	}

	current := s.frontier.PopMin()
	if current == s.grid.goal {
		return current, stepFound
	}
	s.visited[current] = true
	s.expanded++

	base := s.g[current].value
	origin := s.grid.position(current)
	for _, d := range directions {
		next := Position{X: origin.X + d.dx, Y: origin.Y + d.dy}
		if !s.grid.InBounds(next) {
			continue
		}
		neighbor := s.grid.index(next)
		if s.grid.obstacle(neighbor) || s.visited[neighbor] {
			continue
		}

		tentativeG := base + s.cfg.stepCost(d)
		if known := s.g[neighbor]; known.set && tentativeG >= known.value {
			continue
		}
		s.g[neighbor] = cost{value: tentativeG, set: true}
		s.parents[neighbor] = int32(current)
		s.frontier.Push(neighbor, tentativeG+s.h[neighbor])
	}
	return current, stepExpanded
}

// result builds the path to the goal. Only valid after stepFound.
func (s *search) result() (Result, error) {
	goal := s.grid.goal
	cells, err := internal.ReconstructPath(s.parents, goal, s.grid.start)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	path := make([]Position, len(cells))
	for i, cell := range cells {
		path[i] = s.grid.position(cell)
	}
	return Result{Path: path, Cost: s.g[goal].value, Expanded: s.expanded}, nil
}

func (s *search) notFound() error {
	return &PathNotFoundError{Start: s.grid.Start(), Goal: s.grid.Goal(), Expanded: s.expanded}
}

func (s *search) positions(cells []int) []Position {
	out := make([]Position, len(cells))
	for i, cell := range cells {
		out[i] = s.grid.position(cell)
	}
	return out
}

func (s *search) visitedPositions() []Position {
	out := make([]Position, 0, s.expanded)
	for cell, ok := range s.visited {
		if ok {
			out = append(out, s.grid.position(cell))
		}
	}
	return out
}

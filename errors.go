package gridpath

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("gridpath: invalid configuration")
	// ErrPathNotFound matches every *PathNotFoundError via errors.Is.
	ErrPathNotFound = errors.New("gridpath: no path found")
	// ErrInternal marks a broken search invariant. Seeing it is a bug.
	ErrInternal = errors.New("gridpath: internal error")
)

// Invariant identifies which grid or config rule a ConfigurationError broke.
type Invariant uint8

const (
	InvariantDimensions Invariant = iota
	InvariantCellPosition
	InvariantRole
	InvariantStartCount
	InvariantGoalCount
	InvariantCosts
)

func (i Invariant) String() string {
	switch i {
	case InvariantDimensions:
		return "dimensions"
	case InvariantCellPosition:
		return "cell position"
	case InvariantRole:
		return "role"
	case InvariantStartCount:
		return "start count"
	case InvariantGoalCount:
		return "goal count"
	case InvariantCosts:
		return "costs"
	default:
		return fmt.Sprintf("invariant(%d)", uint8(i))
	}
}

// ConfigurationError is returned before any search work begins when the grid
// or the cost configuration is unusable.
type ConfigurationError struct {
	Invariant Invariant
	Detail    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("gridpath: invalid %s: %s", e.Invariant, e.Detail)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func configErrorf(inv Invariant, format string, args ...any) error {
	return &ConfigurationError{Invariant: inv, Detail: fmt.Sprintf(format, args...)}
}

// PathNotFoundError reports that the frontier ran dry before the goal was
// reached. It is an expected outcome, not a misconfiguration.
type PathNotFoundError struct {
	Start    Position
	Goal     Position
	Expanded int
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("gridpath: no path from %v to %v (%d cells expanded)", e.Start, e.Goal, e.Expanded)
}

func (e *PathNotFoundError) Is(target error) bool { return target == ErrPathNotFound }

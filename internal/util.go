// Package internal holds helpers shared by the search engine and stepper.
package internal

import (
	"errors"
	"fmt"
)

// NoParent marks a cell with no predecessor.
const NoParent int32 = -1

// ErrBrokenChain means the parent links do not lead from goal back to start.
var ErrBrokenChain = errors.New("parent chain does not reach start")

// ReconstructPath follows parent links from goal to start and returns the cell
// indices in start-to-goal order.
func ReconstructPath(parents []int32, goal, start int) ([]int, error) {
	path := []int{goal}
	current := goal
	for current != start {
		previous := parents[current]
		if previous == NoParent {
			return nil, fmt.Errorf("%w: chain ends at cell %d", ErrBrokenChain, current)
		}
		if len(path) > len(parents) {
			return nil, fmt.Errorf("%w: cycle through cell %d", ErrBrokenChain, current)
		}
		current = int(previous)
		path = append(path, current)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

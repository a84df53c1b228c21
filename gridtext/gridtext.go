// Package gridtext reads grids written as text, one row per line:
//
//	S....
//	.##..
//	...#G
//
// '.' is a normal cell, '#' an obstacle, 'S' the start and 'G' the goal.
// Blank lines and lines starting with "//" are ignored.
package gridtext

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdrpinto/gridpath"
)

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("gridtext: line %d: %s", e.Line, e.Msg)
}

// Rune returns the character used for a role.
func Rune(r gridpath.Role) rune {
	switch r {
	case gridpath.RoleObstacle:
		return '#'
	case gridpath.RoleStart:
		return 'S'
	case gridpath.RoleGoal:
		return 'G'
	default:
		return '.'
	}
}

func role(r rune) (gridpath.Role, bool) {
	switch r {
	case '.':
		return gridpath.RoleNormal, true
	case '#':
		return gridpath.RoleObstacle, true
	case 'S', 's':
		return gridpath.RoleStart, true
	case 'G', 'g':
		return gridpath.RoleGoal, true
	default:
		return 0, false
	}
}

// ErrTooLarge is returned by ParseLimit when the grid exceeds its cell limit.
var ErrTooLarge = errors.New("gridtext: grid too large")

// Parse reads rows from r and returns the grid size and its cells in
// row-major order. Role counts are not checked; gridpath.NewGrid does that.
func Parse(r io.Reader) (width, height int, cells []gridpath.Cell, err error) {
	return ParseLimit(r, 0)
}

// ParseLimit is Parse with a cap on the total number of cells. A maxCells of
// zero or less means no cap.
func ParseLimit(r io.Reader, maxCells int) (width, height int, cells []gridpath.Cell, err error) {
	reader := bufio.NewReader(r)
	line := 0
	for {
		text, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return 0, 0, nil, fmt.Errorf("gridtext: read: %w", readErr)
		}
		if readErr == io.EOF && text == "" {
			break
		}
		line++

		text = strings.TrimSpace(text)
		if text != "" && !strings.HasPrefix(text, "//") {
			row := []rune(text)
			if maxCells > 0 && len(cells)+len(row) > maxCells {
				return 0, 0, nil, fmt.Errorf("%w: more than %d cells by line %d", ErrTooLarge, maxCells, line)
			}
			if height == 0 {
				width = len(row)
			} else if len(row) != width {
				return 0, 0, nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("row has %d cells, want %d", len(row), width)}
			}
			for x, ch := range row {
				cellRole, ok := role(ch)
				if !ok {
					return 0, 0, nil, &SyntaxError{Line: line, Msg: fmt.Sprintf("unknown cell %q at column %d", ch, x+1)}
				}
				cells = append(cells, gridpath.Cell{Position: gridpath.Position{X: x, Y: height}, Role: cellRole})
			}
			height++
		}

		if readErr == io.EOF {
			break
		}
	}
	if height == 0 {
		return 0, 0, nil, &SyntaxError{Line: line, Msg: "no rows"}
	}
	return width, height, cells, nil
}

// ParseRows is Parse over an in-memory slice of rows.
func ParseRows(rows []string) (*gridpath.Grid, error) {
	return ParseGrid(strings.NewReader(strings.Join(rows, "\n")))
}

// ParseGrid parses r and validates the result with gridpath.NewGrid.
func ParseGrid(r io.Reader) (*gridpath.Grid, error) {
	width, height, cells, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return gridpath.NewGrid(width, height, cells)
}

// Format writes grid back in the same text form.
func Format(w io.Writer, grid *gridpath.Grid) error {
	var sb strings.Builder
	for _, cell := range grid.Cells() {
		sb.WriteRune(Rune(cell.Role))
		if cell.X == grid.Width()-1 {
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

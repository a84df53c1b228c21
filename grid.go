package gridpath

import (
	"fmt"
	"strings"
)

// Role is the static part a cell plays in a search.
type Role uint8

const (
	RoleNormal Role = iota
	RoleStart
	RoleGoal
	RoleObstacle
)

func (r Role) String() string {
	switch r {
	case RoleNormal:
		return "normal"
	case RoleStart:
		return "start"
	case RoleGoal:
		return "goal"
	case RoleObstacle:
		return "obstacle"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

func (r Role) valid() bool { return r <= RoleObstacle }

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.valid() {
		return nil, fmt.Errorf("gridpath: unknown role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "normal", "":
		*r = RoleNormal
	case "start":
		*r = RoleStart
	case "goal":
		*r = RoleGoal
	case "obstacle":
		*r = RoleObstacle
	default:
		return fmt.Errorf("gridpath: unknown role %q", text)
	}
	return nil
}

// Position is an integer grid coordinate. X grows to the east, Y to the south.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Cell pairs a position with its role.
type Cell struct {
	Position
	Role Role `json:"role"`
}

// Grid is a validated, immutable width x height board of cells.
type Grid struct {
	width  int
	height int
	roles  []Role // row-major
	start  int
	goal   int
}

// NewGrid validates cells and builds a Grid. Cells may come in any order but
// must cover every coordinate exactly once.
func NewGrid(width, height int, cells []Cell) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, configErrorf(InvariantDimensions, "grid must be at least 1x1, got %dx%d", width, height)
	}
	if len(cells) != width*height {
		return nil, configErrorf(InvariantDimensions, "%dx%d grid needs %d cells, got %d", width, height, width*height, len(cells))
	}

	roles := make([]Role, width*height)
	seen := make([]bool, width*height)
	for _, c := range cells {
		if c.X < 0 || c.X >= width || c.Y < 0 || c.Y >= height {
			return nil, configErrorf(InvariantCellPosition, "cell %v outside %dx%d grid", c.Position, width, height)
		}
		if !c.Role.valid() {
			return nil, configErrorf(InvariantRole, "cell %v has %v", c.Position, c.Role)
		}
		idx := c.Y*width + c.X
		if seen[idx] {
			return nil, configErrorf(InvariantCellPosition, "cell %v given more than once", c.Position)
		}
		seen[idx] = true
		roles[idx] = c.Role
	}
	return newGrid(width, height, roles)
}

// NewGridFromRoles builds a Grid from a row-major slice of roles.
func NewGridFromRoles(width, height int, roles []Role) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, configErrorf(InvariantDimensions, "grid must be at least 1x1, got %dx%d", width, height)
	}
	if len(roles) != width*height {
		return nil, configErrorf(InvariantDimensions, "%dx%d grid needs %d cells, got %d", width, height, width*height, len(roles))
	}
	for i, r := range roles {
		if !r.valid() {
			return nil, configErrorf(InvariantRole, "cell (%d,%d) has %v", i%width, i/width, r)
		}
	}
	return newGrid(width, height, append([]Role(nil), roles...))
}

func newGrid(width, height int, roles []Role) (*Grid, error) {
	start, starts := -1, 0
	goal, goals := -1, 0
	for i, r := range roles {
		switch r {
		case RoleStart:
			start = i
			starts++
		case RoleGoal:
			goal = i
			goals++
		}
	}
	if starts != 1 {
		return nil, configErrorf(InvariantStartCount, "want exactly one start cell, found %d", starts)
	}
	if goals != 1 {
		return nil, configErrorf(InvariantGoalCount, "want exactly one goal cell, found %d", goals)
	}
	return &Grid{width: width, height: height, roles: roles, start: start, goal: goal}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Start returns the position of the start cell.
func (g *Grid) Start() Position { return g.position(g.start) }

// Goal returns the position of the goal cell.
func (g *Grid) Goal() Position { return g.position(g.goal) }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Cell returns the cell at p, or false when p is off the grid.
func (g *Grid) Cell(p Position) (Cell, bool) {
	if !g.InBounds(p) {
		return Cell{}, false
	}
	return Cell{Position: p, Role: g.roles[g.index(p)]}, true
}

// Cells returns every cell in row-major order.
func (g *Grid) Cells() []Cell {
	cells := make([]Cell, len(g.roles))
	for i, r := range g.roles {
		cells[i] = Cell{Position: g.position(i), Role: r}
	}
	return cells
}

func (g *Grid) size() int               { return len(g.roles) }
func (g *Grid) index(p Position) int    { return p.Y*g.width + p.X }
func (g *Grid) position(i int) Position { return Position{X: i % g.width, Y: i / g.width} }
func (g *Grid) obstacle(i int) bool     { return g.roles[i] == RoleObstacle }

package gridpath

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridFromRows builds a grid from rows of '.', '#', 'S' and 'G'.
func gridFromRows(t *testing.T, rows ...string) *Grid {
	t.Helper()
	cells := make([]Cell, 0, len(rows)*len(rows[0]))
	for y, row := range rows {
		for x, r := range row {
			role := RoleNormal
			switch r {
			case '#':
				role = RoleObstacle
			case 'S':
				role = RoleStart
			case 'G':
				role = RoleGoal
			}
			cells = append(cells, Cell{Position: Position{X: x, Y: y}, Role: role})
		}
	}
	grid, err := NewGrid(len(rows[0]), len(rows), cells)
	require.NoError(t, err)
	return grid
}

func openCells(width, height int) []Cell {
	cells := make([]Cell, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cells = append(cells, Cell{Position: Position{X: x, Y: y}})
		}
	}
	return cells
}

func TestNewGrid(t *testing.T) {
	t.Run("valid grid exposes start and goal", func(t *testing.T) {
		grid := gridFromRows(t,
			"S..",
			".#.",
			"..G",
		)
		assert.Equal(t, 3, grid.Width())
		assert.Equal(t, 3, grid.Height())
		assert.Equal(t, Position{0, 0}, grid.Start())
		assert.Equal(t, Position{2, 2}, grid.Goal())

		cell, ok := grid.Cell(Position{1, 1})
		require.True(t, ok)
		assert.Equal(t, RoleObstacle, cell.Role)

		_, ok = grid.Cell(Position{3, 0})
		assert.False(t, ok)
		assert.Len(t, grid.Cells(), 9)
	})

	t.Run("cells may arrive in any order", func(t *testing.T) {
		cells := openCells(2, 2)
		cells[3].Role = RoleStart
		cells[0].Role = RoleGoal
		cells[0], cells[3] = cells[3], cells[0]
		grid, err := NewGrid(2, 2, cells)
		require.NoError(t, err)
		assert.Equal(t, Position{1, 1}, grid.Start())
		assert.Equal(t, Position{0, 0}, grid.Goal())
	})

	withRoles := func(width, height int, roles map[Position]Role) []Cell {
		cells := openCells(width, height)
		for i := range cells {
			if r, ok := roles[cells[i].Position]; ok {
				cells[i].Role = r
			}
		}
		return cells
	}

	tests := []struct {
		name      string
		width     int
		height    int
		cells     []Cell
		invariant Invariant
	}{
		{
			name:  "3x3 with 8 cells",
			width: 3, height: 3,
			cells:     withRoles(3, 3, map[Position]Role{{0, 0}: RoleStart, {2, 2}: RoleGoal})[:8],
			invariant: InvariantDimensions,
		},
		{
			name:  "zero width",
			width: 0, height: 3,
			cells:     nil,
			invariant: InvariantDimensions,
		},
		{
			name:  "two goals",
			width: 3, height: 3,
			cells:     withRoles(3, 3, map[Position]Role{{0, 0}: RoleStart, {2, 2}: RoleGoal, {1, 2}: RoleGoal}),
			invariant: InvariantGoalCount,
		},
		{
			name:  "no goal",
			width: 3, height: 3,
			cells:     withRoles(3, 3, map[Position]Role{{0, 0}: RoleStart}),
			invariant: InvariantGoalCount,
		},
		{
			name:  "no start",
			width: 3, height: 3,
			cells:     withRoles(3, 3, map[Position]Role{{2, 2}: RoleGoal}),
			invariant: InvariantStartCount,
		},
		{
			name:  "two starts",
			width: 3, height: 3,
			cells:     withRoles(3, 3, map[Position]Role{{0, 0}: RoleStart, {0, 1}: RoleStart, {2, 2}: RoleGoal}),
			invariant: InvariantStartCount,
		},
		{
			name:  "cell out of bounds",
			width: 2, height: 1,
			cells:     []Cell{{Position{0, 0}, RoleStart}, {Position{2, 0}, RoleGoal}},
			invariant: InvariantCellPosition,
		},
		{
			name:  "duplicate cell",
			width: 2, height: 1,
			cells:     []Cell{{Position{0, 0}, RoleStart}, {Position{0, 0}, RoleGoal}},
			invariant: InvariantCellPosition,
		},
		{
			name:  "unknown role",
			width: 2, height: 1,
			cells:     []Cell{{Position{0, 0}, RoleStart}, {Position{1, 0}, Role(42)}},
			invariant: InvariantRole,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := NewGrid(tt.width, tt.height, tt.cells)
			require.Error(t, err)
			assert.Nil(t, grid)
			assert.True(t, errors.Is(err, ErrConfiguration))

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.invariant, cfgErr.Invariant)
		})
	}
}

func TestNewGridFromRoles(t *testing.T) {
	grid, err := NewGridFromRoles(2, 2, []Role{RoleStart, RoleNormal, RoleObstacle, RoleGoal})
	require.NoError(t, err)
	assert.Equal(t, Position{1, 1}, grid.Goal())

	_, err = NewGridFromRoles(2, 2, []Role{RoleStart, RoleGoal})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRoleText(t *testing.T) {
	var cell Cell
	require.NoError(t, json.Unmarshal([]byte(`{"x":1,"y":2,"role":"Obstacle"}`), &cell))
	assert.Equal(t, Cell{Position: Position{1, 2}, Role: RoleObstacle}, cell)

	out, err := json.Marshal(Cell{Position: Position{3, 4}, Role: RoleGoal})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":3,"y":4,"role":"goal"}`, string(out))

	var r Role
	assert.Error(t, r.UnmarshalText([]byte("lava")))
}

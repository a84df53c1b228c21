package gridpath

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireValidPath checks adjacency, endpoints, obstacles and the reported cost.
func requireValidPath(t *testing.T, grid *Grid, cfg Config, result Result) {
	t.Helper()
	require.NotEmpty(t, result.Path)
	assert.Equal(t, grid.Start(), result.Path[0])
	assert.Equal(t, grid.Goal(), result.Path[len(result.Path)-1])

	total := 0.0
	for i, p := range result.Path {
		cell, ok := grid.Cell(p)
		require.True(t, ok, "position %v off grid", p)
		require.NotEqual(t, RoleObstacle, cell.Role, "path crosses obstacle at %v", p)
		if i == 0 {
			continue
		}
		prev := result.Path[i-1]
		dx, dy := abs(p.X-prev.X), abs(p.Y-prev.Y)
		require.True(t, dx <= 1 && dy <= 1 && dx+dy > 0, "%v -> %v is not a single step", prev, p)
		if dx == 1 && dy == 1 {
			total += cfg.DiagonalCost
		} else {
			total += cfg.OrthogonalCost
		}
	}
	assert.InDelta(t, total, result.Cost, 1e-9)
}

// dijkstraCost is an O(n^2) reference for the optimal cost.
func dijkstraCost(grid *Grid, cfg Config) (float64, bool) {
	n := grid.size()
	dist := make([]float64, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[grid.start] = 0
	for {
		best := -1
		for i := range dist {
			if !done[i] && !math.IsInf(dist[i], 1) && (best < 0 || dist[i] < dist[best]) {
				best = i
			}
		}
		if best < 0 {
			return 0, false
		}
		if best == grid.goal {
			return dist[best], true
		}
		done[best] = true
		origin := grid.position(best)
		for _, d := range directions {
			next := Position{origin.X + d.dx, origin.Y + d.dy}
			if !grid.InBounds(next) || grid.obstacle(grid.index(next)) {
				continue
			}
			if c := dist[best] + cfg.stepCost(d); c < dist[grid.index(next)] {
				dist[grid.index(next)] = c
			}
		}
	}
}

func TestFindPath_OpenGridIsDiagonal(t *testing.T) {
	grid := gridFromRows(t,
		"S....",
		".....",
		".....",
		".....",
		"....G",
	)
	cfg := DefaultConfig()
	result, err := FindPath(context.Background(), grid, cfg)
	require.NoError(t, err)

	assert.Equal(t, 56.0, result.Cost)
	assert.Equal(t, []Position{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}}, result.Path)
	assert.Equal(t, 4, result.Steps())
	requireValidPath(t, grid, cfg, result)
}

func TestFindPath_DetourThroughGap(t *testing.T) {
	grid := gridFromRows(t,
		"S....",
		".....",
		"####.",
		".....",
		"....G",
	)
	cfg := DefaultConfig()
	result, err := FindPath(context.Background(), grid, cfg)
	require.NoError(t, err)

	assert.Equal(t, 68.0, result.Cost)
	assert.Contains(t, result.Path, Position{4, 2})
	assert.Len(t, result.Path, 7)
	requireValidPath(t, grid, cfg, result)
}

func TestFindPath_Unreachable(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{
			name: "obstacle column",
			rows: []string{
				"S#.",
				".#.",
				".#G",
			},
		},
		{
			name: "goal enclosed",
			rows: []string{
				"S....",
				".###.",
				".#G#.",
				".###.",
				".....",
			},
		},
		{
			name: "start enclosed",
			rows: []string{
				"S#..",
				"##..",
				"...G",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := gridFromRows(t, tt.rows...)
			_, err := FindPath(context.Background(), grid, DefaultConfig())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPathNotFound)
			assert.False(t, errors.Is(err, ErrConfiguration))

			var notFound *PathNotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, grid.Start(), notFound.Start)
			assert.Equal(t, grid.Goal(), notFound.Goal)
		})
	}
}

func TestFindPath_StartIsGoal(t *testing.T) {
	// NewGrid cannot express one cell with both roles; build it directly.
	grid := &Grid{width: 2, height: 1, roles: []Role{RoleStart, RoleNormal}, start: 0, goal: 0}
	result, err := FindPath(context.Background(), grid, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []Position{{0, 0}}, result.Path)
	assert.Zero(t, result.Cost)
	assert.Zero(t, result.Expanded)
}

func TestFindPath_AdjacentGoal(t *testing.T) {
	grid := gridFromRows(t, "SG")
	result, err := FindPath(context.Background(), grid, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []Position{{0, 0}, {1, 0}}, result.Path)
	assert.Equal(t, 10.0, result.Cost)
}

func TestFindPath_OpenGridMatchesEstimate(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		width, height := 1+rng.Intn(12), 1+rng.Intn(12)
		if width*height < 2 {
			width = 2
		}
		roles := make([]Role, width*height)
		start := rng.Intn(len(roles))
		goal := rng.Intn(len(roles) - 1)
		if goal >= start {
			goal++
		}
		roles[start], roles[goal] = RoleStart, RoleGoal
		grid, err := NewGridFromRoles(width, height, roles)
		require.NoError(t, err)

		result, err := FindPath(context.Background(), grid, cfg)
		require.NoError(t, err)
		requireValidPath(t, grid, cfg, result)

		dx, dy := abs(grid.Start().X-grid.Goal().X), abs(grid.Start().Y-grid.Goal().Y)
		assert.Equal(t, max(dx, dy), result.Steps())
		assert.InDelta(t, cfg.Estimate(grid.Start(), grid.Goal()), result.Cost, 1e-9)
	}
}

func TestFindPath_OptimalOnRandomGrids(t *testing.T) {
	configs := []Config{
		DefaultConfig(),
		{OrthogonalCost: 1, DiagonalCost: 1, Heuristic: HeuristicOctile},
		{OrthogonalCost: 1, DiagonalCost: 2, Heuristic: HeuristicOctile},
		{OrthogonalCost: 3, DiagonalCost: 4.25, Heuristic: HeuristicOctile},
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		width, height := 2+rng.Intn(14), 2+rng.Intn(14)
		roles := make([]Role, width*height)
		for j := range roles {
			if rng.Float64() < 0.3 {
				roles[j] = RoleObstacle
			}
		}
		start := rng.Intn(len(roles))
		goal := rng.Intn(len(roles) - 1)
		if goal >= start {
			goal++
		}
		roles[start], roles[goal] = RoleStart, RoleGoal
		grid, err := NewGridFromRoles(width, height, roles)
		require.NoError(t, err)

		cfg := configs[i%len(configs)]
		want, reachable := dijkstraCost(grid, cfg)
		result, err := FindPath(context.Background(), grid, cfg)
		if !reachable {
			assert.ErrorIs(t, err, ErrPathNotFound)
			continue
		}
		require.NoError(t, err)
		requireValidPath(t, grid, cfg, result)
		assert.InDelta(t, want, result.Cost, 1e-9, "grid %d", i)
	}
}

func TestFindPath_Deterministic(t *testing.T) {
	grid := gridFromRows(t,
		"S.........",
		"..#..#....",
		"..#..#.##.",
		"..#....#..",
		".....#...G",
	)
	first, err := FindPath(context.Background(), grid, DefaultConfig())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := FindPath(context.Background(), grid, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFindPath_Manhattan(t *testing.T) {
	grid := gridFromRows(t,
		"S...",
		".##.",
		"...G",
	)
	cfg := DefaultConfig()
	cfg.Heuristic = HeuristicManhattan
	result, err := FindPath(context.Background(), grid, cfg)
	require.NoError(t, err)
	requireValidPath(t, grid, cfg, result)
}

func TestFindPath_InvalidConfig(t *testing.T) {
	grid := gridFromRows(t, "S.G")
	_, err := FindPath(context.Background(), grid, Config{OrthogonalCost: 10, DiagonalCost: 0})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, InvariantCosts, cfgErr.Invariant)

	_, err = FindPath(context.Background(), nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestFindPath_Cancelled(t *testing.T) {
	grid := gridFromRows(t, "S...G")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FindPath(ctx, grid, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindPath_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := FindPath(context.Background(), gridFromRows(t, "S.G"), DefaultConfig(), WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "path found")
	assert.Contains(t, buf.String(), "cost=20")

	buf.Reset()
	_, err = FindPath(context.Background(), gridFromRows(t, "S#G"), DefaultConfig(), WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "no path")
}

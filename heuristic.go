package gridpath

import (
	"fmt"
	"math"
	"strings"
)

// HeuristicKind selects the distance estimate used to order the frontier.
type HeuristicKind uint8

const (
	// HeuristicOctile charges diagonal steps for the shared part of the
	// offset and orthogonal steps for the rest. Admissible for valid configs.
	HeuristicOctile HeuristicKind = iota
	// HeuristicManhattan charges DistanceScale per unit of |dx|+|dy|. It can
	// overestimate once diagonal moves are allowed, so paths may be suboptimal.
	HeuristicManhattan
)

func (k HeuristicKind) String() string {
	switch k {
	case HeuristicOctile:
		return "octile"
	case HeuristicManhattan:
		return "manhattan"
	default:
		return fmt.Sprintf("heuristic(%d)", uint8(k))
	}
}

func (k HeuristicKind) valid() bool { return k <= HeuristicManhattan }

// MarshalText implements encoding.TextMarshaler.
func (k HeuristicKind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("gridpath: unknown heuristic %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *HeuristicKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "octile", "":
		*k = HeuristicOctile
	case "manhattan":
		*k = HeuristicManhattan
	default:
		return fmt.Errorf("gridpath: unknown heuristic %q", text)
	}
	return nil
}

// Config holds the movement weights and heuristic choice for a search.
type Config struct {
	OrthogonalCost float64       `json:"orthogonal_cost" toml:"orthogonal_cost"`
	DiagonalCost   float64       `json:"diagonal_cost" toml:"diagonal_cost"`
	DistanceScale  float64       `json:"distance_scale" toml:"distance_scale"`
	Heuristic      HeuristicKind `json:"heuristic" toml:"heuristic"`
}

// DefaultConfig returns the 10/14 octile weights.
func DefaultConfig() Config {
	return Config{
		OrthogonalCost: 10,
		DiagonalCost:   14,
		DistanceScale:  10,
		Heuristic:      HeuristicOctile,
	}
}

// Validate rejects weights that would make the search meaningless or the
// octile estimate inadmissible.
func (c Config) Validate() error {
	if !positive(c.OrthogonalCost) {
		return configErrorf(InvariantCosts, "orthogonal cost must be positive and finite, got %v", c.OrthogonalCost)
	}
	if !positive(c.DiagonalCost) {
		return configErrorf(InvariantCosts, "diagonal cost must be positive and finite, got %v", c.DiagonalCost)
	}
	switch c.Heuristic {
	case HeuristicOctile:
		if c.DiagonalCost < c.OrthogonalCost || c.DiagonalCost > 2*c.OrthogonalCost {
			return configErrorf(InvariantCosts, "octile heuristic needs orthogonal <= diagonal <= 2*orthogonal, got %v and %v",
				c.OrthogonalCost, c.DiagonalCost)
		}
	case HeuristicManhattan:
		if !positive(c.DistanceScale) {
			return configErrorf(InvariantCosts, "distance scale must be positive and finite, got %v", c.DistanceScale)
		}
	default:
		return configErrorf(InvariantCosts, "unknown %v", c.Heuristic)
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) }

// Estimate returns the heuristic cost between two positions.
func (c Config) Estimate(from, to Position) float64 {
	dx := abs(from.X - to.X)
	dy := abs(from.Y - to.Y)
	if c.Heuristic == HeuristicManhattan {
		return float64(dx+dy) * c.DistanceScale
	}
	diagonal := min(dx, dy)
	orthogonal := max(dx, dy) - diagonal
	return float64(orthogonal)*c.OrthogonalCost + float64(diagonal)*c.DiagonalCost
}

// stepCost is the price of moving by one neighbour offset.
func (c Config) stepCost(d direction) float64 {
	if d.diagonal() {
		return c.DiagonalCost
	}
	return c.OrthogonalCost
}

// precomputeHeuristic fills the goal-distance estimate of every cell.
// Obstacles get +Inf and are never expanded.
func precomputeHeuristic(g *Grid, cfg Config) []float64 {
	h := make([]float64, g.size())
	goal := g.Goal()
	for i := range h {
		if g.obstacle(i) {
			h[i] = math.Inf(1)
			continue
		}
		h[i] = cfg.Estimate(g.position(i), goal)
	}
	return h
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

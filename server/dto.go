package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pdrpinto/gridpath"
	"github.com/pdrpinto/gridpath/gridtext"
)

var (
	errTooLarge   = errors.New("request too large")
	errBadRequest = errors.New("bad request")
)

// GridRequest describes a grid either as text rows or as explicit cells.
// Config is applied over the server defaults, so omitted fields keep their
// default values.
type GridRequest struct {
	Rows   []string        `json:"rows,omitempty"`
	Width  int             `json:"width,omitempty"`
	Height int             `json:"height,omitempty"`
	Cells  []gridpath.Cell `json:"cells,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}

// BatchJob is one entry of a BatchRequest.
type BatchJob struct {
	ID string `json:"id"`
	GridRequest
}

// BatchRequest solves several grids in one call.
type BatchRequest struct {
	Jobs []BatchJob `json:"jobs" binding:"required"`
}

// PathResponse is the body of a successful search.
type PathResponse struct {
	Path     []gridpath.Position `json:"path"`
	Cost     float64             `json:"cost"`
	Steps    int                 `json:"steps"`
	Expanded int                 `json:"expanded"`
}

// BatchOutcome pairs a job id with either a path or an error.
type BatchOutcome struct {
	ID    string        `json:"id"`
	Path  *PathResponse `json:"result,omitempty"`
	Error string        `json:"error,omitempty"`
}

// SessionResponse is returned when a stepping session is created.
type SessionResponse struct {
	ID uuid.UUID `json:"id"`
}

func newPathResponse(r gridpath.Result) *PathResponse {
	return &PathResponse{Path: r.Path, Cost: r.Cost, Steps: r.Steps(), Expanded: r.Expanded}
}

// build validates the request and returns the grid and effective config.
func (r GridRequest) build(defaults gridpath.Config, maxCells int) (*gridpath.Grid, gridpath.Config, error) {
	cfg := defaults
	if len(r.Config) > 0 {
		if err := json.Unmarshal(r.Config, &cfg); err != nil {
			return nil, defaults, fmt.Errorf("%w: config: %v", errBadRequest, err)
		}
	}

	if len(r.Rows) > 0 {
		width, height, cells, err := gridtext.ParseLimit(strings.NewReader(strings.Join(r.Rows, "\n")), maxCells)
		if err != nil {
			return nil, cfg, err
		}
		grid, err := gridpath.NewGrid(width, height, cells)
		return grid, cfg, err
	}

	if maxCells > 0 && r.Width > 0 && r.Height > 0 && r.Width > maxCells/r.Height {
		return nil, cfg, fmt.Errorf("%w: more than %d cells", errTooLarge, maxCells)
	}
	grid, err := gridpath.NewGrid(r.Width, r.Height, r.Cells)
	return grid, cfg, err
}

// Package gridpath finds lowest-cost paths on 8-connected 2D grids using A*.
//
// It exposes three entry points:
//
//   - FindPath: run the search to completion and get a Result.
//   - Stepper: advance the search one expansion at a time to drive UIs or debugging tools.
//   - FindPaths: solve many independent grids on a bounded pool of workers.
//
// A Grid is built once from an explicit list of cells and validated by NewGrid.
// Step cost depends only on direction: orthogonal and diagonal moves have
// separate weights configured through Config. Every search owns its own
// cost, parent and visited bookkeeping, so a Grid may be shared by
// concurrent searches.
package gridpath

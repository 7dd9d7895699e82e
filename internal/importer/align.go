package importer

import (
	"github.com/betl-dev/betl/internal/banks"
	"github.com/betl-dev/betl/internal/grid"
)

// Align drops the profile's preamble rows and relabels the first remaining
// row with the canonical headers. Whatever the export printed there (its own
// localized header row, usually) is overwritten.
func Align(g *grid.Grid, p banks.Profile) *grid.Grid {
	start := g.Start()
	headerRow := start.Row + p.SkipRows

	aligned := g.Sub(headerRow, g.End().Row)
	for i, name := range p.Headers {
		aligned.Set(grid.Pos{Row: headerRow, Col: start.Col + i}, grid.String(name))
	}
	return aligned
}

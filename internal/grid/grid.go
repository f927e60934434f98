// internal/grid/grid.go
//
// Core type definitions for the word-search grid.
// Defines:
//   - Coord: a 0-indexed (row, col) cell address.
//   - Placed: a word written onto the grid with its endpoints and direction.
//   - Grid: the square letter matrix itself.

package grid

// Coord addresses a single grid cell. Row and Col are 0-indexed from the
// top-left corner.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// direction is a unit step used during placement. Only these three forward
// directions are ever generated; reverse selections are resolved at
// extraction time because the extractor derives its step from the submitted
// endpoints.
type direction struct {
	name string
	dRow int
	dCol int
}

var directions = [...]direction{
	{"horizontal", 0, 1},
	{"vertical", 1, 0},
	{"diagonal", 1, 1},
}

// Placed records one word successfully written onto the grid. Immutable once
// generation completes.
type Placed struct {
	Word      string `json:"word"`
	Clue      string `json:"clue"`
	Start     Coord  `json:"start"`
	End       Coord  `json:"end"`
	Direction string `json:"direction"`
}

// Grid is a square letter matrix. After Generate returns, every cell holds
// exactly one uppercase letter.
type Grid [][]string

// Size returns the grid's side length.
func (g Grid) Size() int { return len(g) }

// InBounds reports whether c addresses a cell inside the grid.
func (g Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < len(g) && c.Col >= 0 && c.Col < len(g)
}

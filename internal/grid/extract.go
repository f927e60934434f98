// internal/grid/extract.go
//
// Straight-line letter extraction. Shared by submission validation (the
// server-side source of truth) and by any client wanting to preview a
// selection.

package grid

// Extract returns the string of letters traversed from start to end,
// inclusive. The unit step is derived from the endpoints (the sign of each
// delta), so a reverse selection of a placed word extracts the reversed
// string and is matched by the caller against both orientations.
//
// A pair that does not lie on a common row, column, or diagonal still walks
// max(|Δrow|,|Δcol|)+1 cells deterministically; the resulting string simply
// fails any membership lookup. Coordinates outside the grid yield "".
func Extract(g Grid, start, end Coord) string {
	if !g.InBounds(start) || !g.InBounds(end) {
		return ""
	}

	dRow := end.Row - start.Row
	dCol := end.Col - start.Col
	length := max(abs(dRow), abs(dCol)) + 1
	stepRow := sign(dRow)
	stepCol := sign(dCol)

	out := make([]byte, 0, length)
	for i := 0; i < length; i++ {
		c := Coord{Row: start.Row + i*stepRow, Col: start.Col + i*stepCol}
		if !g.InBounds(c) {
			return ""
		}
		out = append(out, g[c.Row][c.Col]...)
	}
	return string(out)
}

// Reverse returns s reversed. Used to match selections dragged end→start.
func Reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

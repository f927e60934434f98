// internal/grid/generator.go
//
// Word-search grid generation.
// Responsibilities:
//   - Place vocabulary words on an N×N grid in one of three forward
//     directions, allowing crossings where letters agree.
//   - Retry random anchor/direction picks up to a fixed budget per word;
//     words that never fit are dropped with a warning, never an error.
//   - Fill every remaining cell with a random letter so the grid has no
//     holes.
//
// Placement order is longest-first: long words have the fewest legal
// positions, so placing them into an emptier grid maximizes the chance that
// the whole pool fits.

package grid

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/barbarayam/word-search-game/internal/words"
)

const (
	// maxPlacementAttempts bounds the random retries per word. This is a
	// stochastic search, not backtracking: exhausting the budget drops the
	// word and the session proceeds with fewer words.
	maxPlacementAttempts = 100

	fillAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generate builds a size×size letter grid hiding the given vocabulary
// entries. The returned placements are a subset of the pool (possibly
// smaller); callers must treat the placements, not the requested pool, as
// the session's word list.
func Generate(pool []words.Entry, size int) (Grid, []Placed) {
	g := make(Grid, size)
	for r := range g {
		g[r] = make([]string, size)
	}

	entries := make([]words.Entry, len(pool))
	copy(entries, pool)
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].Word) > len(entries[j].Word)
	})

	placed := make([]Placed, 0, len(entries))
	for _, e := range entries {
		word := strings.ToUpper(e.Word)

		ok := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			d := directions[rand.Intn(len(directions))]
			start := Coord{Row: rand.Intn(size), Col: rand.Intn(size)}
			if !canPlace(g, word, start, d) {
				continue
			}
			write(g, word, start, d)
			placed = append(placed, Placed{
				Word:  word,
				Clue:  e.Clue,
				Start: start,
				End: Coord{
					Row: start.Row + (len(word)-1)*d.dRow,
					Col: start.Col + (len(word)-1)*d.dCol,
				},
				Direction: d.name,
			})
			ok = true
			break
		}
		if !ok {
			log.Warn().Str("word", word).Int("gridSize", size).Msg("could not place word")
		}
	}

	// Fill the holes so every cell holds a letter.
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if g[r][c] == "" {
				g[r][c] = string(fillAlphabet[rand.Intn(len(fillAlphabet))])
			}
		}
	}

	return g, placed
}

// canPlace reports whether word fits at start along d: the far end must stay
// in bounds and every covered cell must be empty or already hold the exact
// letter the word needs there (crossings).
func canPlace(g Grid, word string, start Coord, d direction) bool {
	end := Coord{
		Row: start.Row + (len(word)-1)*d.dRow,
		Col: start.Col + (len(word)-1)*d.dCol,
	}
	if !g.InBounds(end) {
		return false
	}
	for i := 0; i < len(word); i++ {
		cell := g[start.Row+i*d.dRow][start.Col+i*d.dCol]
		if cell != "" && cell != string(word[i]) {
			return false
		}
	}
	return true
}

// write stamps word onto the grid. Callers must have verified placement with
// canPlace.
func write(g Grid, word string, start Coord, d direction) {
	for i := 0; i < len(word); i++ {
		g[start.Row+i*d.dRow][start.Col+i*d.dCol] = string(word[i])
	}
}

package grid

import (
	"strings"
	"testing"

	"github.com/barbarayam/word-search-game/internal/words"
)

func testPool() []words.Entry {
	return []words.Entry{
		{Word: "ENTREPRENEUR", Clue: "venture starter"},
		{Word: "STRATEGY", Clue: "plan"},
		{Word: "MARKET", Clue: "buyers and sellers"},
		{Word: "RISK", Clue: "uncertainty"},
		{Word: "DATA", Clue: "facts"},
	}
}

func TestGenerateFillsEveryCell(t *testing.T) {
	g, _ := Generate(testPool(), 12)

	if g.Size() != 12 {
		t.Fatalf("expected 12x12 grid, got %d", g.Size())
	}
	for r, row := range g {
		if len(row) != 12 {
			t.Fatalf("row %d has %d cells", r, len(row))
		}
		for c, cell := range row {
			if len(cell) != 1 || cell[0] < 'A' || cell[0] > 'Z' {
				t.Fatalf("cell (%d,%d) holds %q, want a single uppercase letter", r, c, cell)
			}
		}
	}
}

func TestGeneratePlacementSoundness(t *testing.T) {
	g, placed := Generate(testPool(), 12)

	if len(placed) == 0 {
		t.Fatal("expected at least one placed word on a 12x12 grid")
	}
	for _, p := range placed {
		if got := Extract(g, p.Start, p.End); got != p.Word {
			t.Errorf("walking %s from %v to %v yields %q", p.Word, p.Start, p.End, got)
		}
	}
}

func TestGenerateSubsetOfPool(t *testing.T) {
	pool := testPool()
	g, placed := Generate(pool, 12)
	_ = g

	if len(placed) > len(pool) {
		t.Fatalf("placed %d words from a pool of %d", len(placed), len(pool))
	}
	requested := make(map[string]bool, len(pool))
	for _, e := range pool {
		requested[strings.ToUpper(e.Word)] = true
	}
	seen := make(map[string]bool, len(placed))
	for _, p := range placed {
		if !requested[p.Word] {
			t.Errorf("placed word %q was never requested", p.Word)
		}
		if seen[p.Word] {
			t.Errorf("word %q placed twice", p.Word)
		}
		seen[p.Word] = true
	}
}

func TestGenerateForwardDirectionsOnly(t *testing.T) {
	_, placed := Generate(testPool(), 12)

	for _, p := range placed {
		dRow := p.End.Row - p.Start.Row
		dCol := p.End.Col - p.Start.Col
		switch p.Direction {
		case "horizontal":
			if dRow != 0 || dCol <= 0 {
				t.Errorf("%s: horizontal word has delta (%d,%d)", p.Word, dRow, dCol)
			}
		case "vertical":
			if dRow <= 0 || dCol != 0 {
				t.Errorf("%s: vertical word has delta (%d,%d)", p.Word, dRow, dCol)
			}
		case "diagonal":
			if dRow <= 0 || dRow != dCol {
				t.Errorf("%s: diagonal word has delta (%d,%d)", p.Word, dRow, dCol)
			}
		default:
			t.Errorf("%s: unknown direction %q", p.Word, p.Direction)
		}
	}
}

func TestGenerateDropsUnplaceableWords(t *testing.T) {
	pool := []words.Entry{
		{Word: "DATA", Clue: "fits"},
		{Word: "IMPOSSIBLYLONG", Clue: "cannot fit on a 5x5 grid"},
	}
	g, placed := Generate(pool, 5)

	for _, p := range placed {
		if p.Word == "IMPOSSIBLYLONG" {
			t.Fatal("a 14-letter word cannot be placed on a 5x5 grid")
		}
	}
	// Degraded, not failed: the grid is still fully usable.
	if g.Size() != 5 {
		t.Fatalf("expected a 5x5 grid, got %d", g.Size())
	}
	for _, row := range g {
		for _, cell := range row {
			if cell == "" {
				t.Fatal("grid has an empty cell after generation")
			}
		}
	}
}

func TestGenerateCrowdedPoolDegrades(t *testing.T) {
	// Far more letters than a 6x6 grid can hold; some words must drop but
	// whatever is placed must still be sound.
	pool := []words.Entry{
		{Word: "LOGISTICS", Clue: ""},
		{Word: "ANALYTICS", Clue: ""},
		{Word: "MARKETING", Clue: ""},
		{Word: "STRATEGY", Clue: ""},
		{Word: "REVENUE", Clue: ""},
		{Word: "CAPITAL", Clue: ""},
		{Word: "EQUITY", Clue: ""},
		{Word: "GROWTH", Clue: ""},
		{Word: "DEMAND", Clue: ""},
		{Word: "SUPPLY", Clue: ""},
	}
	g, placed := Generate(pool, 6)

	for _, p := range placed {
		if got := Extract(g, p.Start, p.End); got != p.Word {
			t.Errorf("crowded grid: %s extracts as %q", p.Word, got)
		}
	}
}

func TestGenerateOverlapsAgree(t *testing.T) {
	// Run several generations; whenever two placed words share a cell the
	// letter must satisfy both, which placement soundness already implies.
	// This asserts it directly by replaying the walks onto a scratch grid.
	for i := 0; i < 10; i++ {
		g, placed := Generate(testPool(), 12)

		type claim struct{ word, letter string }
		claims := make(map[Coord]claim)
		for _, p := range placed {
			word := p.Word
			stepRow := sign(p.End.Row - p.Start.Row)
			stepCol := sign(p.End.Col - p.Start.Col)
			for j := 0; j < len(word); j++ {
				c := Coord{Row: p.Start.Row + j*stepRow, Col: p.Start.Col + j*stepCol}
				letter := string(word[j])
				if prev, ok := claims[c]; ok && prev.letter != letter {
					t.Fatalf("cell %v claimed as %q by %s and %q by %s",
						c, prev.letter, prev.word, letter, word)
				}
				claims[c] = claim{word: word, letter: letter}
				if g[c.Row][c.Col] != letter {
					t.Fatalf("grid cell %v holds %q, %s needs %q", c, g[c.Row][c.Col], word, letter)
				}
			}
		}
	}
}

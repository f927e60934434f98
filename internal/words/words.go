// internal/words/words.go
//
// Vocabulary management for the word-search game.
//
// Responsibilities:
//   - Load (word, clue) pairs from an environment-provided file or fall back
//     to the embedded default pool.
//   - Normalize words to uppercase A–Z and reject entries too short to hide
//     on a grid.
//   - Supply Sample for picking N distinct entries per session.
//
// File format (WORDS_FILE):
//   One entry per line, "WORD|clue text". Blank lines and lines starting
//   with '#' are skipped.
//
// Initialization is run once (sync.Once), mirroring server startup: Init is
// called from main before the first session is created.

package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
)

// Entry is a single vocabulary item: the hidden word and the clue shown to
// players.
type Entry struct {
	Word string `json:"word"`
	Clue string `json:"clue"`
}

// minWordLength is the shortest word worth hiding on a grid.
const minWordLength = 3

//go:embed default_words.txt
var embeddedPool string

var (
	initOnce   sync.Once
	pool       []Entry
	initialErr error
)

// Init loads the vocabulary exactly once.
// Returns an error if the pool ends up empty.
func Init() error {
	initOnce.Do(func() {
		if path := os.Getenv("WORDS_FILE"); path != "" {
			entries, err := readWordFile(path)
			if err != nil {
				initialErr = err
				return
			}
			pool = entries
		} else {
			pool = parseLines(embeddedPool)
		}
		if len(pool) == 0 {
			initialErr = errors.New("words: vocabulary pool is empty")
		}
	})
	return initialErr
}

// readWordFile loads "WORD|clue" lines from a file.
func readWordFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if e, ok := parseLine(sc.Text()); ok {
			out = append(out, e)
		}
	}
	return out, sc.Err()
}

// parseLines processes the embedded multiline pool.
func parseLines(s string) []Entry {
	var out []Entry
	for _, line := range strings.Split(s, "\n") {
		if e, ok := parseLine(line); ok {
			out = append(out, e)
		}
	}
	return out
}

// parseLine parses one "WORD|clue" line, normalizing the word to uppercase.
// Returns ok=false for blanks, comments, and invalid words.
func parseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Entry{}, false
	}
	word, clue, found := strings.Cut(line, "|")
	if !found {
		return Entry{}, false
	}
	word = strings.ToUpper(strings.TrimSpace(word))
	clue = strings.TrimSpace(clue)
	if len(word) < minWordLength || !isUpperAlpha(word) {
		return Entry{}, false
	}
	return Entry{Word: word, Clue: clue}, true
}

// isUpperAlpha reports whether s is all uppercase ASCII letters.
func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Sample returns up to n distinct entries drawn from the pool without
// replacement. Clues carry a "(N letters)" length hint so players know what
// they are hunting for. If n exceeds the pool size, the whole pool is
// returned.
func Sample(n int) []Entry {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rand.Perm(len(pool))[:n]

	out := make([]Entry, 0, n)
	for _, i := range idx {
		e := pool[i]
		out = append(out, Entry{
			Word: e.Word,
			Clue: fmt.Sprintf("%s (%d letters)", e.Clue, len(e.Word)),
		})
	}
	return out
}

// Count returns the number of loaded vocabulary entries.
func Count() int {
	return len(pool)
}

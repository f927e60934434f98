package grid

import (
	"strings"
	"testing"
)

func TestNewCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewCode()
		if len(code) != codeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), codeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q, outside the code alphabet", code, r)
			}
		}
	}
}

func TestCodeAlphabetExcludesAmbiguousChars(t *testing.T) {
	for _, forbidden := range "0O1IL" {
		if strings.ContainsRune(codeAlphabet, forbidden) {
			t.Errorf("code alphabet contains ambiguous character %q", forbidden)
		}
	}
}

func TestNewCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[NewCode()] = true
	}
	// 32^6 possibilities; 50 draws colliding down to a handful would mean
	// the generator is broken.
	if len(seen) < 45 {
		t.Fatalf("50 draws produced only %d distinct codes", len(seen))
	}
}

// internal/grid/code.go
//
// Session-code generation. Codes are typed by hand on phones, so the
// alphabet drops visually ambiguous characters (0/O, 1/I/L).

package grid

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

const (
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

// NewCode returns a random 6-character session code. The generator is
// stateless; uniqueness is enforced by the session store, which rejects
// duplicate codes and lets the caller retry.
func NewCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
			continue
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}

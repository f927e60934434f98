// internal/httpserver/hosttoken.go
//
// Host authorization. Creating a session mints an HS256 JWT bound to the
// session ID; start/end endpoints require it, so only the host dashboard
// controls the session clock. Players never need a token.

package httpserver

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const hostTokenTTL = 24 * time.Hour

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev_secret_change_me"
	}
	return []byte(secret)
}

// signHostToken creates the host token for a freshly created session.
func signHostToken(sessionID int64) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(hostTokenTTL).Unix(),
	})
	return t.SignedString(jwtSecret())
}

// parseHostToken validates a token and returns the session it is bound to.
func parseHostToken(tokenStr string) (int64, bool) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}
	sid, ok := claims["sid"].(float64)
	if !ok {
		return 0, false
	}
	return int64(sid), true
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// authorizeHost checks that the request carries a host token for sessionID.
// Writes the error response and returns false when it does not.
func (s *Server) authorizeHost(w http.ResponseWriter, r *http.Request, sessionID int64) bool {
	tok := bearerToken(r)
	if tok == "" {
		http.Error(w, `{"error":"host token required"}`, http.StatusUnauthorized)
		return false
	}
	sid, ok := parseHostToken(tok)
	if !ok {
		http.Error(w, `{"error":"invalid host token"}`, http.StatusUnauthorized)
		return false
	}
	if sid != sessionID {
		http.Error(w, `{"error":"token does not match session"}`, http.StatusForbidden)
		return false
	}
	return true
}

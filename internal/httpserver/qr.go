// internal/httpserver/qr.go
//
// Join QR code. Phones scan this instead of typing the session code.

package httpserver

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// handleSessionQR renders a PNG QR code pointing at the client join page
// for an existing session code.
func (s *Server) handleSessionQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, err := s.svc.SessionByCode(r.Context(), code); err != nil {
		writeErr(w, err)
		return
	}

	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	png, err := qrcode.Encode(origin+"/join/"+code, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, `{"error":"qr_failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

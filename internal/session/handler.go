package session

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/beelink/governance-backend/internal/models"
)

// CookieName carries the signed session token. Contract: cookie present and
// valid ⇒ session established.
const CookieName = "gov_session"

// sessionTTL matches the original's 180-day name cookie.
const sessionTTL = 180 * 24 * time.Hour

// signingKey is the HMAC key for session tokens. It is a server-side
// secret — it never leaves the backend.
var signingKey = []byte(envOr("SESSION_SECRET", "governance-demo-staging-signing-key-2026"))

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Create handles POST /api/session: the welcome gate. Any non-empty trimmed
// display name is accepted; there are no credentials in this system.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Name is required"})
		return
	}

	token, err := generateToken(name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create session"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, models.SessionResponse{Name: name})
}

// Me handles GET /api/session/me: returns the display name when the cookie
// verifies, 401 otherwise.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	name, ok := nameFromRequest(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "No session"})
		return
	}
	writeJSON(w, http.StatusOK, models.SessionResponse{Name: name})
}

func generateToken(name string) (string, error) {
	claims := jwt.MapClaims{
		"name": name,
		"exp":  time.Now().Add(sessionTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

func nameFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return signingKey, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	name, _ := claims["name"].(string)
	return name, name != ""
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"interview-prep-backend/internal/config"
	"interview-prep-backend/internal/domain"
)

type contextKey string

const userIDKey contextKey = "user_id"

func userID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey).(string)
	return id, ok
}

// TokenManager mints and verifies the signed session tokens carried in an
// HTTP-only cookie.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	cookie string
	secure bool
}

func NewTokenManager(cfg *config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		cookie: cfg.CookieName,
		secure: cfg.SecureCooky,
	}
}

func (tm *TokenManager) Mint(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

func (tm *TokenManager) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

func (tm *TokenManager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tm.cookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tm.ttl),
		HttpOnly: true,
		Secure:   tm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (tm *TokenManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tm.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   tm.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Authenticate resolves the auth cookie into a user id on the request
// context. Requests without a valid token get a 401.
func (tm *TokenManager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(tm.cookie)
		if err != nil {
			respondErrorWith(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
			return
		}
		id, err := tm.Verify(cookie.Value)
		if err != nil {
			respondErrorWith(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}

// ABOUTME: Token minting and auth middleware for the fake backend
// ABOUTME: HS256 JWTs carrying user_id and is_admin, like the real service

package testbackend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload
type Claims struct {
	UserID  int  `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

type contextKey string

const claimsKey contextKey = "claims"

// Token mints a valid token for userID
func (b *Backend) Token(userID int) string {
	isAdmin := false
	if u, ok := b.User(userID); ok {
		isAdmin = u.IsAdmin
	}
	token, err := b.mint(userID, isAdmin, time.Now().Add(24*time.Hour))
	if err != nil {
		panic(err)
	}
	return token
}

// ExpiredToken mints a token that expired an hour ago
func (b *Backend) ExpiredToken(userID int) string {
	token, err := b.mint(userID, false, time.Now().Add(-time.Hour))
	if err != nil {
		panic(err)
	}
	return token
}

func (b *Backend) mint(userID int, isAdmin bool, expires time.Time) (string, error) {
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

// parse validates the bearer token in r. The admin flag is looked up
// live so role changes apply without a new token.
func (b *Backend) parse(r *http.Request) (*Claims, bool) {
	header := r.Header.Get("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if header == "" || raw == header {
		return nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, false
	}

	u, ok := b.User(claims.UserID)
	if !ok {
		return nil, false
	}
	claims.IsAdmin = u.IsAdmin
	return claims, true
}

func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := b.parse(r)
		if !ok {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

func (b *Backend) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !claimsFrom(r).IsAdmin {
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(r *http.Request) *Claims {
	claims, _ := r.Context().Value(claimsKey).(*Claims)
	if claims == nil {
		return &Claims{}
	}
	return claims
}

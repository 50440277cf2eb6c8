package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/admitdesk/admitdesk/config"
	"github.com/admitdesk/admitdesk/internal"
)

var log = internal.GetLogger()

const (
	JwtAlg       = "HS256"
	AdminSubject = "admin"
)

// GenerateJWT generates an admin token signed with the configured secret. A zero ttl
// produces a token that never expires.
// Requires that ADMITDESK_AUTH_SECRET is set in the environment.
func GenerateJWT(cfg *config.Config, ttl time.Duration) string {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		log.Fatal("Auth secret not set. Ensure ADMITDESK_AUTH_SECRET is set in your environment.")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  AdminSubject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		log.Fatal("Error generating auth token: ", err)
	}

	return tokenString
}

// JWTVerifier reads the token from the Authorization header or the "jwt" cookie.
// Pair it with jwtauth.Authenticator to reject requests without a valid token.
func JWTVerifier(cfg *config.Config) func(http.Handler) http.Handler {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		log.Fatal("Auth secret not set. Ensure ADMITDESK_AUTH_SECRET is set in your environment.")
	}
	tokenAuth := jwtauth.New(JwtAlg, secret, nil)
	return jwtauth.Verifier(tokenAuth)
}

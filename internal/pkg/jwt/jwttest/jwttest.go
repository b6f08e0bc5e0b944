// Package jwttest mints identity-provider-shaped tokens for tests and local
// development seeding. The server never imports it.
package jwttest

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"racefinder/internal/pkg/jwt"
)

const (
	DevKID    = "dev"
	DevSecret = "test-secret-123"
)

// KeySet returns the static key set matching the tokens minted here.
func KeySet() jwt.StaticKeySet {
	return jwt.NewHMACKeySet(DevKID, DevSecret)
}

// Token signs an HS256 token for uid/email valid for ttl.
func Token(uid, email string, ttl time.Duration) string {
	return Sign(DevKID, DevSecret, jwt.Claims{
		UserID:        uid,
		Email:         email,
		EmailVerified: true,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
		},
	})
}

// Sign signs arbitrary claims with an HMAC secret; an empty kid omits the header.
func Sign(kid, secret string, claims jwt.Claims) string {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return signed
}

package doordash

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type signer struct {
	developerID string
	keyID       string
	secret      []byte
}

// sign issues the bearer token for one request.
func (s signer) sign(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{tokenAudience},
		Issuer:    s.developerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{RegisteredClaims: claims, KeyID: s.keyID})
	token.Header["kid"] = s.keyID
	token.Header["dd-ver"] = tokenVersion

	return token.SignedString(s.secret)
}

// tokenClaims adds the key id, which Drive expects in the payload as well as the header.
type tokenClaims struct {
	jwt.RegisteredClaims
	KeyID string `json:"kid"`
}

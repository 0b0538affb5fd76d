package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"  // sentinel errors for claim validation
	"strconv" // subject claim carries the user ID as a decimal string
	"time"    // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned for any token that fails signature, expiry or
// claim validation.  Callers only need to know the token is unusable.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of an access token.  The user ID is carried both as
// the standard subject and as a numeric "uid" so that clients can read it
// without parsing strings.
type Claims struct {
	UserID uint64 `json:"uid"`   // numeric user identifier
	Email  string `json:"email"` // login email at issue time
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT together with its expiry.  It is the
// only credential the API issues: there are no refresh tokens, a client
// simply logs in again once Exp has passed.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The token lives
// for ttl and includes sub, uid, email, iat and exp.
func NewAccessToken(secret string, userID uint64, email string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns its claims.  Only
// HS256 is accepted and an exp claim is mandatory.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Subject != strconv.FormatUint(claims.UserID, 10) {
		return nil, ErrInvalidToken // subject and uid must agree
	}
	return claims, nil
}

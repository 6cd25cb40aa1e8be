package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/afiliados/afiliados-go/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	issuer        = "afiliados"
	audienceLogin = "session"
	audienceFlash = "flash"
)

// Claims bind a browser to a credential.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// flashClaims carry notices across one redirect.
type flashClaims struct {
	jwt.RegisteredClaims
	Notices []model.Notice `json:"n"`
}

func registered(audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parse(token string, claims jwt.Claims, audience string, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
	)
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

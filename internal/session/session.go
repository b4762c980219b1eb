// Package session mints and verifies the HS256 tokens handed out by
// /login and /update-password.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingClaims = errors.New("token payload missing userId or uid")

type Claims struct {
	UserID string `json:"userId"`
	UID    string `json:"uid"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the user. email is optional and only set by the
// password reset flow.
func (i *Issuer) Issue(userID, uid, email string) (string, error) {
	issuedAt := i.now().Truncate(time.Second)
	claims := Claims{
		UserID: userID,
		UID:    uid,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if claims.UserID == "" || claims.UID == "" {
		return nil, ErrMissingClaims
	}
	return claims, nil
}

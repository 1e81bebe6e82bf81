package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Tokens issues and verifies the HS256 tokens handed out at sign-in.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

func NewTokens(secret string) Tokens {
	return Tokens{Secret: []byte(secret), TTL: 72 * time.Hour}
}

func (t Tokens) Issue(s Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id": s.UserID,
		"email":   s.Email,
		"name":    s.DisplayName,
		"exp":     time.Now().Add(t.TTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Parse verifies raw and returns the session it carries. Used where the
// fiber middleware is not in play, e.g. the websocket listener.
func (t Tokens) Parse(raw string) (Session, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil || !tok.Valid {
		return Session{}, ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrUnauthorized
	}
	return FromClaims(claims)
}

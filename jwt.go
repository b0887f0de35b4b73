package main

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carry the session identity. The admin flag is a hint for the
// front end; admin-gated handlers re-check the database.
type Claims struct {
	UserID  uint   `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Admin   bool   `json:"adm"`
	Welcome bool   `json:"wel,omitempty"`
	jwt.RegisteredClaims
}

func signToken(u *User, welcome bool, ttlHours int) (string, error) {
	secret := []byte(os.Getenv("JWT_SECRET"))
	claims := &Claims{
		UserID:  u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Admin:   u.IsAdmin,
		Welcome: welcome,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(ttlHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

func parseToken(tokenStr string) (*Claims, error) {
	secret := []byte(os.Getenv("JWT_SECRET"))
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := token.Claims.(*Claims); ok && token.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

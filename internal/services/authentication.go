package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/address"
)

type CustomClaims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

type Authentication struct {
	secret string
}

func NewAuthentication(secret string) (*Authentication, error) {
	if secret == "" {
		return nil, errors.New("missing jwt secret")
	}
	return &Authentication{secret}, nil
}

// CreateToken signs a token for the given address, valid for ttl.
func (authentication *Authentication) CreateToken(addr string, ttl time.Duration) (string, error) {
	normalized, err := address.Normalize(addr)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := &CustomClaims{
		Address: normalized,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   normalized,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authentication.secret))
}

func (authentication *Authentication) Validate(token string) (*models.Caller, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(authentication.secret), nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*CustomClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	normalized, err := address.Normalize(claims.Address)
	if err != nil {
		return nil, err
	}

	return &models.Caller{Address: normalized}, nil
}

package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

type Provider interface {
	ValidateToken(ctx context.Context, token string) error
}

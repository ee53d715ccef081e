package auth

import (
	"context"
	"crypto/subtle"

	"github.com/yourname/sleeplog/internal"
	"golang.org/x/crypto/bcrypt"
)

// LocalAuthProvider accepts a single configured bearer token, given either
// in clear or as a bcrypt hash. The hash wins when both are set.
type LocalAuthProvider struct {
	token  string
	hash   []byte
	logger internal.Logger
}

func NewLocalAuthProvider(token, hash string, logger internal.Logger) *LocalAuthProvider {
	p := &LocalAuthProvider{token: token, logger: logger}
	if hash != "" {
		p.hash = []byte(hash)
	}
	return p
}

func (a *LocalAuthProvider) ValidateToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	if a.hash != nil {
		if err := bcrypt.CompareHashAndPassword(a.hash, []byte(token)); err != nil {
			a.logger.Warn("auth: token does not match configured hash")
			return ErrInvalidToken
		}
		return nil
	}
	if a.token == "" || subtle.ConstantTimeCompare([]byte(a.token), []byte(token)) != 1 {
		a.logger.Warn("auth: invalid token")
		return ErrInvalidToken
	}
	return nil
}

// HashToken produces the value to put in API_TOKEN_HASH.
func HashToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

var _ Provider = (*LocalAuthProvider)(nil)

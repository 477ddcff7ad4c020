package store

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

const authTokenKey = "auth_token"

type sessionRepository struct {
	kv     KVRepository
	logger *logger.Logger
}

func NewSessionRepository(kv KVRepository, logger *logger.Logger) SessionRepository {
	return &sessionRepository{
		kv:     kv,
		logger: logger,
	}
}

func (r *sessionRepository) Token() string {
	token, err := r.kv.Get(context.Background(), authTokenKey)
	if err != nil {
		r.logger.Err(err).Str("func", "sessionRepository.Token").Msg("failed to read stored token")
		return ""
	}
	if token == "" {
		return ""
	}

	if isExpiredJWT(token) {
		r.logger.Debug().Str("func", "sessionRepository.Token").Msg("stored token has expired")
		return ""
	}

	return token
}

func (r *sessionRepository) SetToken(ctx context.Context, token string) error {
	if err := r.kv.Set(ctx, authTokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, authTokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// isExpiredJWT reports whether the token parses as a JWT whose exp claim is
// in the past. Opaque tokens and JWTs without an exp claim are never treated
// as expired; the server remains the authority on their validity.
func isExpiredJWT(token string) bool {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}

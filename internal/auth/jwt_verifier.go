package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"synapse/internal/domain"
	"synapse/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms prevents algorithm confusion attacks
var allowedAlgorithms = []string{"RS256", "ES256"}

// VerifierConfig holds the expected token origin.
// Empty Issuer or Audience skips that check.
type VerifierConfig struct {
	JWKSURL  string
	Issuer   string
	Audience string
}

// JWKSVerifier implements JWTVerifier using keys published at a JWKS endpoint
// (Firebase and Supabase both publish one).
type JWKSVerifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
	logger  *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from the JWKS endpoint.
// keyfunc v3 caches the keys and refreshes them based on HTTP cache headers.
func NewJWTVerifier(ctx context.Context, cfg VerifierConfig, logger *slog.Logger) (JWTVerifier, error) {
	if cfg.JWKSURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", cfg.JWKSURL, "issuer", cfg.Issuer)
	return newVerifier(jwks.Keyfunc, cfg, logger), nil
}

func newVerifier(kf jwt.Keyfunc, cfg VerifierConfig, logger *slog.Logger) *JWKSVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &JWKSVerifier{
		keyfunc: kf,
		parser:  jwt.NewParser(opts...),
		logger:  logger,
	}
}

// VerifyToken validates a JWT token and extracts its claims.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	token, err := v.parser.ParseWithClaims(tokenString, &models.TokenClaims{}, v.keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// Supabase marks anonymous sessions with role "anon"
	if claims.Role == "anon" {
		v.logger.Warn("rejected anonymous token", "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op: keyfunc v3 manages its own refresh goroutine lifetime via the
// context passed to NewJWTVerifier.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}

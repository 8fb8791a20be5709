package invite

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/squadhq/squadron/internal/platform/config"
	apperrors "github.com/squadhq/squadron/internal/platform/errors"
)

// EnvGrantSecret names the environment variable holding the signing secret.
const EnvGrantSecret = "SQUADRON_INVITE_GRANT_SECRET"

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Secret string `env:"SQUADRON_INVITE_GRANT_SECRET"`
}

// GrantConfig defines how invitation grants are signed and verified.
// A grant is a signed time-bounded token stored on the invitation; its
// validity is the sole source of truth for whether a sent invitation is
// still live.
type GrantConfig struct {
	Secret []byte
	Now    func() time.Time
}

// grantClaims is the internal claims type used for JWT parsing.
type grantClaims struct {
	jwt.RegisteredClaims
}

// LoadGrantConfigFromEnv reads invitation grant configuration.
func LoadGrantConfigFromEnv(now func() time.Time) (GrantConfig, error) {
	var raw grantEnv
	if err := config.ParseEnv(&raw); err != nil {
		return GrantConfig{}, fmt.Errorf("invite grant config: %w", err)
	}
	secret := strings.TrimSpace(raw.Secret)
	if secret == "" {
		return GrantConfig{}, fmt.Errorf("SQUADRON_INVITE_GRANT_SECRET is required")
	}
	if now == nil {
		now = time.Now
	}
	return GrantConfig{
		Secret: []byte(secret),
		Now:    now,
	}, nil
}

// IssueGrant signs a grant that expires after the given duration.
func IssueGrant(ttl time.Duration, cfg GrantConfig) (string, error) {
	if len(cfg.Secret) == 0 {
		return "", errors.New("invite grant signer is not configured")
	}
	if ttl <= 0 {
		return "", apperrors.New(apperrors.CodeExpirationInvalid, "grant duration must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	now := cfg.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "invitation",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign invite grant: %w", err)
	}
	return signed, nil
}

// VerifyGrant reports whether a grant is still live. Verification failures
// are logged and reported as false rather than returned as errors, because
// a dead grant is an expected outcome rather than a fault.
func VerifyGrant(grant string, cfg GrantConfig) bool {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return false
	}
	if len(cfg.Secret) == 0 {
		log.Printf("invite grant verifier is not configured")
		return false
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(cfg.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Printf("invite grant expired")
		} else {
			log.Printf("invite grant invalid: %v", err)
		}
		return false
	}
	return true
}

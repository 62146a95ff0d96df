package app

import (
	"strings"

	"github.com/trackit-app/trackit/internal/auth"
)

// JWTServiceConfig converts the application auth configuration into the auth package representation.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	return auth.JWTConfig{
		Secret:         strings.TrimSpace(c.JWT.Secret),
		Issuer:         strings.TrimSpace(c.JWT.Issuer),
		AccessTokenTTL: c.JWT.TTL,
	}
}

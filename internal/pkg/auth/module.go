package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newAdminAuthenticator),
	fx.Provide(newSignatureVerifier),
)

func newPasswordHasher() PasswordHasher {
	return NewBcryptHasher(0)
}

type authParams struct {
	fx.In

	Config *config.Config
	Hasher PasswordHasher
}

func newAdminAuthenticator(p authParams) (*AdminAuthenticator, error) {
	return NewAdminAuthenticator(p.Config.AdminUser, p.Config.AdminPassword, p.Config.AdminPasswordHash, p.Hasher)
}

func newSignatureVerifier(cfg *config.Config) *SignatureVerifier {
	return NewSignatureVerifier(cfg.MPWebhookSecret)
}

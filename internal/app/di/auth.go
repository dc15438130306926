package di

import (
	"fmt"

	"gorm.io/gorm"

	authadapters "account_backend/internal/feature/auth/adapters"
	authhandler "account_backend/internal/feature/auth/transport/handler"
	"account_backend/internal/feature/auth/usecase"
	"account_backend/internal/platform/activationcode"
	"account_backend/internal/platform/config"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/password"
)

// Auth bundles the components of the auth feature needed by the router.
type Auth struct {
	Handler *authhandler.AuthHandler
	Tokens  *jwtmw.Issuer
}

// NewAuth wires the auth feature on top of db.
func NewAuth(db *gorm.DB, cfg *config.Config, notifier usecase.Notifier) (*Auth, error) {
	tokens, err := jwtmw.NewIssuer(cfg.Auth.SecretKey, cfg.Auth.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	uc := usecase.NewAuthUsecase(
		authadapters.NewGormStore(db),
		password.NewHasher(cfg.Auth.BcryptCost),
		tokens,
		activationcode.NewGenerator(),
		notifier,
		usecase.WithAccessTokenTTL(cfg.Auth.AccessTokenTTL),
		usecase.WithActivationTTL(cfg.Auth.ActivationTTL),
	)

	return &Auth{
		Handler: authhandler.NewAuthHandler(uc),
		Tokens:  tokens,
	}, nil
}

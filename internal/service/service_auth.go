package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-trip-sync/internal/config"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/store"
	"github.com/MKhiriev/go-trip-sync/internal/utils"
	"github.com/MKhiriev/go-trip-sync/internal/validators"
	"github.com/MKhiriev/go-trip-sync/models"
	"golang.org/x/crypto/bcrypt"
)

// authService manages accounts and access tokens. Accounts only exist to
// own and share checklists; devices authenticate to the sync endpoints with
// sync tokens obtained using an access token.
type authService struct {
	userRepository store.UserRepository
	validator      validators.Validator

	bcryptCost int
	// dummyHash is compared against when a login is unknown so that both
	// failure paths cost one bcrypt comparison.
	dummyHash func() []byte

	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs the account [AuthService].
//
// Passwords are stored as bcrypt hashes. Access tokens are HS256 JWTs
// carrying the user id in "sub" and signed with cfg.TokenSignKey.
//
// Parameters:
//   - userRepository: account storage.
//   - cfg: application settings holding the token key, issuer and duration.
//   - logger: structured logger used for diagnostic output.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	tokenDuration := cfg.TokenDuration
	if tokenDuration <= 0 {
		tokenDuration = config.DefaultTokenDuration
	}

	a := &authService{
		userRepository: userRepository,
		validator:      validators.NewOperationValidator(),
		bcryptCost:     bcrypt.DefaultCost,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  tokenDuration,
		logger:         logger,
	}
	a.dummyHash = sync.OnceValue(func() []byte {
		hash, _ := bcrypt.GenerateFromPassword([]byte("trip-sync"), a.bcryptCost)
		return hash
	})

	return a
}

func (a *authService) validateCredentials(ctx context.Context, user models.User) error {
	if err := a.validator.Validate(ctx, user); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("login", user.Login).Msg("invalid credentials provided")
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}

// RegisterUser stores a new account with a bcrypt hash of its password.
// A taken login surfaces as store.ErrLoginAlreadyExists.
func (a *authService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validateCredentials(ctx, user); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), a.bcryptCost)
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	registered, err := a.userRepository.CreateUser(ctx, models.User{Login: user.Login, PasswordHash: string(hash)})
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registered, nil
}

// Login checks the credentials. Unknown logins surface as
// store.ErrNoUserWasFound and bad passwords as ErrWrongPassword; the HTTP
// layer answers both with the same 401.
func (a *authService) Login(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := a.validateCredentials(ctx, user); err != nil {
		return models.User{}, err
	}

	found, err := a.userRepository.FindUserByLogin(ctx, user.Login)
	if errors.Is(err, store.ErrNoUserWasFound) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash(), []byte(user.Password))
		log.Warn().Str("login", user.Login).Msg("login attempt for unknown user")
		return models.User{}, fmt.Errorf("user search by login failed: %w", err)
	}
	if err != nil {
		log.Err(err).Str("login", user.Login).Msg("user search by login failed")
		return models.User{}, fmt.Errorf("user search by login failed: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(user.Password))
	switch {
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		log.Warn().Int64("id", found.UserID).Str("login", found.Login).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	case err != nil:
		log.Err(err).Int64("id", found.UserID).Msg("stored password hash is unusable")
		return models.User{}, fmt.Errorf("password check failed: %w", err)
	}

	return found, nil
}

// CreateToken issues an access token for user.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates an access token. Every failure is reported as
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

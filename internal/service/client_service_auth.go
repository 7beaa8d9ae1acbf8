package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-trip-sync/internal/adapter"
	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/internal/validators"
	"github.com/MKhiriev/go-trip-sync/models"
)

type clientAuthService struct {
	adapter   adapter.ServerAdapter
	validator validators.Validator

	logger *logger.Logger
}

func NewClientAuthService(serverAdapter adapter.ServerAdapter, logger *logger.Logger) ClientAuthService {
	return &clientAuthService{
		adapter:   serverAdapter,
		validator: validators.NewOperationValidator(),
		logger:    logger,
	}
}

func (c *clientAuthService) Register(ctx context.Context, user models.User, deviceID string) (models.SyncToken, error) {
	if err := c.validate(ctx, user, deviceID); err != nil {
		return models.SyncToken{}, err
	}

	if _, err := c.adapter.Register(ctx, user); err != nil {
		return models.SyncToken{}, fmt.Errorf("register on server: %w", mapAdapterError(err))
	}

	return c.exchange(ctx, deviceID)
}

func (c *clientAuthService) Login(ctx context.Context, user models.User, deviceID string) (models.SyncToken, error) {
	if err := c.validate(ctx, user, deviceID); err != nil {
		return models.SyncToken{}, err
	}

	if _, err := c.adapter.Login(ctx, user); err != nil {
		return models.SyncToken{}, fmt.Errorf("login on server: %w", mapAdapterError(err))
	}

	return c.exchange(ctx, deviceID)
}

func (c *clientAuthService) validate(ctx context.Context, user models.User, deviceID string) error {
	if err := c.validator.Validate(ctx, user); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err := c.validator.Validate(ctx, models.SyncTokenRequest{DeviceID: deviceID}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return nil
}

// exchange trades the access token held by the adapter for a sync token
// and makes the adapter use it from now on.
func (c *clientAuthService) exchange(ctx context.Context, deviceID string) (models.SyncToken, error) {
	token, err := c.adapter.IssueSyncToken(ctx, deviceID)
	if err != nil {
		return models.SyncToken{}, fmt.Errorf("issue sync token: %w", mapAdapterError(err))
	}

	c.adapter.SetToken(token.Token)
	logger.FromContext(ctx).Info().
		Str("device_id", deviceID).
		Time("expires_at", token.ExpiresAt).
		Msg("sync token obtained")

	return token, nil
}

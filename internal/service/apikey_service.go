package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"warehouse-api/internal/core/domain"
	"warehouse-api/internal/core/ports"
	"warehouse-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// keyTokenPrefix marks tokens from this system; the remainder is
	// 64 hex chars of entropy.
	keyTokenPrefix = "wms_"

	// touchDebounce bounds how often a busy key writes last_used_at.
	touchDebounce = time.Minute

	// touchTimeout bounds the detached last_used_at write.
	touchTimeout = 5 * time.Second
)

// APIKeyServiceImpl implements ports.APIKeyService.
type APIKeyServiceImpl struct {
	keyRepo    ports.APIKeyRepository
	userRepo   ports.UserRepository
	touchStore ports.TouchStore
	log        zerolog.Logger
}

// NewAPIKeyService creates a new APIKeyServiceImpl. touchStore may be nil,
// in which case every authentication touches the database.
func NewAPIKeyService(
	keyRepo ports.APIKeyRepository,
	userRepo ports.UserRepository,
	touchStore ports.TouchStore,
	log zerolog.Logger,
) *APIKeyServiceImpl {
	return &APIKeyServiceImpl{
		keyRepo:    keyRepo,
		userRepo:   userRepo,
		touchStore: touchStore,
		log:        log,
	}
}

// Create generates a fresh secret token and stores the key. The returned
// key carries the raw token; it is never retrievable again.
func (s *APIKeyServiceImpl) Create(ctx context.Context, userID uuid.UUID, req ports.CreateKeyRequest) (*domain.APIKey, error) {
	token, err := generateSecretToken()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate secret token: %w", err))
	}

	permissions := req.Permissions
	if permissions == nil {
		permissions = append([]domain.Permission(nil), domain.DefaultPermissions...)
	}
	for _, p := range permissions {
		if !domain.ValidPermission(p) {
			return nil, apperror.Validation(fmt.Sprintf("unknown permission: %s", p))
		}
	}

	now := time.Now().UTC()
	key := &domain.APIKey{
		ID:          uuid.New(),
		SecretToken: token,
		UserID:      userID,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Permissions: permissions,
		IsActive:    true,
		ExpiresAt:   req.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.keyRepo.Create(ctx, key); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create api key: %w", err))
	}
	return key, nil
}

// List returns all keys owned by userID.
func (s *APIKeyServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.APIKey, error) {
	keys, err := s.keyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list api keys: %w", err))
	}
	return keys, nil
}

// Get returns one key owned by userID.
func (s *APIKeyServiceImpl) Get(ctx context.Context, userID, keyID uuid.UUID) (*domain.APIKey, error) {
	key, err := s.keyRepo.GetByID(ctx, keyID, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get api key: %w", err))
	}
	if key == nil {
		return nil, apperror.ErrNotFound("API key")
	}
	return key, nil
}

// Update applies owner-initiated mutations to a key.
func (s *APIKeyServiceImpl) Update(ctx context.Context, userID, keyID uuid.UUID, req ports.UpdateKeyRequest) (*domain.APIKey, error) {
	key, err := s.keyRepo.GetByID(ctx, keyID, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get api key: %w", err))
	}
	if key == nil {
		return nil, apperror.ErrNotFound("API key")
	}

	if req.DisplayName != nil {
		key.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		key.Description = *req.Description
	}
	if req.Permissions != nil {
		for _, p := range req.Permissions {
			if !domain.ValidPermission(p) {
				return nil, apperror.Validation(fmt.Sprintf("unknown permission: %s", p))
			}
		}
		key.Permissions = req.Permissions
	}
	if req.IsActive != nil {
		key.IsActive = *req.IsActive
	}
	if req.ClearExpiry {
		key.ExpiresAt = nil
	} else if req.ExpiresAt != nil {
		key.ExpiresAt = req.ExpiresAt
	}
	key.UpdatedAt = time.Now().UTC()

	if err := s.keyRepo.Update(ctx, key); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update api key: %w", err))
	}
	return key, nil
}

// Revoke hard-deletes a key owned by userID.
func (s *APIKeyServiceImpl) Revoke(ctx context.Context, userID, keyID uuid.UUID) error {
	key, err := s.keyRepo.GetByID(ctx, keyID, userID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get api key: %w", err))
	}
	if key == nil {
		return apperror.ErrNotFound("API key")
	}
	if err := s.keyRepo.Delete(ctx, key.ID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete api key: %w", err))
	}
	return nil
}

// Authenticate resolves a presented token to a principal. Unknown,
// revoked and expired keys fail with distinct errors; a success detaches
// a best-effort last_used_at touch that never blocks the caller.
func (s *APIKeyServiceImpl) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	key, err := s.keyRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup api key: %w", err))
	}
	if key == nil {
		return nil, apperror.ErrInvalidCredential()
	}

	now := time.Now().UTC()
	if !key.IsActive {
		return nil, apperror.ErrKeyRevoked()
	}
	if key.IsExpired(now) {
		return nil, apperror.ErrKeyExpired()
	}

	user, err := s.userRepo.GetByID(ctx, key.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lookup key owner: %w", err))
	}
	if user == nil {
		// Owner deleted out from under the key; treat as an invalid credential.
		return nil, apperror.ErrInvalidCredential()
	}

	go s.touchLastUsed(key.ID, now)

	return &domain.Principal{User: user, Key: key}, nil
}

// touchLastUsed records key usage, debounced through the touch store.
// Runs detached; failures are logged only.
func (s *APIKeyServiceImpl) touchLastUsed(keyID uuid.UUID, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()

	if s.touchStore != nil {
		should, err := s.touchStore.ShouldTouch(ctx, keyID, touchDebounce)
		if err != nil {
			s.log.Warn().Err(err).Str("key_id", keyID.String()).Msg("touch store error, touching anyway")
		} else if !should {
			return
		}
	}

	if err := s.keyRepo.TouchLastUsed(ctx, keyID, at); err != nil {
		s.log.Warn().Err(err).Str("key_id", keyID.String()).Msg("failed to record key usage")
	}
}

// generateSecretToken returns a new opaque key token.
func generateSecretToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return keyTokenPrefix + hex.EncodeToString(bytes), nil
}

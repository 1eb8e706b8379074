// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"biopass/internal/domain/entity"
	"biopass/internal/domain/repository"
	"biopass/internal/infra/persistence/model"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading enrolled biometric keys.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	err := repo.db.WithContext(ctx).
		Preload("BiometricKeys").
		Where("id = ?", id).
		First(&userM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, translateStoreError(ctx, err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address.
// The lookup is a case-sensitive exact match; the store never normalizes case.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel

	err := repo.db.WithContext(ctx).
		Preload("BiometricKeys").
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, translateStoreError(ctx, err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByBiometricFingerprint retrieves the user owning a biometric key with the given fingerprint.
func (repo *userRepository) FindByBiometricFingerprint(ctx context.Context, fingerprint string) (*entity.User, error) {
	var keyM model.BiometricKeyModel

	err := repo.db.WithContext(ctx).
		Where("fingerprint = ?", fingerprint).
		First(&keyM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, translateStoreError(ctx, err, "failed to find user by biometric fingerprint")
	}

	return repo.FindByID(ctx, keyM.UserID)
}

// Create persists a new user entity, including any initial biometric keys.
// GORM's Create with associations inserts into users and biometric_keys together.
// The store's unique indexes are the authority on uniqueness; a violation here
// may be the first sign of a concurrent duplicate registration.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// Distinguish which index fired so registration can report the right conflict.
			if violatesBiometricFingerprint(err) {
				return repository.ErrDuplicateFingerprint
			}

			return repository.ErrDuplicateEmail
		}

		return translateStoreError(ctx, err, "failed to create user")
	}

	// Update the user entity with the generated IDs and timestamps.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	for i, keyM := range userM.BiometricKeys {
		user.BiometricKeys[i].ID = keyM.ID
		user.BiometricKeys[i].UserID = keyM.UserID
		user.BiometricKeys[i].CreatedAt = keyM.CreatedAt
	}

	return nil
}

// AppendBiometricKey enrolls an additional biometric key for an existing user.
func (repo *userRepository) AppendBiometricKey(ctx context.Context, key *entity.BiometricKey) error {
	keyM := fromBiometricKeyDomain(key)

	if err := repo.db.WithContext(ctx).Create(keyM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateFingerprint
		}

		return translateStoreError(ctx, err, "failed to append biometric key")
	}

	key.ID = keyM.ID
	key.CreatedAt = keyM.CreatedAt

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	keys := make([]*entity.BiometricKey, 0, len(data.BiometricKeys))
	for _, keyM := range data.BiometricKeys {
		keys = append(keys, toBiometricKeyDomain(keyM))
	}

	return &entity.User{
		ID:            data.ID,
		Email:         data.Email,
		PasswordHash:  data.PasswordHash,
		BiometricKeys: keys,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	keys := make([]*model.BiometricKeyModel, 0, len(data.BiometricKeys))
	for _, key := range data.BiometricKeys {
		keys = append(keys, fromBiometricKeyDomain(key))
	}

	return &model.UserModel{
		ID:            data.ID,
		Email:         data.Email,
		PasswordHash:  data.PasswordHash,
		BiometricKeys: keys,
	}
}

// toBiometricKeyDomain converts a GORM BiometricKeyModel to a domain BiometricKey entity.
func toBiometricKeyDomain(data *model.BiometricKeyModel) *entity.BiometricKey {
	if data == nil {
		return nil
	}

	return &entity.BiometricKey{
		ID:          data.ID,
		UserID:      data.UserID,
		KeyHash:     data.KeyHash,
		Fingerprint: data.Fingerprint,
		CreatedAt:   data.CreatedAt,
	}
}

// fromBiometricKeyDomain converts a domain BiometricKey entity to a GORM BiometricKeyModel.
func fromBiometricKeyDomain(data *entity.BiometricKey) *model.BiometricKeyModel {
	if data == nil {
		return nil
	}

	return &model.BiometricKeyModel{
		ID:          data.ID,
		UserID:      data.UserID,
		KeyHash:     data.KeyHash,
		Fingerprint: data.Fingerprint,
	}
}

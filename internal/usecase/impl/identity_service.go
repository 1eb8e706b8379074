// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "biopass/internal/delivery/context"
	"biopass/internal/domain/entity"
	domainerrors "biopass/internal/domain/errors"
	"biopass/internal/domain/repository"
	"biopass/internal/domain/service"
	"biopass/internal/usecase"
)

// dummyCredential is hashed once at construction time. When a login targets a
// user that does not exist, the service still performs one verification against
// the dummy hash so the missing-user path costs the same as the wrong-secret
// path. Without this, response timing would reveal whether an email or
// biometric key is registered.
const dummyCredential = "timing-equalization-dummy-credential"

// identityService implements the IdentityUsecase interface.
type identityService struct {
	txManager     repository.TransactionManager
	userRepo      repository.UserRepository
	hasher        service.CredentialHasher
	fingerprinter service.Fingerprinter
	tokenService  service.TokenService
	validate      *validator.Validate
	dummyHash     string
	logger        *slog.Logger
}

// IdentityServiceParams holds dependencies for identityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	UserRepo      repository.UserRepository
	Hasher        service.CredentialHasher
	Fingerprinter service.Fingerprinter
	TokenService  service.TokenService
	Logger        *slog.Logger
}

// NewIdentityService is the constructor for identityService. It receives all dependencies as interfaces.
func NewIdentityService(params IdentityServiceParams) (usecase.IdentityUsecase, error) {
	dummyHash, err := params.Hasher.Hash(dummyCredential)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare timing-equalization hash")
	}

	return &identityService{
		txManager:     params.TxManager,
		userRepo:      params.UserRepo,
		hasher:        params.Hasher,
		fingerprinter: params.Fingerprinter,
		tokenService:  params.TokenService,
		validate:      validator.New(),
		dummyHash:     dummyHash,
		logger:        params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterStandard creates a new user with a password credential.
func (srv *identityService) RegisterStandard(ctx context.Context, input *usecase.RegisterStandardInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if err := srv.validateCredentials(input.Email, input.Password); err != nil {
		srv.log(ctx).Warn("Registration input validation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	newUser, err := srv.buildNewUser(input.Email, input.Password, "")
	if err != nil {
		return nil, err
	}

	if err := srv.persistNewUser(ctx, newUser, ""); err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{
		UserID:    newUser.ID,
		Email:     newUser.Email,
		CreatedAt: newUser.CreatedAt,
	}, nil
}

// RegisterWithBiometric creates a new user with a password credential and one enrolled biometric key.
func (srv *identityService) RegisterWithBiometric(ctx context.Context, input *usecase.RegisterWithBiometricInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting biometric registration", slog.String("email", input.Email))

	if err := srv.validateCredentials(input.Email, input.Password); err != nil {
		srv.log(ctx).Warn("Registration input validation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}
	if input.BiometricKey == "" {
		return nil, domainerrors.ErrInvalidInput.WrapMessage("biometric key must not be empty")
	}

	newUser, err := srv.buildNewUser(input.Email, input.Password, input.BiometricKey)
	if err != nil {
		return nil, err
	}

	fingerprint := srv.fingerprinter.Fingerprint(input.BiometricKey)
	if err := srv.persistNewUser(ctx, newUser, fingerprint); err != nil {
		srv.log(ctx).Warn("Biometric registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Biometric registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{
		UserID:    newUser.ID,
		Email:     newUser.Email,
		CreatedAt: newUser.CreatedAt,
	}, nil
}

// LoginStandard authenticates by email and password and issues a session token.
func (srv *identityService) LoginStandard(ctx context.Context, input *usecase.LoginStandardInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting standard login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Verify against the dummy hash so this path costs one bcrypt
			// comparison, like the wrong-password path below.
			srv.hasher.Check(input.Password, srv.dummyHash)

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, srv.translateLookupError(ctx, err, "failed to load user for login")
	}

	// Check password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	return srv.issueToken(ctx, user.ID)
}

// LoginBiometric authenticates by biometric key and issues a session token.
// The fingerprint only locates the candidate user; the salted hash is always
// re-verified, so a fingerprint collision cannot authenticate.
func (srv *identityService) LoginBiometric(ctx context.Context, input *usecase.LoginBiometricInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting biometric login")

	if input.BiometricKey == "" {
		srv.hasher.Check(dummyCredential, srv.dummyHash)

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	fingerprint := srv.fingerprinter.Fingerprint(input.BiometricKey)

	user, err := srv.userRepo.FindByBiometricFingerprint(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.hasher.Check(input.BiometricKey, srv.dummyHash)

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, srv.translateLookupError(ctx, err, "failed to load user for biometric login")
	}

	enrolled := findKeyByFingerprint(user, fingerprint)
	if enrolled == nil || !srv.hasher.Check(input.BiometricKey, enrolled.KeyHash) {
		srv.log(ctx).Warn("Biometric login failed", slog.Any("userID", user.ID))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	return srv.issueToken(ctx, user.ID)
}

// EnrollBiometric enrolls an additional biometric key for an existing user.
// A key already enrolled anywhere in the system is rejected, including a key
// the same user already holds.
func (srv *identityService) EnrollBiometric(ctx context.Context, input *usecase.EnrollBiometricInput) error {
	srv.log(ctx).Info("Starting biometric enrollment", slog.Any("userID", input.UserID))

	if input.BiometricKey == "" {
		return domainerrors.ErrInvalidInput.WrapMessage("biometric key must not be empty")
	}

	keyHash, err := srv.hasher.Hash(input.BiometricKey)
	if err != nil {
		return errors.Wrap(err, "failed to hash biometric key during enrollment")
	}
	fingerprint := srv.fingerprinter.Fingerprint(input.BiometricKey)

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, err := userRepo.FindByID(ctx, input.UserID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "user not found for enrollment")
			}

			return srv.translateLookupError(ctx, err, "failed to load user for enrollment")
		}

		if err := srv.checkFingerprintUnused(ctx, userRepo, fingerprint); err != nil {
			return err
		}

		newKey := &entity.BiometricKey{
			UserID:      input.UserID,
			KeyHash:     keyHash,
			Fingerprint: fingerprint,
		}
		if err := userRepo.AppendBiometricKey(ctx, newKey); err != nil {
			// A concurrent enrollment may win the race between the check above
			// and this insert; the unique index is the authority.
			if errors.Is(err, repository.ErrDuplicateFingerprint) {
				return errors.Wrap(domainerrors.ErrDuplicateBiometricKey, "biometric key enrolled concurrently")
			}

			return srv.translateLookupError(ctx, err, "failed to append biometric key")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Biometric enrollment failed", slog.Any("userID", input.UserID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Debug("Biometric enrollment completed", slog.Any("userID", input.UserID))

	return nil
}

// GetProfile returns the authenticated user's non-sensitive profile.
func (srv *identityService) GetProfile(ctx context.Context, userID uuid.UUID) (*usecase.ProfileOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "user not found")
		}

		return nil, srv.translateLookupError(ctx, err, "failed to load user profile")
	}

	return &usecase.ProfileOutput{
		UserID:            user.ID,
		Email:             user.Email,
		BiometricKeyCount: len(user.BiometricKeys),
		CreatedAt:         user.CreatedAt,
	}, nil
}

// validateCredentials applies local shape validation before any store access.
func (srv *identityService) validateCredentials(email, password string) error {
	if email == "" {
		return domainerrors.ErrInvalidInput.WrapMessage("email must not be empty")
	}
	if err := srv.validate.Var(email, "required,email"); err != nil {
		return domainerrors.ErrInvalidInput.WrapMessage("email has invalid syntax")
	}
	if password == "" {
		return domainerrors.ErrInvalidInput.WrapMessage("password must not be empty")
	}

	return srv.hasher.ValidatePasswordStrength(password)
}

// buildNewUser hashes the supplied credentials and assembles the user entity.
// Hashing happens before the registration transaction so the transaction stays short.
func (srv *identityService) buildNewUser(email, password, biometricKey string) (*entity.User, error) {
	passwordHash, err := srv.hasher.Hash(password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Email:        email,
		PasswordHash: passwordHash,
	}

	if biometricKey != "" {
		keyHash, err := srv.hasher.Hash(biometricKey)
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash biometric key during registration")
		}

		newUser.BiometricKeys = []*entity.BiometricKey{{
			KeyHash:     keyHash,
			Fingerprint: srv.fingerprinter.Fingerprint(biometricKey),
		}}
	}

	return newUser, nil
}

// persistNewUser runs the duplicate checks and the insert in one transaction.
// The pre-insert lookups give precise conflict answers in the common case; the
// store's unique indexes remain the authority when two registrations race.
func (srv *identityService) persistNewUser(ctx context.Context, newUser *entity.User, fingerprint string) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, err := userRepo.FindByEmail(ctx, newUser.Email); err == nil {
			return errors.Wrap(domainerrors.ErrDuplicateEmail, "email already registered")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return srv.translateLookupError(ctx, err, "failed to check email uniqueness")
		}

		if fingerprint != "" {
			if err := srv.checkFingerprintUnused(ctx, userRepo, fingerprint); err != nil {
				return err
			}
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateEmail):
				return errors.Wrap(domainerrors.ErrDuplicateEmail, "user registered concurrently")
			case errors.Is(err, repository.ErrDuplicateFingerprint):
				return errors.Wrap(domainerrors.ErrDuplicateBiometricKey, "biometric key enrolled concurrently")
			default:
				return srv.translateLookupError(ctx, err, "failed to create user")
			}
		}

		return nil
	})
}

// checkFingerprintUnused fails when any user already holds a biometric key with this fingerprint.
func (srv *identityService) checkFingerprintUnused(ctx context.Context, userRepo repository.UserRepository, fingerprint string) error {
	if _, err := userRepo.FindByBiometricFingerprint(ctx, fingerprint); err == nil {
		return errors.Wrap(domainerrors.ErrDuplicateBiometricKey, "biometric key already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return srv.translateLookupError(ctx, err, "failed to check biometric key uniqueness")
	}

	return nil
}

// issueToken mints the session token for a successfully authenticated user.
func (srv *identityService) issueToken(ctx context.Context, userID uuid.UUID) (*usecase.LoginOutput, error) {
	token, err := srv.tokenService.Issue(userID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, "failed to issue session token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("userID", userID))

	return &usecase.LoginOutput{Token: token}, nil
}

// translateLookupError keeps the closed error set intact: domain errors pass
// through untouched, context expiry becomes Timeout, anything else becomes
// StoreUnavailable.
func (srv *identityService) translateLookupError(ctx context.Context, err error, details string) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return errors.Wrap(err, details)
	}

	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return errors.Wrap(domainerrors.ErrTimeout, details)
	}

	return errors.Wrap(domainerrors.ErrStoreUnavailable, details)
}

// findKeyByFingerprint locates the enrolled key that produced the fingerprint match.
func findKeyByFingerprint(user *entity.User, fingerprint string) *entity.BiometricKey {
	for _, key := range user.BiometricKeys {
		if key.Fingerprint == fingerprint {
			return key
		}
	}

	return nil
}

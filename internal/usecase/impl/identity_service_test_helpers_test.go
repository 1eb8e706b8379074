package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"biopass/config"
	"biopass/internal/domain/entity"
	"biopass/internal/domain/repository"
	"biopass/internal/domain/service"
	"biopass/internal/infra/auth"
	"biopass/internal/usecase"
)

func newRandomUserID(t *testing.T) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("failed to generate user id: %v", err)
	}

	return id
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeUserRepo is an in-memory UserRepository with the same uniqueness
// semantics as the real store: unique email, globally unique fingerprint.
type fakeUserRepo struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]*entity.User
	emails       map[string]uuid.UUID
	fingerprints map[string]uuid.UUID
	failWith     error // when set, every operation fails with this error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:         make(map[uuid.UUID]*entity.User),
		emails:       make(map[string]uuid.UUID),
		fingerprints: make(map[string]uuid.UUID),
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	id, ok := r.emails[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return r.byID[id], nil
}

func (r *fakeUserRepo) FindByBiometricFingerprint(_ context.Context, fingerprint string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}

	id, ok := r.fingerprints[fingerprint]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return r.byID[id], nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	if _, exists := r.emails[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	for _, key := range user.BiometricKeys {
		if _, exists := r.fingerprints[key.Fingerprint]; exists {
			return repository.ErrDuplicateFingerprint
		}
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	for _, key := range user.BiometricKeys {
		key.ID = uuid.New()
		key.UserID = user.ID
		key.CreatedAt = user.CreatedAt
		r.fingerprints[key.Fingerprint] = user.ID
	}

	r.byID[user.ID] = user
	r.emails[user.Email] = user.ID

	return nil
}

func (r *fakeUserRepo) AppendBiometricKey(_ context.Context, key *entity.BiometricKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}

	if _, exists := r.fingerprints[key.Fingerprint]; exists {
		return repository.ErrDuplicateFingerprint
	}

	user, ok := r.byID[key.UserID]
	if !ok {
		return repository.ErrUserNotFound
	}

	key.ID = uuid.New()
	key.CreatedAt = time.Now()
	user.BiometricKeys = append(user.BiometricKeys, key)
	r.fingerprints[key.Fingerprint] = key.UserID

	return nil
}

// fakeTxManager executes the function directly against the fake repository;
// the fake's mutex stands in for transactional isolation.
type fakeTxManager struct {
	repo *fakeUserRepo
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m)
}

func (m *fakeTxManager) UserRepo() repository.UserRepository {
	return m.repo
}

// identityFixtures holds the service under test plus the collaborators the
// assertions need to inspect.
type identityFixtures struct {
	service       usecase.IdentityUsecase
	repo          *fakeUserRepo
	tokenService  service.TokenService
	fingerprinter service.Fingerprinter
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost: bcrypt.MinCost,
			TokenTTL:   15 * time.Minute,
		},
	}
	cfg.SecretKey.Token = "test_signing_secret_long_enough_for_hs256"
	cfg.SecretKey.FingerprintPepper = "test_fingerprint_pepper"

	return cfg
}

func createTestIdentityService(t *testing.T) identityFixtures {
	t.Helper()

	return createTestIdentityServiceWithConfig(t, newTestConfig())
}

func createTestIdentityServiceWithConfig(t *testing.T, cfg *config.Config) identityFixtures {
	t.Helper()

	repo := newFakeUserRepo()

	tokenService, err := auth.NewJWTService(cfg)
	if err != nil {
		t.Fatalf("failed to build token service: %v", err)
	}
	fingerprinter, err := auth.NewHMACFingerprinter(cfg)
	if err != nil {
		t.Fatalf("failed to build fingerprinter: %v", err)
	}

	svc, err := NewIdentityService(IdentityServiceParams{
		TxManager:     &fakeTxManager{repo: repo},
		UserRepo:      repo,
		Hasher:        auth.NewBcryptHasher(cfg),
		Fingerprinter: fingerprinter,
		TokenService:  tokenService,
		Logger:        newDiscardLogger(),
	})
	if err != nil {
		t.Fatalf("failed to build identity service: %v", err)
	}

	return identityFixtures{
		service:       svc,
		repo:          repo,
		tokenService:  tokenService,
		fingerprinter: fingerprinter,
	}
}

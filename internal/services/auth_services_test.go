package services

import (
	"context"
	"testing"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"
	"github.com/caijiayiLinda/online-shopping-mall/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	getByEmail     func(ctx context.Context, email string) (*model.User, error)
	getByID        func(ctx context.Context, id int64) (*model.User, error)
	emailExists    func(ctx context.Context, email string) (bool, error)
	create         func(ctx context.Context, email, passwordHash string, admin bool) (int64, error)
	updatePassword func(ctx context.Context, id int64, passwordHash string) error
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.getByEmail(ctx, email)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return m.getByID(ctx, id)
}

func (m *mockUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.emailExists(ctx, email)
}

func (m *mockUserStore) Create(ctx context.Context, email, passwordHash string, admin bool) (int64, error) {
	return m.create(ctx, email, passwordHash, admin)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.updatePassword(ctx, id, passwordHash)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegisterCreatesNonAdminWithHashedPassword(t *testing.T) {
	var gotEmail, gotHash string
	var gotAdmin bool
	store := &mockUserStore{
		emailExists: func(ctx context.Context, email string) (bool, error) { return false, nil },
		create: func(ctx context.Context, email, passwordHash string, admin bool) (int64, error) {
			gotEmail, gotHash, gotAdmin = email, passwordHash, admin
			return 7, nil
		},
	}
	svc := NewAuthService(store)

	id, err := svc.Register(context.Background(), "user@example.com", "password123", "password123")

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "user@example.com", gotEmail)
	assert.False(t, gotAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(gotHash), []byte("password123")))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(&mockUserStore{})

	cases := []struct {
		name            string
		email, pw, conf string
	}{
		{"bad email", "not-an-email", "password123", "password123"},
		{"short password", "user@example.com", "short", "short"},
		{"illegal character", "user@example.com", "password 123", "password 123"},
		{"mismatch", "user@example.com", "password123", "password456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.email, tc.pw, tc.conf)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &mockUserStore{
		emailExists: func(ctx context.Context, email string) (bool, error) { return true, nil },
	}
	svc := NewAuthService(store)

	_, err := svc.Register(context.Background(), "user@example.com", "password123", "password123")

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginSuccessStripsHash(t *testing.T) {
	hash := hashOf(t, "password123")
	store := &mockUserStore{
		getByEmail: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{UserID: 3, Email: email, PasswordHash: hash, Admin: true}, nil
		},
	}
	svc := NewAuthService(store)

	u, err := svc.Login(context.Background(), "admin@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, int64(3), u.UserID)
	assert.True(t, u.Admin)
	assert.Empty(t, u.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	hash := hashOf(t, "password123")
	store := &mockUserStore{
		getByEmail: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{UserID: 3, Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(store)

	_, err := svc.Login(context.Background(), "user@example.com", "password456")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailHidesExistence(t *testing.T) {
	store := &mockUserStore{
		getByEmail: func(ctx context.Context, email string) (*model.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewAuthService(store)

	_, err := svc.Login(context.Background(), "nobody@example.com", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	hash := hashOf(t, "oldpassword1")
	var newHash string
	store := &mockUserStore{
		getByID: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{UserID: id, PasswordHash: hash}, nil
		},
		updatePassword: func(ctx context.Context, id int64, passwordHash string) error {
			newHash = passwordHash
			return nil
		},
	}
	svc := NewAuthService(store)

	err := svc.ChangePassword(context.Background(), 3, "oldpassword1", "newpassword1")

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("newpassword1")))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	hash := hashOf(t, "oldpassword1")
	store := &mockUserStore{
		getByID: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{UserID: id, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(store)

	err := svc.ChangePassword(context.Background(), 3, "wrongpassword", "newpassword1")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

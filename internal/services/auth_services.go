package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"
	"github.com/caijiayiLinda/online-shopping-mall/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrValidation         = errors.New("validation failed")
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	passwordRegex = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]{8,50}$`)
)

// userStore is the subset of the user repository the service needs.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, email, passwordHash string, admin bool) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type AuthService struct {
	Users userStore
}

func NewAuthService(u userStore) *AuthService {
	return &AuthService{Users: u}
}

func validateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}

func validatePassword(pw string) error {
	if !passwordRegex.MatchString(pw) {
		return fmt.Errorf("%w: invalid password format", ErrValidation)
	}
	return nil
}

// Register creates a non-admin account. Admin accounts are only ever
// provisioned directly in the database.
func (s *AuthService) Register(ctx context.Context, email, password, confirmPassword string) (int64, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	confirmPassword = strings.TrimSpace(confirmPassword)

	if err := validateEmail(email); err != nil {
		return 0, err
	}
	if err := validatePassword(password); err != nil {
		return 0, err
	}
	if password != confirmPassword {
		return 0, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	return s.Users.Create(ctx, email, string(hash), false)
}

// Login authenticates by email and password and returns the user with
// the password hash zeroed out.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		// do not reveal whether the email exists
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}

// CheckAuth resolves the user behind a token's subject id. Used by the
// session-introspection and refresh endpoints to confirm the account
// still exists.
func (s *AuthService) CheckAuth(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// ChangePassword verifies the current password before rehashing.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, string(hash))
}

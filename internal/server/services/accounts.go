// Package services contains server-side business logic. This file implements
// AccountService: registration, authentication with opaque bearer tokens,
// self-profile reads/updates, and the administrative user operations.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkovalev/accountd/internal/common"
	"github.com/dkovalev/accountd/internal/dbx"
	"github.com/dkovalev/accountd/internal/server/auth"
	"github.com/dkovalev/accountd/internal/server/config"
	"github.com/dkovalev/accountd/internal/server/models"
	"github.com/dkovalev/accountd/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest password Register and password updates
// accept.
const MinPasswordLength = 5

// tokenKeySize is the number of random bytes per token key; keys are hex
// encoded, so the stored key is twice as long.
const tokenKeySize = 20

// dummyPasswordHash is compared against when the looked-up user does not
// exist, so Authenticate does roughly the same work either way.
var dummyPasswordHash, _ = auth.HashPassword("accountd-no-such-user", 0)

// ProfileView is the self-profile projection. It never carries the password
// hash or privilege flags.
type ProfileView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToProfileView projects a user onto the fields the profile endpoint exposes.
func ToProfileView(user *models.User) ProfileView {
	return ProfileView{Name: user.Name, Email: user.Email}
}

// UpdateProfileParams holds the self-service partial update. Nil fields are
// left unchanged. Email, id and privilege flags cannot be changed through
// this path.
type UpdateProfileParams struct {
	Name     *string
	Password *string
}

// AdminCreateParams covers every user field the admin surface may set.
type AdminCreateParams struct {
	Email       string
	Password    string
	Name        string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
}

// AdminUpdateParams holds the administrative partial update. Nil fields are
// left unchanged.
type AdminUpdateParams struct {
	Email       *string
	Name        *string
	Password    *string
	IsActive    *bool
	IsStaff     *bool
	IsSuperuser *bool
}

// AccountService orchestrates the user store, the credential verifier and the
// token issuer.
type AccountService struct {
	repos      repomanager.RepositoryManager
	bcryptCost int
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		repos:      m,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a regular active account. Invalid or duplicate emails and
// short passwords are reported as *common.ValidationError.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.createUser(ctx, AdminCreateParams{
		Email:    email,
		Password: password,
		Name:     name,
		IsActive: true,
	})
}

// VerifyCredentials checks an email/password pair and returns the matching
// active user. Unknown emails, wrong passwords and inactive accounts all fail
// with the same common.ErrorInvalidCredentials.
func (s *AccountService) VerifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil || password == "" {
		return nil, common.ErrorInvalidCredentials
	}

	user, err := s.repos.Users(s.repos.DB()).GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(password, dummyPasswordHash)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) || !user.IsActive {
		return nil, common.ErrorInvalidCredentials
	}

	return user, nil
}

// Authenticate verifies credentials and returns the user's token key, issuing
// one on first login.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	candidateKey, err := common.MakeRandHexString(tokenKeySize)
	if err != nil {
		return "", common.ErrorInternal
	}

	var key string
	if err := s.repos.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Users(tx).SetLastLogin(ctx, user.ID, time.Now()); err != nil {
			return err
		}
		token, err := s.repos.Tokens(tx).GetOrCreate(ctx, user.ID, candidateKey)
		if err != nil {
			return err
		}
		key = token.Key
		return nil
	}); err != nil {
		return "", common.ErrorInternal
	}

	return key, nil
}

// AuthenticateSession verifies credentials for a browser login and records
// the login time. No bearer token is issued.
func (s *AccountService) AuthenticateSession(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.repos.Users(s.repos.DB()).SetLastLogin(ctx, user.ID, time.Now()); err != nil {
		return nil, common.ErrorInternal
	}

	return user, nil
}

// GetUserByToken resolves an opaque token key to its active owner. Unknown
// keys and inactive owners both yield common.ErrorInvalidToken.
func (s *AccountService) GetUserByToken(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, common.ErrorInvalidToken
	}

	userID, err := s.repos.Tokens(s.repos.DB()).FindUser(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidToken
		}
		return nil, common.ErrorInternal
	}

	user, err := s.repos.Users(s.repos.DB()).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidToken
		}
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, common.ErrorInvalidToken
	}

	return user, nil
}

// UpdateProfile applies a self-service partial update to the acting user.
func (s *AccountService) UpdateProfile(ctx context.Context, user *models.User, params UpdateProfileParams) (*models.User, error) {
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Password != nil {
		if err := s.SetPassword(user, *params.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repos.Users(s.repos.DB()).Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// SetPassword validates newPassword and replaces the user's stored hash.
// It is the only path that writes PasswordHash.
func (s *AccountService) SetPassword(user *models.User, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return common.NewValidationError("password",
			fmt.Sprintf("ensure this field has at least %d characters", MinPasswordLength))
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return common.ErrorInternal
	}
	user.PasswordHash = hash
	return nil
}

// ListUsers returns every account ordered by id, for the admin list page.
func (s *AccountService) ListUsers(ctx context.Context) ([]*models.User, error) {
	result, err := s.repos.Users(s.repos.DB()).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return result, nil
}

// GetUser returns a single account by id.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repos.Users(s.repos.DB()).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// AdminCreateUser creates an account with explicit flags, for the admin
// creation form and adminctl.
func (s *AccountService) AdminCreateUser(ctx context.Context, params AdminCreateParams) (*models.User, error) {
	return s.createUser(ctx, params)
}

// AdminUpdateUser applies an administrative partial update, including
// privilege flags and optional password reset.
func (s *AccountService) AdminUpdateUser(ctx context.Context, id int64, params AdminUpdateParams) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Email != nil {
		normalized, err := NormalizeEmail(*params.Email)
		if err != nil {
			return nil, common.NewValidationError("email", "enter a valid email address")
		}
		user.Email = normalized
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Password != nil {
		if err := s.SetPassword(user, *params.Password); err != nil {
			return nil, err
		}
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}
	if params.IsStaff != nil {
		user.IsStaff = *params.IsStaff
	}
	if params.IsSuperuser != nil {
		user.IsSuperuser = *params.IsSuperuser
	}

	if err := s.repos.Users(s.repos.DB()).Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			return nil, common.NewValidationError("email", "user with this email already exists")
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

// CreateSuperuser creates an active staff superuser account.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, password, name string) (*models.User, error) {
	return s.createUser(ctx, AdminCreateParams{
		Email:       email,
		Password:    password,
		Name:        name,
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	})
}

func (s *AccountService) createUser(ctx context.Context, params AdminCreateParams) (*models.User, error) {
	normalized, err := NormalizeEmail(params.Email)
	if err != nil {
		return nil, common.NewValidationError("email", "enter a valid email address")
	}

	user := &models.User{
		Email:       normalized,
		Name:        params.Name,
		IsActive:    params.IsActive,
		IsStaff:     params.IsStaff,
		IsSuperuser: params.IsSuperuser,
	}
	if err := s.SetPassword(user, params.Password); err != nil {
		return nil, err
	}

	created, err := s.repos.Users(s.repos.DB()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			return nil, common.NewValidationError("email", "user with this email already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// NormalizeEmail lower-cases the domain part of an address, keeping the local
// part verbatim. Addresses without a local part or domain are rejected.
func NormalizeEmail(email string) (string, error) {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", fmt.Errorf("invalid email address: %q", email)
	}
	local, domain := email[:at], email[at+1:]
	return local + "@" + strings.ToLower(domain), nil
}

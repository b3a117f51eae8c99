package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "dencare/database/repository/user"
	"dencare/models"
	"dencare/utils"
)

// ErrInvalidCredentials hides whether the email exists or the password
// was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

func (s *DefaultUserService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	usr := &models.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, usr); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return nil, err
		}
		utils.GetLogger().Error("Register: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	return s.issueSession(ctx, usr)
}

func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	usr, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		utils.GetLogger().Error("Authenticate: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, usr)
}

// issueSession generates a JWT, stores its hash on the account and in the
// auth cache so the middleware can verify without re-reading Mongo.
func (s *DefaultUserService) issueSession(ctx context.Context, usr *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(usr.ID, usr.Email, utils.SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	tokenHash := utils.HashToken(token)

	if err := s.Repo.SetTokenHash(ctx, usr.ID, tokenHash); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	cacheKey := utils.AuthCachePrefix + usr.ID
	if err := utils.GetAuthCacheClient().Set(ctx, cacheKey, tokenHash, utils.AuthCacheTTL).Err(); err != nil {
		// Cache is an accelerator; the middleware falls back to Mongo.
		utils.GetLogger().Warn("issueSession: failed to cache token hash", zap.Error(err))
	}

	usr.TokenHash = ""
	return &AuthResponse{User: *usr, Token: token}, nil
}

func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultUserService) Revoke(ctx context.Context, id string) error {
	if err := s.Repo.SetTokenHash(ctx, id, ""); err != nil {
		return err
	}
	cacheKey := utils.AuthCachePrefix + id
	if err := utils.GetAuthCacheClient().Del(ctx, cacheKey).Err(); err != nil {
		utils.GetLogger().Warn("Revoke: failed to clear token cache", zap.Error(err))
	}
	return nil
}

func (s *DefaultUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListAll(ctx)
}

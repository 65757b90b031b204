package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AccountService handles registration, login, profiles and the admin user
// list.
type AccountService struct {
	users  UserStore
	tokens *TokenManager
	log    *zap.Logger
	now    func() time.Time
}

func NewAccountService(users UserStore, tokens *TokenManager, log *zap.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, log: log.Named("auth"), now: time.Now}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := models.NormalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, apperr.BadRequest("name, email and password are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.BadRequest("password must be at least 6 characters")
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := s.now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			s.log.Info("register email exists", zap.String("email", email))
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal(err)
	}

	token, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("user registered", zap.String("userId", user.ID.Hex()))
	return &AuthResult{Token: token, User: *user}, nil
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := models.NormalizeEmail(in.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, apperr.Internal(err)
	}
	if !models.CheckPassword(user.Password, in.Password) {
		s.log.Info("login rejected", zap.String("userId", user.ID.Hex()))
		return nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{Token: token, User: *user}, nil
}

// Authenticate resolves a bearer token to the current user record. Every
// failure is reported as Unauthorized.
func (s *AccountService) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(rawToken)
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return nil, apperr.Unauthorized("unauthorized")
	}
	id, err := primitive.ObjectIDFromHex(claims.User.ID)
	if err != nil {
		return nil, apperr.Unauthorized("unauthorized")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperr.Unauthorized("unauthorized")
		}
		return nil, apperr.Internal(err)
	}
	user.Password = ""
	user.ResetOTP = nil
	user.ResetOTPExpiry = nil
	return user, nil
}

func (s *AccountService) Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found")
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileUpdate) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.BadRequest("name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := models.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, apperr.BadRequest("email cannot be empty")
		}
		user.Email = email
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, apperr.BadRequest("password must be at least 6 characters")
		}
		hash, err := models.HashPassword(*in.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user.Password = hash
	}
	user.UpdatedAt = s.now()

	if err := s.users.Replace(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, lookupError(err, "user not found")
	}
	return user, nil
}

// ListUsers pages through accounts. A zero limit returns everyone.
func (s *AccountService) ListUsers(ctx context.Context, page, limit int64) ([]models.User, int64, error) {
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	var skip int64
	if limit > 0 && page > 1 {
		skip = (page - 1) * limit
	}
	users, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return users, total, nil
}

func (s *AccountService) UpdateRole(ctx context.Context, rawID, role string) (*models.User, error) {
	id, err := parseObjectID(rawID, "user id")
	if err != nil {
		return nil, err
	}
	if !models.ValidRole(role) {
		return nil, apperr.BadRequest("role must be user or admin")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user not found")
	}
	user.Role = role
	user.UpdatedAt = s.now()
	if err := s.users.Replace(ctx, user); err != nil {
		return nil, lookupError(err, "user not found")
	}
	s.log.Info("user role updated", zap.String("userId", id.Hex()), zap.String("role", role))
	return user, nil
}

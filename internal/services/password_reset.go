package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"

	"go.uber.org/zap"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

const (
	resetCodeTTL = 10 * time.Minute
	// A new code may be requested once no more than this much of the
	// previous code's lifetime remains.
	resetCooldownRemaining = 8 * time.Minute

	resetCodeMin   = 100000
	resetCodeRange = 900000
)

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// PasswordResetService issues and consumes one-time reset codes stored on
// the user record. Reads and writes of the code fields are not guarded
// against concurrent requests for the same user.
type PasswordResetService struct {
	users   UserStore
	mailer  ResetCodeSender
	log     *zap.Logger
	now     func() time.Time
	newCode func() (string, error)
}

func NewPasswordResetService(users UserStore, mailer ResetCodeSender, log *zap.Logger) *PasswordResetService {
	return &PasswordResetService{
		users:   users,
		mailer:  mailer,
		log:     log.Named("password-reset"),
		now:     time.Now,
		newCode: generateResetCode,
	}
}

// generateResetCode draws uniformly from 100000..999999.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(resetCodeRange))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+resetCodeMin, 10), nil
}

func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return apperr.BadRequest("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return lookupError(err, "user not found")
	}

	now := s.now()
	if user.HasActiveReset() {
		remaining := user.ResetOTPExpiry.Sub(now)
		if remaining > resetCooldownRemaining {
			wait := int(math.Ceil(remaining.Minutes())) - int(resetCooldownRemaining/time.Minute)
			if wait < 1 {
				wait = 1
			}
			return &apperr.Error{
				Kind:    apperr.KindTooManyRequests,
				Message: fmt.Sprintf("please wait %d minute(s) before requesting a new code", wait),
			}
		}
	}

	code, err := s.newCode()
	if err != nil {
		return apperr.Internal(err)
	}
	expiry := now.Add(resetCodeTTL)
	user.ResetOTP = &code
	user.ResetOTPExpiry = &expiry
	user.UpdatedAt = now
	if err := s.users.Replace(ctx, user); err != nil {
		return apperr.Internal(err)
	}

	if err := s.mailer.SendResetCode(ctx, user.Email, code); err != nil {
		s.log.Error("reset code delivery failed", zap.String("userId", user.ID.Hex()), zap.Error(err))
		return apperr.Wrap(apperr.KindServerError, "failed to send reset code", err)
	}

	s.log.Info("reset code issued", zap.String("userId", user.ID.Hex()))
	return nil
}

func (s *PasswordResetService) ConfirmReset(ctx context.Context, in ResetPasswordInput) error {
	user, err := s.users.FindByEmail(ctx, models.NormalizeEmail(in.Email))
	if err != nil {
		return lookupError(err, "user not found")
	}
	if !user.HasActiveReset() {
		return apperr.BadRequest("no reset code has been requested")
	}

	now := s.now()
	if now.After(*user.ResetOTPExpiry) {
		user.ResetOTP = nil
		user.ResetOTPExpiry = nil
		user.UpdatedAt = now
		if err := s.users.Replace(ctx, user); err != nil {
			return apperr.Internal(err)
		}
		return apperr.New(apperr.KindExpired, "reset code has expired")
	}

	if *user.ResetOTP != in.OTP {
		s.log.Info("reset code mismatch", zap.String("userId", user.ID.Hex()))
		return apperr.New(apperr.KindInvalidCode, "invalid reset code")
	}

	if len(in.NewPassword) < minPasswordLength {
		return apperr.BadRequest("password must be at least 6 characters")
	}

	hash, err := models.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	user.Password = hash
	user.ResetOTP = nil
	user.ResetOTPExpiry = nil
	user.UpdatedAt = now
	if err := s.users.Replace(ctx, user); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}

	s.log.Info("password reset completed", zap.String("userId", user.ID.Hex()))
	return nil
}

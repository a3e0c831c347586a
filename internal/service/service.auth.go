package service

import (
	"context"

	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const msgBadCredentials = "Incorrect email or password"

// Login exchanges credentials for an access token.
// Unknown accounts still pay for one bcrypt comparison.
func (s *Service) Login(ctx context.Context, form models.LoginForm) (*models.Token, error) {
	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(form.Username))
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}
		auth.BurnPasswordCheck(form.Password)
		return nil, errors.NewValidationError(msgBadCredentials, nil)
	}
	if !auth.VerifyPassword(form.Password, user.HashedPassword) {
		return nil, errors.NewValidationError(msgBadCredentials, nil)
	}
	if !user.IsActive {
		return nil, errors.NewValidationError("Inactive user", nil)
	}

	token, err := s.gate.IssueAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	nuts.L.Infof("[AuthService] User %s logged in", user.ID)
	return token, nil
}

// TestToken echoes the principal a token resolves to.
func (s *Service) TestToken(p *auth.Principal) (*models.UserPublic, error) {
	return s.GetMe(p)
}

// Logout revokes the presented token.
func (s *Service) Logout(ctx context.Context, p *auth.Principal) (*models.Message, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}
	if err := s.gate.Revoke(ctx, p); err != nil {
		return nil, err
	}
	return &models.Message{Message: "Logged out successfully"}, nil
}

// RecoverPassword issues a reset token for email and hands it to the notifier.
func (s *Service) RecoverPassword(ctx context.Context, email string) (*models.Message, error) {
	user, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return nil, notFoundAs(err, "The user with this email does not exist in the system.")
	}

	token, err := s.gate.IssueResetToken(user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.SendPasswordReset(ctx, user.Email, token); err != nil {
		return nil, errors.NewUnavailableError("failed to deliver password recovery", err)
	}
	return &models.Message{Message: "Password recovery email sent"}, nil
}

// ResetPassword sets a new password from a reset token and revokes all sessions.
func (s *Service) ResetPassword(ctx context.Context, in models.NewPassword) (*models.Message, error) {
	email, err := s.gate.VerifyResetToken(in.Token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFoundAs(err, "The user with this email does not exist in the system.")
	}
	if !user.IsActive {
		return nil, errors.NewValidationError("Inactive user", nil)
	}
	if err := s.setPassword(ctx, user, in.NewPassword); err != nil {
		return nil, err
	}
	s.revokeAll(ctx, user.ID)
	nuts.L.Infof("[AuthService] Password reset for user %s", user.ID)
	return &models.Message{Message: "Password updated successfully"}, nil
}

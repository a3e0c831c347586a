package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	msgUserNotFound    = "The user with this id does not exist in the system"
	msgEmailRegistered = "The user with this email already exists in the system"
)

func (s *Service) ListUsers(ctx context.Context, p *auth.Principal, page models.Pagination) (*models.UsersPublic, error) {
	if err := s.gate.Require(p, auth.LevelSuperuser); err != nil {
		return nil, err
	}
	page, err := page.Normalize()
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}
	users, count, err := s.users.List(ctx, page)
	if err != nil {
		return nil, err
	}
	out := models.UsersToPublic(users, count)
	return &out, nil
}

func (s *Service) CreateUser(ctx context.Context, p *auth.Principal, in models.UserCreate) (*models.UserPublic, error) {
	if err := s.gate.Require(p, auth.LevelSuperuser); err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	user, err := s.createUser(ctx, in.Email, in.Password, in.FullName, active, in.IsSuperuser)
	if err != nil {
		return nil, err
	}
	out := user.ToPublic()
	return &out, nil
}

// Register creates an ordinary active account without authentication.
func (s *Service) Register(ctx context.Context, in models.UserRegister) (*models.UserPublic, error) {
	if !s.opts.OpenRegistration {
		return nil, errors.NewAuthorizationError("Open user registration is forbidden on this server", nil)
	}
	user, err := s.createUser(ctx, in.Email, in.Password, in.FullName, true, false)
	if err != nil {
		return nil, err
	}
	out := user.ToPublic()
	return &out, nil
}

// EnsureSuperuser creates the first superuser when no account holds email yet.
func (s *Service) EnsureSuperuser(ctx context.Context, email, password string) error {
	_, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.IsNotFound(err) {
		return err
	}
	user, err := s.createUser(ctx, email, password, nil, true, true)
	if err != nil {
		return err
	}
	nuts.L.Infof("[UserService] Created first superuser %s", user.Email)
	return nil
}

func (s *Service) createUser(ctx context.Context, email, password string, fullName *string, active, superuser bool) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}
	if err := models.ValidatePassword(password); err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}
	if err := models.ValidateFullName(fullName); err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}
	user := &models.User{
		ID:             uuid.New(),
		Email:          email,
		FullName:       fullName,
		IsActive:       active,
		IsSuperuser:    superuser,
		HashedPassword: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetMe(p *auth.Principal) (*models.UserPublic, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}
	out := p.User.ToPublic()
	return &out, nil
}

func (s *Service) UpdateMe(ctx context.Context, p *auth.Principal, in models.UserUpdateMe) (*models.UserPublic, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, p.User.ID)
	if err != nil {
		return nil, err
	}
	if err := s.applyUserFields(ctx, user, in.Email, in.FullName); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	out := user.ToPublic()
	return &out, nil
}

func (s *Service) UpdatePassword(ctx context.Context, p *auth.Principal, in models.UpdatePassword) (*models.Message, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, p.User.ID)
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(in.CurrentPassword, user.HashedPassword) {
		return nil, errors.NewValidationError("Incorrect password", nil)
	}
	if in.CurrentPassword == in.NewPassword {
		return nil, errors.NewValidationError("New password cannot be the same as the current one", nil)
	}
	if err := s.setPassword(ctx, user, in.NewPassword); err != nil {
		return nil, err
	}
	return &models.Message{Message: "Password updated successfully"}, nil
}

func (s *Service) DeleteMe(ctx context.Context, p *auth.Principal) (*models.Message, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}
	if p.User.IsSuperuser {
		return nil, errors.NewAuthorizationError("Super users are not allowed to delete themselves", nil)
	}
	if err := s.deleteUser(ctx, p.User.ID); err != nil {
		return nil, err
	}
	return &models.Message{Message: "User deleted successfully"}, nil
}

// GetUser returns a user to itself or to a superuser.
func (s *Service) GetUser(ctx context.Context, p *auth.Principal, id uuid.UUID) (*models.UserPublic, error) {
	if err := s.gate.Require(p, auth.LevelUser); err != nil {
		return nil, err
	}
	if p.User.ID == id {
		out := p.User.ToPublic()
		return &out, nil
	}
	if err := s.gate.Require(p, auth.LevelSuperuser); err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := user.ToPublic()
	return &out, nil
}

func (s *Service) UpdateUser(ctx context.Context, p *auth.Principal, id uuid.UUID, in models.UserUpdate) (*models.UserPublic, error) {
	if err := s.gate.Require(p, auth.LevelSuperuser); err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgUserNotFound)
	}
	if err := s.applyUserFields(ctx, user, in.Email, in.FullName); err != nil {
		return nil, err
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		user.IsSuperuser = *in.IsSuperuser
	}
	if in.Password != nil {
		if err := models.ValidatePassword(*in.Password); err != nil {
			return nil, errors.NewValidationError(err.Error(), err)
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, errors.NewInternalError("failed to hash password", err)
		}
		user.HashedPassword = hash
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if !user.IsActive || in.Password != nil {
		s.revokeAll(ctx, user.ID)
	}
	out := user.ToPublic()
	return &out, nil
}

func (s *Service) DeleteUser(ctx context.Context, p *auth.Principal, id uuid.UUID) (*models.Message, error) {
	if err := s.gate.Require(p, auth.LevelSuperuser); err != nil {
		return nil, err
	}
	if p.User.ID == id {
		return nil, errors.NewAuthorizationError("Super users are not allowed to delete themselves", nil)
	}
	if err := s.deleteUser(ctx, id); err != nil {
		return nil, notFoundAs(err, msgUserNotFound)
	}
	return &models.Message{Message: "User deleted successfully"}, nil
}

func (s *Service) deleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeAll(ctx, id)
	nuts.L.Infof("[UserService] Deleted user %s", id)
	s.emit(EventUserDeleted, id.String())
	return nil
}

// applyUserFields validates and copies the optional profile fields onto user.
func (s *Service) applyUserFields(ctx context.Context, user *models.User, email, fullName *string) error {
	if email != nil {
		normalized := models.NormalizeEmail(*email)
		if err := models.ValidateEmail(normalized); err != nil {
			return errors.NewValidationError(err.Error(), err)
		}
		if normalized != user.Email {
			existing, err := s.users.GetByEmail(ctx, normalized)
			if err == nil && existing.ID != user.ID {
				return errors.NewConflictError(msgEmailRegistered, nil)
			}
			if err != nil && !errors.IsNotFound(err) {
				return err
			}
		}
		user.Email = normalized
	}
	if fullName != nil {
		if err := models.ValidateFullName(fullName); err != nil {
			return errors.NewValidationError(err.Error(), err)
		}
		user.FullName = fullName
	}
	return nil
}

func (s *Service) setPassword(ctx context.Context, user *models.User, password string) error {
	if err := models.ValidatePassword(password); err != nil {
		return errors.NewValidationError(err.Error(), err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return errors.NewInternalError("failed to hash password", err)
	}
	user.HashedPassword = hash
	return s.users.Update(ctx, user)
}

// revokeAll drops every lease of a user; failures are logged since tokens expire anyway.
func (s *Service) revokeAll(ctx context.Context, id uuid.UUID) {
	if err := s.gate.RevokeAll(ctx, id.String()); err != nil {
		nuts.L.Warnf("[UserService] Failed to revoke tokens of user %s: %v", id, err)
	}
}

func notFoundAs(err error, message string) error {
	if errors.IsNotFound(err) {
		return errors.NewNotFoundError(message, err)
	}
	return err
}

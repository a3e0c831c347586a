// FilePath: internal/repository/postgres/postgres.users.go
package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/itsatony/sensorhub/internal/database"
	"github.com/itsatony/sensorhub/internal/errors"
	"github.com/itsatony/sensorhub/internal/models"
)

const (
	userNotFound = "User not found"
	userColumns  = `id, email, full_name, is_active, is_superuser, hashed_password`
)

type UserRepo struct {
	PostgresBaseRepo
}

func NewUserRepository(db database.DB) *UserRepo {
	repo := &PostgresBaseRepo{db: db}
	return &UserRepo{PostgresBaseRepo: *repo}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, full_name, is_active, is_superuser, hashed_password)
		VALUES (:id, :email, :full_name, :is_active, :is_superuser, :hashed_password)`

	_, err := r.db.GetDB().NamedExecContext(ctx, query, user)
	if err != nil {
		return duplicateEmail(translate(err, userNotFound, "create user"))
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	if err := r.db.GetDB().GetContext(ctx, user, query, id); err != nil {
		return nil, translate(err, userNotFound, "get user")
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	if err := r.db.GetDB().GetContext(ctx, user, query, email); err != nil {
		return nil, translate(err, userNotFound, "get user by email")
	}
	return user, nil
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			email = :email,
			full_name = :full_name,
			is_active = :is_active,
			is_superuser = :is_superuser,
			hashed_password = :hashed_password
		WHERE id = :id`

	result, err := r.db.GetDB().NamedExecContext(ctx, query, user)
	if err != nil {
		return duplicateEmail(translate(err, userNotFound, "update user"))
	}
	return expectRows(result, userNotFound)
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.GetDB().ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err, userNotFound, "delete user")
	}
	return expectRows(result, userNotFound)
}

func (r *UserRepo) List(ctx context.Context, page models.Pagination) ([]models.User, int, error) {
	var count int
	if err := r.db.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, translate(err, userNotFound, "count users")
	}

	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY email OFFSET $1 LIMIT $2`
	if err := r.db.GetDB().SelectContext(ctx, &users, query, page.Skip, page.Limit); err != nil {
		return nil, 0, translate(err, userNotFound, "list users")
	}
	return users, count, nil
}

func duplicateEmail(err error) error {
	if errors.Is(err, errors.ErrorTypeConflict) {
		return errors.NewConflictError("The user with this email already exists in the system", err)
	}
	return err
}

// FilePath: internal/models/models.user.go
package models

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxEmailLength    = 255
	MaxFullNameLength = 255
	MinPasswordLength = 8
	MaxPasswordLength = 40
)

// User is an account the auth gate resolves bearer tokens against.
type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	FullName       *string   `json:"full_name" db:"full_name"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	IsSuperuser    bool      `json:"is_superuser" db:"is_superuser"`
	HashedPassword string    `json:"-" db:"hashed_password"`
}

// UserPublic is the wire representation of a user; it never carries the credential.
type UserPublic struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FullName    *string `json:"full_name"`
	IsActive    bool    `json:"is_active"`
	IsSuperuser bool    `json:"is_superuser"`
}

type UsersPublic struct {
	Data  []UserPublic `json:"data"`
	Count int          `json:"count"`
}

// UserCreate is used by superusers to create accounts.
type UserCreate struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    *string `json:"full_name,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser bool    `json:"is_superuser"`
}

// UserRegister is the open sign-up payload.
type UserRegister struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// UserUpdate is the superuser partial update.
type UserUpdate struct {
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// UserUpdateMe is the self-service partial update.
type UserUpdateMe struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

type UpdatePassword struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type NewPassword struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// LoginForm is decoded from the x-www-form-urlencoded login body.
type LoginForm struct {
	Username string `schema:"username,required"`
	Password string `schema:"password,required"`
}

// Token is the access token response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ToPublic maps the entity onto its wire DTO.
func (u User) ToPublic() UserPublic {
	return UserPublic{
		ID:          u.ID.String(),
		Email:       u.Email,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
}

// UsersToPublic maps a page of users.
func UsersToPublic(users []User, count int) UsersPublic {
	out := UsersPublic{Data: make([]UserPublic, 0, len(users)), Count: count}
	for _, u := range users {
		out.Data = append(out.Data, u.ToPublic())
	}
	return out
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks length and RFC 5322 address syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) error {
	n := len([]rune(password))
	if n < MinPasswordLength || n > MaxPasswordLength {
		return fmt.Errorf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}
	return nil
}

// ValidateFullName checks the optional display name.
func ValidateFullName(name *string) error {
	if name != nil && len([]rune(*name)) > MaxFullNameLength {
		return fmt.Errorf("full_name must be at most %d characters", MaxFullNameLength)
	}
	return nil
}

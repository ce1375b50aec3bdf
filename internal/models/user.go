package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type UserType string

const (
	UserTypeAdmin     UserType = "admin"
	UserTypeOrganizer UserType = "organizer"
	UserTypeBuyer     UserType = "buyer"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	bun.BaseModel `bun:"table:users"`
	Base

	Name             string     `bun:"name,notnull" json:"name"`
	Email            string     `bun:"email,unique,notnull" json:"email"`
	PhoneNumber      *string    `bun:"phone_number" json:"phone_number"`
	UserType         UserType   `bun:"user_type,notnull" json:"user_type"`
	Status           UserStatus `bun:"status,notnull" json:"status"`
	OrganizationName *string    `bun:"organization_name" json:"organization_name"`
	LastLogin        *time.Time `bun:"last_login" json:"last_login"`
	// PasswordHash is a bcrypt hash; users created through /api/users have none and
	// cannot log in.
	PasswordHash *string `bun:"password_hash" json:"-"`
}

// NormalizeEmail is the stored and compared form of an address. Lookups are therefore
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserCreate struct {
	Name             *string `json:"name" validate:"required,min=1,max=100"`
	Email            *string `json:"email" validate:"required,email,max=100"`
	PhoneNumber      *string `json:"phone_number" validate:"omitempty,max=20"`
	UserType         *string `json:"user_type" validate:"required,oneof=admin organizer buyer"`
	Status           *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	OrganizationName *string `json:"organization_name" validate:"omitempty,max=150"`
	// Password is optional; without one the account cannot log in.
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (c UserCreate) ToModel() *User {
	return &User{
		Name:             valueOr(c.Name, ""),
		Email:            NormalizeEmail(valueOr(c.Email, "")),
		PhoneNumber:      copyPtr(c.PhoneNumber),
		UserType:         UserType(valueOr(c.UserType, string(UserTypeBuyer))),
		Status:           UserStatus(valueOr(c.Status, string(UserStatusActive))),
		OrganizationName: copyPtr(c.OrganizationName),
	}
}

// UserUpdate is a partial update; email and id are not updatable.
type UserUpdate struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	PhoneNumber      *string `json:"phone_number" validate:"omitempty,max=20"`
	UserType         *string `json:"user_type" validate:"omitempty,oneof=admin organizer buyer"`
	Status           *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	OrganizationName *string `json:"organization_name" validate:"omitempty,max=150"`
}

func (u UserUpdate) Apply(row *User) []string {
	var cols []string
	cols = assign(cols, "name", u.Name, &row.Name)
	cols = assignNullable(cols, "phone_number", u.PhoneNumber, &row.PhoneNumber)
	if u.UserType != nil {
		row.UserType = UserType(*u.UserType)
		cols = append(cols, "user_type")
	}
	if u.Status != nil {
		row.Status = UserStatus(*u.Status)
		cols = append(cols, "status")
	}
	cols = assignNullable(cols, "organization_name", u.OrganizationName, &row.OrganizationName)
	return cols
}

// RegisterRequest creates an active account with a password. Admin accounts cannot be
// self-registered.
type RegisterRequest struct {
	Name             *string `json:"name" validate:"required,min=1,max=100"`
	Email            *string `json:"email" validate:"required,email,max=100"`
	Password         *string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber      *string `json:"phone_number" validate:"omitempty,max=20"`
	UserType         *string `json:"user_type" validate:"required,oneof=organizer buyer"`
	OrganizationName *string `json:"organization_name" validate:"omitempty,max=150"`
}

func (r RegisterRequest) ToModel(passwordHash string) *User {
	user := UserCreate{
		Name:             r.Name,
		Email:            r.Email,
		PhoneNumber:      r.PhoneNumber,
		UserType:         r.UserType,
		OrganizationName: r.OrganizationName,
	}.ToModel()
	user.PasswordHash = &passwordHash
	return user
}

type LoginRequest struct {
	Email    *string `json:"email" validate:"required,email,max=100"`
	Password *string `json:"password" validate:"required,max=72"`
}

type AuthResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int64    `json:"expires_in"`
	UserID    int64    `json:"user_id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	UserType  UserType `json:"user_type"`
}

type UserStatistics struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Suspended int `json:"suspended"`
}

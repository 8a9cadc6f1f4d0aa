package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Role grants access to the back office.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

const (
	MinNameLength     = 2
	MaxNameLength     = 100
	MaxPhoneLength    = 20
	MinPasswordLength = 6
	MaxPasswordLength = 100
)

var (
	ErrInvalidName     = errors.New("name must be between 2 and 100 characters")
	ErrInvalidEmail    = errors.New("email is not valid")
	ErrInvalidPhone    = errors.New("phone must be at most 20 characters")
	ErrInvalidPassword = errors.New("password must be between 6 and 100 characters")
	ErrInvalidRole     = errors.New("role must be ADMIN or USER")
)

// User is a storefront account. Guests check out without one.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser validates the identity fields and hashes the password.
func NewUser(id, name, email, password string, createdAt time.Time) (*User, error) {
	u := &User{ID: id, Role: RoleUser, CreatedAt: createdAt, UpdatedAt: createdAt}
	if err := u.Rename(name); err != nil {
		return nil, err
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	u.Email = normalized
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail validates the address and lower-cases it.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (u *User) Rename(name string) error {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return ErrInvalidName
	}
	u.Name = name
	return nil
}

// SetPhone stores an optional phone number; empty clears it.
func (u *User) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if utf8.RuneCountInString(phone) > MaxPhoneLength {
		return ErrInvalidPhone
	}
	u.Phone = phone
	return nil
}

// UpdateProfile applies the self-service profile fields.
func (u *User) UpdateProfile(name, phone string) error {
	if err := u.Rename(name); err != nil {
		return err
	}
	return u.SetPhone(phone)
}

// SetPassword stores a bcrypt hash of the password.
func (u *User) SetPassword(password string) error {
	if n := utf8.RuneCountInString(password); n < MinPasswordLength || n > MaxPasswordLength {
		return ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the stored hash with the supplied password.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) AssignRole(role Role) error {
	switch role {
	case RoleAdmin, RoleUser:
		u.Role = role
		return nil
	}
	return ErrInvalidRole
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

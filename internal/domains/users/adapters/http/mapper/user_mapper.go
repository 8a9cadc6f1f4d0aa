package mapper

import (
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/application/types"
	userdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// Register is the sign-up body.
type Register struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login is the sign-in body.
type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfile is the self-service profile body.
type UpdateProfile struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// User represents the transport-level user payload. The password hash never leaves the service.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Session is returned by register and login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

func ToRegisterInput(body Register) types.RegisterInput {
	return types.RegisterInput{Name: body.Name, Email: body.Email, Password: body.Password}
}

func ToUpdateProfileInput(userID string, body UpdateProfile) types.UpdateProfileInput {
	return types.UpdateProfileInput{UserID: userID, Name: body.Name, Phone: body.Phone}
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	var phone *string
	if user.Phone != "" {
		p := user.Phone
		phone = &p
	}
	return User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     phone,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func FromAuthResult(result *types.AuthResult) Session {
	if result == nil {
		return Session{}
	}
	return Session{Token: result.Token, ExpiresAt: result.ExpiresAt, User: FromDomainUser(result.User)}
}

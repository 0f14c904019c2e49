package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Records are created once and never mutated;
// the only lifecycle transition after creation is an admin delete.
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"password,omitempty" bson:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrMissingFields = errors.New("name and email are required")
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"omitempty,max=512"`
}

// New builds a fully populated record from raw registration input.
// Name and email are trimmed, email is lower-cased so lookups can be a plain
// exact match. The password arrives already encoded by the caller.
func New(name, email, encodedPassword string) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" {
		return User{}, ErrMissingFields
	}

	return User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  encodedPassword,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NormalizeEmail applies the same normalization used at registration time so
// store lookups stay case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

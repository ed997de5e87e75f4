package client

import (
	"context"

	"github.com/dmitrijs2005/clubhub/internal/client/models"
)

// Client is the REST contract the rest of the app depends on.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Register(ctx context.Context, req RegisterRequest) error
	Logout(ctx context.Context) error

	Departments(ctx context.Context) ([]models.Department, error)
	Specialties(ctx context.Context, departmentID models.ID) ([]models.Specialty, error)
	SpecialtyUsers(ctx context.Context, specialtyID models.ID) ([]models.User, error)
	Links(ctx context.Context, userID models.ID) ([]models.Link, error)
	Events(ctx context.Context) ([]models.Event, error)

	PendingUsers(ctx context.Context) ([]models.User, error)
	ValidateUser(ctx context.Context, userID models.ID) error
	RejectUser(ctx context.Context, userID models.ID) error
}

// TokenStore is where the gateway reads the bearer token from and where it
// commits refreshed tokens. session.Store implements it.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	UpdateToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type RegisterRequest struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Email       string    `json:"email" validate:"required,email"`
	Password    string    `json:"password" validate:"required,min=6"`
	SpecialtyID models.ID `json:"specialite_id,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

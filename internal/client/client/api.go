package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/clubhub/internal/client/models"
)

func seg(id models.ID) string { return url.PathEscape(id.String()) }

// Login exchanges credentials for a user and a token. It does not persist
// anything; committing the session is the auth controller's job.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	req := loginRequest{Email: email, Password: password}
	if err := req.validate(); err != nil {
		return nil, "", err
	}
	body, err := c.do(ctx, http.MethodPost, "/auth/login", req, false)
	if err != nil {
		return nil, "", err
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, "", fmt.Errorf("%w: login: %v", ErrBadResponse, err)
	}
	if lr.User == nil || lr.Token == "" {
		return nil, "", fmt.Errorf("%w: login without user or token", ErrBadResponse)
	}
	return lr.User, lr.Token, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPost, "/auth/register", req, false)
	return err
}

// Logout invalidates the token on the server. Callers treat it as
// best-effort and clear the local session regardless.
func (c *HTTPClient) Logout(ctx context.Context) error {
	token, err := c.tokens.Token(ctx)
	if err != nil || token == "" {
		return nil
	}
	res, err := c.send(ctx, http.MethodPost, "/auth/logout", nil, token)
	if err != nil {
		return err
	}
	if res.status < 200 || res.status >= 300 {
		return errorFromResponse(res.status, res.body)
	}
	return nil
}

// fetchList GETs path and normalizes either response shape via decodeList.
func fetchList[T any](ctx context.Context, c *HTTPClient, path, key string) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeList[T](body, key)
}

func (c *HTTPClient) Departments(ctx context.Context) ([]models.Department, error) {
	return fetchList[models.Department](ctx, c, "/departments", "departments")
}

func (c *HTTPClient) Specialties(ctx context.Context, departmentID models.ID) ([]models.Specialty, error) {
	items, err := fetchList[models.Specialty](ctx, c, "/departments/"+seg(departmentID)+"/specialites", "specialites")
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].DepartmentID == "" {
			items[i].DepartmentID = departmentID
		}
	}
	return items, nil
}

func (c *HTTPClient) SpecialtyUsers(ctx context.Context, specialtyID models.ID) ([]models.User, error) {
	return fetchList[models.User](ctx, c, "/specialites/"+seg(specialtyID)+"/users", "users")
}

func (c *HTTPClient) Links(ctx context.Context, userID models.ID) ([]models.Link, error) {
	return fetchList[models.Link](ctx, c, "/links/"+seg(userID), "links")
}

func (c *HTTPClient) Events(ctx context.Context) ([]models.Event, error) {
	return fetchList[models.Event](ctx, c, "/events", "events")
}

func (c *HTTPClient) PendingUsers(ctx context.Context) ([]models.User, error) {
	return fetchList[models.User](ctx, c, "/users/pending", "users")
}

func (c *HTTPClient) ValidateUser(ctx context.Context, userID models.ID) error {
	_, err := c.do(ctx, http.MethodPost, "/users/"+seg(userID)+"/validate", nil, true)
	return err
}

func (c *HTTPClient) RejectUser(ctx context.Context, userID models.ID) error {
	_, err := c.do(ctx, http.MethodDelete, "/users/"+seg(userID)+"/reject", nil, true)
	return err
}

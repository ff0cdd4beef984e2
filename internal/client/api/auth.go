package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

type LoginResult struct {
	Token string
	User  models.User
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. The token and user may
// come at the top level of the envelope or inside data.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentials{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	res := &LoginResult{Token: env.Token}
	if len(env.User) > 0 && string(env.User) != "null" {
		if err := unmarshal(env.User, &res.User); err != nil {
			return nil, err
		}
	} else if len(env.Data) > 0 {
		var data struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		if err := unmarshal(env.Data, &data); err != nil {
			return nil, err
		}
		res.User = data.User
		if res.Token == "" {
			res.Token = data.Token
		}
	}

	if res.Token == "" {
		return nil, fmt.Errorf("%w: login response without token", ErrInvalidResponse)
	}
	return res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := decodeData(env, "user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	env, err := c.do(ctx, http.MethodPut, "/auth/profile", nil, p)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := decodeData(env, "user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ChangePassword(ctx context.Context, pc models.PasswordChange) error {
	_, err := c.do(ctx, http.MethodPut, "/auth/change-password", nil, pc)
	return err
}

// RegisterAdmin creates an admin account. The backend only enables it in
// development deployments.
func (c *Client) RegisterAdmin(ctx context.Context, r models.AdminRegistration) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/register-admin", nil, r)
	return err
}

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

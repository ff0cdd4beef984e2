package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/validate"
)

// AccountAPI is the account and analytics part of the backend client.
type AccountAPI interface {
	UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, pc models.PasswordChange) error
	RegisterAdmin(ctx context.Context, r models.AdminRegistration) error
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Health(ctx context.Context) error
}

// UserRefresher reloads the persisted user after a profile change.
type UserRefresher interface {
	RefreshUser(ctx context.Context)
}

// AccountService covers the operator's own account and the dashboard.
//
// Contract:
//   - UpdateProfile: change username and/or email, then refresh the session user.
//   - ChangePassword: the new password is typed twice and must be at least 6 characters.
//   - RegisterAdmin: development-only signup guarded by an admin key.
//   - Dashboard: aggregate stats and the most recent customers.
//   - Ping: backend liveness.
type AccountService interface {
	UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, current, next, confirm string) error
	RegisterAdmin(ctx context.Context, r models.AdminRegistration) error
	Dashboard(ctx context.Context) (*models.Dashboard, error)
	Ping(ctx context.Context) error
}

type accountService struct {
	api     AccountAPI
	session UserRefresher
}

func NewAccountService(api AccountAPI, session UserRefresher) AccountService {
	return &accountService{api: api, session: session}
}

func (a *accountService) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	if err := validate.Profile(p); err != nil {
		return nil, err
	}
	user, err := a.api.UpdateProfile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	a.session.RefreshUser(ctx)
	return user, nil
}

func (a *accountService) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if current == "" {
		return validate.ValidationErrors{{Field: "currentPassword", Message: "is required"}}
	}
	if err := validate.Password(next); err != nil {
		return err
	}
	if next != confirm {
		return ErrPasswordMismatch
	}
	if err := a.api.ChangePassword(ctx, models.PasswordChange{CurrentPassword: current, NewPassword: next}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (a *accountService) RegisterAdmin(ctx context.Context, r models.AdminRegistration) error {
	if err := validate.Registration(r); err != nil {
		return err
	}
	return a.api.RegisterAdmin(ctx, r)
}

func (a *accountService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	return a.api.Dashboard(ctx)
}

func (a *accountService) Ping(ctx context.Context) error {
	return a.api.Health(ctx)
}

package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

func (a *App) dashboard(ctx context.Context, _ []string) error {
	d, err := a.accounts.Dashboard(ctx)
	if err != nil {
		return err
	}
	a.println(renderDashboard(a.theme, d, a.now()))
	return nil
}

// profile edits username and email. Only changed fields are sent.
func (a *App) profile(ctx context.Context, _ []string) error {
	sess, err := a.session.Session()
	if err != nil {
		return err
	}
	cur := sess.User

	username, err := GetWithDefault(a.reader, "Username", cur.Username, a.out)
	if err != nil {
		return err
	}
	email, err := GetWithDefault(a.reader, "Email", cur.Email, a.out)
	if err != nil {
		return err
	}

	var p models.ProfileUpdate
	if username = strings.TrimSpace(username); username != cur.Username {
		p.Username = username
	}
	if email = strings.TrimSpace(email); email != cur.Email {
		p.Email = email
	}
	if p == (models.ProfileUpdate{}) {
		a.println("Nothing changed.")
		return nil
	}

	u, err := a.accounts.UpdateProfile(ctx, p)
	if err != nil {
		return err
	}
	a.println(a.theme.ok.Render("Profile updated: " + u.Username))
	return nil
}

func (a *App) passwd(ctx context.Context, _ []string) error {
	current, err := GetPassword("Current password", a.out)
	if err != nil {
		return err
	}
	next, err := GetPassword("New password", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}
	if err := a.accounts.ChangePassword(ctx, current, next, confirm); err != nil {
		return err
	}
	a.println(a.theme.ok.Render("Password changed"))
	return nil
}

func (a *App) health(ctx context.Context, _ []string) error {
	if err := a.accounts.Ping(ctx); err != nil {
		return err
	}
	a.println(a.theme.muted.Render("Backend reachable at " + a.config.APIBaseURL))
	return nil
}

package cli

import (
	"context"
	"errors"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

func (a *App) login(ctx context.Context, _ []string) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	if username == "" {
		return errors.New("username is required")
	}

	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		return err
	}
	a.println(a.theme.ok.Render("Logged in as " + username))

	return a.dashboard(ctx, nil)
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out.")
	return nil
}

func (a *App) whoami(_ context.Context, _ []string) error {
	sess, err := a.session.Session()
	if err != nil {
		return err
	}
	u := sess.User
	a.printf("%s (%s)", u.Username, u.Role)
	if u.Email != "" {
		a.printf(" <%s>", u.Email)
	}
	a.println()
	a.println(a.theme.muted.Render("logged in " + humanize.RelTime(sess.LoginTime, a.now(), "ago", "from now")))
	return nil
}

// registerAdmin is the development-only signup. It is offered to logged out
// operators only.
func (a *App) registerAdmin(ctx context.Context, _ []string) error {
	if a.isLoggedIn() {
		a.println("Log out first to register another admin.")
		return nil
	}

	var r models.AdminRegistration
	var err error
	if r.Username, err = GetSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if r.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if r.Password, err = GetPassword("Password", a.out); err != nil {
		return err
	}
	if r.AdminKey, err = GetPassword("Admin key", a.out); err != nil {
		return err
	}

	if err := a.accounts.RegisterAdmin(ctx, r); err != nil {
		return err
	}
	a.println(a.theme.ok.Render("Admin account created. You can log in now."))
	return nil
}

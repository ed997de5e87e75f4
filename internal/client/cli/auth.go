package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/clubhub/internal/client/client"
	"github.com/dmitrijs2005/clubhub/internal/client/models"
	"github.com/dmitrijs2005/clubhub/internal/client/session"
)

// askLine and askSecret are swapped out by tests.
var (
	askLine   = promptLine
	askSecret = promptSecret
)

var (
	errPasswordMismatch   = errors.New("passwords do not match")
	errInvalidCredentials = errors.New("invalid email or password")
)

// Register prompts for the account fields and creates a pending account.
// A mismatched confirmation is reported before anything is sent.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		return fmt.Errorf("already signed in as %s; 'logout' first", a.auth.User().Email)
	}

	name, err := askLine(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := askLine(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := askSecret("Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := askSecret("Confirm password", a.out)
	if err != nil {
		return err
	}
	specialty, err := askLine(a.reader, "Specialty id (optional)", a.out)
	if err != nil {
		return err
	}

	if password != confirm {
		return errPasswordMismatch
	}
	req := client.RegisterRequest{
		Name:        name,
		Email:       email,
		Password:    password,
		SpecialtyID: models.ID(specialty),
	}
	if err := req.Validate(); err != nil {
		return err
	}

	err = a.loading.WithLoading(ctx, "Creating account...", func(ctx context.Context) error {
		return a.api.Register(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	fmt.Fprintln(a.out, "Account created. An admin has to validate it before you can browse members.")
	return nil
}

// Login prompts for credentials, exchanges them through the gateway and
// commits the resulting session.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		return fmt.Errorf("already signed in as %s; 'logout' first", a.auth.User().Email)
	}

	email, err := askLine(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := askSecret("Enter password", a.out)
	if err != nil {
		return err
	}

	var (
		user  *models.User
		token string
	)
	err = a.loading.WithLoading(ctx, "Signing in...", func(ctx context.Context) error {
		var err error
		user, token, err = a.api.Login(ctx, email, password)
		return err
	})
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errInvalidCredentials
		}
		return fmt.Errorf("login: %w", err)
	}

	if err := a.auth.Login(ctx, user, token); err != nil {
		return err
	}
	a.resetSessionView()
	a.log.Info(ctx, "signed in", "user_id", user.ID)
	fmt.Fprintf(a.out, "Signed in as %s (%s).\n", user.Name, user.Role)
	if !user.IsValid() {
		fmt.Fprintln(a.out, "Your account is awaiting validation.")
	}
	return nil
}

// Logout ends the session. The local session is cleared even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.Logout(ctx)
	a.resetSessionView()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// Whoami prints the signed-in user and, for JWT tokens, when the token
// expires.
func (a *App) Whoami(ctx context.Context) error {
	u := a.auth.User()
	if u == nil {
		return errSignInRequired
	}

	status := string(u.Status)
	if status == "" {
		status = "unknown"
	}
	fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nstatus: %s\n", u.Name, u.Email, u.Role, status)

	token, err := a.prefs.Token(ctx)
	if err != nil {
		return err
	}
	if info, ok := session.InspectToken(token); ok && !info.ExpiresAt.IsZero() {
		if info.Expired(time.Now()) {
			fmt.Fprintf(a.out, "token: expired at %s (refreshed on next request)\n", info.ExpiresAt.Format(time.RFC3339))
		} else {
			fmt.Fprintf(a.out, "token: valid until %s\n", info.ExpiresAt.Format(time.RFC3339))
		}
	}
	return nil
}

// Lang prints the preferred language, or stores code as the new one.
func (a *App) Lang(ctx context.Context, code string) error {
	if code == "" {
		lang, err := a.prefs.Language(ctx, a.config.Language)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "language: %s\n", lang)
		return nil
	}

	if err := a.prefs.SetLanguage(ctx, code); err != nil {
		return fmt.Errorf("lang: %w", err)
	}
	fmt.Fprintf(a.out, "language set to %s\n", strings.ToLower(code))
	return nil
}

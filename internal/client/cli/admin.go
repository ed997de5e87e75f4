package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/clubhub/internal/client/loading"
	"github.com/dmitrijs2005/clubhub/internal/client/models"
)

var errNoPending = errors.New("no pending list; run 'pending' first")

// Pending fetches the accounts awaiting validation and numbers them for
// validate and reject.
func (a *App) Pending(ctx context.Context) error {
	var users []models.User
	err := a.forgetIfUnauthorized(a.loading.WithLoading(ctx, "Loading pending accounts...", func(ctx context.Context) error {
		var err error
		users, err = a.api.PendingUsers(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("pending: %w", err)
	}

	if users == nil {
		users = []models.User{}
	}
	a.pending = users
	printItems(a.out, users, func(u models.User) string {
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	})
	return nil
}

func (a *App) pendingAt(arg string) (models.User, error) {
	if a.pending == nil {
		return models.User{}, errNoPending
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return models.User{}, errors.New("usage: validate|reject <number>")
	}
	return pick(a.pending, n)
}

func (a *App) dropPending(id models.ID) {
	a.pending = slices.DeleteFunc(a.pending, func(u models.User) bool { return u.ID == id })
}

// Validate approves pending account n, or every listed one for "all".
func (a *App) Validate(ctx context.Context, arg string) error {
	if arg == "all" {
		return a.validateAll(ctx)
	}

	u, err := a.pendingAt(arg)
	if err != nil {
		return err
	}
	err = a.forgetIfUnauthorized(a.loading.WithLoading(ctx, "Validating "+u.Name+"...", func(ctx context.Context) error {
		return a.api.ValidateUser(ctx, u.ID)
	}))
	if err != nil {
		return fmt.Errorf("validate %s: %w", u.Email, err)
	}

	a.dropPending(u.ID)
	fmt.Fprintf(a.out, "%s validated.\n", u.Name)
	return nil
}

func (a *App) validateAll(ctx context.Context) error {
	if a.pending == nil {
		return errNoPending
	}
	todo := slices.Clone(a.pending)
	if len(todo) == 0 {
		fmt.Fprintln(a.out, "Nothing pending.")
		return nil
	}

	done := 0
	err := a.loading.WithLoadingAndProgress(ctx, loading.ProgressOptions{Message: "Validating accounts..."},
		func(ctx context.Context, p loading.Progress) error {
			for i, u := range todo {
				p.UpdateMessage("Validating " + u.Name + "...")
				if err := a.api.ValidateUser(ctx, u.ID); err != nil {
					return fmt.Errorf("validate %s: %w", u.Email, err)
				}
				a.dropPending(u.ID)
				done++
				p.UpdateProgress((i + 1) * 100 / len(todo))
			}
			return nil
		})

	fmt.Fprintf(a.out, "%d of %d accounts validated.\n", done, len(todo))
	return a.forgetIfUnauthorized(err)
}

func (a *App) Reject(ctx context.Context, arg string) error {
	u, err := a.pendingAt(arg)
	if err != nil {
		return err
	}
	err = a.forgetIfUnauthorized(a.loading.WithLoading(ctx, "Rejecting "+u.Name+"...", func(ctx context.Context) error {
		return a.api.RejectUser(ctx, u.ID)
	}))
	if err != nil {
		return fmt.Errorf("reject %s: %w", u.Email, err)
	}

	a.dropPending(u.ID)
	fmt.Fprintf(a.out, "%s rejected.\n", u.Name)
	return nil
}

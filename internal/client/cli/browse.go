package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/clubhub/internal/client/browse"
	"github.com/dmitrijs2005/clubhub/internal/client/client"
	"github.com/dmitrijs2005/clubhub/internal/client/models"
)

// inlineDelay is how long a fetch may run before the inline loading line
// is printed.
var inlineDelay = 250 * time.Millisecond

// inline runs fn and prints an inline loading line if the navigator is
// still fetching after inlineDelay.
func (a *App) inline(ctx context.Context, label string, fn func(context.Context) error) error {
	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		return err
	case <-time.After(inlineDelay):
		if a.nav.Loading() {
			fmt.Fprintf(a.out, "  loading %s...\n", label)
		}
		return <-done
	}
}

// attempt runs a fetching action and remembers it for "retry" when it
// fails for a reason other than navigation.
func (a *App) attempt(ctx context.Context, label string, fn func(context.Context) error) error {
	err := a.inline(ctx, label, fn)
	switch {
	case err == nil:
		a.retry = nil
	case errors.Is(err, client.ErrUnauthorized):
		a.resetSessionView()
	case errors.Is(err, browse.ErrSuperseded),
		errors.Is(err, browse.ErrInvalidTransition),
		errors.Is(err, browse.ErrIndexOutOfRange):
	default:
		a.retry = func(ctx context.Context) error { return a.attempt(ctx, label, fn) }
	}
	return err
}

// ensureOpen fetches the department list on first use.
func (a *App) ensureOpen(ctx context.Context) error {
	if a.opened {
		return nil
	}
	return a.attempt(ctx, "departments", func(ctx context.Context) error {
		if err := a.nav.Open(ctx); err != nil {
			return err
		}
		a.opened = true
		return nil
	})
}

func (a *App) List(ctx context.Context) error {
	if err := a.ensureOpen(ctx); err != nil {
		return err
	}
	a.printLevel()
	return nil
}

// Select opens entry n (1-based) of the visible list.
func (a *App) Select(ctx context.Context, arg string) error {
	if err := a.ensureOpen(ctx); err != nil {
		return err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: cd <number>")
	}

	var (
		label  string
		action func(context.Context) error
	)
	switch a.nav.State() {
	case browse.ViewingDepartments:
		d, err := pick(a.nav.VisibleDepartments(), n)
		if err != nil {
			return err
		}
		label = "specialties of " + d.Name
		action = func(ctx context.Context) error { return a.nav.SelectDepartment(ctx, d.ID) }
	case browse.ViewingSpecialties:
		s, err := pick(a.nav.VisibleSpecialties(), n)
		if err != nil {
			return err
		}
		label = "members of " + s.Name
		action = func(ctx context.Context) error { return a.nav.SelectSpecialty(ctx, s.ID) }
	case browse.ViewingMembers:
		u, err := pick(a.nav.VisibleMembers(), n)
		if err != nil {
			return err
		}
		label = "links of " + u.Name
		action = func(ctx context.Context) error { return a.nav.SelectMember(ctx, u.ID) }
	default:
		l, err := pick(a.nav.VisibleLinks(), n)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s: %s\n", l.Title, l.URL)
		return nil
	}

	return a.attempt(ctx, label, func(ctx context.Context) error {
		if err := action(ctx); err != nil {
			return err
		}
		a.printLevel()
		return nil
	})
}

func pick[T any](items []T, n int) (T, error) {
	var zero T
	if n < 1 || n > len(items) {
		return zero, fmt.Errorf("%w: %d not in 1..%d", browse.ErrIndexOutOfRange, n, len(items))
	}
	return items[n-1], nil
}

func (a *App) Back(ctx context.Context) error {
	if err := a.ensureOpen(ctx); err != nil {
		return err
	}
	if err := a.nav.Back(ctx); err != nil {
		return err
	}
	a.printLevel()
	return nil
}

// Jump goes to breadcrumb depth arg, as listed by Path.
func (a *App) Jump(ctx context.Context, arg string) error {
	if err := a.ensureOpen(ctx); err != nil {
		return err
	}
	depth, err := strconv.Atoi(arg)
	if err != nil {
		return errors.New("usage: jump <depth>")
	}
	if err := a.nav.JumpTo(ctx, depth); err != nil {
		return err
	}
	a.printLevel()
	return nil
}

func (a *App) Path(ctx context.Context) error {
	if err := a.ensureOpen(ctx); err != nil {
		return err
	}
	a.printPath()
	return nil
}

// Search filters the current level; an empty query shows everything.
func (a *App) Search(ctx context.Context, query string) error {
	if err := a.ensureOpen(ctx); err != nil {
		return err
	}
	a.nav.SetQuery(query)
	a.printLevel()
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	a.opened = true
	return a.attempt(ctx, "departments", func(ctx context.Context) error {
		if err := a.nav.Reset(ctx); err != nil {
			return err
		}
		a.printLevel()
		return nil
	})
}

// Retry re-runs the last failed fetch.
func (a *App) Retry(ctx context.Context) error {
	if a.retry == nil {
		fmt.Fprintln(a.out, "Nothing to retry.")
		return nil
	}
	return a.retry(ctx)
}

func (a *App) printPath() {
	crumbs := a.nav.Breadcrumbs()
	parts := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		parts = append(parts, fmt.Sprintf("[%d] %s", c.Depth, c.Label))
	}
	fmt.Fprintln(a.out, strings.Join(parts, " / "))
}

func (a *App) printLevel() {
	a.printPath()
	if q := a.nav.Query(); q != "" {
		fmt.Fprintf(a.out, "filter: %q\n", q)
	}

	switch a.nav.State() {
	case browse.ViewingDepartments:
		printItems(a.out, a.nav.VisibleDepartments(), func(d models.Department) string {
			return withDetail(d.Name, d.Description)
		})
	case browse.ViewingSpecialties:
		printItems(a.out, a.nav.VisibleSpecialties(), func(s models.Specialty) string {
			return withDetail(s.Name, s.Description)
		})
	case browse.ViewingMembers:
		printItems(a.out, a.nav.VisibleMembers(), func(u models.User) string {
			return fmt.Sprintf("%s <%s> %s", u.Name, u.Email, u.Role)
		})
	case browse.ViewingMemberLinks:
		printItems(a.out, a.nav.VisibleLinks(), func(l models.Link) string {
			return withDetail(l.Title, l.URL)
		})
	}
}

func withDetail(name, detail string) string {
	if detail == "" {
		return name
	}
	return name + " - " + detail
}

func printItems[T any](w io.Writer, items []T, format func(T) string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (nothing to show)")
		return
	}
	for i, it := range items {
		fmt.Fprintf(w, "  %d. %s\n", i+1, format(it))
	}
}

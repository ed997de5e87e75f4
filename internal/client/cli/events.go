package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/clubhub/internal/client/models"
)

// Events lists club events in date order under the global indicator.
func (a *App) Events(ctx context.Context) error {
	var events []models.Event
	fetch := func(ctx context.Context) error {
		return a.loading.WithLoading(ctx, "Loading events...", func(ctx context.Context) error {
			var err error
			events, err = a.api.Events(ctx)
			return err
		})
	}
	if err := a.attempt(ctx, "events", fetch); err != nil {
		return fmt.Errorf("events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date.Time) })
	printItems(a.out, events, func(e models.Event) string {
		s := e.Title
		if !e.Date.IsZero() {
			s = e.Date.Format("2006-01-02 15:04") + "  " + s
		}
		if e.Location != "" {
			s += " @ " + e.Location
		}
		return s
	})
	return nil
}

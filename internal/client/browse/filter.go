package browse

import (
	"strings"

	"github.com/dmitrijs2005/clubhub/internal/client/models"
)

// Filter returns the items whose fields contain query, case-insensitively.
// The input slice is never modified; an empty query keeps every item.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	out := make([]T, 0, len(items))
	q := strings.ToLower(query)
	for _, it := range items {
		if q == "" || matches(fields(it), q) {
			out = append(out, it)
		}
	}
	return out
}

func matches(fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func departmentFields(d models.Department) []string { return []string{d.Name, d.Description} }

func specialtyFields(s models.Specialty) []string { return []string{s.Name, s.Description} }

func memberFields(u models.User) []string { return []string{u.Name, u.Email, string(u.Role)} }

func linkFields(l models.Link) []string { return []string{l.Title, l.Description, l.URL} }

// validMembers is the fetch-time filter for the members stage.
func validMembers(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.IsValid() {
			out = append(out, u)
		}
	}
	return out
}

// Package browse implements the guided drill-down over the club directory:
// departments, then a department's specialties, then a specialty's members,
// then a member's links.
//
// Every selection-changing action bumps a generation counter before it
// fetches. A result is committed only if no newer action started meanwhile,
// so the last selection wins even when calls overlap. The navigator lock is
// never held across a fetch.
package browse

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/clubhub/internal/client/models"
	"github.com/dmitrijs2005/clubhub/internal/logging"
)

var (
	// ErrSuperseded is returned when a newer action made the fetched result
	// stale. The result was discarded and the state is untouched.
	ErrSuperseded        = errors.New("browse: superseded by a newer action")
	ErrInvalidTransition = errors.New("browse: invalid transition")
	ErrIndexOutOfRange   = errors.New("browse: index out of range")
)

// Fetcher is the part of the REST gateway the navigator reads from.
type Fetcher interface {
	Departments(ctx context.Context) ([]models.Department, error)
	Specialties(ctx context.Context, departmentID models.ID) ([]models.Specialty, error)
	SpecialtyUsers(ctx context.Context, specialtyID models.ID) ([]models.User, error)
	Links(ctx context.Context, userID models.ID) ([]models.Link, error)
}

type Navigator struct {
	fetch Fetcher
	log   logging.Logger

	mu      sync.Mutex
	gen     uint64
	loading bool
	sel     Selection

	departments []models.Department
	specialties []models.Specialty
	members     []models.User
	links       []models.Link
}

func New(fetch Fetcher, log logging.Logger) *Navigator {
	if log == nil {
		log = logging.Nop()
	}
	return &Navigator{fetch: fetch, log: log.With("component", "browse")}
}

// issue bumps the generation and raises the inline loading flag.
// Caller holds n.mu.
func (n *Navigator) issue() uint64 {
	n.gen++
	n.loading = true
	return n.gen
}

// settle commits a fetch result if gen is still current.
func (n *Navigator) settle(ctx context.Context, gen uint64, err error, commit func()) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen {
		n.log.Debug(ctx, "discarding stale result", "gen", gen, "current", n.gen)
		return ErrSuperseded
	}
	n.loading = false
	if err != nil {
		n.log.Warn(ctx, "fetch failed, state unchanged", "state", n.sel.State(), "err", err)
		return err
	}
	commit()
	return nil
}

// Open enters the browse view: the selection is emptied and the department
// list fetched.
func (n *Navigator) Open(ctx context.Context) error {
	return n.Reset(ctx)
}

// Reset clears the whole selection and the query, then re-fetches the
// department list. The navigator is at ViewingDepartments even when the
// fetch fails; the previous department list is kept in that case.
func (n *Navigator) Reset(ctx context.Context) error {
	n.mu.Lock()
	n.sel = Selection{}
	n.specialties, n.members, n.links = nil, nil, nil
	gen := n.issue()
	n.mu.Unlock()

	list, err := n.fetch.Departments(ctx)
	return n.settle(ctx, gen, err, func() {
		n.departments = list
	})
}

func (n *Navigator) SelectDepartment(ctx context.Context, id models.ID) error {
	n.mu.Lock()
	if st := n.sel.State(); st != ViewingDepartments {
		n.mu.Unlock()
		return fmt.Errorf("%w: select department while viewing %s", ErrInvalidTransition, st)
	}
	i := slices.IndexFunc(n.departments, func(d models.Department) bool { return d.ID == id })
	if i < 0 {
		n.mu.Unlock()
		return fmt.Errorf("%w: department %s is not listed", ErrInvalidTransition, id)
	}
	dept := n.departments[i]
	gen := n.issue()
	n.mu.Unlock()

	list, err := n.fetch.Specialties(ctx, dept.ID)
	return n.settle(ctx, gen, err, func() {
		n.sel = Selection{Department: &dept}
		n.specialties = ownSpecialties(list, dept.ID)
		n.members, n.links = nil, nil
	})
}

// ownSpecialties keeps the specialties of dept, filling a missing
// department reference.
func ownSpecialties(list []models.Specialty, dept models.ID) []models.Specialty {
	out := make([]models.Specialty, 0, len(list))
	for _, s := range list {
		if s.DepartmentID == "" {
			s.DepartmentID = dept
		}
		if s.DepartmentID == dept {
			out = append(out, s)
		}
	}
	return out
}

func (n *Navigator) SelectSpecialty(ctx context.Context, id models.ID) error {
	n.mu.Lock()
	if st := n.sel.State(); st != ViewingSpecialties {
		n.mu.Unlock()
		return fmt.Errorf("%w: select specialty while viewing %s", ErrInvalidTransition, st)
	}
	i := slices.IndexFunc(n.specialties, func(s models.Specialty) bool { return s.ID == id })
	if i < 0 {
		n.mu.Unlock()
		return fmt.Errorf("%w: specialty %s is not listed", ErrInvalidTransition, id)
	}
	sp := n.specialties[i]
	dept := n.sel.Department
	gen := n.issue()
	n.mu.Unlock()

	list, err := n.fetch.SpecialtyUsers(ctx, sp.ID)
	return n.settle(ctx, gen, err, func() {
		n.sel = Selection{Department: dept, Specialty: &sp}
		n.members = validMembers(list)
		n.links = nil
	})
}

func (n *Navigator) SelectMember(ctx context.Context, id models.ID) error {
	n.mu.Lock()
	if st := n.sel.State(); st != ViewingMembers {
		n.mu.Unlock()
		return fmt.Errorf("%w: select member while viewing %s", ErrInvalidTransition, st)
	}
	i := slices.IndexFunc(n.members, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		n.mu.Unlock()
		return fmt.Errorf("%w: member %s is not listed", ErrInvalidTransition, id)
	}
	member := n.members[i]
	dept, sp := n.sel.Department, n.sel.Specialty
	gen := n.issue()
	n.mu.Unlock()

	list, err := n.fetch.Links(ctx, member.ID)
	return n.settle(ctx, gen, err, func() {
		n.sel = Selection{Department: dept, Specialty: sp, Member: &member}
		n.links = list
	})
}

// Back moves up one level, clearing the deepest selection and the query.
func (n *Navigator) Back(ctx context.Context) error {
	n.mu.Lock()
	depth := n.sel.Depth()
	n.mu.Unlock()

	if depth == DepthRoot {
		return fmt.Errorf("%w: already at %s", ErrInvalidTransition, RootLabel)
	}
	return n.JumpTo(ctx, depth-1)
}

// JumpTo keeps the selections at depths <= depth and clears the deeper ones
// along with their lists and the query. It never fetches, and it supersedes
// any fetch still in flight.
func (n *Navigator) JumpTo(ctx context.Context, depth int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	cur := n.sel.Depth()
	if depth < DepthRoot || depth > cur {
		return fmt.Errorf("%w: depth %d not in [0, %d]", ErrIndexOutOfRange, depth, cur)
	}

	n.gen++
	n.loading = false
	n.sel = n.sel.truncate(depth)
	if depth < DepthMember {
		n.links = nil
	}
	if depth < DepthSpecialty {
		n.members = nil
	}
	if depth < DepthDepartment {
		n.specialties = nil
	}
	n.log.Debug(ctx, "jumped", "from", cur, "to", depth)
	return nil
}

// SetQuery replaces the search query. It never fetches.
func (n *Navigator) SetQuery(q string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sel.Query = q
}

func (n *Navigator) Query() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sel.Query
}

func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sel.State()
}

// Selection returns a copy of the current selection.
func (n *Navigator) Selection() Selection {
	n.mu.Lock()
	defer n.mu.Unlock()

	s := Selection{Query: n.sel.Query}
	if n.sel.Department != nil {
		d := *n.sel.Department
		s.Department = &d
	}
	if n.sel.Specialty != nil {
		sp := *n.sel.Specialty
		s.Specialty = &sp
	}
	if n.sel.Member != nil {
		u := *n.sel.Member
		s.Member = &u
	}
	return s
}

func (n *Navigator) Breadcrumbs() []Crumb {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sel.Crumbs()
}

// Loading reports whether a fetch issued by the latest action is in flight.
func (n *Navigator) Loading() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loading
}

// query returns the search query if st is the current stage. Lists of other
// stages are shown unfiltered.
func (n *Navigator) query(st State) string {
	if n.sel.State() != st {
		return ""
	}
	return n.sel.Query
}

func (n *Navigator) VisibleDepartments() []models.Department {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Filter(n.departments, n.query(ViewingDepartments), departmentFields)
}

func (n *Navigator) VisibleSpecialties() []models.Specialty {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Filter(n.specialties, n.query(ViewingSpecialties), specialtyFields)
}

func (n *Navigator) VisibleMembers() []models.User {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Filter(n.members, n.query(ViewingMembers), memberFields)
}

func (n *Navigator) VisibleLinks() []models.Link {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Filter(n.links, n.query(ViewingMemberLinks), linkFields)
}

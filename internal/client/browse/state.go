package browse

import (
	"fmt"

	"github.com/dmitrijs2005/clubhub/internal/client/models"
)

// State is the drill-down stage. It is derived from the deepest selection.
type State int

const (
	ViewingDepartments State = iota
	ViewingSpecialties
	ViewingMembers
	ViewingMemberLinks
)

func (s State) String() string {
	switch s {
	case ViewingDepartments:
		return "departments"
	case ViewingSpecialties:
		return "specialties"
	case ViewingMembers:
		return "members"
	case ViewingMemberLinks:
		return "links"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Depth of the breadcrumb trail: 0 is "All Departments", 3 a member.
const (
	DepthRoot = iota
	DepthDepartment
	DepthSpecialty
	DepthMember
)

// RootLabel names the depth-0 breadcrumb.
const RootLabel = "All Departments"

// Selection is the chain of chosen entities plus the active search query.
// Member implies Specialty implies Department.
type Selection struct {
	Department *models.Department
	Specialty  *models.Specialty
	Member     *models.User
	Query      string
}

// Depth is the depth of the deepest set selection.
func (s Selection) Depth() int {
	switch {
	case s.Member != nil:
		return DepthMember
	case s.Specialty != nil:
		return DepthSpecialty
	case s.Department != nil:
		return DepthDepartment
	default:
		return DepthRoot
	}
}

func (s Selection) State() State { return State(s.Depth()) }

// Chained reports whether the selection has no gaps and the specialty
// belongs to the selected department.
func (s Selection) Chained() bool {
	if s.Member != nil && s.Specialty == nil {
		return false
	}
	if s.Specialty != nil {
		if s.Department == nil || s.Specialty.DepartmentID != s.Department.ID {
			return false
		}
	}
	return true
}

// truncate keeps the selections at depths <= depth and clears the query.
func (s Selection) truncate(depth int) Selection {
	out := Selection{}
	if depth >= DepthDepartment {
		out.Department = s.Department
	}
	if depth >= DepthSpecialty {
		out.Specialty = s.Specialty
	}
	if depth >= DepthMember {
		out.Member = s.Member
	}
	return out
}

// Crumb is one clickable segment of the breadcrumb trail.
type Crumb struct {
	Depth int
	Label string
}

// Crumbs renders the ordered path leading to the selection.
func (s Selection) Crumbs() []Crumb {
	out := []Crumb{{Depth: DepthRoot, Label: RootLabel}}
	if s.Department != nil {
		out = append(out, Crumb{Depth: DepthDepartment, Label: s.Department.Name})
	}
	if s.Specialty != nil {
		out = append(out, Crumb{Depth: DepthSpecialty, Label: s.Specialty.Name})
	}
	if s.Member != nil {
		out = append(out, Crumb{Depth: DepthMember, Label: s.Member.Name})
	}
	return out
}

package models

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
	RoleVisitor Role = "visitor"
)

// ValidationStatus is the admin approval state of a member account.
type ValidationStatus string

const (
	StatusPending ValidationStatus = "pending"
	StatusValid   ValidationStatus = "valid"
)

type Department struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Specialty struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DepartmentID ID     `json:"department_id,omitempty"`
}

// User is the client's read-only copy of a backend account.
type User struct {
	ID          ID               `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Role        Role             `json:"role"`
	SpecialtyID ID               `json:"specialite_id,omitempty"`
	Status      ValidationStatus `json:"status,omitempty"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

func (u *User) IsValid() bool { return u != nil && u.Status == StatusValid }

// Link is one of a member's public profile links.
type Link struct {
	ID          ID     `json:"id"`
	UserID      ID     `json:"user_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

type Event struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Date        Date   `json:"date"`
}

package entity

import "time"

type UserRole string

const (
	RoleSalesRep UserRole = "sales_rep"
	RoleManager  UserRole = "manager"
	RoleAdmin    UserRole = "admin"
)

// User is an external identity. The CRM only stores it for assignment
// and display; roles are labels, not enforced permissions.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

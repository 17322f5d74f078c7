package domain

// Role represents the acting role of an authenticated subject
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
	RoleCustomer Role = "CUSTOMER"
)

// IsStaff returns true for roles acting on behalf of the service center
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee
}

// CanOverrideNegativeStock returns true if the role may drive stock below zero
func (r Role) CanOverrideNegativeStock() bool {
	return r == RoleAdmin
}

// Actor аутентифицированный субъект запроса
type Actor struct {
	SubjectID int64
	Role      Role
}

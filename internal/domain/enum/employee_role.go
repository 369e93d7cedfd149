package enum

// EmployeeRole is an employee's role within a business.
type EmployeeRole string

const (
	RoleAdmin   EmployeeRole = "admin"
	RoleManager EmployeeRole = "manager"
	RoleCashier EmployeeRole = "cashier"
)

func (r EmployeeRole) String() string {
	return string(r)
}

// IsAdmin reports whether the role may manage employees and settings.
func (r EmployeeRole) IsAdmin() bool {
	return r == RoleAdmin
}

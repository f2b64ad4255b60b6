package user

// Role is a closed set. Keeping it a named type (rather than comparing raw
// strings at every call site) means capability checks happen in one place.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID        int    `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
}

package domain

import "fmt"

// Role is one of the two fixed portal roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleKaryawan Role = "karyawan"
)

// Valid reports whether r is one of the portal roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleKaryawan
}

// ParseRole converts s into a Role, rejecting anything but the two portal roles.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Credentials is the username/password pair submitted to the login form.
// It only lives for the duration of a login request.
type Credentials struct {
	Username string
	Password string
}

// Complete reports whether both fields are non-empty, the precondition for
// any store lookup.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Principal is the authenticated identity kept in the session under "user".
type Principal struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// StoreRecord is a row returned by one of the credential stores. The set of
// implementations is closed: AdminRecord and EmployeeRecord.
type StoreRecord interface {
	principal() Principal
}

// AdminRecord is a row of the admin store.
type AdminRecord struct {
	IDAdmin   int    `json:"idAdmin"`
	Username  string `json:"username"`
	NamaAdmin string `json:"namaAdmin"`
}

func (r AdminRecord) principal() Principal {
	return Principal{ID: r.IDAdmin, Username: r.Username, Name: r.NamaAdmin, Role: RoleAdmin}
}

// EmployeeRecord is a row of the karyawan store.
type EmployeeRecord struct {
	IDKaryawan   int    `json:"idKaryawan"`
	Username     string `json:"username"`
	NamaKaryawan string `json:"namaKaryawan"`
}

func (r EmployeeRecord) principal() Principal {
	return Principal{ID: r.IDKaryawan, Username: r.Username, Name: r.NamaKaryawan, Role: RoleKaryawan}
}

// NewPrincipal builds the session principal for a matched store record. The
// role always follows the store the record came from.
func NewPrincipal(rec StoreRecord) Principal {
	return rec.principal()
}

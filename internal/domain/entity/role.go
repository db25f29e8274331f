package entity

// Role names stored on users.role and carried in access tokens
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// IsValidRole reports whether name is one of the known roles
func IsValidRole(name string) bool {
	switch name {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

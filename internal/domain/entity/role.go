package entity

// Role ID constants carried in JWT claims. User and role administration
// lives in the identity service; this core only gates routes on the IDs.
const (
	RoleIDAdmin   = 1
	RoleIDStaff   = 2
	RoleIDDoctor  = 3
	RoleIDPatient = 4
)

// Role name constants
const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

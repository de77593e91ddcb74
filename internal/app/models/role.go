package models

// Account roles issued by the backend.
const (
	RoleAdmin     = "admin"
	RoleTeacher   = "teacher"
	RoleTherapist = "therapist"
	RoleStudent   = "student"
)

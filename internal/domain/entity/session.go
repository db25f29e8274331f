package entity

import "github.com/google/uuid"

// Session is the authenticated principal of one request
type Session struct {
	UserID  uuid.UUID
	Email   string
	Role    string
	TokenID string
}

func (s Session) IsAdmin() bool   { return s.Role == RoleAdmin }
func (s Session) IsDoctor() bool  { return s.Role == RoleDoctor }
func (s Session) IsPatient() bool { return s.Role == RolePatient }

package models

import "time"

// Role identifies what kind of actor a profile is
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent:
		return true
	}
	return false
}

// Profile is the identity record behind every account
type Profile struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FullName      string    `json:"full_name"`
	AvatarURL     string    `json:"avatar_url"`
	Role          Role      `json:"role"`
	OAuthProvider string    `json:"-"`
	OAuthSubject  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Session is an authenticated login session backing an issued token
type Session struct {
	ID        string    `json:"id"`
	ProfileID int64     `json:"profile_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

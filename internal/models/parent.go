package models

import "time"

// Parent holds per-parent data. Profile data lives on the linked Profile row.
type Parent struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// ParentStudentLink connects a parent to a student they follow
type ParentStudentLink struct {
	ID           int64     `json:"id"`
	ParentID     int64     `json:"parent_id"`
	StudentID    int64     `json:"student_id"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"created_at"`
}

// LinkedStudent is a student as seen from a parent's dashboard
type LinkedStudent struct {
	Student      Student `json:"student"`
	FullName     string  `json:"full_name"`
	AvatarURL    string  `json:"avatar_url"`
	Relationship string  `json:"relationship"`
}

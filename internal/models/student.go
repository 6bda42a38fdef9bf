package models

import "time"

// PointsPerLevel is the number of points needed to advance one level
const PointsPerLevel = 100

// Student holds per-student gamification state. Profile data lives on the
// linked Profile row.
type Student struct {
	ID             int64      `json:"id"`
	ProfileID      int64      `json:"profile_id"`
	GradeLevel     *int       `json:"grade_level"`
	TotalPoints    int        `json:"total_points"`
	CurrentLevel   int        `json:"current_level"`
	CurrentStreak  int        `json:"current_streak"`
	TotalStudyTime int        `json:"total_study_time"`
	LastPlayedAt   *time.Time `json:"last_played_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LevelForPoints computes the level a point total corresponds to.
// CurrentLevel is stored redundantly and must always equal this.
func LevelForPoints(totalPoints int) int {
	if totalPoints < 0 {
		return 1
	}
	return totalPoints/PointsPerLevel + 1
}

// StudentWithProfile pairs a student with their identity record
type StudentWithProfile struct {
	Student Student `json:"student"`
	Profile Profile `json:"profile"`
}

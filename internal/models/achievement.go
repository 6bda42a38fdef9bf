package models

import "time"

// RequirementType says which student statistic an achievement tests
type RequirementType string

const (
	RequirementPoints      RequirementType = "points"
	RequirementGamesPlayed RequirementType = "games_played"
	RequirementStreak      RequirementType = "streak"
)

// Valid reports whether the requirement type is known
func (t RequirementType) Valid() bool {
	switch t {
	case RequirementPoints, RequirementGamesPlayed, RequirementStreak:
		return true
	}
	return false
}

// Achievement is an unlockable badge with a single numeric requirement
type Achievement struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Icon             string          `json:"icon"`
	RequirementType  RequirementType `json:"requirement_type"`
	RequirementValue int             `json:"requirement_value"`
	CreatedAt        time.Time       `json:"created_at"`
}

// StudentAchievement marks an achievement as earned. Append-only: once
// present it is never revoked.
type StudentAchievement struct {
	ID            int64     `json:"id"`
	StudentID     int64     `json:"student_id"`
	AchievementID int64     `json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
}

// EarnedAchievement pairs the badge with when it was earned
type EarnedAchievement struct {
	Achievement Achievement `json:"achievement"`
	EarnedAt    time.Time   `json:"earned_at"`
}

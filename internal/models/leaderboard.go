package models

// LeaderboardEntry is one ranked row of a leaderboard
type LeaderboardEntry struct {
	RankPosition int     `json:"rank_position"`
	StudentID    int64   `json:"student_id"`
	FullName     string  `json:"full_name"`
	AvatarURL    string  `json:"avatar_url"`
	CurrentLevel int     `json:"current_level"`
	TotalPoints  int     `json:"total_points"`
	Accuracy     float64 `json:"accuracy,omitempty"`
}

// StudentRank summarizes a single student's standing
type StudentRank struct {
	RankPosition  int `json:"rank_position"`
	Percentile    int `json:"percentile"`
	TotalStudents int `json:"total_students"`
	TotalPoints   int `json:"total_points"`
}

package repository

import (
	"database/sql"
	"time"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// LeaderboardRepository computes the ranking queries. Keeping them behind
// one type keeps the ranking rules swappable and testable.
type LeaderboardRepository struct {
	db database.DBTX
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(db database.DBTX) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Global ranks students by lifetime points. Ties break by earlier signup.
func (r *LeaderboardRepository) Global(limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT s.id, p.full_name, p.avatar_url, s.current_level, s.total_points
		FROM students s
		JOIN profiles p ON p.id = s.profile_id
		ORDER BY s.total_points DESC, s.created_at ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRanked(rows, false)
}

// Weekly ranks students by points earned in sessions completed since the
// given cutoff
func (r *LeaderboardRepository) Weekly(since time.Time, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT s.id, p.full_name, p.avatar_url, s.current_level,
		       COALESCE(SUM(gs.total_points_earned), 0) AS week_points
		FROM students s
		JOIN profiles p ON p.id = s.profile_id
		JOIN game_sessions gs ON gs.student_id = s.id
		WHERE gs.completed_at IS NOT NULL AND gs.completed_at >= ?
		GROUP BY s.id, p.full_name, p.avatar_url, s.current_level
		ORDER BY week_points DESC, s.id ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRanked(rows, false)
}

// Subject ranks students by points within one subject and reports their
// answer accuracy there
func (r *LeaderboardRepository) Subject(subjectID int64, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT s.id, p.full_name, p.avatar_url, s.current_level,
		       COALESCE(SUM(gs.total_points_earned), 0) AS subject_points,
		       COALESCE(SUM(gs.correct_answers), 0) AS correct,
		       COALESCE(SUM(gs.total_questions), 0) AS total
		FROM students s
		JOIN profiles p ON p.id = s.profile_id
		JOIN game_sessions gs ON gs.student_id = s.id
		WHERE gs.subject_id = ? AND gs.completed_at IS NOT NULL
		GROUP BY s.id, p.full_name, p.avatar_url, s.current_level
		ORDER BY subject_points DESC, s.id ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, subjectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRanked(rows, true)
}

// StudentRank summarizes one student's standing among all students
func (r *LeaderboardRepository) StudentRank(studentID int64) (*models.StudentRank, error) {
	var points int
	err := r.db.QueryRow(`SELECT total_points FROM students WHERE id = ?`, studentID).Scan(&points)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return nil, err
	}

	var ahead int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM students WHERE total_points > ?`, points).Scan(&ahead); err != nil {
		return nil, err
	}

	rank := ahead + 1
	percentile := 100
	if total > 0 {
		percentile = (rank*100 + total - 1) / total // ceil(rank*100/total): "top X%"
	}

	return &models.StudentRank{
		RankPosition:  rank,
		Percentile:    percentile,
		TotalStudents: total,
		TotalPoints:   points,
	}, nil
}

// collectRanked scans leaderboard rows and assigns 1-based positions in
// result order
func collectRanked(rows *sql.Rows, withAccuracy bool) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	position := 0

	for rows.Next() {
		var e models.LeaderboardEntry
		var err error
		if withAccuracy {
			var correct, total int
			err = rows.Scan(&e.StudentID, &e.FullName, &e.AvatarURL, &e.CurrentLevel, &e.TotalPoints, &correct, &total)
			if total > 0 {
				e.Accuracy = float64(correct) * 100 / float64(total)
			}
		} else {
			err = rows.Scan(&e.StudentID, &e.FullName, &e.AvatarURL, &e.CurrentLevel, &e.TotalPoints)
		}
		if err != nil {
			return nil, err
		}

		position++
		e.RankPosition = position
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

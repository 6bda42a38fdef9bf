package repository

import (
	"database/sql"
	"errors"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// ErrAlreadyEarned is returned when an achievement was already awarded
// to the student
var ErrAlreadyEarned = errors.New("achievement already earned")

// AchievementRepository handles achievement database operations
type AchievementRepository struct {
	db database.DBTX
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db database.DBTX) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Create inserts an achievement definition
func (r *AchievementRepository) Create(name, icon string, reqType models.RequirementType, reqValue int) (*models.Achievement, error) {
	query := `
		INSERT INTO achievements (name, icon, requirement_type, requirement_value)
		VALUES (?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, name, icon, reqType, reqValue)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves an achievement by id, returning nil when absent
func (r *AchievementRepository) GetByID(id int64) (*models.Achievement, error) {
	query := `SELECT id, name, icon, requirement_type, requirement_value, created_at FROM achievements WHERE id = ?`

	a := &models.Achievement{}
	err := r.db.QueryRow(query, id).Scan(&a.ID, &a.Name, &a.Icon, &a.RequirementType, &a.RequirementValue, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List retrieves all achievement definitions
func (r *AchievementRepository) List() ([]models.Achievement, error) {
	query := `SELECT id, name, icon, requirement_type, requirement_value, created_at FROM achievements ORDER BY requirement_value ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Icon, &a.RequirementType, &a.RequirementValue, &a.CreatedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}

	return achievements, rows.Err()
}

// Count returns the number of achievement definitions
func (r *AchievementRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM achievements`).Scan(&count)
	return count, err
}

// GetEarnedIDs retrieves the ids of achievements a student already holds
func (r *AchievementRepository) GetEarnedIDs(studentID int64) (map[int64]bool, error) {
	rows, err := r.db.Query(`SELECT achievement_id FROM student_achievements WHERE student_id = ?`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	earned := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		earned[id] = true
	}

	return earned, rows.Err()
}

// Award records an achievement for a student. The unique
// (student_id, achievement_id) index is the final arbiter: if the insert
// collides with an existing row, ErrAlreadyEarned is returned so two
// concurrent completions cannot double-award.
func (r *AchievementRepository) Award(studentID, achievementID int64) error {
	query := `INSERT INTO student_achievements (student_id, achievement_id) VALUES (?, ?)`

	if _, err := r.db.Exec(query, studentID, achievementID); err != nil {
		var count int
		check := `SELECT COUNT(*) FROM student_achievements WHERE student_id = ? AND achievement_id = ?`
		if scanErr := r.db.QueryRow(check, studentID, achievementID).Scan(&count); scanErr == nil && count > 0 {
			return ErrAlreadyEarned
		}
		return err
	}

	return nil
}

// ListEarned retrieves a student's earned achievements, newest first
func (r *AchievementRepository) ListEarned(studentID int64) ([]models.EarnedAchievement, error) {
	query := `
		SELECT a.id, a.name, a.icon, a.requirement_type, a.requirement_value, a.created_at, sa.earned_at
		FROM student_achievements sa
		JOIN achievements a ON a.id = sa.achievement_id
		WHERE sa.student_id = ?
		ORDER BY sa.earned_at DESC
	`

	rows, err := r.db.Query(query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earned []models.EarnedAchievement
	for rows.Next() {
		var e models.EarnedAchievement
		err := rows.Scan(
			&e.Achievement.ID,
			&e.Achievement.Name,
			&e.Achievement.Icon,
			&e.Achievement.RequirementType,
			&e.Achievement.RequirementValue,
			&e.Achievement.CreatedAt,
			&e.EarnedAt,
		)
		if err != nil {
			return nil, err
		}
		earned = append(earned, e)
	}

	return earned, rows.Err()
}

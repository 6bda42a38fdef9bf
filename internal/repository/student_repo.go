package repository

import (
	"database/sql"
	"time"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// StudentRepository handles student database operations
type StudentRepository struct {
	db database.DBTX
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db database.DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

// WithTx returns a repository view running inside the given transaction
func (r *StudentRepository) WithTx(tx *database.Tx) *StudentRepository {
	return &StudentRepository{db: tx}
}

const studentColumns = `id, profile_id, grade_level, total_points, current_level,
       current_streak, total_study_time, last_played_at, created_at, updated_at`

func scanStudent(row interface{ Scan(...interface{}) error }) (*models.Student, error) {
	s := &models.Student{}
	var gradeLevel sql.NullInt64
	var lastPlayedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ProfileID,
		&gradeLevel,
		&s.TotalPoints,
		&s.CurrentLevel,
		&s.CurrentStreak,
		&s.TotalStudyTime,
		&lastPlayedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if gradeLevel.Valid {
		g := int(gradeLevel.Int64)
		s.GradeLevel = &g
	}
	if lastPlayedAt.Valid {
		t := lastPlayedAt.Time
		s.LastPlayedAt = &t
	}

	return s, nil
}

// Create inserts a student row for a profile
func (r *StudentRepository) Create(profileID int64, gradeLevel *int) (*models.Student, error) {
	query := `INSERT INTO students (profile_id, grade_level) VALUES (?, ?)`

	var grade interface{}
	if gradeLevel != nil {
		grade = *gradeLevel
	}

	id, err := r.db.ExecReturningID(query, profileID, grade)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a student by id, returning nil when absent
func (r *StudentRepository) GetByID(id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ?`

	s, err := scanStudent(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// GetByProfileID retrieves the student belonging to a profile
func (r *StudentRepository) GetByProfileID(profileID int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE profile_id = ?`

	s, err := scanStudent(r.db.QueryRow(query, profileID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// GetByEmail retrieves the student whose profile carries the given email
func (r *StudentRepository) GetByEmail(email string) (*models.Student, error) {
	query := `
		SELECT s.id, s.profile_id, s.grade_level, s.total_points, s.current_level,
		       s.current_streak, s.total_study_time, s.last_played_at, s.created_at, s.updated_at
		FROM students s
		JOIN profiles p ON p.id = s.profile_id
		WHERE p.email = ?
	`

	s, err := scanStudent(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// UpdateStats writes the gamification counters after a completed game
func (r *StudentRepository) UpdateStats(id int64, totalPoints, currentLevel, currentStreak, totalStudyTime int, lastPlayedAt time.Time) error {
	query := `
		UPDATE students
		SET total_points = ?, current_level = ?, current_streak = ?,
		    total_study_time = ?, last_played_at = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, totalPoints, currentLevel, currentStreak, totalStudyTime, lastPlayedAt, time.Now(), id)
	return err
}

// ListWithProfiles retrieves all students with their identity records,
// highest points first
func (r *StudentRepository) ListWithProfiles() ([]models.StudentWithProfile, error) {
	query := `
		SELECT s.id, s.profile_id, s.grade_level, s.total_points, s.current_level,
		       s.current_streak, s.total_study_time, s.last_played_at, s.created_at, s.updated_at,
		       p.id, p.email, p.password_hash, p.full_name, p.avatar_url, p.role,
		       p.oauth_provider, p.oauth_subject, p.created_at, p.updated_at
		FROM students s
		JOIN profiles p ON p.id = s.profile_id
		ORDER BY s.total_points DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.StudentWithProfile
	for rows.Next() {
		var sw models.StudentWithProfile
		var gradeLevel sql.NullInt64
		var lastPlayedAt sql.NullTime

		err := rows.Scan(
			&sw.Student.ID,
			&sw.Student.ProfileID,
			&gradeLevel,
			&sw.Student.TotalPoints,
			&sw.Student.CurrentLevel,
			&sw.Student.CurrentStreak,
			&sw.Student.TotalStudyTime,
			&lastPlayedAt,
			&sw.Student.CreatedAt,
			&sw.Student.UpdatedAt,
			&sw.Profile.ID,
			&sw.Profile.Email,
			&sw.Profile.PasswordHash,
			&sw.Profile.FullName,
			&sw.Profile.AvatarURL,
			&sw.Profile.Role,
			&sw.Profile.OAuthProvider,
			&sw.Profile.OAuthSubject,
			&sw.Profile.CreatedAt,
			&sw.Profile.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if gradeLevel.Valid {
			g := int(gradeLevel.Int64)
			sw.Student.GradeLevel = &g
		}
		if lastPlayedAt.Valid {
			t := lastPlayedAt.Time
			sw.Student.LastPlayedAt = &t
		}

		result = append(result, sw)
	}

	return result, rows.Err()
}

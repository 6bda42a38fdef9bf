package repository

import (
	"database/sql"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// ParentRepository handles parent database operations
type ParentRepository struct {
	db database.DBTX
}

// NewParentRepository creates a new parent repository
func NewParentRepository(db database.DBTX) *ParentRepository {
	return &ParentRepository{db: db}
}

// WithTx returns a repository view running inside the given transaction
func (r *ParentRepository) WithTx(tx *database.Tx) *ParentRepository {
	return &ParentRepository{db: tx}
}

// Create inserts a parent row for a profile
func (r *ParentRepository) Create(profileID int64, phoneNumber string) (*models.Parent, error) {
	query := `INSERT INTO parents (profile_id, phone_number) VALUES (?, ?)`

	id, err := r.db.ExecReturningID(query, profileID, phoneNumber)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a parent by id, returning nil when absent
func (r *ParentRepository) GetByID(id int64) (*models.Parent, error) {
	query := `SELECT id, profile_id, phone_number, created_at FROM parents WHERE id = ?`

	p := &models.Parent{}
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.ProfileID, &p.PhoneNumber, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByProfileID retrieves the parent belonging to a profile
func (r *ParentRepository) GetByProfileID(profileID int64) (*models.Parent, error) {
	query := `SELECT id, profile_id, phone_number, created_at FROM parents WHERE profile_id = ?`

	p := &models.Parent{}
	err := r.db.QueryRow(query, profileID).Scan(&p.ID, &p.ProfileID, &p.PhoneNumber, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// LinkStudent connects a parent to a student. The unique pair constraint
// makes repeat links a no-op at the database level.
func (r *ParentRepository) LinkStudent(parentID, studentID int64, relationship string) error {
	query := `
		INSERT INTO parent_student_links (parent_id, student_id, relationship)
		VALUES (?, ?, ?)
	`
	_, err := r.db.Exec(query, parentID, studentID, relationship)
	return err
}

// IsLinked reports whether a parent already follows a student
func (r *ParentRepository) IsLinked(parentID, studentID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM parent_student_links WHERE parent_id = ? AND student_id = ?`
	if err := r.db.QueryRow(query, parentID, studentID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLinkedStudents retrieves all students a parent follows
func (r *ParentRepository) GetLinkedStudents(parentID int64) ([]models.LinkedStudent, error) {
	query := `
		SELECT s.id, s.profile_id, s.grade_level, s.total_points, s.current_level,
		       s.current_streak, s.total_study_time, s.last_played_at, s.created_at, s.updated_at,
		       p.full_name, p.avatar_url, l.relationship
		FROM parent_student_links l
		JOIN students s ON s.id = l.student_id
		JOIN profiles p ON p.id = s.profile_id
		WHERE l.parent_id = ?
		ORDER BY p.full_name ASC
	`

	rows, err := r.db.Query(query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []models.LinkedStudent
	for rows.Next() {
		var ls models.LinkedStudent
		var gradeLevel sql.NullInt64
		var lastPlayedAt sql.NullTime

		err := rows.Scan(
			&ls.Student.ID,
			&ls.Student.ProfileID,
			&gradeLevel,
			&ls.Student.TotalPoints,
			&ls.Student.CurrentLevel,
			&ls.Student.CurrentStreak,
			&ls.Student.TotalStudyTime,
			&lastPlayedAt,
			&ls.Student.CreatedAt,
			&ls.Student.UpdatedAt,
			&ls.FullName,
			&ls.AvatarURL,
			&ls.Relationship,
		)
		if err != nil {
			return nil, err
		}

		if gradeLevel.Valid {
			g := int(gradeLevel.Int64)
			ls.Student.GradeLevel = &g
		}
		if lastPlayedAt.Valid {
			t := lastPlayedAt.Time
			ls.Student.LastPlayedAt = &t
		}

		students = append(students, ls)
	}

	return students, rows.Err()
}

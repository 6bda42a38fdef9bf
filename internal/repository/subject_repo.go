package repository

import (
	"database/sql"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db database.DBTX
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db database.DBTX) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// Create inserts a subject and returns it
func (r *SubjectRepository) Create(name, icon, description, color string, isActive bool) (*models.Subject, error) {
	query := `
		INSERT INTO subjects (name, icon, description, color, is_active)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, name, icon, description, color, isActive)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a subject by id, returning nil when absent
func (r *SubjectRepository) GetByID(id int64) (*models.Subject, error) {
	query := `SELECT id, name, icon, description, color, is_active, created_at FROM subjects WHERE id = ?`

	s := &models.Subject{}
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.Name, &s.Icon, &s.Description, &s.Color, &s.IsActive, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves subjects ordered by name; activeOnly limits to playable ones
func (r *SubjectRepository) List(activeOnly bool) ([]models.Subject, error) {
	query := `SELECT id, name, icon, description, color, is_active, created_at FROM subjects`
	if activeOnly {
		query += ` WHERE is_active = ?`
	}
	query += ` ORDER BY name ASC`

	var rows *sql.Rows
	var err error
	if activeOnly {
		rows, err = r.db.Query(query, true)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Icon, &s.Description, &s.Color, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

// Update changes a subject's fields
func (r *SubjectRepository) Update(id int64, name, icon, description, color string, isActive bool) error {
	query := `
		UPDATE subjects
		SET name = ?, icon = ?, description = ?, color = ?, is_active = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, name, icon, description, color, isActive, id)
	return err
}

// Delete removes a subject and, through cascades, its questions
func (r *SubjectRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM subjects WHERE id = ?`, id)
	return err
}

// Count returns the number of subjects
func (r *SubjectRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM subjects`).Scan(&count)
	return count, err
}

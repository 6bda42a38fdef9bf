package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// QuestionRepository handles question database operations.
// Options are stored as a JSON array in a text column.
type QuestionRepository struct {
	db database.DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db database.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

const questionColumns = `id, subject_id, question_text, options, correct_answer, explanation, points_value, created_at`

func scanQuestion(row interface{ Scan(...interface{}) error }) (*models.Question, error) {
	q := &models.Question{}
	var optionsJSON string

	err := row.Scan(
		&q.ID,
		&q.SubjectID,
		&q.QuestionText,
		&optionsJSON,
		&q.CorrectAnswer,
		&q.Explanation,
		&q.PointsValue,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return nil, fmt.Errorf("corrupt options for question %d: %w", q.ID, err)
	}

	return q, nil
}

// Create inserts a question and returns it
func (r *QuestionRepository) Create(q *models.Question) (*models.Question, error) {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	query := `
		INSERT INTO questions (subject_id, question_text, options, correct_answer, explanation, points_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, q.SubjectID, q.QuestionText, string(optionsJSON), q.CorrectAnswer, q.Explanation, q.PointsValue)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a question by id, returning nil when absent
func (r *QuestionRepository) GetByID(id int64) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = ?`

	q, err := scanQuestion(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return q, err
}

// ListBySubject retrieves all questions of a subject
func (r *QuestionRepository) ListBySubject(subjectID int64) ([]models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE subject_id = ? ORDER BY id ASC`
	return r.list(query, subjectID)
}

// List retrieves all questions, newest first
func (r *QuestionRepository) List() ([]models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY created_at DESC`
	return r.list(query)
}

func (r *QuestionRepository) list(query string, args ...interface{}) ([]models.Question, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	return questions, rows.Err()
}

// Update changes a question's fields
func (r *QuestionRepository) Update(q *models.Question) error {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}

	query := `
		UPDATE questions
		SET subject_id = ?, question_text = ?, options = ?, correct_answer = ?, explanation = ?, points_value = ?
		WHERE id = ?
	`
	_, err = r.db.Exec(query, q.SubjectID, q.QuestionText, string(optionsJSON), q.CorrectAnswer, q.Explanation, q.PointsValue, q.ID)
	return err
}

// Delete removes a question
func (r *QuestionRepository) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM questions WHERE id = ?`, id)
	return err
}

// CountBySubject returns the size of a subject's question pool
func (r *QuestionRepository) CountBySubject(subjectID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM questions WHERE subject_id = ?`, subjectID).Scan(&count)
	return count, err
}

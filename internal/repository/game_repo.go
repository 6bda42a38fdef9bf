package repository

import (
	"database/sql"
	"time"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// GameRepository handles game session database operations
type GameRepository struct {
	db database.DBTX
}

// NewGameRepository creates a new game repository
func NewGameRepository(db database.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

// WithTx returns a repository view running inside the given transaction
func (r *GameRepository) WithTx(tx *database.Tx) *GameRepository {
	return &GameRepository{db: tx}
}

const gameSessionColumns = `id, student_id, subject_id, started_at, completed_at,
       total_questions, correct_answers, total_points_earned, question_order`

func scanGameSession(row interface{ Scan(...interface{}) error }) (*models.GameSession, error) {
	s := &models.GameSession{}
	var completedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.SubjectID,
		&s.StartedAt,
		&completedAt,
		&s.TotalQuestions,
		&s.CorrectAnswers,
		&s.TotalPointsEarned,
		&s.QuestionOrder,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}

	return s, nil
}

// CreateSession creates a new open game session
func (r *GameRepository) CreateSession(studentID, subjectID int64, totalQuestions int, questionOrder string) (*models.GameSession, error) {
	query := `
		INSERT INTO game_sessions (student_id, subject_id, total_questions, question_order)
		VALUES (?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, studentID, subjectID, totalQuestions, questionOrder)
	if err != nil {
		return nil, err
	}

	return r.GetSessionByID(id)
}

// GetSessionByID retrieves a game session, returning nil when absent
func (r *GameRepository) GetSessionByID(id int64) (*models.GameSession, error) {
	query := `SELECT ` + gameSessionColumns + ` FROM game_sessions WHERE id = ?`

	s, err := scanGameSession(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// RecordAnswer appends an answer to a session
func (r *GameRepository) RecordAnswer(sessionID, questionID int64, questionIndex int, selectedAnswer, correctAnswer string, isCorrect bool, pointsEarned int) (*models.GameAnswer, error) {
	query := `
		INSERT INTO game_answers (game_session_id, question_id, question_index, selected_answer, correct_answer, is_correct, points_earned)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, sessionID, questionID, questionIndex, selectedAnswer, correctAnswer, isCorrect, pointsEarned)
	if err != nil {
		return nil, err
	}

	return &models.GameAnswer{
		ID:             id,
		GameSessionID:  sessionID,
		QuestionID:     questionID,
		QuestionIndex:  questionIndex,
		SelectedAnswer: selectedAnswer,
		CorrectAnswer:  correctAnswer,
		IsCorrect:      isCorrect,
		PointsEarned:   pointsEarned,
		AnsweredAt:     time.Now(),
	}, nil
}

// GetSessionAnswers retrieves a session's answers in question order
func (r *GameRepository) GetSessionAnswers(sessionID int64) ([]models.GameAnswer, error) {
	query := `
		SELECT id, game_session_id, question_id, question_index, selected_answer,
		       correct_answer, is_correct, points_earned, answered_at
		FROM game_answers
		WHERE game_session_id = ?
		ORDER BY question_index ASC
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.GameAnswer
	for rows.Next() {
		var a models.GameAnswer
		err := rows.Scan(
			&a.ID,
			&a.GameSessionID,
			&a.QuestionID,
			&a.QuestionIndex,
			&a.SelectedAnswer,
			&a.CorrectAnswer,
			&a.IsCorrect,
			&a.PointsEarned,
			&a.AnsweredAt,
		)
		if err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}

	return answers, rows.Err()
}

// HasAnswer reports whether a question was already answered in a session
func (r *GameRepository) HasAnswer(sessionID, questionID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM game_answers WHERE game_session_id = ? AND question_id = ?`
	if err := r.db.QueryRow(query, sessionID, questionID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountAnswers returns how many questions of a session have been answered
func (r *GameRepository) CountAnswers(sessionID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM game_answers WHERE game_session_id = ?`, sessionID).Scan(&count)
	return count, err
}

// CompleteSession writes the final tally and marks the session terminal.
// It reports false when the session was already completed, so a racing
// second completion can be detected and rolled back.
func (r *GameRepository) CompleteSession(sessionID int64, correctAnswers, totalPoints int, completedAt time.Time) (bool, error) {
	query := `
		UPDATE game_sessions
		SET completed_at = ?, correct_answers = ?, total_points_earned = ?
		WHERE id = ? AND completed_at IS NULL
	`
	result, err := r.db.Exec(query, completedAt, correctAnswers, totalPoints, sessionID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetStudentSessions retrieves a student's completed sessions with subject
// display fields, newest first
func (r *GameRepository) GetStudentSessions(studentID int64, limit int) ([]models.GameSessionWithSubject, error) {
	query := `
		SELECT gs.id, gs.student_id, gs.subject_id, gs.started_at, gs.completed_at,
		       gs.total_questions, gs.correct_answers, gs.total_points_earned, gs.question_order,
		       sub.name, sub.icon
		FROM game_sessions gs
		JOIN subjects sub ON sub.id = gs.subject_id
		WHERE gs.student_id = ? AND gs.completed_at IS NOT NULL
		ORDER BY gs.completed_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.GameSessionWithSubject
	for rows.Next() {
		var sw models.GameSessionWithSubject
		var completedAt sql.NullTime

		err := rows.Scan(
			&sw.Session.ID,
			&sw.Session.StudentID,
			&sw.Session.SubjectID,
			&sw.Session.StartedAt,
			&completedAt,
			&sw.Session.TotalQuestions,
			&sw.Session.CorrectAnswers,
			&sw.Session.TotalPointsEarned,
			&sw.Session.QuestionOrder,
			&sw.SubjectName,
			&sw.SubjectIcon,
		)
		if err != nil {
			return nil, err
		}

		if completedAt.Valid {
			sw.Session.CompletedAt = &completedAt.Time
		}

		sessions = append(sessions, sw)
	}

	return sessions, rows.Err()
}

// CountCompletedForStudent counts a student's completed sessions
func (r *GameRepository) CountCompletedForStudent(studentID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM game_sessions WHERE student_id = ? AND completed_at IS NOT NULL`
	err := r.db.QueryRow(query, studentID).Scan(&count)
	return count, err
}

package models

import "time"

// GameSession is one play-through of a subject's quiz. It is created open
// and completed exactly once; a completed session is never reopened.
type GameSession struct {
	ID                int64      `json:"id"`
	StudentID         int64      `json:"student_id"`
	SubjectID         int64      `json:"subject_id"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	TotalQuestions    int        `json:"total_questions"`
	CorrectAnswers    int        `json:"correct_answers"`
	TotalPointsEarned int        `json:"total_points_earned"`
	QuestionOrder     string     `json:"-"`
}

// IsCompleted reports whether the session has reached its terminal state
func (s *GameSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// GameAnswer records a single answered question within a session
type GameAnswer struct {
	ID             int64     `json:"id"`
	GameSessionID  int64     `json:"game_session_id"`
	QuestionID     int64     `json:"question_id"`
	QuestionIndex  int       `json:"question_index"`
	SelectedAnswer string    `json:"selected_answer"`
	CorrectAnswer  string    `json:"correct_answer"`
	IsCorrect      bool      `json:"is_correct"`
	PointsEarned   int       `json:"points_earned"`
	AnsweredAt     time.Time `json:"answered_at"`
}

// GameSessionWithSubject includes the subject's display fields for history views
type GameSessionWithSubject struct {
	Session     GameSession `json:"session"`
	SubjectName string      `json:"subject_name"`
	SubjectIcon string      `json:"subject_icon"`
}

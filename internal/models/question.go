package models

import "time"

// Question is a multiple-choice question belonging to a subject.
// CorrectAnswer must equal one of Options; Options has at least two entries.
type Question struct {
	ID            int64     `json:"id"`
	SubjectID     int64     `json:"subject_id"`
	QuestionText  string    `json:"question_text"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation"`
	PointsValue   int       `json:"points_value"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public strips the fields that would let a client cheat mid-game
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:           q.ID,
		SubjectID:    q.SubjectID,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		PointsValue:  q.PointsValue,
	}
}

// PublicQuestion is a question as presented to a player: no correct
// answer, no explanation
type PublicQuestion struct {
	ID           int64    `json:"id"`
	SubjectID    int64    `json:"subject_id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	PointsValue  int      `json:"points_value"`
}

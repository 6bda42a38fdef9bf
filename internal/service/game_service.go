package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"cerdas/internal/database"
	"cerdas/internal/metrics"
	"cerdas/internal/models"
	"cerdas/internal/repository"
)

// GameStore is the slice of game persistence the game service needs
type GameStore interface {
	CreateSession(studentID, subjectID int64, totalQuestions int, questionOrder string) (*models.GameSession, error)
	GetSessionByID(id int64) (*models.GameSession, error)
	RecordAnswer(sessionID, questionID int64, questionIndex int, selectedAnswer, correctAnswer string, isCorrect bool, pointsEarned int) (*models.GameAnswer, error)
	GetSessionAnswers(sessionID int64) ([]models.GameAnswer, error)
	HasAnswer(sessionID, questionID int64) (bool, error)
	CountAnswers(sessionID int64) (int, error)
	CompleteSession(sessionID int64, correctAnswers, totalPoints int, completedAt time.Time) (bool, error)
	GetStudentSessions(studentID int64, limit int) ([]models.GameSessionWithSubject, error)
	CountCompletedForStudent(studentID int64) (int, error)
}

// StudentStore is the slice of student persistence the game service needs
type StudentStore interface {
	GetByID(id int64) (*models.Student, error)
	GetByProfileID(profileID int64) (*models.Student, error)
	UpdateStats(id int64, totalPoints, currentLevel, currentStreak, totalStudyTime int, lastPlayedAt time.Time) error
}

// QuestionStore is the slice of question persistence the game service needs
type QuestionStore interface {
	GetByID(id int64) (*models.Question, error)
	ListBySubject(subjectID int64) ([]models.Question, error)
}

// SubjectStore is the slice of subject persistence the game service needs
type SubjectStore interface {
	GetByID(id int64) (*models.Subject, error)
}

// AchievementStore is the slice of achievement persistence the game service needs
type AchievementStore interface {
	List() ([]models.Achievement, error)
	GetEarnedIDs(studentID int64) (map[int64]bool, error)
	Award(studentID, achievementID int64) error
}

// StartedGame is a freshly created session with its question set, in play order
type StartedGame struct {
	Session   *models.GameSession     `json:"session"`
	Questions []models.PublicQuestion `json:"questions"`
}

// GameView is an in-progress session with its questions and answers so far
type GameView struct {
	Session   *models.GameSession     `json:"session"`
	Questions []models.PublicQuestion `json:"questions"`
	Answers   []models.GameAnswer     `json:"answers"`
}

// AnswerResult is the immediate feedback after answering one question
type AnswerResult struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
	PointsEarned  int    `json:"points_earned"`
	Answered      int    `json:"answered"`
	Total         int    `json:"total"`
}

// GameSummary is the final tally of a completed session
type GameSummary struct {
	Session         *models.GameSession  `json:"session"`
	CorrectAnswers  int                  `json:"correct_answers"`
	PointsEarned    int                  `json:"points_earned"`
	TotalPoints     int                  `json:"total_points"`
	Level           int                  `json:"level"`
	LeveledUp       bool                 `json:"leveled_up"`
	Streak          int                  `json:"streak"`
	NewAchievements []models.Achievement `json:"new_achievements"`
}

// GameService runs quiz sessions: question selection, answer scoring and
// the completion bookkeeping that feeds points, levels, streaks and
// achievements.
type GameService struct {
	games        GameStore
	students     StudentStore
	questions    QuestionStore
	subjects     SubjectStore
	achievements AchievementStore

	// finalize runs the completion writes atomically
	finalize func(fn func(games GameStore, students StudentStore) error) error

	// invalidateBoard drops the subject's cached leaderboard after a
	// completion changes it
	invalidateBoard func(subjectID int64)

	questionsPerGame int
	studyMinutes     int
	now              func() time.Time
	log              *zap.SugaredLogger
}

// NewGameService creates a game service backed by the database
func NewGameService(
	db *database.DB,
	games *repository.GameRepository,
	students *repository.StudentRepository,
	questions *repository.QuestionRepository,
	subjects *repository.SubjectRepository,
	achievements *repository.AchievementRepository,
	invalidateBoard func(subjectID int64),
	questionsPerGame, studyMinutes int,
	log *zap.SugaredLogger,
) *GameService {
	return &GameService{
		games:        games,
		students:     students,
		questions:    questions,
		subjects:     subjects,
		achievements: achievements,
		finalize: func(fn func(games GameStore, students StudentStore) error) error {
			tx, err := db.Begin()
			if err != nil {
				return err
			}
			defer tx.Rollback()
			if err := fn(games.WithTx(tx), students.WithTx(tx)); err != nil {
				return err
			}
			return tx.Commit()
		},
		invalidateBoard:  invalidateBoard,
		questionsPerGame: questionsPerGame,
		studyMinutes:     studyMinutes,
		now:              time.Now,
		log:              log,
	}
}

// StartGame opens a session for a student on a subject with a random sample
// of its questions
func (s *GameService) StartGame(profileID, subjectID int64) (*StartedGame, error) {
	student, err := s.students.GetByProfileID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, ErrNotFound
	}

	subject, err := s.subjects.GetByID(subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject: %w", err)
	}
	if subject == nil || !subject.IsActive {
		return nil, ErrNotFound
	}

	pool, err := s.questions.ListBySubject(subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	picked := sampleQuestions(pool, s.questionsPerGame)

	session, err := s.games.CreateSession(student.ID, subjectID, len(picked), joinQuestionOrder(picked))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	public := make([]models.PublicQuestion, len(picked))
	for i, q := range picked {
		public[i] = q.Public()
	}

	s.log.Infow("game started", "session_id", session.ID, "student_id", student.ID, "subject_id", subjectID, "questions", len(picked))

	return &StartedGame{Session: session, Questions: public}, nil
}

// GetGame returns an owned session with its questions and recorded answers
func (s *GameService) GetGame(profileID, sessionID int64) (*GameView, error) {
	session, _, err := s.ownedSession(profileID, sessionID)
	if err != nil {
		return nil, err
	}

	order := parseQuestionOrder(session.QuestionOrder)
	questions := make([]models.PublicQuestion, 0, len(order))
	for _, qid := range order {
		q, err := s.questions.GetByID(qid)
		if err != nil {
			return nil, fmt.Errorf("failed to load question: %w", err)
		}
		if q != nil {
			questions = append(questions, q.Public())
		}
	}

	answers, err := s.games.GetSessionAnswers(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	return &GameView{Session: session, Questions: questions, Answers: answers}, nil
}

// SubmitAnswer scores one answer. Questions must be answered in their dealt
// order, once each, and only while the session is open.
func (s *GameService) SubmitAnswer(profileID, sessionID, questionID int64, selectedAnswer string) (*AnswerResult, error) {
	session, _, err := s.ownedSession(profileID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, ErrGameCompleted
	}

	order := parseQuestionOrder(session.QuestionOrder)
	index := indexOf(order, questionID)
	if index < 0 {
		return nil, ErrNotFound
	}

	answered, err := s.games.CountAnswers(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count answers: %w", err)
	}
	if index != answered {
		dup, err := s.games.HasAnswer(sessionID, questionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check answer: %w", err)
		}
		if dup {
			return nil, ErrDuplicateAnswer
		}
		return nil, ErrOutOfOrder
	}

	question, err := s.questions.GetByID(questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, ErrNotFound
	}

	isCorrect := selectedAnswer == question.CorrectAnswer
	points := 0
	if isCorrect {
		points = question.PointsValue
	}

	if _, err := s.games.RecordAnswer(sessionID, questionID, index, selectedAnswer, question.CorrectAnswer, isCorrect, points); err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	return &AnswerResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
		PointsEarned:  points,
		Answered:      answered + 1,
		Total:         session.TotalQuestions,
	}, nil
}

// CompleteGame finalizes a fully answered session: it writes the tally,
// updates the student's points, level, streak and study time atomically,
// then evaluates achievements.
func (s *GameService) CompleteGame(profileID, sessionID int64) (*GameSummary, error) {
	session, student, err := s.ownedSession(profileID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, ErrGameCompleted
	}

	answers, err := s.games.GetSessionAnswers(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}
	if len(answers) < session.TotalQuestions {
		return nil, ErrGameUnfinished
	}

	correct, points := tallyAnswers(answers)
	now := s.now()

	newTotal := student.TotalPoints + points
	newLevel := models.LevelForPoints(newTotal)
	newStreak := nextStreak(student.LastPlayedAt, student.CurrentStreak, now)
	newStudyTime := student.TotalStudyTime + s.studyMinutes

	err = s.finalize(func(games GameStore, students StudentStore) error {
		done, err := games.CompleteSession(sessionID, correct, points, now)
		if err != nil {
			return fmt.Errorf("failed to complete session: %w", err)
		}
		if !done {
			// a racing request finalized first; roll back so the
			// student's stats are credited exactly once
			return ErrGameCompleted
		}
		if err := students.UpdateStats(student.ID, newTotal, newLevel, newStreak, newStudyTime, now); err != nil {
			return fmt.Errorf("failed to update student stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.GamesCompleted.Inc()

	if s.invalidateBoard != nil {
		s.invalidateBoard(session.SubjectID)
	}

	gamesPlayed, err := s.games.CountCompletedForStudent(student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count games: %w", err)
	}

	newAchievements, err := s.evaluateAchievements(student.ID, newTotal, gamesPlayed, newStreak)
	if err != nil {
		return nil, err
	}

	completed, err := s.games.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload session: %w", err)
	}

	s.log.Infow("game completed",
		"session_id", sessionID, "student_id", student.ID,
		"correct", correct, "points", points, "level", newLevel, "streak", newStreak)

	return &GameSummary{
		Session:         completed,
		CorrectAnswers:  correct,
		PointsEarned:    points,
		TotalPoints:     newTotal,
		Level:           newLevel,
		LeveledUp:       newLevel > student.CurrentLevel,
		Streak:          newStreak,
		NewAchievements: newAchievements,
	}, nil
}

// GetHistory returns a student's completed sessions, newest first
func (s *GameService) GetHistory(profileID int64, limit int) ([]models.GameSessionWithSubject, error) {
	student, err := s.students.GetByProfileID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, ErrNotFound
	}
	return s.games.GetStudentSessions(student.ID, limit)
}

// ownedSession loads a session and verifies the caller's student owns it
func (s *GameService) ownedSession(profileID, sessionID int64) (*models.GameSession, *models.Student, error) {
	student, err := s.students.GetByProfileID(profileID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, nil, ErrNotFound
	}

	session, err := s.games.GetSessionByID(sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, nil, ErrNotFound
	}
	if session.StudentID != student.ID {
		return nil, nil, ErrForbidden
	}

	return session, student, nil
}

// evaluateAchievements awards every unearned achievement whose requirement
// the student now meets. A concurrent completion awarding the same badge
// first is not an error.
func (s *GameService) evaluateAchievements(studentID int64, totalPoints, gamesPlayed, streak int) ([]models.Achievement, error) {
	all, err := s.achievements.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	earned, err := s.achievements.GetEarnedIDs(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned achievements: %w", err)
	}

	var awarded []models.Achievement
	for _, a := range all {
		if earned[a.ID] || !meetsRequirement(a, totalPoints, gamesPlayed, streak) {
			continue
		}

		if err := s.achievements.Award(studentID, a.ID); err != nil {
			if errors.Is(err, repository.ErrAlreadyEarned) {
				continue
			}
			return nil, fmt.Errorf("failed to award achievement: %w", err)
		}

		metrics.AchievementsAwarded.Inc()
		s.log.Infow("achievement awarded", "student_id", studentID, "achievement_id", a.ID, "name", a.Name)
		awarded = append(awarded, a)
	}

	return awarded, nil
}

// meetsRequirement checks one achievement requirement against current stats
func meetsRequirement(a models.Achievement, totalPoints, gamesPlayed, streak int) bool {
	switch a.RequirementType {
	case models.RequirementPoints:
		return totalPoints >= a.RequirementValue
	case models.RequirementGamesPlayed:
		return gamesPlayed >= a.RequirementValue
	case models.RequirementStreak:
		return streak >= a.RequirementValue
	}
	return false
}

// tallyAnswers sums a session's correct answers and earned points
func tallyAnswers(answers []models.GameAnswer) (correct, points int) {
	for _, a := range answers {
		if a.IsCorrect {
			correct++
			points += a.PointsEarned
		}
	}
	return correct, points
}

// nextStreak advances a daily play streak: another game the same day keeps
// it, a game the next day extends it, a gap resets it
func nextStreak(lastPlayed *time.Time, current int, now time.Time) int {
	if lastPlayed == nil {
		return 1
	}

	switch {
	case sameDay(*lastPlayed, now):
		if current < 1 {
			return 1
		}
		return current
	case sameDay(lastPlayed.AddDate(0, 0, 1), now):
		return current + 1
	default:
		return 1
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// sampleQuestions draws up to n questions uniformly without replacement;
// the result order is the play order
func sampleQuestions(pool []models.Question, n int) []models.Question {
	shuffled := make([]models.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// joinQuestionOrder serializes the dealt question ids as a comma list
func joinQuestionOrder(questions []models.Question) string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = strconv.FormatInt(q.ID, 10)
	}
	return strings.Join(ids, ",")
}

// parseQuestionOrder reverses joinQuestionOrder, skipping malformed entries
func parseQuestionOrder(order string) []int64 {
	if order == "" {
		return nil
	}

	parts := strings.Split(order, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseInt(p, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func indexOf(ids []int64, id int64) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

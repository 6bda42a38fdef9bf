package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"cerdas/internal/models"
	"cerdas/internal/repository"
)

type fakeGameStore struct {
	sessions      map[int64]*models.GameSession
	answers       map[int64][]models.GameAnswer
	nextSessionID int64
	nextAnswerID  int64
}

func newFakeGameStore() *fakeGameStore {
	return &fakeGameStore{
		sessions: make(map[int64]*models.GameSession),
		answers:  make(map[int64][]models.GameAnswer),
	}
}

func (f *fakeGameStore) CreateSession(studentID, subjectID int64, totalQuestions int, questionOrder string) (*models.GameSession, error) {
	f.nextSessionID++
	s := &models.GameSession{
		ID:             f.nextSessionID,
		StudentID:      studentID,
		SubjectID:      subjectID,
		StartedAt:      time.Now(),
		TotalQuestions: totalQuestions,
		QuestionOrder:  questionOrder,
	}
	f.sessions[s.ID] = s
	copy := *s
	return &copy, nil
}

func (f *fakeGameStore) GetSessionByID(id int64) (*models.GameSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copy := *s
	return &copy, nil
}

func (f *fakeGameStore) RecordAnswer(sessionID, questionID int64, questionIndex int, selectedAnswer, correctAnswer string, isCorrect bool, pointsEarned int) (*models.GameAnswer, error) {
	f.nextAnswerID++
	a := models.GameAnswer{
		ID:             f.nextAnswerID,
		GameSessionID:  sessionID,
		QuestionID:     questionID,
		QuestionIndex:  questionIndex,
		SelectedAnswer: selectedAnswer,
		CorrectAnswer:  correctAnswer,
		IsCorrect:      isCorrect,
		PointsEarned:   pointsEarned,
		AnsweredAt:     time.Now(),
	}
	f.answers[sessionID] = append(f.answers[sessionID], a)
	return &a, nil
}

func (f *fakeGameStore) GetSessionAnswers(sessionID int64) ([]models.GameAnswer, error) {
	return f.answers[sessionID], nil
}

func (f *fakeGameStore) HasAnswer(sessionID, questionID int64) (bool, error) {
	for _, a := range f.answers[sessionID] {
		if a.QuestionID == questionID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGameStore) CountAnswers(sessionID int64) (int, error) {
	return len(f.answers[sessionID]), nil
}

func (f *fakeGameStore) CompleteSession(sessionID int64, correctAnswers, totalPoints int, completedAt time.Time) (bool, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.CompletedAt != nil {
		return false, nil
	}
	t := completedAt
	s.CompletedAt = &t
	s.CorrectAnswers = correctAnswers
	s.TotalPointsEarned = totalPoints
	return true, nil
}

func (f *fakeGameStore) GetStudentSessions(studentID int64, limit int) ([]models.GameSessionWithSubject, error) {
	var result []models.GameSessionWithSubject
	for _, s := range f.sessions {
		if s.StudentID == studentID && s.CompletedAt != nil && len(result) < limit {
			result = append(result, models.GameSessionWithSubject{Session: *s})
		}
	}
	return result, nil
}

func (f *fakeGameStore) CountCompletedForStudent(studentID int64) (int, error) {
	count := 0
	for _, s := range f.sessions {
		if s.StudentID == studentID && s.CompletedAt != nil {
			count++
		}
	}
	return count, nil
}

type fakeStudentStore struct {
	students map[int64]*models.Student
}

func (f *fakeStudentStore) GetByID(id int64) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	copy := *s
	return &copy, nil
}

func (f *fakeStudentStore) GetByProfileID(profileID int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.ProfileID == profileID {
			copy := *s
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentStore) UpdateStats(id int64, totalPoints, currentLevel, currentStreak, totalStudyTime int, lastPlayedAt time.Time) error {
	s, ok := f.students[id]
	if !ok {
		return fmt.Errorf("student %d not found", id)
	}
	s.TotalPoints = totalPoints
	s.CurrentLevel = currentLevel
	s.CurrentStreak = currentStreak
	s.TotalStudyTime = totalStudyTime
	t := lastPlayedAt
	s.LastPlayedAt = &t
	return nil
}

type fakeQuestionStore struct {
	questions map[int64]models.Question
}

func (f *fakeQuestionStore) GetByID(id int64) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (f *fakeQuestionStore) ListBySubject(subjectID int64) ([]models.Question, error) {
	var result []models.Question
	for _, q := range f.questions {
		if q.SubjectID == subjectID {
			result = append(result, q)
		}
	}
	return result, nil
}

type fakeSubjectStore struct {
	subjects map[int64]models.Subject
}

func (f *fakeSubjectStore) GetByID(id int64) (*models.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type fakeAchievementStore struct {
	defs     []models.Achievement
	earned   map[int64]map[int64]bool
	awardErr error
}

func newFakeAchievementStore(defs ...models.Achievement) *fakeAchievementStore {
	return &fakeAchievementStore{defs: defs, earned: make(map[int64]map[int64]bool)}
}

func (f *fakeAchievementStore) List() ([]models.Achievement, error) {
	return f.defs, nil
}

func (f *fakeAchievementStore) GetEarnedIDs(studentID int64) (map[int64]bool, error) {
	result := make(map[int64]bool)
	for id := range f.earned[studentID] {
		result[id] = true
	}
	return result, nil
}

func (f *fakeAchievementStore) Award(studentID, achievementID int64) error {
	if f.awardErr != nil {
		return f.awardErr
	}
	if f.earned[studentID] == nil {
		f.earned[studentID] = make(map[int64]bool)
	}
	if f.earned[studentID][achievementID] {
		return repository.ErrAlreadyEarned
	}
	f.earned[studentID][achievementID] = true
	return nil
}

type gameFixture struct {
	svc          *GameService
	games        *fakeGameStore
	students     *fakeStudentStore
	achievements *fakeAchievementStore
	now          time.Time
}

const (
	testProfileID = int64(10)
	testStudentID = int64(1)
	testSubjectID = int64(1)
)

func newGameFixture(t *testing.T, achievements ...models.Achievement) *gameFixture {
	t.Helper()

	games := newFakeGameStore()
	students := &fakeStudentStore{students: map[int64]*models.Student{
		testStudentID: {ID: testStudentID, ProfileID: testProfileID, CurrentLevel: 1},
	}}
	questions := &fakeQuestionStore{questions: make(map[int64]models.Question)}
	for i := int64(1); i <= 5; i++ {
		questions.questions[i] = models.Question{
			ID:            i,
			SubjectID:     testSubjectID,
			QuestionText:  fmt.Sprintf("question %d", i),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Explanation:   "A is right",
			PointsValue:   10,
		}
	}
	subjects := &fakeSubjectStore{subjects: map[int64]models.Subject{
		testSubjectID: {ID: testSubjectID, Name: "Matematika", IsActive: true},
	}}
	achStore := newFakeAchievementStore(achievements...)

	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	fx := &gameFixture{
		games:        games,
		students:     students,
		achievements: achStore,
		now:          now,
	}

	fx.svc = &GameService{
		games:        games,
		students:     students,
		questions:    questions,
		subjects:     subjects,
		achievements: achStore,
		finalize: func(fn func(games GameStore, students StudentStore) error) error {
			return fn(games, students)
		},
		questionsPerGame: 5,
		studyMinutes:     5,
		now:              func() time.Time { return fx.now },
		log:              zap.NewNop().Sugar(),
	}
	return fx
}

// playAll answers every dealt question with the given answer and returns
// the session id
func (fx *gameFixture) playAll(t *testing.T, answer string) int64 {
	t.Helper()

	game, err := fx.svc.StartGame(testProfileID, testSubjectID)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	for _, q := range game.Questions {
		if _, err := fx.svc.SubmitAnswer(testProfileID, game.Session.ID, q.ID, answer); err != nil {
			t.Fatalf("SubmitAnswer(%d) error = %v", q.ID, err)
		}
	}
	return game.Session.ID
}

func TestStartGame(t *testing.T) {
	fx := newGameFixture(t)

	game, err := fx.svc.StartGame(testProfileID, testSubjectID)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	if game.Session.TotalQuestions != 5 {
		t.Errorf("TotalQuestions = %d, want 5", game.Session.TotalQuestions)
	}
	if len(game.Questions) != 5 {
		t.Fatalf("dealt %d questions, want 5", len(game.Questions))
	}

	seen := make(map[int64]bool)
	for _, q := range game.Questions {
		if seen[q.ID] {
			t.Errorf("question %d dealt twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestStartGameErrors(t *testing.T) {
	fx := newGameFixture(t)

	t.Run("unknown subject", func(t *testing.T) {
		if _, err := fx.svc.StartGame(testProfileID, 99); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		if _, err := fx.svc.StartGame(99, testSubjectID); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("subject without questions", func(t *testing.T) {
		fx.svc.subjects.(*fakeSubjectStore).subjects[2] = models.Subject{ID: 2, Name: "Kosong", IsActive: true}
		if _, err := fx.svc.StartGame(testProfileID, 2); !errors.Is(err, ErrNoQuestions) {
			t.Errorf("error = %v, want ErrNoQuestions", err)
		}
	})
}

func TestSubmitAnswer(t *testing.T) {
	fx := newGameFixture(t)

	game, err := fx.svc.StartGame(testProfileID, testSubjectID)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	first := game.Questions[0]

	t.Run("correct answer scores full points", func(t *testing.T) {
		result, err := fx.svc.SubmitAnswer(testProfileID, game.Session.ID, first.ID, "A")
		if err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		if !result.IsCorrect || result.PointsEarned != 10 {
			t.Errorf("got correct=%v points=%d, want correct=true points=10", result.IsCorrect, result.PointsEarned)
		}
		if result.Answered != 1 || result.Total != 5 {
			t.Errorf("progress = %d/%d, want 1/5", result.Answered, result.Total)
		}
	})

	t.Run("repeat answer is rejected", func(t *testing.T) {
		if _, err := fx.svc.SubmitAnswer(testProfileID, game.Session.ID, first.ID, "A"); !errors.Is(err, ErrDuplicateAnswer) {
			t.Errorf("error = %v, want ErrDuplicateAnswer", err)
		}
	})

	t.Run("skipping ahead is rejected", func(t *testing.T) {
		third := game.Questions[2]
		if _, err := fx.svc.SubmitAnswer(testProfileID, game.Session.ID, third.ID, "A"); !errors.Is(err, ErrOutOfOrder) {
			t.Errorf("error = %v, want ErrOutOfOrder", err)
		}
	})

	t.Run("wrong answer earns nothing", func(t *testing.T) {
		second := game.Questions[1]
		result, err := fx.svc.SubmitAnswer(testProfileID, game.Session.ID, second.ID, "B")
		if err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		if result.IsCorrect || result.PointsEarned != 0 {
			t.Errorf("got correct=%v points=%d, want correct=false points=0", result.IsCorrect, result.PointsEarned)
		}
		if result.CorrectAnswer != "A" {
			t.Errorf("CorrectAnswer = %q, want A", result.CorrectAnswer)
		}
	})

	t.Run("foreign session is forbidden", func(t *testing.T) {
		fx.students.students[2] = &models.Student{ID: 2, ProfileID: 20, CurrentLevel: 1}
		if _, err := fx.svc.SubmitAnswer(20, game.Session.ID, first.ID, "A"); !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})
}

func TestCompleteGame(t *testing.T) {
	fx := newGameFixture(t,
		models.Achievement{ID: 1, Name: "Langkah Pertama", RequirementType: models.RequirementGamesPlayed, RequirementValue: 1},
		models.Achievement{ID: 2, Name: "Kolektor Poin", RequirementType: models.RequirementPoints, RequirementValue: 100},
	)

	sessionID := fx.playAll(t, "A")

	summary, err := fx.svc.CompleteGame(testProfileID, sessionID)
	if err != nil {
		t.Fatalf("CompleteGame() error = %v", err)
	}

	if summary.CorrectAnswers != 5 {
		t.Errorf("CorrectAnswers = %d, want 5", summary.CorrectAnswers)
	}
	if summary.PointsEarned != 50 {
		t.Errorf("PointsEarned = %d, want 50", summary.PointsEarned)
	}
	if summary.TotalPoints != 50 || summary.Level != 1 || summary.LeveledUp {
		t.Errorf("got total=%d level=%d leveledUp=%v, want 50/1/false", summary.TotalPoints, summary.Level, summary.LeveledUp)
	}
	if summary.Streak != 1 {
		t.Errorf("Streak = %d, want 1", summary.Streak)
	}
	if !summary.Session.IsCompleted() {
		t.Error("session should be completed")
	}

	if len(summary.NewAchievements) != 1 || summary.NewAchievements[0].ID != 1 {
		t.Errorf("NewAchievements = %v, want the first-game badge only", summary.NewAchievements)
	}

	student := fx.students.students[testStudentID]
	if student.TotalPoints != 50 || student.TotalStudyTime != 5 {
		t.Errorf("student stats = %d points / %d minutes, want 50/5", student.TotalPoints, student.TotalStudyTime)
	}

	t.Run("second completion is rejected", func(t *testing.T) {
		if _, err := fx.svc.CompleteGame(testProfileID, sessionID); !errors.Is(err, ErrGameCompleted) {
			t.Errorf("error = %v, want ErrGameCompleted", err)
		}
	})
}

func TestCompleteGameRace(t *testing.T) {
	fx := newGameFixture(t)
	sessionID := fx.playAll(t, "A")

	// both requests read the open session; a rival completion then lands
	// between this request's read and its write
	var raced bool
	inner := fx.svc.finalize
	fx.svc.finalize = func(fn func(games GameStore, students StudentStore) error) error {
		if !raced {
			raced = true
			if _, err := fx.svc.CompleteGame(testProfileID, sessionID); err != nil {
				t.Fatalf("rival CompleteGame() error = %v", err)
			}
		}
		return inner(fn)
	}

	if _, err := fx.svc.CompleteGame(testProfileID, sessionID); !errors.Is(err, ErrGameCompleted) {
		t.Fatalf("error = %v, want ErrGameCompleted", err)
	}

	student := fx.students.students[testStudentID]
	if student.TotalPoints != 50 {
		t.Errorf("TotalPoints = %d after a raced completion, want 50", student.TotalPoints)
	}
	if student.TotalStudyTime != 5 {
		t.Errorf("TotalStudyTime = %d after a raced completion, want 5", student.TotalStudyTime)
	}
}

func TestCompleteGameInvalidatesSubjectBoard(t *testing.T) {
	fx := newGameFixture(t)

	var invalidated []int64
	fx.svc.invalidateBoard = func(subjectID int64) {
		invalidated = append(invalidated, subjectID)
	}

	sessionID := fx.playAll(t, "A")
	if _, err := fx.svc.CompleteGame(testProfileID, sessionID); err != nil {
		t.Fatalf("CompleteGame() error = %v", err)
	}

	if len(invalidated) != 1 || invalidated[0] != testSubjectID {
		t.Errorf("invalidated boards = %v, want [%d]", invalidated, testSubjectID)
	}
}

func TestCompleteGameUnfinished(t *testing.T) {
	fx := newGameFixture(t)

	game, err := fx.svc.StartGame(testProfileID, testSubjectID)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if _, err := fx.svc.SubmitAnswer(testProfileID, game.Session.ID, game.Questions[0].ID, "A"); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	if _, err := fx.svc.CompleteGame(testProfileID, game.Session.ID); !errors.Is(err, ErrGameUnfinished) {
		t.Errorf("error = %v, want ErrGameUnfinished", err)
	}
}

func TestCompleteGameLevelUp(t *testing.T) {
	fx := newGameFixture(t)
	fx.students.students[testStudentID].TotalPoints = 95

	sessionID := fx.playAll(t, "A")

	summary, err := fx.svc.CompleteGame(testProfileID, sessionID)
	if err != nil {
		t.Fatalf("CompleteGame() error = %v", err)
	}

	if summary.TotalPoints != 145 || summary.Level != 2 || !summary.LeveledUp {
		t.Errorf("got total=%d level=%d leveledUp=%v, want 145/2/true", summary.TotalPoints, summary.Level, summary.LeveledUp)
	}
}

func TestCompleteGameStreaks(t *testing.T) {
	fx := newGameFixture(t,
		models.Achievement{ID: 7, Name: "Pejuang Seminggu", RequirementType: models.RequirementStreak, RequirementValue: 7},
	)

	dayBefore := fx.now.AddDate(0, 0, -1)

	t.Run("next day extends the streak", func(t *testing.T) {
		fx.students.students[testStudentID].CurrentStreak = 6
		fx.students.students[testStudentID].LastPlayedAt = &dayBefore

		sessionID := fx.playAll(t, "A")
		summary, err := fx.svc.CompleteGame(testProfileID, sessionID)
		if err != nil {
			t.Fatalf("CompleteGame() error = %v", err)
		}
		if summary.Streak != 7 {
			t.Errorf("Streak = %d, want 7", summary.Streak)
		}
		if len(summary.NewAchievements) != 1 || summary.NewAchievements[0].ID != 7 {
			t.Errorf("NewAchievements = %v, want the streak badge", summary.NewAchievements)
		}
	})

	t.Run("same day keeps the streak", func(t *testing.T) {
		sessionID := fx.playAll(t, "A")
		summary, err := fx.svc.CompleteGame(testProfileID, sessionID)
		if err != nil {
			t.Fatalf("CompleteGame() error = %v", err)
		}
		if summary.Streak != 7 {
			t.Errorf("Streak = %d, want 7", summary.Streak)
		}
		if len(summary.NewAchievements) != 0 {
			t.Errorf("streak badge should not be re-awarded, got %v", summary.NewAchievements)
		}
	})

	t.Run("a gap resets the streak", func(t *testing.T) {
		fx.now = fx.now.AddDate(0, 0, 3)

		sessionID := fx.playAll(t, "A")
		summary, err := fx.svc.CompleteGame(testProfileID, sessionID)
		if err != nil {
			t.Fatalf("CompleteGame() error = %v", err)
		}
		if summary.Streak != 1 {
			t.Errorf("Streak = %d, want 1", summary.Streak)
		}
	})
}

func TestCompleteGameToleratesConcurrentAward(t *testing.T) {
	fx := newGameFixture(t,
		models.Achievement{ID: 1, Name: "Langkah Pertama", RequirementType: models.RequirementGamesPlayed, RequirementValue: 1},
	)
	fx.achievements.awardErr = repository.ErrAlreadyEarned

	sessionID := fx.playAll(t, "A")

	summary, err := fx.svc.CompleteGame(testProfileID, sessionID)
	if err != nil {
		t.Fatalf("CompleteGame() error = %v", err)
	}
	if len(summary.NewAchievements) != 0 {
		t.Errorf("a badge awarded elsewhere should not be reported, got %v", summary.NewAchievements)
	}
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)
	earlierToday := now.Add(-3 * time.Hour)

	tests := []struct {
		name    string
		last    *time.Time
		current int
		want    int
	}{
		{name: "first game ever", last: nil, current: 0, want: 1},
		{name: "same day keeps streak", last: &earlierToday, current: 4, want: 4},
		{name: "same day with zero streak", last: &earlierToday, current: 0, want: 1},
		{name: "next day extends", last: &yesterday, current: 4, want: 5},
		{name: "gap resets", last: &lastWeek, current: 9, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextStreak(tt.last, tt.current, now); got != tt.want {
				t.Errorf("nextStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTallyAnswers(t *testing.T) {
	answers := []models.GameAnswer{
		{IsCorrect: true, PointsEarned: 10},
		{IsCorrect: false, PointsEarned: 0},
		{IsCorrect: true, PointsEarned: 15},
		{IsCorrect: false, PointsEarned: 0},
	}

	correct, points := tallyAnswers(answers)
	if correct != 2 {
		t.Errorf("correct = %d, want 2", correct)
	}
	if points != 25 {
		t.Errorf("points = %d, want 25", points)
	}
}

func TestMeetsRequirement(t *testing.T) {
	tests := []struct {
		name        string
		achievement models.Achievement
		points      int
		games       int
		streak      int
		want        bool
	}{
		{
			name:        "points met",
			achievement: models.Achievement{RequirementType: models.RequirementPoints, RequirementValue: 100},
			points:      120, want: true,
		},
		{
			name:        "points short",
			achievement: models.Achievement{RequirementType: models.RequirementPoints, RequirementValue: 100},
			points:      99, want: false,
		},
		{
			name:        "games met exactly",
			achievement: models.Achievement{RequirementType: models.RequirementGamesPlayed, RequirementValue: 10},
			games:       10, want: true,
		},
		{
			name:        "streak short",
			achievement: models.Achievement{RequirementType: models.RequirementStreak, RequirementValue: 7},
			streak:      6, want: false,
		},
		{
			name:        "unknown requirement never matches",
			achievement: models.Achievement{RequirementType: "accuracy", RequirementValue: 1},
			points:      999, games: 999, streak: 999, want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := meetsRequirement(tt.achievement, tt.points, tt.games, tt.streak); got != tt.want {
				t.Errorf("meetsRequirement() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuestionOrderRoundTrip(t *testing.T) {
	questions := []models.Question{{ID: 3}, {ID: 1}, {ID: 5}}

	order := joinQuestionOrder(questions)
	if order != "3,1,5" {
		t.Errorf("joinQuestionOrder() = %q, want 3,1,5", order)
	}

	ids := parseQuestionOrder(order)
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 5 {
		t.Errorf("parseQuestionOrder() = %v, want [3 1 5]", ids)
	}

	if got := parseQuestionOrder(""); got != nil {
		t.Errorf("parseQuestionOrder(\"\") = %v, want nil", got)
	}

	if got := parseQuestionOrder("2,junk,4"); len(got) != 2 || got[0] != 2 || got[1] != 4 {
		t.Errorf("parseQuestionOrder with junk = %v, want [2 4]", got)
	}
}

func TestSampleQuestions(t *testing.T) {
	pool := make([]models.Question, 10)
	for i := range pool {
		pool[i] = models.Question{ID: int64(i + 1)}
	}

	t.Run("samples without replacement", func(t *testing.T) {
		picked := sampleQuestions(pool, 5)
		if len(picked) != 5 {
			t.Fatalf("picked %d questions, want 5", len(picked))
		}
		seen := make(map[int64]bool)
		for _, q := range picked {
			if seen[q.ID] {
				t.Errorf("question %d picked twice", q.ID)
			}
			seen[q.ID] = true
		}
	})

	t.Run("small pool returns everything", func(t *testing.T) {
		picked := sampleQuestions(pool[:3], 5)
		if len(picked) != 3 {
			t.Errorf("picked %d questions, want 3", len(picked))
		}
	})

	t.Run("does not mutate the pool", func(t *testing.T) {
		sampleQuestions(pool, 5)
		for i, q := range pool {
			if q.ID != int64(i+1) {
				t.Fatal("pool order changed")
			}
		}
	})
}

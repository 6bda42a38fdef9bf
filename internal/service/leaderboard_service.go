package service

import (
	"fmt"
	"sync"
	"time"

	"cerdas/internal/models"
)

const (
	globalLimit  = 50
	weeklyLimit  = 20
	subjectLimit = 20
)

// Ranking is the query surface the leaderboard service runs on. Keeping it
// an interface lets the ranking rules change without touching callers.
type Ranking interface {
	Global(limit int) ([]models.LeaderboardEntry, error)
	Weekly(since time.Time, limit int) ([]models.LeaderboardEntry, error)
	Subject(subjectID int64, limit int) ([]models.LeaderboardEntry, error)
	StudentRank(studentID int64) (*models.StudentRank, error)
}

type cachedEntries struct {
	entries   []models.LeaderboardEntry
	fetchedAt time.Time
}

// LeaderboardService serves the ranking views. Subject boards are cached
// briefly since they aggregate every completed session of a subject.
type LeaderboardService struct {
	ranking  Ranking
	students StudentStore

	cacheTTL time.Duration
	mu       sync.Mutex
	subjects map[int64]cachedEntries

	now func() time.Time
}

// NewLeaderboardService creates a leaderboard service with the given
// subject-board cache TTL
func NewLeaderboardService(ranking Ranking, students StudentStore, cacheTTL time.Duration) *LeaderboardService {
	return &LeaderboardService{
		ranking:  ranking,
		students: students,
		cacheTTL: cacheTTL,
		subjects: make(map[int64]cachedEntries),
		now:      time.Now,
	}
}

// Global returns the all-time top students by lifetime points
func (s *LeaderboardService) Global() ([]models.LeaderboardEntry, error) {
	return s.ranking.Global(globalLimit)
}

// Weekly returns the top students by points earned in the last seven days
func (s *LeaderboardService) Weekly() ([]models.LeaderboardEntry, error) {
	since := s.now().AddDate(0, 0, -7)
	return s.ranking.Weekly(since, weeklyLimit)
}

// Subject returns the top students within one subject, serving a cached
// board while it is fresh
func (s *LeaderboardService) Subject(subjectID int64) ([]models.LeaderboardEntry, error) {
	s.mu.Lock()
	cached, ok := s.subjects[subjectID]
	s.mu.Unlock()

	if ok && s.now().Sub(cached.fetchedAt) < s.cacheTTL {
		return cached.entries, nil
	}

	entries, err := s.ranking.Subject(subjectID, subjectLimit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.subjects[subjectID] = cachedEntries{entries: entries, fetchedAt: s.now()}
	s.mu.Unlock()

	return entries, nil
}

// MyRank returns the calling student's standing among all students
func (s *LeaderboardService) MyRank(profileID int64) (*models.StudentRank, error) {
	student, err := s.students.GetByProfileID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, ErrNotFound
	}

	rank, err := s.ranking.StudentRank(student.ID)
	if err != nil {
		return nil, err
	}
	if rank == nil {
		return nil, ErrNotFound
	}
	return rank, nil
}

// InvalidateSubject drops a subject's cached board
func (s *LeaderboardService) InvalidateSubject(subjectID int64) {
	s.mu.Lock()
	delete(s.subjects, subjectID)
	s.mu.Unlock()
}

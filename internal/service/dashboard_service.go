package service

import (
	"fmt"

	"cerdas/internal/models"
	"cerdas/internal/repository"
)

const recentSessionLimit = 10

// StudentDashboard is the student home view: stats, recent games, badges
// and standing
type StudentDashboard struct {
	Student      *models.Student                 `json:"student"`
	Profile      *models.Profile                 `json:"profile"`
	Recent       []models.GameSessionWithSubject `json:"recent_sessions"`
	Achievements []models.EarnedAchievement      `json:"achievements"`
	Rank         *models.StudentRank             `json:"rank"`
}

// DashboardService assembles the composite read views
type DashboardService struct {
	students     *repository.StudentRepository
	profiles     *repository.ProfileRepository
	games        *repository.GameRepository
	achievements *repository.AchievementRepository
	ranking      Ranking
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	students *repository.StudentRepository,
	profiles *repository.ProfileRepository,
	games *repository.GameRepository,
	achievements *repository.AchievementRepository,
	ranking Ranking,
) *DashboardService {
	return &DashboardService{
		students:     students,
		profiles:     profiles,
		games:        games,
		achievements: achievements,
		ranking:      ranking,
	}
}

// ForStudent builds the dashboard for the calling student
func (s *DashboardService) ForStudent(profileID int64) (*StudentDashboard, error) {
	student, err := s.students.GetByProfileID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, ErrNotFound
	}

	profile, err := s.profiles.GetByID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return s.build(student, profile)
}

// ForStudentID builds the dashboard of a specific student, for parent and
// admin views. The caller is responsible for access checks.
func (s *DashboardService) ForStudentID(studentID int64) (*StudentDashboard, error) {
	student, err := s.students.GetByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if student == nil {
		return nil, ErrNotFound
	}

	profile, err := s.profiles.GetByID(student.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return s.build(student, profile)
}

func (s *DashboardService) build(student *models.Student, profile *models.Profile) (*StudentDashboard, error) {
	recent, err := s.games.GetStudentSessions(student.ID, recentSessionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent sessions: %w", err)
	}

	earned, err := s.achievements.ListEarned(student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}

	rank, err := s.ranking.StudentRank(student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rank: %w", err)
	}

	return &StudentDashboard{
		Student:      student,
		Profile:      profile,
		Recent:       recent,
		Achievements: earned,
		Rank:         rank,
	}, nil
}

package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cerdas/internal/models"
	"cerdas/internal/repository"
)

// LinkStudentInput is the payload for following a student by email
type LinkStudentInput struct {
	StudentEmail string `json:"student_email" validate:"required,email"`
	Relationship string `json:"relationship" validate:"required,oneof=mother father guardian"`
}

// ParentService serves the parent views: which students a parent follows
// and each student's progress
type ParentService struct {
	parents   *repository.ParentRepository
	students  *repository.StudentRepository
	dashboard *DashboardService
	log       *zap.SugaredLogger
}

// NewParentService creates a new parent service
func NewParentService(
	parents *repository.ParentRepository,
	students *repository.StudentRepository,
	dashboard *DashboardService,
	log *zap.SugaredLogger,
) *ParentService {
	return &ParentService{
		parents:   parents,
		students:  students,
		dashboard: dashboard,
		log:       log,
	}
}

// parentForProfile resolves the parent record behind a profile
func (s *ParentService) parentForProfile(profileID int64) (*models.Parent, error) {
	parent, err := s.parents.GetByProfileID(profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load parent: %w", err)
	}
	if parent == nil {
		return nil, ErrNotFound
	}
	return parent, nil
}

// LinkedStudents returns the students a parent follows
func (s *ParentService) LinkedStudents(profileID int64) ([]models.LinkedStudent, error) {
	parent, err := s.parentForProfile(profileID)
	if err != nil {
		return nil, err
	}
	return s.parents.GetLinkedStudents(parent.ID)
}

// LinkStudent connects a parent to a student account by the student's email
func (s *ParentService) LinkStudent(profileID int64, input LinkStudentInput) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	parent, err := s.parentForProfile(profileID)
	if err != nil {
		return err
	}

	student, err := s.students.GetByEmail(strings.ToLower(strings.TrimSpace(input.StudentEmail)))
	if err != nil {
		return fmt.Errorf("failed to look up student: %w", err)
	}
	if student == nil {
		return ErrNotFound
	}

	linked, err := s.parents.IsLinked(parent.ID, student.ID)
	if err != nil {
		return fmt.Errorf("failed to check link: %w", err)
	}
	if linked {
		return ErrAlreadyLinked
	}

	if err := s.parents.LinkStudent(parent.ID, student.ID, input.Relationship); err != nil {
		return fmt.Errorf("failed to link student: %w", err)
	}

	s.log.Infow("student linked to parent", "parent_id", parent.ID, "student_id", student.ID)
	return nil
}

// StudentDetail returns a followed student's full progress view. Parents
// can only see students they are linked to.
func (s *ParentService) StudentDetail(profileID, studentID int64) (*StudentDashboard, error) {
	parent, err := s.parentForProfile(profileID)
	if err != nil {
		return nil, err
	}

	linked, err := s.parents.IsLinked(parent.ID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check link: %w", err)
	}
	if !linked {
		return nil, ErrForbidden
	}

	return s.dashboard.ForStudentID(studentID)
}

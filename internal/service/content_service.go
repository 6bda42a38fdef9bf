package service

import (
	"fmt"

	"go.uber.org/zap"

	"cerdas/internal/models"
	"cerdas/internal/repository"
)

// SubjectInput is the payload for creating or updating a subject
type SubjectInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Icon        string `json:"icon" validate:"max=50"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	IsActive    bool   `json:"is_active"`
}

// QuestionInput is the payload for creating or updating a question
type QuestionInput struct {
	SubjectID     int64    `json:"subject_id" validate:"required"`
	QuestionText  string   `json:"question_text" validate:"required,min=5,max=1000"`
	Options       []string `json:"options" validate:"required,min=2,max=6,unique,dive,required,max=200"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Explanation   string   `json:"explanation" validate:"max=1000"`
	PointsValue   int      `json:"points_value" validate:"required,min=1,max=100"`
}

// AchievementInput is the payload for creating an achievement
type AchievementInput struct {
	Name             string `json:"name" validate:"required,min=2,max=100"`
	Icon             string `json:"icon" validate:"max=50"`
	RequirementType  string `json:"requirement_type" validate:"required,oneof=points games_played streak"`
	RequirementValue int    `json:"requirement_value" validate:"required,min=1"`
}

// ContentService manages the learning content: subjects, their question
// pools and the achievement catalog
type ContentService struct {
	subjects     *repository.SubjectRepository
	questions    *repository.QuestionRepository
	achievements *repository.AchievementRepository
	log          *zap.SugaredLogger
}

// NewContentService creates a new content service
func NewContentService(
	subjects *repository.SubjectRepository,
	questions *repository.QuestionRepository,
	achievements *repository.AchievementRepository,
	log *zap.SugaredLogger,
) *ContentService {
	return &ContentService{
		subjects:     subjects,
		questions:    questions,
		achievements: achievements,
		log:          log,
	}
}

// ListSubjects returns subjects; activeOnly limits to playable ones
func (s *ContentService) ListSubjects(activeOnly bool) ([]models.Subject, error) {
	return s.subjects.List(activeOnly)
}

// SubjectWithCount pairs a subject with the size of its question pool
type SubjectWithCount struct {
	Subject       models.Subject `json:"subject"`
	QuestionCount int            `json:"question_count"`
}

// ListSubjectsWithCounts returns every subject, active or not, with its
// question pool size. Used by the administration views.
func (s *ContentService) ListSubjectsWithCounts() ([]SubjectWithCount, error) {
	subjects, err := s.subjects.List(false)
	if err != nil {
		return nil, err
	}

	result := make([]SubjectWithCount, 0, len(subjects))
	for _, subject := range subjects {
		count, err := s.questions.CountBySubject(subject.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count questions for subject %d: %w", subject.ID, err)
		}
		result = append(result, SubjectWithCount{Subject: subject, QuestionCount: count})
	}
	return result, nil
}

// GetSubject returns one subject
func (s *ContentService) GetSubject(id int64) (*models.Subject, error) {
	subject, err := s.subjects.GetByID(id)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrNotFound
	}
	return subject, nil
}

// CreateSubject validates and creates a subject
func (s *ContentService) CreateSubject(input SubjectInput) (*models.Subject, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	subject, err := s.subjects.Create(input.Name, input.Icon, input.Description, input.Color, input.IsActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.log.Infow("subject created", "subject_id", subject.ID, "name", subject.Name)
	return subject, nil
}

// UpdateSubject validates and updates a subject
func (s *ContentService) UpdateSubject(id int64, input SubjectInput) (*models.Subject, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	existing, err := s.subjects.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if err := s.subjects.Update(id, input.Name, input.Icon, input.Description, input.Color, input.IsActive); err != nil {
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	return s.subjects.GetByID(id)
}

// DeleteSubject removes a subject and its question pool
func (s *ContentService) DeleteSubject(id int64) error {
	existing, err := s.subjects.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	if err := s.subjects.Delete(id); err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}

	s.log.Infow("subject deleted", "subject_id", id)
	return nil
}

// ListQuestions returns all questions, or one subject's pool when
// subjectID is non-zero
func (s *ContentService) ListQuestions(subjectID int64) ([]models.Question, error) {
	if subjectID != 0 {
		return s.questions.ListBySubject(subjectID)
	}
	return s.questions.List()
}

// GetQuestion returns one question
func (s *ContentService) GetQuestion(id int64) (*models.Question, error) {
	question, err := s.questions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrNotFound
	}
	return question, nil
}

// CreateQuestion validates and creates a question. Nothing is written when
// validation fails.
func (s *ContentService) CreateQuestion(input QuestionInput) (*models.Question, error) {
	if err := s.validateQuestion(input); err != nil {
		return nil, err
	}

	subject, err := s.subjects.GetByID(input.SubjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, fmt.Errorf("%w: subject %d does not exist", ErrValidation, input.SubjectID)
	}

	question, err := s.questions.Create(&models.Question{
		SubjectID:     input.SubjectID,
		QuestionText:  input.QuestionText,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		Explanation:   input.Explanation,
		PointsValue:   input.PointsValue,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.log.Infow("question created", "question_id", question.ID, "subject_id", question.SubjectID)
	return question, nil
}

// UpdateQuestion validates and updates a question
func (s *ContentService) UpdateQuestion(id int64, input QuestionInput) (*models.Question, error) {
	if err := s.validateQuestion(input); err != nil {
		return nil, err
	}

	existing, err := s.questions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	err = s.questions.Update(&models.Question{
		ID:            id,
		SubjectID:     input.SubjectID,
		QuestionText:  input.QuestionText,
		Options:       input.Options,
		CorrectAnswer: input.CorrectAnswer,
		Explanation:   input.Explanation,
		PointsValue:   input.PointsValue,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return s.questions.GetByID(id)
}

// DeleteQuestion removes a question
func (s *ContentService) DeleteQuestion(id int64) error {
	existing, err := s.questions.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.questions.Delete(id)
}

// validateQuestion applies the struct rules plus the cross-field rule that
// the correct answer must be one of the options
func (s *ContentService) validateQuestion(input QuestionInput) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	for _, opt := range input.Options {
		if opt == input.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct_answer must match one of the options", ErrValidation)
}

// ListAchievements returns the achievement catalog
func (s *ContentService) ListAchievements() ([]models.Achievement, error) {
	return s.achievements.List()
}

// CreateAchievement validates and creates an achievement
func (s *ContentService) CreateAchievement(input AchievementInput) (*models.Achievement, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	achievement, err := s.achievements.Create(input.Name, input.Icon, models.RequirementType(input.RequirementType), input.RequirementValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}

	s.log.Infow("achievement created", "achievement_id", achievement.ID, "name", achievement.Name)
	return achievement, nil
}

// SeedDefaults inserts the starter subjects and achievement catalog on an
// empty database. Existing content is left untouched.
func (s *ContentService) SeedDefaults() error {
	subjectCount, err := s.subjects.Count()
	if err != nil {
		return fmt.Errorf("failed to count subjects: %w", err)
	}
	if subjectCount == 0 {
		defaults := []SubjectInput{
			{Name: "Matematika", Icon: "calculator", Description: "Berhitung, logika dan pemecahan masalah", Color: "#4F46E5", IsActive: true},
			{Name: "Bahasa Indonesia", Icon: "book-open", Description: "Membaca, menulis dan tata bahasa", Color: "#DC2626", IsActive: true},
			{Name: "IPA", Icon: "flask", Description: "Ilmu pengetahuan alam", Color: "#059669", IsActive: true},
			{Name: "IPS", Icon: "globe", Description: "Ilmu pengetahuan sosial", Color: "#D97706", IsActive: true},
			{Name: "Bahasa Inggris", Icon: "language", Description: "English for young learners", Color: "#7C3AED", IsActive: true},
		}
		for _, d := range defaults {
			if _, err := s.subjects.Create(d.Name, d.Icon, d.Description, d.Color, d.IsActive); err != nil {
				return fmt.Errorf("failed to seed subject %q: %w", d.Name, err)
			}
		}
		s.log.Infow("seeded default subjects", "count", len(defaults))
	}

	achievementCount, err := s.achievements.Count()
	if err != nil {
		return fmt.Errorf("failed to count achievements: %w", err)
	}
	if achievementCount == 0 {
		defaults := []AchievementInput{
			{Name: "Langkah Pertama", Icon: "footprints", RequirementType: "games_played", RequirementValue: 1},
			{Name: "Rajin Belajar", Icon: "notebook", RequirementType: "games_played", RequirementValue: 10},
			{Name: "Kolektor Poin", Icon: "coins", RequirementType: "points", RequirementValue: 100},
			{Name: "Bintang Kelas", Icon: "star", RequirementType: "points", RequirementValue: 500},
			{Name: "Juara Sejati", Icon: "trophy", RequirementType: "points", RequirementValue: 1000},
			{Name: "Semangat Tiga Hari", Icon: "flame", RequirementType: "streak", RequirementValue: 3},
			{Name: "Pejuang Seminggu", Icon: "fire", RequirementType: "streak", RequirementValue: 7},
		}
		for _, d := range defaults {
			if _, err := s.achievements.Create(d.Name, d.Icon, models.RequirementType(d.RequirementType), d.RequirementValue); err != nil {
				return fmt.Errorf("failed to seed achievement %q: %w", d.Name, err)
			}
		}
		s.log.Infow("seeded default achievements", "count", len(defaults))
	}

	return nil
}

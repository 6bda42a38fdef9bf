package service

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"cerdas/internal/models"
	"cerdas/internal/repository"
)

// ContentBackup is the portable snapshot of the learning content
type ContentBackup struct {
	ExportedAt   time.Time            `json:"exported_at"`
	Subjects     []models.Subject     `json:"subjects"`
	Questions    []models.Question    `json:"questions"`
	Achievements []models.Achievement `json:"achievements"`
}

// BackupService exports and imports the learning content as JSON, for
// moving subjects and question pools between environments
type BackupService struct {
	subjects     *repository.SubjectRepository
	questions    *repository.QuestionRepository
	achievements *repository.AchievementRepository
	log          *zap.SugaredLogger
}

// NewBackupService creates a new backup service
func NewBackupService(
	subjects *repository.SubjectRepository,
	questions *repository.QuestionRepository,
	achievements *repository.AchievementRepository,
	log *zap.SugaredLogger,
) *BackupService {
	return &BackupService{
		subjects:     subjects,
		questions:    questions,
		achievements: achievements,
		log:          log,
	}
}

// Export writes the content snapshot as indented JSON
func (s *BackupService) Export(w io.Writer) error {
	subjects, err := s.subjects.List(false)
	if err != nil {
		return fmt.Errorf("failed to load subjects: %w", err)
	}

	questions, err := s.questions.List()
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	achievements, err := s.achievements.List()
	if err != nil {
		return fmt.Errorf("failed to load achievements: %w", err)
	}

	backup := ContentBackup{
		ExportedAt:   time.Now(),
		Subjects:     subjects,
		Questions:    questions,
		Achievements: achievements,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	s.log.Infow("content exported",
		"subjects", len(subjects), "questions", len(questions), "achievements", len(achievements))
	return nil
}

// Import reads a content snapshot and inserts what the target database
// does not yet have. Subjects are matched by name, achievements by name,
// questions by text within their subject.
func (s *BackupService) Import(r io.Reader) error {
	var backup ContentBackup
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	existingSubjects, err := s.subjects.List(false)
	if err != nil {
		return fmt.Errorf("failed to load subjects: %w", err)
	}
	subjectIDByName := make(map[string]int64, len(existingSubjects))
	for _, sub := range existingSubjects {
		subjectIDByName[sub.Name] = sub.ID
	}

	// old subject id -> id in the target database
	subjectIDMap := make(map[int64]int64, len(backup.Subjects))
	imported := 0

	for _, sub := range backup.Subjects {
		if id, ok := subjectIDByName[sub.Name]; ok {
			subjectIDMap[sub.ID] = id
			continue
		}
		created, err := s.subjects.Create(sub.Name, sub.Icon, sub.Description, sub.Color, sub.IsActive)
		if err != nil {
			return fmt.Errorf("failed to import subject %q: %w", sub.Name, err)
		}
		subjectIDMap[sub.ID] = created.ID
		imported++
	}

	questionsImported := 0
	for _, q := range backup.Questions {
		targetSubject, ok := subjectIDMap[q.SubjectID]
		if !ok {
			s.log.Warnw("skipping question with unknown subject", "question_id", q.ID, "subject_id", q.SubjectID)
			continue
		}

		existing, err := s.questions.ListBySubject(targetSubject)
		if err != nil {
			return fmt.Errorf("failed to load questions: %w", err)
		}
		duplicate := false
		for _, e := range existing {
			if e.QuestionText == q.QuestionText {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		q.SubjectID = targetSubject
		if _, err := s.questions.Create(&q); err != nil {
			return fmt.Errorf("failed to import question: %w", err)
		}
		questionsImported++
	}

	existingAchievements, err := s.achievements.List()
	if err != nil {
		return fmt.Errorf("failed to load achievements: %w", err)
	}
	haveAchievement := make(map[string]bool, len(existingAchievements))
	for _, a := range existingAchievements {
		haveAchievement[a.Name] = true
	}

	achievementsImported := 0
	for _, a := range backup.Achievements {
		if haveAchievement[a.Name] {
			continue
		}
		if _, err := s.achievements.Create(a.Name, a.Icon, a.RequirementType, a.RequirementValue); err != nil {
			return fmt.Errorf("failed to import achievement %q: %w", a.Name, err)
		}
		achievementsImported++
	}

	s.log.Infow("content imported",
		"subjects", imported, "questions", questionsImported, "achievements", achievementsImported)
	return nil
}

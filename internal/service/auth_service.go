package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"cerdas/internal/database"
	"cerdas/internal/models"
	"cerdas/internal/repository"
	"cerdas/internal/security"
)

var validate = validator.New()

// ProfileStore is the slice of profile persistence the auth service needs
type ProfileStore interface {
	Create(email, passwordHash, fullName string, role models.Role) (*models.Profile, error)
	GetByID(id int64) (*models.Profile, error)
	GetByEmail(email string) (*models.Profile, error)
	GetByOAuth(provider, subject string) (*models.Profile, error)
	LinkOAuthProvider(profileID int64, provider, subject string) error
	Update(id int64, fullName, avatarURL string, role models.Role) error
	UpdatePassword(id int64, passwordHash string) error
}

// SessionStore is the slice of session persistence the auth service needs
type SessionStore interface {
	Create(id string, profileID int64, expiresAt time.Time) (*models.Session, error)
	Get(id string) (*models.Session, error)
	Delete(id string) error
	DeleteExpired() error
}

// StudentAccountStore creates and resolves the student record behind a profile
type StudentAccountStore interface {
	Create(profileID int64, gradeLevel *int) (*models.Student, error)
	GetByProfileID(profileID int64) (*models.Student, error)
}

// ParentAccountStore creates and resolves the parent record behind a profile
type ParentAccountStore interface {
	Create(profileID int64, phoneNumber string) (*models.Parent, error)
	GetByProfileID(profileID int64) (*models.Parent, error)
}

// Mailer is the outbound email surface the auth service uses
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}

// RegisterInput is the payload for creating a new account
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FullName    string `json:"full_name" validate:"required,min=2,max=100"`
	Role        string `json:"role" validate:"required,oneof=student parent"`
	GradeLevel  *int   `json:"grade_level" validate:"omitempty,min=1,max=12"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=6,max=20"`
}

// InviteInput is the payload for provisioning an account on someone's
// behalf. Unlike self-registration any role can be chosen.
type InviteInput struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Role       string `json:"role" validate:"required,oneof=admin teacher student parent"`
	GradeLevel *int   `json:"grade_level" validate:"omitempty,min=1,max=12"`
}

// ChangePasswordInput is the payload for replacing the caller's password
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// AuthResult is returned after a successful sign-in or registration
type AuthResult struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
	Student *models.Student `json:"student,omitempty"`
	Parent  *models.Parent  `json:"parent,omitempty"`
}

// Identity is the resolved caller of an authenticated request
type Identity struct {
	Profile   *models.Profile
	SessionID string
}

// AuthService handles registration, sign-in and token validation
type AuthService struct {
	profiles ProfileStore
	sessions SessionStore
	students StudentAccountStore
	parents  ParentAccountStore

	// enroll runs the account-creation writes atomically
	enroll func(fn func(profiles ProfileStore, students StudentAccountStore, parents ParentAccountStore) error) error

	signer   *security.TokenSigner
	duration time.Duration
	mail     Mailer
	log      *zap.SugaredLogger
}

// NewAuthService creates an auth service backed by the database
func NewAuthService(
	db *database.DB,
	profiles *repository.ProfileRepository,
	sessions *repository.SessionRepository,
	students *repository.StudentRepository,
	parents *repository.ParentRepository,
	signer *security.TokenSigner,
	duration time.Duration,
	mail Mailer,
	log *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		profiles: profiles,
		sessions: sessions,
		students: students,
		parents:  parents,
		enroll: func(fn func(profiles ProfileStore, students StudentAccountStore, parents ParentAccountStore) error) error {
			tx, err := db.Begin()
			if err != nil {
				return err
			}
			defer tx.Rollback()
			if err := fn(profiles.WithTx(tx), students.WithTx(tx), parents.WithTx(tx)); err != nil {
				return err
			}
			return tx.Commit()
		},
		signer:   signer,
		duration: duration,
		mail:     mail,
		log:      log,
	}
}

// Register creates a profile plus its role record in one transaction and
// signs the new account in. A failure at any step leaves no partial account
// behind.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	profile, err := s.createAccount(input.Email, input.Password, input.FullName, models.Role(input.Role), input.GradeLevel, input.PhoneNumber)
	if err != nil {
		return nil, err
	}

	s.log.Infow("account registered", "profile_id", profile.ID, "role", profile.Role)

	result, err := s.issueToken(profile)
	if err != nil {
		return nil, err
	}

	s.sendWelcome(profile)
	return result, nil
}

// Invite provisions an account with an admin-chosen role. The new user
// receives their credentials out of band and can sign in immediately.
// An empty role defaults to teacher.
func (s *AuthService) Invite(input InviteInput) (*models.Profile, error) {
	if input.Role == "" {
		input.Role = string(models.RoleTeacher)
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	profile, err := s.createAccount(input.Email, input.Password, input.FullName, models.Role(input.Role), input.GradeLevel, "")
	if err != nil {
		return nil, err
	}

	s.log.Infow("account provisioned", "profile_id", profile.ID, "role", profile.Role)
	return profile, nil
}

// createAccount writes the profile and its role record in one transaction
func (s *AuthService) createAccount(email, password, fullName string, role models.Role, gradeLevel *int, phoneNumber string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var profile *models.Profile
	err = s.enroll(func(profiles ProfileStore, students StudentAccountStore, parents ParentAccountStore) error {
		var err error
		profile, err = profiles.Create(email, hash, strings.TrimSpace(fullName), role)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		switch role {
		case models.RoleStudent:
			if _, err := students.Create(profile.ID, gradeLevel); err != nil {
				return fmt.Errorf("failed to create student record: %w", err)
			}
		case models.RoleParent:
			if _, err := parents.Create(profile.ID, phoneNumber); err != nil {
				return fmt.Errorf("failed to create parent record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// Login verifies credentials and issues a token
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	profile, err := s.profiles.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if profile == nil || profile.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, profile.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(profile)
}

// LoginWithOAuth signs in via a verified OAuth identity, creating a student
// account on first sight. An existing profile with the same email is linked
// instead of duplicated.
func (s *AuthService) LoginWithOAuth(provider, subject, email, fullName, avatarURL string) (*AuthResult, error) {
	profile, err := s.profiles.GetByOAuth(provider, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up oauth identity: %w", err)
	}

	if profile == nil {
		profile, err = s.profiles.GetByEmail(strings.ToLower(email))
		if err != nil {
			return nil, fmt.Errorf("failed to look up profile: %w", err)
		}
		if profile != nil {
			if err := s.profiles.LinkOAuthProvider(profile.ID, provider, subject); err != nil {
				return nil, fmt.Errorf("failed to link oauth identity: %w", err)
			}
		}
	}

	if profile == nil {
		err = s.enroll(func(profiles ProfileStore, students StudentAccountStore, parents ParentAccountStore) error {
			var err error
			profile, err = profiles.Create(strings.ToLower(email), "", fullName, models.RoleStudent)
			if err != nil {
				return fmt.Errorf("failed to create profile: %w", err)
			}
			if err := profiles.LinkOAuthProvider(profile.ID, provider, subject); err != nil {
				return fmt.Errorf("failed to link oauth identity: %w", err)
			}
			if avatarURL != "" {
				if err := profiles.Update(profile.ID, profile.FullName, avatarURL, profile.Role); err != nil {
					return fmt.Errorf("failed to set avatar: %w", err)
				}
			}
			if _, err := students.Create(profile.ID, nil); err != nil {
				return fmt.Errorf("failed to create student record: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.log.Infow("account registered via oauth", "profile_id", profile.ID, "provider", provider)
		s.sendWelcome(profile)
	}

	return s.issueToken(profile)
}

// ChangePassword replaces the caller's password after verifying the current
// one. OAuth-only accounts have no password to change.
func (s *AuthService) ChangePassword(profileID int64, input ChangePasswordInput) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	profile, err := s.profiles.GetByID(profileID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil || profile.PasswordHash == "" {
		return ErrInvalidCredentials
	}

	if !security.CheckPassword(input.CurrentPassword, profile.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.profiles.UpdatePassword(profileID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.log.Infow("password changed", "profile_id", profileID)
	return nil
}

// sendWelcome greets a new account, best effort
func (s *AuthService) sendWelcome(profile *models.Profile) {
	if s.mail == nil {
		return
	}
	if err := s.mail.SendWelcomeEmail(context.Background(), profile.Email, profile.FullName); err != nil {
		s.log.Errorw("failed to send welcome email", "error", err, "profile_id", profile.ID)
	}
}

// issueToken opens a session row and signs a token referencing it
func (s *AuthService) issueToken(profile *models.Profile) (*AuthResult, error) {
	sessionID := security.NewSessionID()
	expiresAt := time.Now().Add(s.duration)

	if _, err := s.sessions.Create(sessionID, profile.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.signer.Sign(sessionID, profile.ID, string(profile.Role), s.duration)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	result := &AuthResult{Token: token, Profile: profile}

	switch profile.Role {
	case models.RoleStudent:
		if result.Student, err = s.students.GetByProfileID(profile.ID); err != nil {
			return nil, fmt.Errorf("failed to load student record: %w", err)
		}
	case models.RoleParent:
		if result.Parent, err = s.parents.GetByProfileID(profile.ID); err != nil {
			return nil, fmt.Errorf("failed to load parent record: %w", err)
		}
	}

	return result, nil
}

// ValidateToken resolves a bearer token to the caller's identity. The token
// is only valid while its session row exists and has not expired.
func (s *AuthService) ValidateToken(token string) (*Identity, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil || session.IsExpired() {
		return nil, ErrUnauthenticated
	}

	profile, err := s.profiles.GetByID(session.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrUnauthenticated
	}

	return &Identity{Profile: profile, SessionID: session.ID}, nil
}

// Me returns the full account view for an authenticated profile
func (s *AuthService) Me(profile *models.Profile) (*AuthResult, error) {
	result := &AuthResult{Profile: profile}

	var err error
	switch profile.Role {
	case models.RoleStudent:
		if result.Student, err = s.students.GetByProfileID(profile.ID); err != nil {
			return nil, fmt.Errorf("failed to load student record: %w", err)
		}
	case models.RoleParent:
		if result.Parent, err = s.parents.GetByProfileID(profile.ID); err != nil {
			return nil, fmt.Errorf("failed to load parent record: %w", err)
		}
	}

	return result, nil
}

// Logout deletes the session, revoking every copy of its token
func (s *AuthService) Logout(sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// CleanupExpiredSessions removes stale session rows
func (s *AuthService) CleanupExpiredSessions() {
	if err := s.sessions.DeleteExpired(); err != nil {
		s.log.Errorw("failed to clean up expired sessions", "error", err)
	}
}

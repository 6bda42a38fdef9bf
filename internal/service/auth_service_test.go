package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"cerdas/internal/models"
	"cerdas/internal/security"
)

type fakeProfileStore struct {
	profiles map[int64]*models.Profile
	nextID   int64
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: make(map[int64]*models.Profile)}
}

func (f *fakeProfileStore) Create(email, passwordHash, fullName string, role models.Role) (*models.Profile, error) {
	f.nextID++
	p := &models.Profile{
		ID:           f.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	f.profiles[p.ID] = p
	copy := *p
	return &copy, nil
}

func (f *fakeProfileStore) GetByID(id int64) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	copy := *p
	return &copy, nil
}

func (f *fakeProfileStore) GetByEmail(email string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) GetByOAuth(provider, subject string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.OAuthProvider == provider && p.OAuthSubject == subject {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileStore) LinkOAuthProvider(profileID int64, provider, subject string) error {
	p, ok := f.profiles[profileID]
	if !ok {
		return fmt.Errorf("profile %d not found", profileID)
	}
	p.OAuthProvider = provider
	p.OAuthSubject = subject
	return nil
}

func (f *fakeProfileStore) Update(id int64, fullName, avatarURL string, role models.Role) error {
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("profile %d not found", id)
	}
	p.FullName = fullName
	p.AvatarURL = avatarURL
	p.Role = role
	return nil
}

func (f *fakeProfileStore) UpdatePassword(id int64, passwordHash string) error {
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("profile %d not found", id)
	}
	p.PasswordHash = passwordHash
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.Session)}
}

func (f *fakeSessionStore) Create(id string, profileID int64, expiresAt time.Time) (*models.Session, error) {
	s := &models.Session{ID: id, ProfileID: profileID, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	f.sessions[id] = s
	copy := *s
	return &copy, nil
}

func (f *fakeSessionStore) Get(id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copy := *s
	return &copy, nil
}

func (f *fakeSessionStore) Delete(id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) DeleteExpired() error {
	for id, s := range f.sessions {
		if s.IsExpired() {
			delete(f.sessions, id)
		}
	}
	return nil
}

type fakeStudentAccounts struct {
	students map[int64]*models.Student
	nextID   int64
}

func newFakeStudentAccounts() *fakeStudentAccounts {
	return &fakeStudentAccounts{students: make(map[int64]*models.Student)}
}

func (f *fakeStudentAccounts) Create(profileID int64, gradeLevel *int) (*models.Student, error) {
	f.nextID++
	s := &models.Student{ID: f.nextID, ProfileID: profileID, GradeLevel: gradeLevel, CurrentLevel: 1}
	f.students[s.ID] = s
	copy := *s
	return &copy, nil
}

func (f *fakeStudentAccounts) GetByProfileID(profileID int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.ProfileID == profileID {
			copy := *s
			return &copy, nil
		}
	}
	return nil, nil
}

type fakeParentAccounts struct {
	parents map[int64]*models.Parent
	nextID  int64
}

func newFakeParentAccounts() *fakeParentAccounts {
	return &fakeParentAccounts{parents: make(map[int64]*models.Parent)}
}

func (f *fakeParentAccounts) Create(profileID int64, phoneNumber string) (*models.Parent, error) {
	f.nextID++
	p := &models.Parent{ID: f.nextID, ProfileID: profileID, PhoneNumber: phoneNumber}
	f.parents[p.ID] = p
	copy := *p
	return &copy, nil
}

func (f *fakeParentAccounts) GetByProfileID(profileID int64) (*models.Parent, error) {
	for _, p := range f.parents {
		if p.ProfileID == profileID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

type fakeMailer struct {
	welcomes []string
	err      error
}

func (f *fakeMailer) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	f.welcomes = append(f.welcomes, toEmail)
	return f.err
}

type authFixture struct {
	svc      *AuthService
	profiles *fakeProfileStore
	sessions *fakeSessionStore
	mail     *fakeMailer
}

func newAuthFixture() *authFixture {
	profiles := newFakeProfileStore()
	sessions := newFakeSessionStore()
	students := newFakeStudentAccounts()
	parents := newFakeParentAccounts()
	mail := &fakeMailer{}

	svc := &AuthService{
		profiles: profiles,
		sessions: sessions,
		students: students,
		parents:  parents,
		enroll: func(fn func(profiles ProfileStore, students StudentAccountStore, parents ParentAccountStore) error) error {
			return fn(profiles, students, parents)
		},
		signer:   security.NewTokenSigner("test-secret"),
		duration: time.Hour,
		mail:     mail,
		log:      zap.NewNop().Sugar(),
	}
	return &authFixture{svc: svc, profiles: profiles, sessions: sessions, mail: mail}
}

func studentRegistration() RegisterInput {
	return RegisterInput{
		Email:    "siswa@example.com",
		Password: "rahasia-sekali",
		FullName: "Budi Santoso",
		Role:     "student",
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{name: "invalid email", mutate: func(in *RegisterInput) { in.Email = "not-an-email" }},
		{name: "missing email", mutate: func(in *RegisterInput) { in.Email = "" }},
		{name: "short password", mutate: func(in *RegisterInput) { in.Password = "1234567" }},
		{name: "missing name", mutate: func(in *RegisterInput) { in.FullName = "" }},
		{name: "admin role not self-assignable", mutate: func(in *RegisterInput) { in.Role = "admin" }},
		{name: "unknown role", mutate: func(in *RegisterInput) { in.Role = "wizard" }},
		{name: "grade level out of range", mutate: func(in *RegisterInput) { g := 13; in.GradeLevel = &g }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newAuthFixture()
			input := studentRegistration()
			tt.mutate(&input)

			if _, err := fx.svc.Register(input); !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
			if len(fx.profiles.profiles) != 0 {
				t.Error("no profile should be created on validation failure")
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	fx := newAuthFixture()

	result, err := fx.svc.Register(studentRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Register() should sign the account in")
	}
	if result.Student == nil {
		t.Fatal("a student registration should carry its student record")
	}
	if result.Profile.Role != models.RoleStudent {
		t.Errorf("role = %q, want student", result.Profile.Role)
	}

	t.Run("duplicate email", func(t *testing.T) {
		if _, err := fx.svc.Register(studentRegistration()); !errors.Is(err, ErrEmailTaken) {
			t.Errorf("error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("login with the registered password", func(t *testing.T) {
		if _, err := fx.svc.Login("siswa@example.com", "rahasia-sekali"); err != nil {
			t.Errorf("Login() error = %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := fx.svc.Login("siswa@example.com", "salah-semua"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestRegisterSendsWelcomeEmail(t *testing.T) {
	fx := newAuthFixture()

	if _, err := fx.svc.Register(studentRegistration()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if len(fx.mail.welcomes) != 1 || fx.mail.welcomes[0] != "siswa@example.com" {
		t.Errorf("welcome emails = %v, want one to siswa@example.com", fx.mail.welcomes)
	}

	t.Run("delivery failure does not fail registration", func(t *testing.T) {
		fx := newAuthFixture()
		fx.mail.err = errors.New("ses unavailable")

		if _, err := fx.svc.Register(studentRegistration()); err != nil {
			t.Errorf("Register() error = %v", err)
		}
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	fx := newAuthFixture()

	result, err := fx.svc.Register(studentRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	identity, err := fx.svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken() before logout error = %v", err)
	}

	if err := fx.svc.Logout(identity.SessionID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, err := fx.svc.ValidateToken(result.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ValidateToken() after logout error = %v, want ErrUnauthenticated", err)
	}
}

func TestValidateTokenExpiredSession(t *testing.T) {
	fx := newAuthFixture()
	fx.svc.duration = -time.Minute

	result, err := fx.svc.Register(studentRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := fx.svc.ValidateToken(result.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated", err)
	}
}

func TestInvite(t *testing.T) {
	fx := newAuthFixture()

	profile, err := fx.svc.Invite(InviteInput{
		Email:    "guru@example.com",
		Password: "kata-sandi-guru",
		FullName: "Ibu Sari",
		Role:     "teacher",
	})
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if profile.Role != models.RoleTeacher {
		t.Errorf("role = %q, want teacher", profile.Role)
	}

	t.Run("invited account can sign in", func(t *testing.T) {
		result, err := fx.svc.Login("guru@example.com", "kata-sandi-guru")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if result.Profile.Role != models.RoleTeacher {
			t.Errorf("role = %q, want teacher", result.Profile.Role)
		}
	})

	t.Run("empty role defaults to teacher", func(t *testing.T) {
		profile, err := fx.svc.Invite(InviteInput{
			Email:    "guru2@example.com",
			Password: "kata-sandi-guru",
			FullName: "Pak Agus",
		})
		if err != nil {
			t.Fatalf("Invite() error = %v", err)
		}
		if profile.Role != models.RoleTeacher {
			t.Errorf("role = %q, want teacher", profile.Role)
		}
	})

	t.Run("invited student gets a student record", func(t *testing.T) {
		profile, err := fx.svc.Invite(InviteInput{
			Email:    "murid@example.com",
			Password: "kata-sandi-murid",
			FullName: "Dewi Lestari",
			Role:     "student",
		})
		if err != nil {
			t.Fatalf("Invite() error = %v", err)
		}
		student, err := fx.svc.students.GetByProfileID(profile.ID)
		if err != nil || student == nil {
			t.Errorf("student record = %v, %v, want a record", student, err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		if _, err := fx.svc.Invite(InviteInput{
			Email:    "guru@example.com",
			Password: "kata-sandi-lain",
			FullName: "Ibu Sari",
			Role:     "teacher",
		}); !errors.Is(err, ErrEmailTaken) {
			t.Errorf("error = %v, want ErrEmailTaken", err)
		}
	})
}

func TestChangePassword(t *testing.T) {
	fx := newAuthFixture()

	if _, err := fx.svc.Register(studentRegistration()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("wrong current password", func(t *testing.T) {
		err := fx.svc.ChangePassword(1, ChangePasswordInput{CurrentPassword: "salah-semua", NewPassword: "sandi-baru-sekali"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("short new password", func(t *testing.T) {
		err := fx.svc.ChangePassword(1, ChangePasswordInput{CurrentPassword: "rahasia-sekali", NewPassword: "pendek"})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	if err := fx.svc.ChangePassword(1, ChangePasswordInput{CurrentPassword: "rahasia-sekali", NewPassword: "sandi-baru-sekali"}); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := fx.svc.Login("siswa@example.com", "rahasia-sekali"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted, error = %v", err)
	}
	if _, err := fx.svc.Login("siswa@example.com", "sandi-baru-sekali"); err != nil {
		t.Errorf("Login() with the new password error = %v", err)
	}
}

func TestLoginWithOAuthFirstSight(t *testing.T) {
	fx := newAuthFixture()

	result, err := fx.svc.LoginWithOAuth("google", "sub-123", "Siswa@Example.com", "Budi Santoso", "https://img.example/avatar.png")
	if err != nil {
		t.Fatalf("LoginWithOAuth() error = %v", err)
	}
	if result.Profile.Role != models.RoleStudent {
		t.Errorf("role = %q, want student", result.Profile.Role)
	}
	if result.Student == nil {
		t.Error("first oauth sign-in should create a student record")
	}

	t.Run("second sign-in reuses the profile", func(t *testing.T) {
		again, err := fx.svc.LoginWithOAuth("google", "sub-123", "siswa@example.com", "Budi Santoso", "")
		if err != nil {
			t.Fatalf("LoginWithOAuth() error = %v", err)
		}
		if again.Profile.ID != result.Profile.ID {
			t.Errorf("profile id = %d, want %d", again.Profile.ID, result.Profile.ID)
		}
		if len(fx.profiles.profiles) != 1 {
			t.Errorf("profiles = %d, want 1", len(fx.profiles.profiles))
		}
	})
}

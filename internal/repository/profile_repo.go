package repository

import (
	"database/sql"
	"time"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// ProfileRepository handles profile database operations
type ProfileRepository struct {
	db database.DBTX
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// WithTx returns a repository view running inside the given transaction
func (r *ProfileRepository) WithTx(tx *database.Tx) *ProfileRepository {
	return &ProfileRepository{db: tx}
}

const profileColumns = `id, email, password_hash, full_name, avatar_url, role,
       oauth_provider, oauth_subject, created_at, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.PasswordHash,
		&p.FullName,
		&p.AvatarURL,
		&p.Role,
		&p.OAuthProvider,
		&p.OAuthSubject,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a profile and returns it
func (r *ProfileRepository) Create(email, passwordHash, fullName string, role models.Role) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (email, password_hash, full_name, role)
		VALUES (?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, email, passwordHash, fullName, role)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves a profile by id, returning nil when absent
func (r *ProfileRepository) GetByID(id int64) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`

	p, err := scanProfile(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetByEmail retrieves a profile by email, returning nil when absent
func (r *ProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = ?`

	p, err := scanProfile(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetByOAuth retrieves a profile by its linked OAuth identity
func (r *ProfileRepository) GetByOAuth(provider, subject string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE oauth_provider = ? AND oauth_subject = ?`

	p, err := scanProfile(r.db.QueryRow(query, provider, subject))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// LinkOAuthProvider attaches an OAuth identity to an existing profile
func (r *ProfileRepository) LinkOAuthProvider(profileID int64, provider, subject string) error {
	query := `UPDATE profiles SET oauth_provider = ?, oauth_subject = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, provider, subject, time.Now(), profileID)
	return err
}

// List retrieves all profiles, optionally filtered by role, newest first
func (r *ProfileRepository) List(role models.Role) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	var args []interface{}
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

// Update changes a profile's editable fields
func (r *ProfileRepository) Update(id int64, fullName, avatarURL string, role models.Role) error {
	query := `
		UPDATE profiles
		SET full_name = ?, avatar_url = ?, role = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, fullName, avatarURL, role, time.Now(), id)
	return err
}

// UpdatePassword replaces a profile's password hash
func (r *ProfileRepository) UpdatePassword(id int64, passwordHash string) error {
	query := `UPDATE profiles SET password_hash = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.Exec(query, passwordHash, time.Now(), id)
	return err
}

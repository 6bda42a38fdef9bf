package repository

import (
	"database/sql"
	"time"

	"cerdas/internal/database"
	"cerdas/internal/models"
)

// SessionRepository handles login-session database operations
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session row
func (r *SessionRepository) Create(id string, profileID int64, expiresAt time.Time) (*models.Session, error) {
	query := `INSERT INTO sessions (id, profile_id, expires_at) VALUES (?, ?, ?)`

	if _, err := r.db.Exec(query, id, profileID, expiresAt); err != nil {
		return nil, err
	}

	return r.Get(id)
}

// Get retrieves a session by id, returning nil when absent
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	query := `SELECT id, profile_id, expires_at, created_at FROM sessions WHERE id = ?`

	s := &models.Session{}
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.ProfileID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a session (sign-out / revocation)
func (r *SessionRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteForProfile removes every session of a profile
func (r *SessionRepository) DeleteForProfile(profileID int64) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE profile_id = ?`, profileID)
	return err
}

// DeleteExpired removes sessions past their expiry
func (r *SessionRepository) DeleteExpired() error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, time.Now())
	return err
}

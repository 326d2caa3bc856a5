package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is the catalogue row of one stream run.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Photos    int
}

// SessionRepository provides access to the sessions table.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a live session. A zero StartedAt is set to now.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, photos) VALUES (?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Photos,
	)
	return err
}

// End marks a session finished with its final photo count.
func (r *SessionRepository) End(id string, endedAt time.Time, photos int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, photos = ? WHERE id = ?`,
		endedAt, photos, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, photos FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &ended, &sess.Photos)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	return sess, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, photos FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var ended sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.StartedAt, &ended, &sess.Photos); err != nil {
			return nil, err
		}
		if ended.Valid {
			sess.EndedAt = &ended.Time
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

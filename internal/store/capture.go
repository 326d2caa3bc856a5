package store

import (
	"database/sql"
	"errors"
	"time"
)

// Capture is the catalogue row of one persisted photo.
type Capture struct {
	ID        string
	SessionID string
	Path      string
	SizeBytes int64
	TakenAt   time.Time
}

// CaptureRepository provides access to the captures table.
type CaptureRepository struct {
	db *sql.DB
}

// Captures returns the capture repository for this store.
func (s *Store) Captures() *CaptureRepository {
	return &CaptureRepository{db: s.db}
}

// Create inserts a capture. Its session must exist.
func (r *CaptureRepository) Create(c *Capture) error {
	_, err := r.db.Exec(
		`INSERT INTO captures (id, session_id, path, size_bytes, taken_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.SessionID, c.Path, c.SizeBytes, c.TakenAt,
	)
	return err
}

// GetByID retrieves a capture by its ID.
func (r *CaptureRepository) GetByID(id string) (*Capture, error) {
	c := &Capture{}
	err := r.db.QueryRow(
		`SELECT id, session_id, path, size_bytes, taken_at FROM captures WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.SessionID, &c.Path, &c.SizeBytes, &c.TakenAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List retrieves all captures, newest first.
func (r *CaptureRepository) List() ([]*Capture, error) {
	return r.query(
		`SELECT id, session_id, path, size_bytes, taken_at FROM captures ORDER BY taken_at DESC`,
	)
}

// ListBySession retrieves the captures of one session in capture order.
func (r *CaptureRepository) ListBySession(sessionID string) ([]*Capture, error) {
	return r.query(
		`SELECT id, session_id, path, size_bytes, taken_at FROM captures
		 WHERE session_id = ? ORDER BY taken_at ASC`,
		sessionID,
	)
}

func (r *CaptureRepository) query(q string, args ...any) ([]*Capture, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []*Capture
	for rows.Next() {
		c := &Capture{}
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Path, &c.SizeBytes, &c.TakenAt); err != nil {
			return nil, err
		}
		captures = append(captures, c)
	}

	return captures, rows.Err()
}

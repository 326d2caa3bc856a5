package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per stream run; ended_at stays NULL while it is live.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			photos INTEGER NOT NULL DEFAULT 0
		)`,

		// Captured photos; id is the capture time in unix milliseconds.
		`CREATE TABLE IF NOT EXISTS captures (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			taken_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_captures_session_id ON captures(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_captures_taken_at ON captures(taken_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

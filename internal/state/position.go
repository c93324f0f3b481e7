package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/tabplayer/internal/db"
)

// finishedMargin is how close to the end a saved position may be before the
// song counts as finished and starts over next time.
const finishedMargin = 2 * time.Second

// GetPosition returns the saved resume position for path.
func (m *Manager) GetPosition(path string) (time.Duration, bool, error) {
	var positionUs int64
	err := m.db.QueryRow(
		`SELECT position_us FROM song_positions WHERE path = ?`, path,
	).Scan(&positionUs)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return time.Duration(positionUs) * time.Microsecond, true, nil
}

// SavePosition stores the resume position for path. A position at the start,
// or within finishedMargin of a known duration, clears the entry instead.
func (m *Manager) SavePosition(path string, position, duration time.Duration) error {
	m.saveMu.Lock()
	if m.pending != nil && m.pending.path == path {
		m.pending = nil
	}
	m.saveMu.Unlock()
	return savePosition(m.db, path, position, duration)
}

// ClearPosition removes the saved position for path.
func (m *Manager) ClearPosition(path string) error {
	_, err := m.db.Exec(`DELETE FROM song_positions WHERE path = ?`, path)
	return err
}

// SongPosition is one saved resume entry.
type SongPosition struct {
	Path      string
	Position  time.Duration
	Duration  time.Duration
	UpdatedAt time.Time
}

// RecentPositions returns saved entries, most recently updated first.
func (m *Manager) RecentPositions(limit int) ([]SongPosition, error) {
	rows, err := m.db.Query(`
		SELECT path, position_us, duration_us, updated_at
		FROM song_positions
		ORDER BY updated_at DESC, path
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SongPosition
	for rows.Next() {
		var (
			p          SongPosition
			positionUs int64
			durationUs sql.NullInt64
			updatedAt  int64
		)
		if err := rows.Scan(&p.Path, &positionUs, &durationUs, &updatedAt); err != nil {
			return nil, err
		}
		p.Position = time.Duration(positionUs) * time.Microsecond
		p.Duration = db.NullDuration(durationUs)
		p.UpdatedAt = time.Unix(updatedAt, 0)
		result = append(result, p)
	}
	return result, rows.Err()
}

func savePosition(conn *sql.DB, path string, position, duration time.Duration) error {
	return db.WithTx(conn, func(tx *sql.Tx) error {
		if isFinished(position, duration) {
			_, err := tx.Exec(`DELETE FROM song_positions WHERE path = ?`, path)
			return err
		}
		_, err := tx.Exec(`
			INSERT INTO song_positions (path, position_us, duration_us, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				position_us = excluded.position_us,
				duration_us = excluded.duration_us,
				updated_at = excluded.updated_at
		`, path, position.Microseconds(), db.DurationParam(duration), time.Now().Unix())
		return err
	})
}

func isFinished(position, duration time.Duration) bool {
	if position <= 0 {
		return true
	}
	return duration > 0 && position >= duration-finishedMargin
}

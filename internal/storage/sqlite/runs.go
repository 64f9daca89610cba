package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lsm1103/ArenaAI/pkg/logger"
)

// RunStorage handles storage of pipeline runs and their segments
type RunStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewRunStorage creates a new SQLite run storage
func NewRunStorage(db *sql.DB, logger *logger.Logger) (*RunStorage, error) {
	storage := &RunStorage{
		db:     db,
		logger: logger.Named("sqlite-runs"),
	}

	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize run storage: %w", err)
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *RunStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			match_name TEXT NOT NULL,
			video_name TEXT NOT NULL,
			board_type TEXT NOT NULL,
			audio_path TEXT NOT NULL,
			segment_count INTEGER NOT NULL,
			total_duration_ms INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS segments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			speaker TEXT NOT NULL,
			display_speaker TEXT NOT NULL,
			start_ms INTEGER NOT NULL,
			end_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			text TEXT NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create segments table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS marks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			start_ms INTEGER NOT NULL,
			label TEXT NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create marks table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_segments_run_id ON segments(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_segments_speaker ON segments(speaker)`,
		`CREATE INDEX IF NOT EXISTS idx_marks_run_id ON marks(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create run index: %w", err)
		}
	}

	return nil
}

// StoreRun stores a run with its segments and marks in one transaction
func (s *RunStorage) StoreRun(run *RunRecord, segments []*SegmentRecord, marks []*MarkRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs
		(id, match_name, video_name, board_type, audio_path, segment_count, total_duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.MatchName,
		run.VideoName,
		run.BoardType,
		run.AudioPath,
		run.SegmentCount,
		run.TotalDurationMS,
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, segment := range segments {
		_, err = tx.Exec(
			`INSERT INTO segments
			(run_id, position, speaker, display_speaker, start_ms, end_ms, duration_ms, text)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			i,
			segment.Speaker,
			segment.DisplaySpeaker,
			segment.StartMS,
			segment.EndMS,
			segment.DurationMS,
			segment.Text,
		)
		if err != nil {
			return fmt.Errorf("failed to insert segment: %w", err)
		}
	}

	for _, mark := range marks {
		_, err = tx.Exec(
			`INSERT INTO marks (run_id, start_ms, label) VALUES (?, ?, ?)`,
			run.ID,
			mark.StartMS,
			mark.Label,
		)
		if err != nil {
			return fmt.Errorf("failed to insert mark: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	s.logger.Debug("Stored run",
		logger.String("run_id", run.ID),
		logger.Int("segments", len(segments)),
		logger.Int("marks", len(marks)))

	return nil
}

// GetRun returns a single run by ID
func (s *RunStorage) GetRun(id string) (*RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, match_name, video_name, board_type, audio_path, segment_count, total_duration_ms, created_at
		FROM runs WHERE id = ?`,
		id,
	)

	record, err := scanRunRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return record, nil
}

// GetRecentRuns returns recent runs, newest first
func (s *RunStorage) GetRecentRuns(limit int) ([]*RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, match_name, video_name, board_type, audio_path, segment_count, total_duration_ms, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		record, err := scanRunRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// GetSegmentsByRun returns a run's merged segments in timeline order
func (s *RunStorage) GetSegmentsByRun(runID string) ([]*SegmentRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, position, speaker, display_speaker, start_ms, end_ms, duration_ms, text
		FROM segments
		WHERE run_id = ?
		ORDER BY position ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}
	defer rows.Close()

	var records []*SegmentRecord
	for rows.Next() {
		var record SegmentRecord
		if err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.Position,
			&record.Speaker,
			&record.DisplaySpeaker,
			&record.StartMS,
			&record.EndMS,
			&record.DurationMS,
			&record.Text,
		); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// GetMarksByRun returns a run's time marks ordered by start time
func (s *RunStorage) GetMarksByRun(runID string) ([]*MarkRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, start_ms, label
		FROM marks
		WHERE run_id = ?
		ORDER BY start_ms ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query marks: %w", err)
	}
	defer rows.Close()

	var records []*MarkRecord
	for rows.Next() {
		var record MarkRecord
		if err := rows.Scan(&record.ID, &record.RunID, &record.StartMS, &record.Label); err != nil {
			return nil, fmt.Errorf("failed to scan mark: %w", err)
		}
		records = append(records, &record)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunRow(row rowScanner) (*RunRecord, error) {
	var record RunRecord
	var createdAt string

	if err := row.Scan(
		&record.ID,
		&record.MatchName,
		&record.VideoName,
		&record.BoardType,
		&record.AudioPath,
		&record.SegmentCount,
		&record.TotalDurationMS,
		&createdAt,
	); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	record.CreatedAt = parsed

	return &record, nil
}

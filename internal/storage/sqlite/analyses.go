package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lsm1103/ArenaAI/pkg/logger"
)

// AnalysisStorage handles storage of LLM analyses and commentaries
type AnalysisStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewAnalysisStorage creates a new SQLite analysis storage
func NewAnalysisStorage(db *sql.DB, logger *logger.Logger) (*AnalysisStorage, error) {
	storage := &AnalysisStorage{
		db:     db,
		logger: logger.Named("sqlite-analyses"),
	}

	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize analysis storage: %w", err)
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *AnalysisStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			section_label TEXT NOT NULL,
			model TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_analyses_run_id ON analyses(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_kind ON analyses(kind)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create analysis index: %w", err)
		}
	}

	return nil
}

// StoreAnalysis stores an analysis record
func (s *AnalysisStorage) StoreAnalysis(record *AnalysisRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO analyses (run_id, kind, section_label, model, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.RunID,
		record.Kind,
		record.SectionLabel,
		record.Model,
		record.Content,
		record.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	s.logger.Debug("Stored analysis",
		logger.String("run_id", record.RunID),
		logger.String("kind", record.Kind),
		logger.Int64("analysis_id", id))

	return id, nil
}

// GetAnalysesByRun returns analyses for a run, oldest first
func (s *AnalysisStorage) GetAnalysesByRun(runID string, kind string) ([]*AnalysisRecord, error) {
	var rows *sql.Rows
	var err error

	if kind == "" {
		rows, err = s.db.Query(
			`SELECT id, run_id, kind, section_label, model, content, created_at
			FROM analyses WHERE run_id = ? ORDER BY created_at ASC, id ASC`,
			runID,
		)
	} else {
		rows, err = s.db.Query(
			`SELECT id, run_id, kind, section_label, model, content, created_at
			FROM analyses WHERE run_id = ? AND kind = ? ORDER BY created_at ASC, id ASC`,
			runID, kind,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		var record AnalysisRecord
		var createdAt string
		if err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.Kind,
			&record.SectionLabel,
			&record.Model,
			&record.Content,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}

		record.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		records = append(records, &record)
	}
	return records, nil
}

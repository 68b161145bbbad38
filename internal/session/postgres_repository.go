package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRepository реализует Repository для PostgreSQL (Infrastructure Layer)
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository создает новый экземпляр PostgresRepository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// NewPostgresRepositoryFromDSN создает репозиторий из строки подключения
func NewPostgresRepositoryFromDSN(dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Создаем таблицы если не существуют
	if err := initSchema(db); err != nil {
		return nil, err
	}

	return &PostgresRepository{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schemaSQL := `
    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        drill TEXT NOT NULL,
        status TEXT NOT NULL,
        started_at TIMESTAMP NOT NULL,
        finalized_at TIMESTAMP,
        saved_at TIMESTAMP,
        total_frames BIGINT NOT NULL DEFAULT 0,
        metadata JSONB NOT NULL DEFAULT '{}'
    );

    CREATE TABLE IF NOT EXISTS session_results (
        session_id TEXT PRIMARY KEY,
        drill TEXT NOT NULL,
        passed BOOLEAN NOT NULL,
        total_frames BIGINT NOT NULL,
        valid_frames BIGINT NOT NULL,
        low_visibility_frames BIGINT NOT NULL,
        inactive_frames BIGINT NOT NULL,
        criteria JSONB NOT NULL,
        best_angles JSONB,
        exemplar JSONB,
        stability JSONB,
        updated_at TIMESTAMP NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
    CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
    `

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Close закрывает соединение с БД
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// ===== Управление сессиями =====

func (r *PostgresRepository) CreateSession(ctx context.Context, session *Session) error {
	metadataJSON, err := json.Marshal(session.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO sessions (id, drill, status, started_at, finalized_at, saved_at, total_frames, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		session.ID,
		session.Drill,
		session.Status,
		session.StartedAt,
		session.FinalizedAt,
		session.SavedAt,
		session.TotalFrames,
		metadataJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	query := `
		SELECT id, drill, status, started_at, finalized_at, saved_at, total_frames, metadata
		FROM sessions
		WHERE id = $1
	`

	var session Session
	var metadataJSON []byte

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.Drill,
		&session.Status,
		&session.StartedAt,
		&session.FinalizedAt,
		&session.SavedAt,
		&session.TotalFrames,
		&metadataJSON,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(metadataJSON, &session.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &session, nil
}

func (r *PostgresRepository) UpdateSession(ctx context.Context, session *Session) error {
	metadataJSON, err := json.Marshal(session.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		UPDATE sessions
		SET status = $2, finalized_at = $3, saved_at = $4, total_frames = $5, metadata = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.Status,
		session.FinalizedAt,
		session.SavedAt,
		session.TotalFrames,
		metadataJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("session not found: %s", session.ID)
	}

	return nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context, limit, offset int) ([]*Session, error) {
	query := `
		SELECT id, drill, status, started_at, finalized_at, saved_at, total_frames, metadata
		FROM sessions
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session

	for rows.Next() {
		var session Session
		var metadataJSON []byte

		err := rows.Scan(
			&session.ID,
			&session.Drill,
			&session.Status,
			&session.StartedAt,
			&session.FinalizedAt,
			&session.SavedAt,
			&session.TotalFrames,
			&metadataJSON,
		)

		if err != nil {
			continue // Пропускаем поврежденные записи
		}

		if err := json.Unmarshal(metadataJSON, &session.Metadata); err == nil {
			sessions = append(sessions, &session)
		}
	}

	return sessions, nil
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Удаляем связанные данные явно, не полагаясь на каскад по FK
	queries := []string{
		"DELETE FROM session_results WHERE session_id = $1",
		"DELETE FROM sessions WHERE id = $1",
	}

	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query, sessionID); err != nil {
			return fmt.Errorf("failed to delete session data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ===== Итоги сессий =====

func (r *PostgresRepository) SaveResult(ctx context.Context, result *Result) error {
	criteriaJSON, err := json.Marshal(result.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	anglesJSON, err := json.Marshal(result.BestAngles)
	if err != nil {
		return fmt.Errorf("failed to marshal best angles: %w", err)
	}

	exemplarJSON, err := json.Marshal(result.Exemplar)
	if err != nil {
		return fmt.Errorf("failed to marshal exemplar: %w", err)
	}

	stabilityJSON, err := json.Marshal(result.Stability)
	if err != nil {
		return fmt.Errorf("failed to marshal stability: %w", err)
	}

	query := `
		INSERT INTO session_results (
			session_id, drill, passed,
			total_frames, valid_frames, low_visibility_frames, inactive_frames,
			criteria, best_angles, exemplar, stability, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO UPDATE SET
			drill = EXCLUDED.drill,
			passed = EXCLUDED.passed,
			total_frames = EXCLUDED.total_frames,
			valid_frames = EXCLUDED.valid_frames,
			low_visibility_frames = EXCLUDED.low_visibility_frames,
			inactive_frames = EXCLUDED.inactive_frames,
			criteria = EXCLUDED.criteria,
			best_angles = EXCLUDED.best_angles,
			exemplar = EXCLUDED.exemplar,
			stability = EXCLUDED.stability,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		result.SessionID,
		result.Drill,
		result.Passed,
		result.TotalFrames,
		result.ValidFrames,
		result.LowVisibilityFrames,
		result.InactiveFrames,
		criteriaJSON,
		anglesJSON,
		exemplarJSON,
		stabilityJSON,
		result.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetResult(ctx context.Context, sessionID string) (*Result, error) {
	query := `
		SELECT session_id, drill, passed,
			total_frames, valid_frames, low_visibility_frames, inactive_frames,
			criteria, best_angles, exemplar, stability, updated_at
		FROM session_results
		WHERE session_id = $1
	`

	var result Result
	var criteriaJSON, anglesJSON, exemplarJSON, stabilityJSON []byte

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&result.SessionID,
		&result.Drill,
		&result.Passed,
		&result.TotalFrames,
		&result.ValidFrames,
		&result.LowVisibilityFrames,
		&result.InactiveFrames,
		&criteriaJSON,
		&anglesJSON,
		&exemplarJSON,
		&stabilityJSON,
		&result.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("result not found for session: %s", sessionID)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	if err := json.Unmarshal(criteriaJSON, &result.Criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criteria: %w", err)
	}
	if err := json.Unmarshal(anglesJSON, &result.BestAngles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal best angles: %w", err)
	}
	if err := json.Unmarshal(exemplarJSON, &result.Exemplar); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exemplar: %w", err)
	}
	if err := json.Unmarshal(stabilityJSON, &result.Stability); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stability: %w", err)
	}

	return &result, nil
}

// ===== Сохранение полных данных сессии =====

func (r *PostgresRepository) SaveSessionData(ctx context.Context, data *SessionData) error {
	// Сохраняем/обновляем сессию
	if err := r.CreateSession(ctx, data.Session); err != nil {
		// Если сессия уже существует, обновляем
		if err := r.UpdateSession(ctx, data.Session); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}

	// Сохраняем итог
	if data.Result != nil {
		if err := r.SaveResult(ctx, data.Result); err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
	}

	return nil
}

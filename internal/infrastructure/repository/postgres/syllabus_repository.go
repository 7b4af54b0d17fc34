package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

type SyllabusRepository struct {
	db *sql.DB
}

func NewSyllabusRepository(db *sql.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *SyllabusRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026090101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS syllabi (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	course JSONB NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	audio_path TEXT,
	calendar_synced BOOLEAN NOT NULL DEFAULT FALSE,
	uploaded_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_syllabi_owner ON syllabi(owner_id);
CREATE INDEX IF NOT EXISTS idx_syllabi_uploaded_at ON syllabi(uploaded_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *SyllabusRepository) Create(ctx context.Context, rec *domain.SyllabusRecord) error {
	courseJSON, err := json.Marshal(rec.Course)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO syllabi (
	id, owner_id, filename, course, status, error_message, audio_path, calendar_synced, uploaded_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		rec.ID, rec.OwnerID, rec.Filename, courseJSON, string(rec.Status),
		rec.Error, rec.AudioPath, rec.CalendarSynced, rec.UploadedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert syllabus: %w", err)
	}
	return nil
}

func (r *SyllabusRepository) GetByID(ctx context.Context, id string) (*domain.SyllabusRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, filename, course, status, error_message, audio_path, calendar_synced, uploaded_at, updated_at
FROM syllabi
WHERE id = $1
`, id)

	rec, err := scanSyllabus(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrSyllabusNotFound, "get syllabus", errors.New(id))
		}
		return nil, fmt.Errorf("scan syllabus: %w", err)
	}
	return rec, nil
}

func (r *SyllabusRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.SyllabusRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, owner_id, filename, course, status, error_message, audio_path, calendar_synced, uploaded_at, updated_at
FROM syllabi
WHERE owner_id = $1
ORDER BY uploaded_at DESC
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query syllabi: %w", err)
	}
	defer rows.Close()

	records := []domain.SyllabusRecord{}
	for rows.Next() {
		rec, err := scanSyllabus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan syllabus: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate syllabi: %w", err)
	}
	return records, nil
}

func (r *SyllabusRepository) UpdateStatus(ctx context.Context, id string, status domain.SyllabusStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE syllabi
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update syllabus status: %w", err)
	}
	return requireRow(res, id)
}

func (r *SyllabusRepository) SetAudioPath(ctx context.Context, id, path string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE syllabi
SET audio_path = $2, updated_at = $3
WHERE id = $1
`, id, path, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set audio path: %w", err)
	}
	return requireRow(res, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSyllabus(row rowScanner) (*domain.SyllabusRecord, error) {
	var rec domain.SyllabusRecord
	var courseRaw []byte
	var status string
	var errMessage, audioPath sql.NullString

	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.Filename, &courseRaw, &status,
		&errMessage, &audioPath, &rec.CalendarSynced, &rec.UploadedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(courseRaw, &rec.Course); err != nil {
		return nil, fmt.Errorf("unmarshal course: %w", err)
	}
	rec.Course.EnsureSlices()
	rec.Status = domain.SyllabusStatus(status)
	rec.Error = errMessage.String
	rec.AudioPath = audioPath.String
	return &rec, nil
}

func requireRow(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrSyllabusNotFound, "update syllabus", errors.New(id))
	}
	return nil
}

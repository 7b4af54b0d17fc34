package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*SyllabusRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &SyllabusRepository{db: db}, mock, func() { _ = db.Close() }
}

func syllabusColumns() []string {
	return []string{
		"id", "owner_id", "filename", "course", "status",
		"error_message", "audio_path", "calendar_synced", "uploaded_at", "updated_at",
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, owner_id, filename, course").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrSyllabusNotFound) {
		t.Fatalf("expected ErrSyllabusNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDDecodesCourseJSON(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(syllabusColumns()).AddRow(
		"s-1", "user-1", "cs101.pdf",
		[]byte(`{"course_name":"CS 101","chapters":[{"name":"Intro","suggested_order":1,"weekly_hours":2}]}`),
		"ready", nil, nil, false, now, now,
	)
	mock.ExpectQuery("SELECT id, owner_id, filename, course").
		WithArgs("s-1").
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if rec.Course.CourseName != "CS 101" || len(rec.Course.Chapters) != 1 {
		t.Fatalf("course JSON not decoded: %+v", rec.Course)
	}
	if rec.Course.Homework == nil {
		t.Fatalf("expected nil slices normalized after decode")
	}
	if rec.Status != domain.StatusReady {
		t.Fatalf("expected ready, got %s", rec.Status)
	}
}

func TestListByOwnerFiltersByOwner(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(syllabusColumns()).AddRow(
		"s-1", "user-1", "a.pdf", []byte(`{"course_name":"A"}`), "ready", nil, nil, false, now, now,
	).AddRow(
		"s-2", "user-1", "b.pdf", []byte(`{"course_name":"B"}`), "needs_review", "bad shape", nil, false, now, now,
	)
	mock.ExpectQuery("SELECT id, owner_id, filename, course").
		WithArgs("user-1").
		WillReturnRows(rows)

	records, err := repo.ListByOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].Error != "bad shape" {
		t.Fatalf("error message not mapped: %q", records[1].Error)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE syllabi").
		WithArgs("missing", string(domain.StatusFailed), "boom", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusFailed, "boom")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrSyllabusNotFound) {
		t.Fatalf("expected ErrSyllabusNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetAudioPathReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE syllabi").
		WithArgs("missing", "audio/missing.mp3", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAudioPath(context.Background(), "missing", "audio/missing.mp3")
	if !domain.IsKind(err, domain.ErrSyllabusNotFound) {
		t.Fatalf("expected ErrSyllabusNotFound, got %v", err)
	}
}

func TestCreateInsertsCourseJSON(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO syllabi").
		WithArgs("s-1", "user-1", "cs101.pdf", sqlmock.AnyArg(), "ready",
			"", "", false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	now := time.Now().UTC()
	err := repo.Create(context.Background(), &domain.SyllabusRecord{
		ID:         "s-1",
		OwnerID:    "user-1",
		Filename:   "cs101.pdf",
		Course:     domain.CourseRecord{CourseName: "CS 101"},
		Status:     domain.StatusReady,
		UploadedAt: now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

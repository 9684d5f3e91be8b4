package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadrec/acadrec-backend/internal/model"
)

var ErrGradeNotFound = errors.New("no grade recorded for this key")

// GradeRepository owns the grade ledger: the current grade per
// (student, subject, semester) key plus its append-only attempt
// history. Multi-step writes must run on a WithTx-bound copy.
type GradeRepository struct {
	db DB
}

func NewGradeRepository(pool *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{db: pool}
}

func (r *GradeRepository) WithTx(tx pgx.Tx) *GradeRepository {
	return &GradeRepository{db: tx}
}

// GetCurrent returns the current grade for a key.
func (r *GradeRepository) GetCurrent(ctx context.Context, rollNo int, subjectCode string, semNo, year int) (*model.GradeRecord, error) {
	var g model.GradeRecord
	err := r.db.QueryRow(ctx,
		`SELECT roll_no, subject_code, sem_no, year, grade, created_at, updated_at
		 FROM grades
		 WHERE roll_no = $1 AND subject_code = $2 AND sem_no = $3 AND year = $4`,
		rollNo, subjectCode, semNo, year,
	).Scan(&g.RollNo, &g.SubjectCode, &g.SemNo, &g.Year, &g.Grade, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGradeNotFound
		}
		return nil, err
	}
	return &g, nil
}

// LockKey takes a row lock on the ledger key so concurrent writers
// serialize their attempt-number read/write sequence. Locking the
// history's max attempt alone is not enough: the key may have no rows
// yet, so the current-grade row (or its absence, under the key's
// insert path) is the serialization point.
func (r *GradeRepository) LockKey(ctx context.Context, rollNo int, subjectCode string, semNo, year int) (locked bool, err error) {
	var one int
	err = r.db.QueryRow(ctx,
		`SELECT 1 FROM grades
		 WHERE roll_no = $1 AND subject_code = $2 AND sem_no = $3 AND year = $4
		 FOR UPDATE`,
		rollNo, subjectCode, semNo, year,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MaxAttempt returns the highest attempt number recorded for a key,
// or 0 when the key has no history.
func (r *GradeRepository) MaxAttempt(ctx context.Context, rollNo int, subjectCode string, semNo, year int) (int, error) {
	var maxAttempt int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(attempt), 0) FROM grade_history
		 WHERE roll_no = $1 AND subject_code = $2 AND sem_no = $3 AND year = $4`,
		rollNo, subjectCode, semNo, year,
	).Scan(&maxAttempt)
	return maxAttempt, err
}

// UpsertCurrent writes the current grade for a key, overwriting any
// previous grade in place.
func (r *GradeRepository) UpsertCurrent(ctx context.Context, g *model.GradeRecord) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO grades (roll_no, subject_code, sem_no, year, grade)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (roll_no, subject_code, sem_no, year)
		 DO UPDATE SET grade = EXCLUDED.grade, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		g.RollNo, g.SubjectCode, g.SemNo, g.Year, g.Grade,
	).Scan(&g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrMissingReference
		}
		return err
	}
	return nil
}

// AppendHistory inserts one attempt row. The unique constraint on
// (key, attempt) turns any lost-update race into a hard error instead
// of a silent duplicate attempt number.
func (r *GradeRepository) AppendHistory(ctx context.Context, h *model.GradeHistoryEntry) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO grade_history (roll_no, subject_code, sem_no, year, grade, attempt)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		h.RollNo, h.SubjectCode, h.SemNo, h.Year, h.Grade, h.Attempt,
	).Scan(&h.ID, &h.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrMissingReference
		}
		return err
	}
	return nil
}

// ListForStudent returns every current grade a student holds.
func (r *GradeRepository) ListForStudent(ctx context.Context, rollNo int) ([]model.GradeRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT roll_no, subject_code, sem_no, year, grade, created_at, updated_at
		 FROM grades WHERE roll_no = $1
		 ORDER BY sem_no ASC, subject_code ASC`,
		rollNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGradeRecords(rows)
}

// HistoryForStudent returns a student's full attempt history ordered
// by subject, semester and attempt.
func (r *GradeRepository) HistoryForStudent(ctx context.Context, rollNo int) ([]model.GradeHistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, roll_no, subject_code, sem_no, year, grade, attempt, created_at
		 FROM grade_history WHERE roll_no = $1
		 ORDER BY subject_code ASC, sem_no ASC, year ASC, attempt ASC`,
		rollNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistoryEntries(rows)
}

// HistoryForKey returns the attempt history for one ledger key in
// attempt order.
func (r *GradeRepository) HistoryForKey(ctx context.Context, rollNo int, subjectCode string, semNo, year int) ([]model.GradeHistoryEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, roll_no, subject_code, sem_no, year, grade, attempt, created_at
		 FROM grade_history
		 WHERE roll_no = $1 AND subject_code = $2 AND sem_no = $3 AND year = $4
		 ORDER BY attempt ASC`,
		rollNo, subjectCode, semNo, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistoryEntries(rows)
}

func scanGradeRecords(rows pgx.Rows) ([]model.GradeRecord, error) {
	var grades []model.GradeRecord
	for rows.Next() {
		var g model.GradeRecord
		if err := rows.Scan(&g.RollNo, &g.SubjectCode, &g.SemNo, &g.Year, &g.Grade, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func scanHistoryEntries(rows pgx.Rows) ([]model.GradeHistoryEntry, error) {
	var entries []model.GradeHistoryEntry
	for rows.Next() {
		var h model.GradeHistoryEntry
		if err := rows.Scan(&h.ID, &h.RollNo, &h.SubjectCode, &h.SemNo, &h.Year, &h.Grade, &h.Attempt, &h.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

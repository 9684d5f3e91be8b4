package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadrec/acadrec-backend/internal/model"
)

var (
	ErrDuplicateEnrollment = errors.New("student is already enrolled in this subject for this semester")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrMissingReference    = errors.New("student, subject or semester does not exist")
)

type EnrollmentRepository struct {
	db DB
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{db: pool}
}

func (r *EnrollmentRepository) WithTx(tx pgx.Tx) *EnrollmentRepository {
	return &EnrollmentRepository{db: tx}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO enrollments (roll_no, subject_code, sem_no, year)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		e.RollNo, e.SubjectCode, e.SemNo, e.Year,
	).Scan(&e.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateEnrollment
			case "23503":
				return ErrMissingReference
			}
		}
		return err
	}
	return nil
}

// ListForStudentSemester returns a student's enrollments in a semester
// joined to subject names and credits.
func (r *EnrollmentRepository) ListForStudentSemester(ctx context.Context, rollNo, semNo, year int) ([]model.Enrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT e.roll_no, e.subject_code, e.sem_no, e.year, s.name, s.credits, e.created_at
		 FROM enrollments e
		 JOIN subjects s ON e.subject_code = s.code
		 WHERE e.roll_no = $1 AND e.sem_no = $2 AND e.year = $3
		 ORDER BY e.subject_code ASC`,
		rollNo, semNo, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.RollNo, &e.SubjectCode, &e.SemNo, &e.Year, &e.SubjectName, &e.Credits, &e.CreatedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

func (r *EnrollmentRepository) Delete(ctx context.Context, rollNo int, subjectCode string, semNo, year int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM enrollments
		 WHERE roll_no = $1 AND subject_code = $2 AND sem_no = $3 AND year = $4`,
		rollNo, subjectCode, semNo, year)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

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
	ErrDuplicateRollNo = errors.New("student with this roll number already exists")
	ErrStudentNotFound = errors.New("student not found")
)

type StudentRepository struct {
	db DB
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: pool}
}

// WithTx returns a copy of the repository bound to an open transaction.
func (r *StudentRepository) WithTx(tx pgx.Tx) *StudentRepository {
	return &StudentRepository{db: tx}
}

func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO students (roll_no, name, department, year)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		s.RollNo, s.Name, s.Department, s.Year,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRollNo
		}
		return err
	}
	return nil
}

func (r *StudentRepository) GetByRollNo(ctx context.Context, rollNo int) (*model.Student, error) {
	var s model.Student
	err := r.db.QueryRow(ctx,
		`SELECT roll_no, name, department, year, created_at, updated_at
		 FROM students WHERE roll_no = $1`, rollNo,
	).Scan(&s.RollNo, &s.Name, &s.Department, &s.Year, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.Query(ctx,
		`SELECT roll_no, name, department, year, created_at, updated_at
		 FROM students ORDER BY roll_no ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.RollNo, &s.Name, &s.Department, &s.Year, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// ListRollNosByYear returns the roll numbers of the cohort enrolled in
// the given year, in roll order.
func (r *StudentRepository) ListRollNosByYear(ctx context.Context, year int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT roll_no FROM students WHERE year = $1 ORDER BY roll_no ASC`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rolls []int
	for rows.Next() {
		var roll int
		if err := rows.Scan(&roll); err != nil {
			return nil, err
		}
		rolls = append(rolls, roll)
	}
	return rolls, rows.Err()
}

// Update applies the non-nil fields of req to the student row.
func (r *StudentRepository) Update(ctx context.Context, rollNo int, req *model.UpdateStudentRequest) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE students
		 SET name = COALESCE($1, name),
		     department = COALESCE($2, department),
		     year = COALESCE($3, year),
		     updated_at = NOW()
		 WHERE roll_no = $4`,
		req.Name, req.Department, req.Year, rollNo,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// SetYear promotes (or demotes) a student into a cohort year.
func (r *StudentRepository) SetYear(ctx context.Context, rollNo, year int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE students SET year = $1, updated_at = NOW() WHERE roll_no = $2`, year, rollNo)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Delete removes a student; grades, history, enrollments, SPI and CPI
// rows cascade at the schema level.
func (r *StudentRepository) Delete(ctx context.Context, rollNo int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM students WHERE roll_no = $1`, rollNo)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStudentNotFound
	}
	return nil
}

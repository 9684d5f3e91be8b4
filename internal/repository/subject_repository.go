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
	ErrDuplicateSubject = errors.New("subject with this code already exists")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrSubjectInUse     = errors.New("subject is referenced by other records")
)

type SubjectRepository struct {
	db DB
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: pool}
}

func (r *SubjectRepository) WithTx(tx pgx.Tx) *SubjectRepository {
	return &SubjectRepository{db: tx}
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO subjects (code, name, credits, is_elective, department)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		s.Code, s.Name, s.Credits, s.IsElective, s.Department,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSubject
		}
		return err
	}
	return nil
}

func (r *SubjectRepository) GetByCode(ctx context.Context, code string) (*model.Subject, error) {
	var s model.Subject
	err := r.db.QueryRow(ctx,
		`SELECT code, name, credits, is_elective, COALESCE(department, ''), created_at, updated_at
		 FROM subjects WHERE code = $1`, code,
	).Scan(&s.Code, &s.Name, &s.Credits, &s.IsElective, &s.Department, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	rows, err := r.db.Query(ctx,
		`SELECT code, name, credits, is_elective, COALESCE(department, ''), created_at, updated_at
		 FROM subjects ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.Code, &s.Name, &s.Credits, &s.IsElective, &s.Department, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// Update edits non-key fields only; the code is immutable once graded.
func (r *SubjectRepository) Update(ctx context.Context, code string, req *model.UpdateSubjectRequest) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE subjects
		 SET name = COALESCE($1, name),
		     credits = COALESCE($2, credits),
		     is_elective = COALESCE($3, is_elective),
		     department = COALESCE($4, department),
		     updated_at = NOW()
		 WHERE code = $5`,
		req.Name, req.Credits, req.IsElective, req.Department, code,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

func (r *SubjectRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE code = $1`, code)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrSubjectInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

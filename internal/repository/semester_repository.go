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
	ErrDuplicateSemester = errors.New("semester already exists for this year")
	ErrSemesterNotFound  = errors.New("semester not found")
)

type SemesterRepository struct {
	db DB
}

func NewSemesterRepository(pool *pgxpool.Pool) *SemesterRepository {
	return &SemesterRepository{db: pool}
}

func (r *SemesterRepository) WithTx(tx pgx.Tx) *SemesterRepository {
	return &SemesterRepository{db: tx}
}

func (r *SemesterRepository) Create(ctx context.Context, s *model.Semester) error {
	if s.Status == "" {
		s.Status = model.SemesterUpcoming
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO semesters (sem_no, year, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		s.SemNo, s.Year, s.StartDate, s.EndDate, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSemester
		}
		return err
	}
	return nil
}

func (r *SemesterRepository) Get(ctx context.Context, semNo, year int) (*model.Semester, error) {
	var s model.Semester
	err := r.db.QueryRow(ctx,
		`SELECT sem_no, year, start_date, end_date, status, created_at, updated_at
		 FROM semesters WHERE sem_no = $1 AND year = $2`, semNo, year,
	).Scan(&s.SemNo, &s.Year, &s.StartDate, &s.EndDate, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SemesterRepository) List(ctx context.Context) ([]model.Semester, error) {
	rows, err := r.db.Query(ctx,
		`SELECT sem_no, year, start_date, end_date, status, created_at, updated_at
		 FROM semesters ORDER BY year ASC, sem_no ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var semesters []model.Semester
	for rows.Next() {
		var s model.Semester
		if err := rows.Scan(&s.SemNo, &s.Year, &s.StartDate, &s.EndDate, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		semesters = append(semesters, s)
	}
	return semesters, rows.Err()
}

func (r *SemesterRepository) Update(ctx context.Context, semNo, year int, req *model.UpdateSemesterRequest) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE semesters
		 SET start_date = COALESCE($1, start_date),
		     end_date = COALESCE($2, end_date),
		     status = COALESCE($3, status),
		     updated_at = NOW()
		 WHERE sem_no = $4 AND year = $5`,
		req.StartDate, req.EndDate, req.Status, semNo, year,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSemesterNotFound
	}
	return nil
}

package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
)

type SemesterService struct {
	pool        *pgxpool.Pool
	semRepo     *repository.SemesterRepository
	studentRepo *repository.StudentRepository
	log         zerolog.Logger
}

func NewSemesterService(
	pool *pgxpool.Pool,
	semRepo *repository.SemesterRepository,
	studentRepo *repository.StudentRepository,
	log zerolog.Logger,
) *SemesterService {
	return &SemesterService{
		pool:        pool,
		semRepo:     semRepo,
		studentRepo: studentRepo,
		log:         log.With().Str("component", "semester_service").Logger(),
	}
}

func (s *SemesterService) Create(ctx context.Context, sem *model.Semester) error {
	return s.semRepo.Create(ctx, sem)
}

func (s *SemesterService) Get(ctx context.Context, semNo, year int) (*model.Semester, error) {
	return s.semRepo.Get(ctx, semNo, year)
}

func (s *SemesterService) List(ctx context.Context) ([]model.Semester, error) {
	return s.semRepo.List(ctx)
}

func (s *SemesterService) Update(ctx context.Context, semNo, year int, req *model.UpdateSemesterRequest) error {
	return s.semRepo.Update(ctx, semNo, year, req)
}

// StartNewSemester creates a semester and applies cohort promotions
// in one transaction, so a failed promotion never leaves behind a
// half-rolled-over academic year.
func (s *SemesterService) StartNewSemester(ctx context.Context, sem *model.Semester, promotions []model.StudentPromotion) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.semRepo.WithTx(tx).Create(ctx, sem); err != nil {
		return err
	}

	students := s.studentRepo.WithTx(tx)
	for _, p := range promotions {
		if err := students.SetYear(ctx, p.RollNo, p.NewYear); err != nil {
			return fmt.Errorf("promote student %d: %w", p.RollNo, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Int("sem_no", sem.SemNo).
		Int("year", sem.Year).
		Int("promotions", len(promotions)).
		Msg("Semester started")
	return nil
}

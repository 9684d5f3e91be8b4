package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
)

// Domain Errors
var (
	ErrSemesterCompleted  = errors.New("cannot enroll in a completed semester")
	ErrDepartmentMismatch = errors.New("subject not available for the student's department")
)

type EnrollmentService struct {
	pool        *pgxpool.Pool
	enrollRepo  *repository.EnrollmentRepository
	studentRepo *repository.StudentRepository
	subjectRepo *repository.SubjectRepository
	semRepo     *repository.SemesterRepository
	log         zerolog.Logger
}

func NewEnrollmentService(
	pool *pgxpool.Pool,
	enrollRepo *repository.EnrollmentRepository,
	studentRepo *repository.StudentRepository,
	subjectRepo *repository.SubjectRepository,
	semRepo *repository.SemesterRepository,
	log zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		pool:        pool,
		enrollRepo:  enrollRepo,
		studentRepo: studentRepo,
		subjectRepo: subjectRepo,
		semRepo:     semRepo,
		log:         log.With().Str("component", "enrollment_service").Logger(),
	}
}

// EnrollStudentInSubjects enrolls one student into a set of subjects
// for a semester, atomically: one invalid subject rolls back every
// enrollment in the call. Non-elective subjects must belong to the
// student's department; completed semesters take no new enrollments.
func (s *EnrollmentService) EnrollStudentInSubjects(ctx context.Context, rollNo int, subjectCodes []string, semNo, year int) (*model.Student, []model.EnrollmentOutcome, error) {
	student, err := s.studentRepo.GetByRollNo(ctx, rollNo)
	if err != nil {
		return nil, nil, err
	}

	semester, err := s.semRepo.Get(ctx, semNo, year)
	if err != nil {
		return nil, nil, err
	}
	if semester.Status == model.SemesterCompleted {
		return nil, nil, ErrSemesterCompleted
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	enrollments := s.enrollRepo.WithTx(tx)
	subjects := s.subjectRepo.WithTx(tx)

	outcomes := make([]model.EnrollmentOutcome, 0, len(subjectCodes))
	for _, code := range subjectCodes {
		subject, err := subjects.GetByCode(ctx, code)
		if err != nil {
			return nil, nil, fmt.Errorf("subject %s: %w", code, err)
		}
		if !subject.IsElective && subject.Department != "" && subject.Department != student.Department {
			return nil, nil, fmt.Errorf("subject %s: %w", code, ErrDepartmentMismatch)
		}

		if err := enrollments.Create(ctx, &model.Enrollment{
			RollNo:      rollNo,
			SubjectCode: subject.Code,
			SemNo:       semNo,
			Year:        year,
		}); err != nil {
			return nil, nil, fmt.Errorf("subject %s: %w", code, err)
		}

		outcomes = append(outcomes, model.EnrollmentOutcome{
			SubjectCode: subject.Code,
			SubjectName: subject.Name,
			Result:      "Enrolled successfully",
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Int("roll_no", rollNo).
		Int("sem_no", semNo).
		Int("year", year).
		Int("subjects", len(outcomes)).
		Msg("Student enrolled")

	return student, outcomes, nil
}

func (s *EnrollmentService) ListForStudentSemester(ctx context.Context, rollNo, semNo, year int) ([]model.Enrollment, error) {
	return s.enrollRepo.ListForStudentSemester(ctx, rollNo, semNo, year)
}

func (s *EnrollmentService) Remove(ctx context.Context, rollNo int, subjectCode string, semNo, year int) error {
	return s.enrollRepo.Delete(ctx, rollNo, subjectCode, semNo, year)
}

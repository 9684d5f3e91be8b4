package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
)

type StudentService struct {
	studentRepo *repository.StudentRepository
	log         zerolog.Logger
}

func NewStudentService(studentRepo *repository.StudentRepository, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

func (s *StudentService) Register(ctx context.Context, student *model.Student) error {
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return err
	}
	s.log.Info().Int("roll_no", student.RollNo).Str("department", student.Department).Msg("Student registered")
	return nil
}

func (s *StudentService) Get(ctx context.Context, rollNo int) (*model.Student, error) {
	return s.studentRepo.GetByRollNo(ctx, rollNo)
}

func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.List(ctx)
}

func (s *StudentService) Update(ctx context.Context, rollNo int, req *model.UpdateStudentRequest) error {
	return s.studentRepo.Update(ctx, rollNo, req)
}

// Delete removes a student and, through schema cascades, every grade,
// history, enrollment, SPI and CPI row that references them.
func (s *StudentService) Delete(ctx context.Context, rollNo int) error {
	if err := s.studentRepo.Delete(ctx, rollNo); err != nil {
		return err
	}
	s.log.Info().Int("roll_no", rollNo).Msg("Student deleted")
	return nil
}

package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
)

type SubjectService struct {
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

func (s *SubjectService) Create(ctx context.Context, sub *model.Subject) error {
	return s.subjectRepo.Create(ctx, sub)
}

func (s *SubjectService) GetByCode(ctx context.Context, code string) (*model.Subject, error) {
	return s.subjectRepo.GetByCode(ctx, code)
}

func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	return s.subjectRepo.List(ctx)
}

func (s *SubjectService) Update(ctx context.Context, code string, req *model.UpdateSubjectRequest) error {
	return s.subjectRepo.Update(ctx, code, req)
}

func (s *SubjectService) Delete(ctx context.Context, code string) error {
	return s.subjectRepo.Delete(ctx, code)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/config"
	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
)

// Domain Errors
var (
	ErrGradeNotRecordable = errors.New("grade cannot be entered through grade sheets")
	ErrInvalidFileName    = errors.New("file name does not match SUBJECTCODE_semN_YYYY pattern")
)

// gradeFileNamePattern encodes the registrar's sheet naming scheme,
// e.g. CS101_sem1_2023.xlsx.
var gradeFileNamePattern = regexp.MustCompile(`(?i)^([A-Z]+\d+)_sem(\d+)_(\d{4})\.(xlsx|csv)$`)

// RecomputePayload is the recompute queue message emitted after grade
// sheet imports; the recompute worker consumes it.
type RecomputePayload struct {
	RollNo int `json:"roll_no"`
	SemNo  int `json:"sem_no"`
	Year   int `json:"year"`
}

// GradeService is the grade ledger: current grades, attempt history
// and the row-tolerant grade sheet import path.
type GradeService struct {
	pool        *pgxpool.Pool
	gradeRepo   *repository.GradeRepository
	studentRepo *repository.StudentRepository
	subjectRepo *repository.SubjectRepository
	semRepo     *repository.SemesterRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

func NewGradeService(
	pool *pgxpool.Pool,
	gradeRepo *repository.GradeRepository,
	studentRepo *repository.StudentRepository,
	subjectRepo *repository.SubjectRepository,
	semRepo *repository.SemesterRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *GradeService {
	return &GradeService{
		pool:        pool,
		gradeRepo:   gradeRepo,
		studentRepo: studentRepo,
		subjectRepo: subjectRepo,
		semRepo:     semRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "grade_service").Logger(),
	}
}

// RecordGrade writes a grade for one (student, subject, semester) key.
// Every call appends exactly one history row: attempt numbers grow
// 1, 2, 3... per key, the newest attempt always carries the current
// grade, and resubmitting the same letter still counts a new attempt
// (the repeated-attempt model wants the retake on record, not
// deduplicated). The grade row and the history row commit together or
// not at all.
func (s *GradeService) RecordGrade(ctx context.Context, rollNo int, subjectCode string, semNo, year int, rawGrade string) (*model.GradeHistoryEntry, error) {
	grade, err := model.ParseGradeLetter(rawGrade)
	if err != nil {
		return nil, err
	}
	if !grade.Recordable() {
		return nil, fmt.Errorf("%w: %s", ErrGradeNotRecordable, grade)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	grades := s.gradeRepo.WithTx(tx)

	// Serialize concurrent writers on this key before reading the
	// attempt counter.
	if _, err := grades.LockKey(ctx, rollNo, subjectCode, semNo, year); err != nil {
		return nil, fmt.Errorf("lock key: %w", err)
	}

	lastAttempt, err := grades.MaxAttempt(ctx, rollNo, subjectCode, semNo, year)
	if err != nil {
		return nil, fmt.Errorf("max attempt: %w", err)
	}

	rec := &model.GradeRecord{
		RollNo:      rollNo,
		SubjectCode: subjectCode,
		SemNo:       semNo,
		Year:        year,
		Grade:       grade,
	}
	if err := grades.UpsertCurrent(ctx, rec); err != nil {
		return nil, err
	}

	entry := &model.GradeHistoryEntry{
		RollNo:      rollNo,
		SubjectCode: subjectCode,
		SemNo:       semNo,
		Year:        year,
		Grade:       grade,
		Attempt:     lastAttempt + 1,
	}
	if err := grades.AppendHistory(ctx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.invalidateStudentCache(ctx, rollNo)
	return entry, nil
}

// CurrentGrade returns the latest grade for a key.
func (s *GradeService) CurrentGrade(ctx context.Context, rollNo int, subjectCode string, semNo, year int) (*model.GradeRecord, error) {
	return s.gradeRepo.GetCurrent(ctx, rollNo, subjectCode, semNo, year)
}

// StudentGrades returns every current grade a student holds.
func (s *GradeService) StudentGrades(ctx context.Context, rollNo int) ([]model.GradeRecord, error) {
	return s.gradeRepo.ListForStudent(ctx, rollNo)
}

// FullHistory returns a student's complete attempt history.
func (s *GradeService) FullHistory(ctx context.Context, rollNo int) ([]model.GradeHistoryEntry, error) {
	return s.gradeRepo.HistoryForStudent(ctx, rollNo)
}

// KeyHistory returns the attempt history for one ledger key.
func (s *GradeService) KeyHistory(ctx context.Context, rollNo int, subjectCode string, semNo, year int) ([]model.GradeHistoryEntry, error) {
	return s.gradeRepo.HistoryForKey(ctx, rollNo, subjectCode, semNo, year)
}

// ImportGrades processes an already-parsed grade sheet. The subject
// and semester come from the sheet's file name and are checked once;
// after that every row stands alone: a bad roll number or grade
// letter fails that row only, and the remaining rows still land.
// This is deliberately weaker than cohort batch computation, which is
// all-or-nothing: a half-imported sheet is recoverable by re-upload,
// a half-computed cohort is not.
func (s *GradeService) ImportGrades(ctx context.Context, subjectCode string, semNo, year int, importRows []model.GradeImportRow) (*model.GradeImportResult, error) {
	if _, err := s.subjectRepo.GetByCode(ctx, subjectCode); err != nil {
		return nil, err
	}
	if _, err := s.semRepo.Get(ctx, semNo, year); err != nil {
		return nil, err
	}

	result := &model.GradeImportResult{
		SubjectCode: subjectCode,
		SemNo:       semNo,
		Year:        year,
		TotalRows:   len(importRows),
	}

	for _, row := range importRows {
		processed, err := s.importRow(ctx, subjectCode, semNo, year, row)
		if err != nil {
			result.Errors = append(result.Errors, model.GradeImportRowError{Row: row, Error: err.Error()})
			continue
		}
		result.Processed = append(result.Processed, *processed)
	}

	s.enqueueRecompute(ctx, result)

	s.log.Info().
		Str("subject", subjectCode).
		Int("sem_no", semNo).
		Int("year", year).
		Int("rows", result.TotalRows).
		Int("processed", len(result.Processed)).
		Int("errors", len(result.Errors)).
		Msg("Grade sheet imported")

	return result, nil
}

func (s *GradeService) importRow(ctx context.Context, subjectCode string, semNo, year int, row model.GradeImportRow) (*model.ProcessedGrade, error) {
	rollStr := strings.TrimSpace(row.RollNo)
	if rollStr == "" || strings.TrimSpace(row.Grade) == "" {
		return nil, errors.New("missing roll number or grade")
	}

	rollNo, err := strconv.Atoi(rollStr)
	if err != nil {
		return nil, fmt.Errorf("roll number %q is not numeric", rollStr)
	}

	if _, err := s.studentRepo.GetByRollNo(ctx, rollNo); err != nil {
		return nil, fmt.Errorf("student %d: %w", rollNo, err)
	}

	entry, err := s.RecordGrade(ctx, rollNo, subjectCode, semNo, year, row.Grade)
	if err != nil {
		return nil, err
	}

	history, err := s.gradeRepo.HistoryForKey(ctx, rollNo, subjectCode, semNo, year)
	if err != nil {
		return nil, err
	}

	return &model.ProcessedGrade{
		RollNo:       rollNo,
		SubjectCode:  subjectCode,
		SemNo:        semNo,
		Year:         year,
		CurrentGrade: entry.Grade,
		History:      history,
	}, nil
}

// enqueueRecompute pushes one recompute request per imported student
// so the recompute worker refreshes SPI/CPI off the request path.
func (s *GradeService) enqueueRecompute(ctx context.Context, result *model.GradeImportResult) {
	if s.rdb == nil {
		return
	}
	seen := make(map[int]bool, len(result.Processed))
	for _, p := range result.Processed {
		if seen[p.RollNo] {
			continue
		}
		seen[p.RollNo] = true

		raw, _ := json.Marshal(RecomputePayload{RollNo: p.RollNo, SemNo: p.SemNo, Year: p.Year})
		if err := s.rdb.RPush(ctx, config.WorkerKey.RecomputeQueue, raw).Err(); err != nil {
			s.log.Warn().Err(err).Int("roll_no", p.RollNo).Msg("Failed to enqueue recompute")
		}
	}
}

func (s *GradeService) invalidateStudentCache(ctx context.Context, rollNo int) {
	invalidateStudentCache(ctx, s.rdb, s.log, rollNo)
}

// ParseGradeFileName extracts (subject code, semester, year) from a
// grade sheet file name such as CS101_sem1_2023.xlsx.
func ParseGradeFileName(fileName string) (subjectCode string, semNo, year int, err error) {
	m := gradeFileNamePattern.FindStringSubmatch(fileName)
	if m == nil {
		return "", 0, 0, ErrInvalidFileName
	}
	subjectCode = strings.ToUpper(m[1])
	semNo, _ = strconv.Atoi(m[2])
	year, _ = strconv.Atoi(m[3])
	return subjectCode, semNo, year, nil
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/acadrec/acadrec-backend/internal/config"
	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
)

// Domain Errors
var (
	ErrNoGradesFound       = errors.New("no grades found for the given student and semester")
	ErrInsufficientCredits = errors.New("no valid credits found for index computation")
	ErrNoStudentsFound     = errors.New("no students found for the given cohort year")
	ErrIndicesNotFound     = errors.New("no SPI or CPI records found up to the given semester")
)

// BatchProgressEvent is published per student on the batch progress
// channel while a cohort run is in flight.
type BatchProgressEvent struct {
	JobID  string `json:"job_id"`
	RollNo int    `json:"roll_no,omitempty"`
	Index  int    `json:"index"`
	Total  int    `json:"total"`
	Stage  string `json:"stage"` // computing | done | failed
	Error  string `json:"error,omitempty"`
}

// PerformanceService computes SPI and CPI, orchestrates cohort batch
// runs and assembles read-side reports. Derived records are always
// recomputed from the store; the service keeps no state between calls.
type PerformanceService struct {
	pool        *pgxpool.Pool
	perfRepo    *repository.PerformanceRepository
	studentRepo *repository.StudentRepository
	semRepo     *repository.SemesterRepository
	enrollRepo  *repository.EnrollmentRepository
	rdb         *redis.Client
	ppPolicy    model.PPPolicy
	chunkSize   int
	cacheTTL    time.Duration
	log         zerolog.Logger
}

func NewPerformanceService(
	pool *pgxpool.Pool,
	perfRepo *repository.PerformanceRepository,
	studentRepo *repository.StudentRepository,
	semRepo *repository.SemesterRepository,
	enrollRepo *repository.EnrollmentRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *PerformanceService {
	return &PerformanceService{
		pool:        pool,
		perfRepo:    perfRepo,
		studentRepo: studentRepo,
		semRepo:     semRepo,
		enrollRepo:  enrollRepo,
		rdb:         rdb,
		ppPolicy:    cfg.PPPolicy,
		chunkSize:   cfg.BatchChunkSize,
		cacheTTL:    time.Duration(cfg.ReportCacheTTLSeconds) * time.Second,
		log:         log.With().Str("component", "performance_service").Logger(),
	}
}

// ComputeSPI computes and persists the Semester Performance Index for
// one (student, semester) inside its own transaction.
func (s *PerformanceService) ComputeSPI(ctx context.Context, rollNo, semNo, year int) (*model.SPIResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.computeSPI(ctx, s.perfRepo.WithTx(tx), rollNo, semNo, year)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	invalidateStudentCache(ctx, s.rdb, s.log, rollNo)
	return result, nil
}

// computeSPI runs against an already-bound repository so batch runs
// can share one transaction scope.
//
// SPI weights each graded subject's points by its catalog credits:
// round(Σ credits·points / Σ credits, 2). The credit source here is
// the grade ledger joined to subjects, not enrollments.
func (s *PerformanceService) computeSPI(ctx context.Context, perf *repository.PerformanceRepository, rollNo, semNo, year int) (*model.SPIResult, error) {
	rows, err := perf.GradedCredits(ctx, rollNo, semNo, year)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoGradesFound
	}

	spi := weightedSPI(rows, s.ppPolicy)

	if err := perf.UpsertSPI(ctx, &model.SPIRecord{
		RollNo: rollNo,
		SemNo:  semNo,
		Year:   year,
		SPI:    spi,
	}); err != nil {
		return nil, fmt.Errorf("upsert spi: %w", err)
	}

	return &model.SPIResult{RollNo: rollNo, SemNo: semNo, Year: year, SPI: spi}, nil
}

// ComputeCPI computes and persists the Cumulative Performance Index
// as of a semester inside its own transaction.
func (s *PerformanceService) ComputeCPI(ctx context.Context, rollNo, semNo, year int) (*model.CPIResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.computeCPI(ctx, s.perfRepo.WithTx(tx), s.studentRepo.WithTx(tx), rollNo, semNo, year)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	invalidateStudentCache(ctx, s.rdb, s.log, rollNo)
	return result, nil
}

// computeCPI weights each semester's SPI by the credits the student
// was enrolled for that semester, a different credit source than
// SPI's, so enrolled-but-ungraded and graded-but-unenrolled semesters
// can diverge. Rows missing either side are skipped, not zeroed.
func (s *PerformanceService) computeCPI(ctx context.Context, perf *repository.PerformanceRepository, students *repository.StudentRepository, rollNo, semNo, year int) (*model.CPIResult, error) {
	rows, err := perf.EnrolledCreditsPerSemester(ctx, rollNo, semNo)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoGradesFound
	}

	student, err := students.GetByRollNo(ctx, rollNo)
	if err != nil {
		return nil, err
	}

	cpi, totalCredits := weightedCPI(rows)
	if totalCredits == 0 {
		return nil, ErrInsufficientCredits
	}

	if err := perf.UpsertCPI(ctx, &model.CPIRecord{
		RollNo: rollNo,
		SemNo:  semNo,
		Year:   year,
		CPI:    round2(cpi),
	}); err != nil {
		return nil, fmt.Errorf("upsert cpi: %w", err)
	}

	return &model.CPIResult{
		RollNo:      rollNo,
		StudentName: student.Name,
		SemNo:       semNo,
		CPI:         fmt.Sprintf("%.2f", cpi),
	}, nil
}

// BatchCompute runs SPI then CPI for every student in a cohort year,
// sequentially. With chunk size 0 (the default) the entire cohort
// shares one transaction: any failure rolls everything back. A
// positive chunk size trades that guarantee for shorter transactions;
// each chunk is still atomic, but completed chunks survive a later
// failure. Large cohorts hold row locks for the whole run in
// single-transaction mode, so deployments with big intakes should set
// a chunk size.
func (s *PerformanceService) BatchCompute(ctx context.Context, cohortYear, semNo, currentYear int) (*model.BatchComputeResult, error) {
	rolls, err := s.studentRepo.ListRollNosByYear(ctx, cohortYear)
	if err != nil {
		return nil, err
	}
	if len(rolls) == 0 {
		return nil, ErrNoStudentsFound
	}

	result := &model.BatchComputeResult{
		JobID:      uuid.New().String(),
		SPIResults: make([]model.SPIResult, 0, len(rolls)),
		CPIResults: make([]model.CPIResult, 0, len(rolls)),
	}

	s.log.Info().
		Str("job_id", result.JobID).
		Int("cohort_year", cohortYear).
		Int("sem_no", semNo).
		Int("students", len(rolls)).
		Int("chunk_size", s.chunkSize).
		Msg("Batch computation started")

	processed := 0
	for _, chunk := range chunkRolls(rolls, s.chunkSize) {
		if err := s.computeChunk(ctx, chunk, semNo, currentYear, result, len(rolls), &processed); err != nil {
			s.publishProgress(ctx, BatchProgressEvent{
				JobID: result.JobID,
				Index: processed,
				Total: len(rolls),
				Stage: "failed",
				Error: err.Error(),
			})
			return nil, err
		}
	}

	result.StudentsProcessed = processed

	for _, roll := range rolls {
		invalidateStudentCache(ctx, s.rdb, s.log, roll)
	}

	s.publishProgress(ctx, BatchProgressEvent{
		JobID: result.JobID,
		Index: processed,
		Total: len(rolls),
		Stage: "done",
	})

	s.log.Info().
		Str("job_id", result.JobID).
		Int("students_processed", processed).
		Msg("Batch computation finished")

	return result, nil
}

// computeChunk processes one chunk of roll numbers under a single
// transaction. Students are independent of each other; the shared
// transaction exists only for the atomicity guarantee.
func (s *PerformanceService) computeChunk(ctx context.Context, rolls []int, semNo, currentYear int, result *model.BatchComputeResult, total int, processed *int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	perf := s.perfRepo.WithTx(tx)
	students := s.studentRepo.WithTx(tx)

	for _, roll := range rolls {
		s.publishProgress(ctx, BatchProgressEvent{
			JobID:  result.JobID,
			RollNo: roll,
			Index:  *processed + 1,
			Total:  total,
			Stage:  "computing",
		})

		spiRes, err := s.computeSPI(ctx, perf, roll, semNo, currentYear)
		if err != nil {
			return fmt.Errorf("student %d spi: %w", roll, err)
		}
		cpiRes, err := s.computeCPI(ctx, perf, students, roll, semNo, currentYear)
		if err != nil {
			return fmt.Errorf("student %d cpi: %w", roll, err)
		}

		result.SPIResults = append(result.SPIResults, *spiRes)
		result.CPIResults = append(result.CPIResults, *cpiRes)
		*processed++
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PerformanceService) publishProgress(ctx context.Context, ev BatchProgressEvent) {
	if s.rdb == nil {
		return
	}
	raw, _ := json.Marshal(ev)
	if err := s.rdb.Publish(ctx, config.CacheKey.BatchProgressChannel(ev.JobID), raw).Err(); err != nil {
		s.log.Warn().Err(err).Str("job_id", ev.JobID).Msg("Progress publish failed")
	}
}

// GetAllIndices returns the SPI and CPI series up to a semester,
// ordered ascending. Read-through cached.
func (s *PerformanceService) GetAllIndices(ctx context.Context, rollNo, semNo, year int) (*model.IndexSeries, error) {
	cacheKey := config.CacheKey.StudentIndicesKey(rollNo, semNo)
	var cached model.IndexSeries
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	spiSeries, err := s.perfRepo.SPISeries(ctx, rollNo, semNo)
	if err != nil {
		return nil, err
	}
	if len(spiSeries) == 0 {
		return nil, ErrIndicesNotFound
	}

	cpiSeries, err := s.perfRepo.CPISeries(ctx, rollNo, semNo)
	if err != nil {
		return nil, err
	}
	if len(cpiSeries) == 0 {
		return nil, ErrIndicesNotFound
	}

	series := &model.IndexSeries{
		RollNo: rollNo,
		SemNo:  semNo,
		Year:   year,
		SPI:    spiSeries,
		CPI:    cpiSeries,
	}
	s.cacheSet(ctx, cacheKey, series)
	return series, nil
}

// GenerateReport assembles the grade-card snapshot: student and
// semester info, enrollments, graded subjects with credits and the
// SPI/CPI series up to the semester. Pure read-side; nothing is
// recomputed here.
func (s *PerformanceService) GenerateReport(ctx context.Context, rollNo, semNo, year int) (*model.StudentReport, error) {
	cacheKey := config.CacheKey.StudentReportKey(rollNo, semNo, year)
	var cached model.StudentReport
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	student, err := s.studentRepo.GetByRollNo(ctx, rollNo)
	if err != nil {
		return nil, err
	}

	semester, err := s.semRepo.Get(ctx, semNo, year)
	if err != nil {
		return nil, err
	}

	grades, err := s.perfRepo.GradedCreditsUpTo(ctx, rollNo, semNo)
	if err != nil {
		return nil, err
	}
	if len(grades) == 0 {
		return nil, ErrNoGradesFound
	}

	spiSeries, err := s.perfRepo.SPISeries(ctx, rollNo, semNo)
	if err != nil {
		return nil, err
	}
	if len(spiSeries) == 0 {
		return nil, ErrIndicesNotFound
	}

	cpiSeries, err := s.perfRepo.CPISeries(ctx, rollNo, semNo)
	if err != nil {
		return nil, err
	}
	if len(cpiSeries) == 0 {
		return nil, ErrIndicesNotFound
	}

	enrollments, err := s.enrollRepo.ListForStudentSemester(ctx, rollNo, semNo, year)
	if err != nil {
		return nil, err
	}

	report := &model.StudentReport{
		Student:     *student,
		Semester:    *semester,
		Enrollments: enrollments,
		Grades:      grades,
		SPIData:     spiSeries,
		CPIData:     cpiSeries,
	}
	s.cacheSet(ctx, cacheKey, report)
	return report, nil
}

func (s *PerformanceService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache decode failed")
		return false
	}
	return true
}

func (s *PerformanceService) cacheSet(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// ────────────────────────────────────────────────────────────────────
// Index math
// ────────────────────────────────────────────────────────────────────

// weightedSPI computes the credit-weighted grade point mean, rounded
// to two decimals. Zero participating credits yields 0, never a
// division error.
func weightedSPI(rows []model.GradeWithCredits, policy model.PPPolicy) float64 {
	var weightedPoints float64
	var totalCredits int

	for _, row := range rows {
		points, counted := row.Grade.Points(policy)
		if !counted {
			continue
		}
		weightedPoints += float64(row.Credits) * points
		totalCredits += row.Credits
	}

	if totalCredits == 0 {
		return 0
	}
	return round2(weightedPoints / float64(totalCredits))
}

// weightedCPI computes the enrollment-credit-weighted mean of SPI
// values. Semesters missing an SPI or credits are skipped entirely.
// The unrounded mean and the credit total are returned so callers can
// distinguish "zero credits" from "mean is zero".
func weightedCPI(rows []model.SemesterSPICredits) (cpi float64, totalCredits int) {
	var weightedPoints float64

	for _, row := range rows {
		if row.SPI == nil || row.Credits == nil || *row.Credits == 0 {
			continue
		}
		weightedPoints += *row.SPI * float64(*row.Credits)
		totalCredits += *row.Credits
	}

	if totalCredits == 0 {
		return 0, 0
	}
	return weightedPoints / float64(totalCredits), totalCredits
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// chunkRolls splits a cohort into chunks of size n. A non-positive n
// keeps the whole cohort in one chunk (single-transaction mode).
func chunkRolls(rolls []int, n int) [][]int {
	if n <= 0 || n >= len(rolls) {
		return [][]int{rolls}
	}
	var chunks [][]int
	for start := 0; start < len(rolls); start += n {
		end := start + n
		if end > len(rolls) {
			end = len(rolls)
		}
		chunks = append(chunks, rolls[start:end])
	}
	return chunks
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadrec/acadrec-backend/internal/model"
)

// PerformanceRepository owns the SPI and CPI tables and the two credit
// resolution queries behind them. SPI reads credits through the grade
// ledger (graded-subject credits); CPI reads credits through
// enrollments (enrolled credits). The two sources can diverge and the
// calculators depend on which one they see, so the queries are kept
// separate and named after their source.
type PerformanceRepository struct {
	db DB
}

func NewPerformanceRepository(pool *pgxpool.Pool) *PerformanceRepository {
	return &PerformanceRepository{db: pool}
}

func (r *PerformanceRepository) WithTx(tx pgx.Tx) *PerformanceRepository {
	return &PerformanceRepository{db: tx}
}

// GradedCredits returns a student's current grades in one semester
// joined to subject credit weights, the SPI credit source.
func (r *PerformanceRepository) GradedCredits(ctx context.Context, rollNo, semNo, year int) ([]model.GradeWithCredits, error) {
	rows, err := r.db.Query(ctx,
		`SELECT g.roll_no, g.subject_code, g.sem_no, g.year, g.grade, s.credits
		 FROM grades g
		 JOIN subjects s ON g.subject_code = s.code
		 WHERE g.roll_no = $1 AND g.sem_no = $2 AND g.year = $3
		 ORDER BY g.subject_code ASC`,
		rollNo, semNo, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGradesWithCredits(rows)
}

// GradedCreditsUpTo returns every current grade with credits for
// semesters up to and including semNo, for report assembly.
func (r *PerformanceRepository) GradedCreditsUpTo(ctx context.Context, rollNo, semNo int) ([]model.GradeWithCredits, error) {
	rows, err := r.db.Query(ctx,
		`SELECT g.roll_no, g.subject_code, g.sem_no, g.year, g.grade, s.credits
		 FROM grades g
		 JOIN subjects s ON g.subject_code = s.code
		 WHERE g.roll_no = $1 AND g.sem_no <= $2
		 ORDER BY g.sem_no ASC, g.subject_code ASC`,
		rollNo, semNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGradesWithCredits(rows)
}

// EnrolledCreditsPerSemester joins the student's SPI rows up to semNo
// with the sum of enrolled credits per semester, the CPI credit
// source. Semesters with an SPI but no enrollments (or the reverse)
// surface with a nil SPI or nil credits; the calculator decides how
// to treat them.
func (r *PerformanceRepository) EnrolledCreditsPerSemester(ctx context.Context, rollNo, semNo int) ([]model.SemesterSPICredits, error) {
	rows, err := r.db.Query(ctx,
		`SELECT spi.sem_no, spi.year, spi.value, SUM(s.credits)
		 FROM spi
		 LEFT JOIN enrollments e
		   ON spi.roll_no = e.roll_no AND spi.sem_no = e.sem_no AND spi.year = e.year
		 LEFT JOIN subjects s ON e.subject_code = s.code
		 WHERE spi.roll_no = $1 AND spi.sem_no <= $2
		 GROUP BY spi.sem_no, spi.year, spi.value
		 ORDER BY spi.sem_no ASC`,
		rollNo, semNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SemesterSPICredits
	for rows.Next() {
		var sc model.SemesterSPICredits
		if err := rows.Scan(&sc.SemNo, &sc.Year, &sc.SPI, &sc.Credits); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// UpsertSPI overwrites the SPI record for (student, semester).
func (r *PerformanceRepository) UpsertSPI(ctx context.Context, rec *model.SPIRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO spi (roll_no, sem_no, year, value)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (roll_no, sem_no, year)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		rec.RollNo, rec.SemNo, rec.Year, rec.SPI,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// UpsertCPI overwrites the CPI record for (student, semester).
func (r *PerformanceRepository) UpsertCPI(ctx context.Context, rec *model.CPIRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO cpi (roll_no, sem_no, year, value)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (roll_no, sem_no, year)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		rec.RollNo, rec.SemNo, rec.Year, rec.CPI,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

// SPISeries returns SPI rows with sem_no <= semNo, ascending.
func (r *PerformanceRepository) SPISeries(ctx context.Context, rollNo, semNo int) ([]model.SPIRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT roll_no, sem_no, year, value, created_at, updated_at
		 FROM spi WHERE roll_no = $1 AND sem_no <= $2
		 ORDER BY sem_no ASC`,
		rollNo, semNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []model.SPIRecord
	for rows.Next() {
		var rec model.SPIRecord
		if err := rows.Scan(&rec.RollNo, &rec.SemNo, &rec.Year, &rec.SPI, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		series = append(series, rec)
	}
	return series, rows.Err()
}

// CPISeries returns CPI rows with sem_no <= semNo, ascending.
func (r *PerformanceRepository) CPISeries(ctx context.Context, rollNo, semNo int) ([]model.CPIRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT roll_no, sem_no, year, value, created_at, updated_at
		 FROM cpi WHERE roll_no = $1 AND sem_no <= $2
		 ORDER BY sem_no ASC`,
		rollNo, semNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []model.CPIRecord
	for rows.Next() {
		var rec model.CPIRecord
		if err := rows.Scan(&rec.RollNo, &rec.SemNo, &rec.Year, &rec.CPI, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		series = append(series, rec)
	}
	return series, rows.Err()
}

func scanGradesWithCredits(rows pgx.Rows) ([]model.GradeWithCredits, error) {
	var out []model.GradeWithCredits
	for rows.Next() {
		var g model.GradeWithCredits
		if err := rows.Scan(&g.RollNo, &g.SubjectCode, &g.SemNo, &g.Year, &g.Grade, &g.Credits); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

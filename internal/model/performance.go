package model

import "time"

// SPIRecord is the Semester Performance Index for one (student,
// semester). Computed, never entered; recomputation overwrites.
type SPIRecord struct {
	RollNo    int       `json:"roll_no"`
	SemNo     int       `json:"sem_no"`
	Year      int       `json:"year"`
	SPI       float64   `json:"spi"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CPIRecord is the Cumulative Performance Index as of a semester.
type CPIRecord struct {
	RollNo    int       `json:"roll_no"`
	SemNo     int       `json:"sem_no"`
	Year      int       `json:"year"`
	CPI       float64   `json:"cpi"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComputeRequest addresses one (student, semester) computation.
type ComputeRequest struct {
	RollNo int `json:"roll_no" binding:"required,min=1"`
	SemNo  int `json:"sem_no" binding:"required,min=1,max=12"`
	Year   int `json:"year" binding:"required,min=1900,max=2200"`
}

// SPIResult is returned by an SPI computation.
type SPIResult struct {
	RollNo int     `json:"roll_no"`
	SemNo  int     `json:"sem_no"`
	Year   int     `json:"year"`
	SPI    float64 `json:"spi"`
}

// CPIResult is returned by a CPI computation. CPI is formatted to two
// decimals as a string for grade-card display.
type CPIResult struct {
	RollNo      int    `json:"roll_no"`
	StudentName string `json:"student_name"`
	SemNo       int    `json:"sem_no"`
	CPI         string `json:"cpi"`
}

// BatchComputeRequest runs SPI+CPI for a whole cohort.
type BatchComputeRequest struct {
	CohortYear  int `json:"cohort_year" binding:"required,min=1900,max=2200"`
	SemNo       int `json:"sem_no" binding:"required,min=1,max=12"`
	CurrentYear int `json:"current_year" binding:"required,min=1900,max=2200"`
}

// BatchComputeResult aggregates a cohort run.
type BatchComputeResult struct {
	JobID             string      `json:"job_id"`
	StudentsProcessed int         `json:"students_processed"`
	SPIResults        []SPIResult `json:"spi_results"`
	CPIResults        []CPIResult `json:"cpi_results"`
}

// IndexSeries holds SPI and CPI rows up to a semester, ascending.
type IndexSeries struct {
	RollNo int         `json:"roll_no"`
	SemNo  int         `json:"sem_no"`
	Year   int         `json:"year"`
	SPI    []SPIRecord `json:"spi_data"`
	CPI    []CPIRecord `json:"cpi_data"`
}

// GradeWithCredits is a ledger row joined to its subject credits,
// used by SPI computation and report assembly.
type GradeWithCredits struct {
	RollNo      int         `json:"roll_no"`
	SubjectCode string      `json:"subject_code"`
	SemNo       int         `json:"sem_no"`
	Year        int         `json:"year"`
	Grade       GradeLetter `json:"grade"`
	Credits     int         `json:"credits"`
}

// SemesterSPICredits is one semester's SPI joined to the student's
// enrolled credits for that semester, used by CPI computation.
// SPI or Credits may be absent when the two sources diverge
// (enrolled-but-ungraded or graded-without-enrollment).
type SemesterSPICredits struct {
	SemNo   int
	Year    int
	SPI     *float64
	Credits *int
}

// StudentReport is the read-side snapshot consumed by grade-card
// rendering. Nothing in it is recomputed.
type StudentReport struct {
	Student     Student            `json:"student_info"`
	Semester    Semester           `json:"semester_info"`
	Enrollments []Enrollment       `json:"enrollments"`
	Grades      []GradeWithCredits `json:"grades_data"`
	SPIData     []SPIRecord        `json:"spi_data"`
	CPIData     []CPIRecord        `json:"cpi_data"`
}

package model

import "time"

// SemesterStatus enumerates the lifecycle states of a semester.
type SemesterStatus string

const (
	SemesterUpcoming  SemesterStatus = "UPCOMING"
	SemesterOngoing   SemesterStatus = "ONGOING"
	SemesterCompleted SemesterStatus = "COMPLETED"
)

// Semester is identified by the composite (SemNo, Year). Every
// enrollment, grade, SPI and CPI row references an existing semester.
type Semester struct {
	SemNo     int            `json:"sem_no"`
	Year      int            `json:"year"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	Status    SemesterStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateSemesterRequest is the payload for creating a semester.
type CreateSemesterRequest struct {
	SemNo     int       `json:"sem_no" binding:"required,min=1,max=12"`
	Year      int       `json:"year" binding:"required,min=1900,max=2200"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required,gtfield=StartDate"`
}

// UpdateSemesterRequest edits dates or lifecycle status.
type UpdateSemesterRequest struct {
	StartDate *time.Time      `json:"start_date" binding:"omitempty"`
	EndDate   *time.Time      `json:"end_date" binding:"omitempty"`
	Status    *SemesterStatus `json:"status" binding:"omitempty,oneof=UPCOMING ONGOING COMPLETED"`
}

// StartSemesterRequest creates a semester and applies cohort
// promotions in one transaction.
type StartSemesterRequest struct {
	Semester   CreateSemesterRequest `json:"semester" binding:"required"`
	Promotions []StudentPromotion    `json:"promotions" binding:"omitempty,dive"`
}

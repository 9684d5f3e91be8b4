package model

import "time"

// Student represents a registered student. RollNo is assigned by the
// admissions office and never changes; Year is the enrollment cohort
// year and is bumped on promotion.
type Student struct {
	RollNo     int       `json:"roll_no"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Year       int       `json:"year"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RegisterStudentRequest is the payload for registering a student.
type RegisterStudentRequest struct {
	RollNo     int    `json:"roll_no" binding:"required,min=1"`
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Department string `json:"department" binding:"required,min=2,max=50"`
	Year       int    `json:"year" binding:"required,min=1900,max=2200"`
}

// UpdateStudentRequest is the payload for updating a student.
// Omitted fields keep their current value.
type UpdateStudentRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Department *string `json:"department" binding:"omitempty,min=2,max=50"`
	Year       *int    `json:"year" binding:"omitempty,min=1900,max=2200"`
}

// StudentPromotion moves a student into a new cohort year when a
// semester rolls over.
type StudentPromotion struct {
	RollNo  int `json:"roll_no" binding:"required,min=1"`
	NewYear int `json:"new_year" binding:"required,min=1900,max=2200"`
}

package model

import "time"

// Enrollment records that a student takes a subject in a semester.
// Unique per (RollNo, SubjectCode, SemNo, Year). Enrollment credits
// are the credit source for CPI, independently of graded credits.
type Enrollment struct {
	RollNo      int       `json:"roll_no"`
	SubjectCode string    `json:"subject_code"`
	SemNo       int       `json:"sem_no"`
	Year        int       `json:"year"`
	SubjectName string    `json:"subject_name,omitempty"`
	Credits     int       `json:"credits,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// EnrollRequest enrolls a student into a set of subjects for a semester.
type EnrollRequest struct {
	RollNo       int      `json:"roll_no" binding:"required,min=1"`
	SubjectCodes []string `json:"subject_codes" binding:"required,min=1,dive,min=2,max=50"`
	SemNo        int      `json:"sem_no" binding:"required,min=1,max=12"`
	Year         int      `json:"year" binding:"required,min=1900,max=2200"`
}

// EnrollmentOutcome is the per-subject result of an enroll call.
type EnrollmentOutcome struct {
	SubjectCode string `json:"subject_code"`
	SubjectName string `json:"subject_name"`
	Result      string `json:"result"`
}

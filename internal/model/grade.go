package model

import (
	"fmt"
	"strings"
	"time"
)

// GradeLetter enumerates every grade the institute can award.
// AA..F carry grade points; PP/NP/I are pass, no-pass and incomplete
// outcomes whose index treatment is governed by PPPolicy.
type GradeLetter string

const (
	GradeAA GradeLetter = "AA"
	GradeAB GradeLetter = "AB"
	GradeBB GradeLetter = "BB"
	GradeBC GradeLetter = "BC"
	GradeCC GradeLetter = "CC"
	GradeCD GradeLetter = "CD"
	GradeDD GradeLetter = "DD"
	GradeF  GradeLetter = "F"
	GradePP GradeLetter = "PP"
	GradeNP GradeLetter = "NP"
	GradeI  GradeLetter = "I"
)

// ErrUnknownGrade is returned when a grade string is outside the enum.
type ErrUnknownGrade struct {
	Value string
}

func (e *ErrUnknownGrade) Error() string {
	return fmt.Sprintf("unknown grade %q", e.Value)
}

// ParseGradeLetter normalizes and validates a raw grade string.
// Anything outside the enum is an error, never a silent zero.
func ParseGradeLetter(raw string) (GradeLetter, error) {
	g := GradeLetter(strings.ToUpper(strings.TrimSpace(raw)))
	switch g {
	case GradeAA, GradeAB, GradeBB, GradeBC, GradeCC, GradeCD, GradeDD, GradeF, GradePP, GradeNP, GradeI:
		return g, nil
	}
	return "", &ErrUnknownGrade{Value: raw}
}

// Recordable reports whether the grade may be written to the ledger
// through the grade entry endpoints. NP and I are assigned by the
// registrar elsewhere and never arrive through grade sheets.
func (g GradeLetter) Recordable() bool {
	switch g {
	case GradeAA, GradeAB, GradeBB, GradeBC, GradeCC, GradeCD, GradeDD, GradeF:
		return true
	}
	return false
}

// Points returns the grade points for index computation. The second
// return reports whether the grade participates in the weighted mean
// under the given policy; excluded grades contribute to neither the
// numerator nor the denominator.
func (g GradeLetter) Points(policy PPPolicy) (float64, bool) {
	switch g {
	case GradeAA:
		return 10, true
	case GradeAB:
		return 9, true
	case GradeBB:
		return 8, true
	case GradeBC:
		return 7, true
	case GradeCC:
		return 6, true
	case GradeCD:
		return 5, true
	case GradeDD:
		return 4, true
	case GradeF:
		return 0, true
	case GradePP:
		if policy == PPPolicyCredit {
			return 1, true
		}
		return 0, false
	}
	// NP and I never enter index math.
	return 0, false
}

// PPPolicy selects how the PP (pass) grade enters SPI computation.
// The academic handbook and the registrar's grade sheet disagree on
// this, so both readings stay available.
type PPPolicy string

const (
	// PPPolicyCredit counts PP as 1 grade point with its credits in
	// the denominator (registrar behavior).
	PPPolicyCredit PPPolicy = "credit"
	// PPPolicyExclude drops PP subjects from the weighted mean
	// entirely (handbook wording).
	PPPolicyExclude PPPolicy = "exclude"
)

// ParsePPPolicy validates a policy string from configuration.
func ParsePPPolicy(raw string) (PPPolicy, error) {
	switch PPPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case PPPolicyCredit:
		return PPPolicyCredit, nil
	case PPPolicyExclude:
		return PPPolicyExclude, nil
	}
	return "", fmt.Errorf("unknown pp policy %q", raw)
}

// GradeRecord is the current grade for a (student, subject, semester) key.
type GradeRecord struct {
	RollNo      int         `json:"roll_no"`
	SubjectCode string      `json:"subject_code"`
	SemNo       int         `json:"sem_no"`
	Year        int         `json:"year"`
	Grade       GradeLetter `json:"grade"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// GradeHistoryEntry is one attempt in the append-only grade history.
type GradeHistoryEntry struct {
	ID          int         `json:"id"`
	RollNo      int         `json:"roll_no"`
	SubjectCode string      `json:"subject_code"`
	SemNo       int         `json:"sem_no"`
	Year        int         `json:"year"`
	Grade       GradeLetter `json:"grade"`
	Attempt     int         `json:"attempt"`
	CreatedAt   time.Time   `json:"created_at"`
}

// RecordGradeRequest is the payload for recording a single grade.
type RecordGradeRequest struct {
	RollNo      int    `json:"roll_no" binding:"required,min=1"`
	SubjectCode string `json:"subject_code" binding:"required,min=2,max=50"`
	SemNo       int    `json:"sem_no" binding:"required,min=1,max=12"`
	Year        int    `json:"year" binding:"required,min=1900,max=2200"`
	Grade       string `json:"grade" binding:"required,min=1,max=2"`
}

// GradeImportRow is one already-parsed row of a grade sheet.
type GradeImportRow struct {
	RollNo string `json:"roll_no"`
	Grade  string `json:"grade"`
}

// GradeImportRowError pairs a rejected row with the reason it failed.
type GradeImportRowError struct {
	Row   GradeImportRow `json:"row"`
	Error string         `json:"error"`
}

// ProcessedGrade is the per-row result of a grade sheet import.
type ProcessedGrade struct {
	RollNo       int                 `json:"roll_no"`
	SubjectCode  string              `json:"subject_code"`
	SemNo        int                 `json:"sem_no"`
	Year         int                 `json:"year"`
	CurrentGrade GradeLetter         `json:"current_grade"`
	History      []GradeHistoryEntry `json:"grade_history"`
}

// GradeImportResult aggregates row-level successes and failures.
// Imports are deliberately row-tolerant: a bad row never aborts the
// remaining rows.
type GradeImportResult struct {
	SubjectCode string                `json:"subject_code"`
	SemNo       int                   `json:"sem_no"`
	Year        int                   `json:"year"`
	Processed   []ProcessedGrade      `json:"processed_grades"`
	Errors      []GradeImportRowError `json:"errors,omitempty"`
	TotalRows   int                   `json:"total_rows"`
}

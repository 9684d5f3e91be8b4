package model

import "time"

// Subject is a catalog entry. Code is the immutable key; everything
// else may be edited until grades reference the subject.
type Subject struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Credits    int       `json:"credits"`
	IsElective bool      `json:"is_elective"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateSubjectRequest is the payload for adding a catalog entry.
type CreateSubjectRequest struct {
	Code       string `json:"code" binding:"required,min=2,max=50"`
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Credits    int    `json:"credits" binding:"required,min=1,max=30"`
	IsElective bool   `json:"is_elective"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

// UpdateSubjectRequest edits the non-key fields of a subject.
type UpdateSubjectRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Credits    *int    `json:"credits" binding:"omitempty,min=1,max=30"`
	IsElective *bool   `json:"is_elective" binding:"omitempty"`
	Department *string `json:"department" binding:"omitempty,max=100"`
}

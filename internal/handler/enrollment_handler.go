package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
	"github.com/acadrec/acadrec-backend/internal/response"
	"github.com/acadrec/acadrec-backend/internal/service"
	"github.com/acadrec/acadrec-backend/internal/validator"
)

type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Enroll godoc
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, outcomes, err := h.enrollmentService.EnrollStudentInSubjects(
		c.Request.Context(), req.RollNo, req.SubjectCodes, req.SemNo, req.Year)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStudentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		case errors.Is(err, repository.ErrSemesterNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSemesterNotFound)
		case errors.Is(err, service.ErrSemesterCompleted):
			response.Fail(c, http.StatusConflict, response.ErrSemesterCompleted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"student":  student,
		"outcomes": outcomes,
	})
}

// ListForStudent godoc
// GET /api/v1/students/:roll_no/enrollments?sem_no=&year=
func (h *EnrollmentHandler) ListForStudent(c *gin.Context) {
	rollNo, err := strconv.Atoi(c.Param("roll_no"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	semNo, err := strconv.Atoi(c.Query("sem_no"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	enrollments, err := h.enrollmentService.ListForStudentSemester(c.Request.Context(), rollNo, semNo, year)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// Remove godoc
// DELETE /api/v1/students/:roll_no/enrollments/:code?sem_no=&year=
func (h *EnrollmentHandler) Remove(c *gin.Context) {
	rollNo, err := strconv.Atoi(c.Param("roll_no"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	semNo, err := strconv.Atoi(c.Query("sem_no"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if err := h.enrollmentService.Remove(c.Request.Context(), rollNo, c.Param("code"), semNo, year); err != nil {
		if errors.Is(err, repository.ErrEnrollmentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "enrollment removed successfully"})
}

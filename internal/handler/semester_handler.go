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

type SemesterHandler struct {
	semesterService *service.SemesterService
}

func NewSemesterHandler(semesterService *service.SemesterService) *SemesterHandler {
	return &SemesterHandler{semesterService: semesterService}
}

// Create godoc
// POST /api/v1/semesters
func (h *SemesterHandler) Create(c *gin.Context) {
	var req model.CreateSemesterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sem := &model.Semester{
		SemNo:     req.SemNo,
		Year:      req.Year,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := h.semesterService.Create(c.Request.Context(), sem); err != nil {
		if errors.Is(err, repository.ErrDuplicateSemester) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"semester": sem})
}

// GetAll godoc
// GET /api/v1/semesters
func (h *SemesterHandler) GetAll(c *gin.Context) {
	semesters, err := h.semesterService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if semesters == nil {
		semesters = []model.Semester{}
	}
	response.Success(c, http.StatusOK, gin.H{"semesters": semesters})
}

// Get godoc
// GET /api/v1/semesters/:sem_no/:year
func (h *SemesterHandler) Get(c *gin.Context) {
	semNo, year, ok := semesterParams(c)
	if !ok {
		return
	}

	sem, err := h.semesterService.Get(c.Request.Context(), semNo, year)
	if err != nil {
		if errors.Is(err, repository.ErrSemesterNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSemesterNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"semester": sem})
}

// Update godoc
// PUT /api/v1/semesters/:sem_no/:year
func (h *SemesterHandler) Update(c *gin.Context) {
	semNo, year, ok := semesterParams(c)
	if !ok {
		return
	}

	var req model.UpdateSemesterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.semesterService.Update(c.Request.Context(), semNo, year, &req); err != nil {
		if errors.Is(err, repository.ErrSemesterNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSemesterNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "semester updated successfully"})
}

// StartNew godoc
// POST /api/v1/semesters/start
//
// Creates the semester and applies cohort promotions in one
// transaction; either both land or neither does.
func (h *SemesterHandler) StartNew(c *gin.Context) {
	var req model.StartSemesterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sem := &model.Semester{
		SemNo:     req.Semester.SemNo,
		Year:      req.Semester.Year,
		StartDate: req.Semester.StartDate,
		EndDate:   req.Semester.EndDate,
		Status:    model.SemesterOngoing,
	}
	if err := h.semesterService.StartNewSemester(c.Request.Context(), sem, req.Promotions); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSemester):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, repository.ErrStudentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"semester":   sem,
		"promotions": len(req.Promotions),
	})
}

func semesterParams(c *gin.Context) (semNo, year int, ok bool) {
	semNo, err := strconv.Atoi(c.Param("sem_no"))
	if err != nil || semNo < 1 || semNo > 12 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, 0, false
	}
	year, err = strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 2200 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, 0, false
	}
	return semNo, year, true
}

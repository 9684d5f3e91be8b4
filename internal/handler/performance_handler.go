package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acadrec/acadrec-backend/internal/model"
	"github.com/acadrec/acadrec-backend/internal/repository"
	"github.com/acadrec/acadrec-backend/internal/response"
	"github.com/acadrec/acadrec-backend/internal/service"
	"github.com/acadrec/acadrec-backend/internal/validator"
)

type PerformanceHandler struct {
	perfService      *service.PerformanceService
	gradeCardService *service.GradeCardService
}

func NewPerformanceHandler(perfService *service.PerformanceService, gradeCardService *service.GradeCardService) *PerformanceHandler {
	return &PerformanceHandler{
		perfService:      perfService,
		gradeCardService: gradeCardService,
	}
}

// ComputeSPI godoc
// POST /api/v1/performance/spi
func (h *PerformanceHandler) ComputeSPI(c *gin.Context) {
	var req model.ComputeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.perfService.ComputeSPI(c.Request.Context(), req.RollNo, req.SemNo, req.Year)
	if err != nil {
		h.failCompute(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"spi": result})
}

// ComputeCPI godoc
// POST /api/v1/performance/cpi
func (h *PerformanceHandler) ComputeCPI(c *gin.Context) {
	var req model.ComputeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.perfService.ComputeCPI(c.Request.Context(), req.RollNo, req.SemNo, req.Year)
	if err != nil {
		h.failCompute(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cpi": result})
}

// BatchCompute godoc
// POST /api/v1/performance/batch
//
// Runs SPI and CPI for a whole cohort. Progress events stream over
// the batch progress WebSocket identified by the returned job_id.
func (h *PerformanceHandler) BatchCompute(c *gin.Context) {
	var req model.BatchComputeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.perfService.BatchCompute(c.Request.Context(), req.CohortYear, req.SemNo, req.CurrentYear)
	if err != nil {
		if errors.Is(err, service.ErrNoStudentsFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNoStudentsFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"batch": result})
}

// GetIndices godoc
// GET /api/v1/students/:roll_no/indices?sem_no=&year=
func (h *PerformanceHandler) GetIndices(c *gin.Context) {
	rollNo, semNo, year, ok := performanceParams(c)
	if !ok {
		return
	}

	series, err := h.perfService.GetAllIndices(c.Request.Context(), rollNo, semNo, year)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStudentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		case errors.Is(err, service.ErrIndicesNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrIndicesNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"indices": series})
}

// GetReport godoc
// GET /api/v1/students/:roll_no/report?sem_no=&year=
func (h *PerformanceHandler) GetReport(c *gin.Context) {
	rollNo, semNo, year, ok := performanceParams(c)
	if !ok {
		return
	}

	report, err := h.perfService.GenerateReport(c.Request.Context(), rollNo, semNo, year)
	if err != nil {
		h.failCompute(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// GetReportPDF godoc
// GET /api/v1/students/:roll_no/report/pdf?sem_no=&year=
func (h *PerformanceHandler) GetReportPDF(c *gin.Context) {
	rollNo, semNo, year, ok := performanceParams(c)
	if !ok {
		return
	}

	if !h.gradeCardService.Available() {
		response.Fail(c, http.StatusServiceUnavailable, response.ErrPDFUnavailable)
		return
	}

	pdf, err := h.gradeCardService.Render(c.Request.Context(), rollNo, semNo, year)
	if err != nil {
		if errors.Is(err, service.ErrPDFUnavailable) {
			response.Fail(c, http.StatusServiceUnavailable, response.ErrPDFUnavailable)
			return
		}
		h.failCompute(c, err)
		return
	}

	fileName := fmt.Sprintf("gradecard_%d_sem%d_%d.pdf", rollNo, semNo, year)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *PerformanceHandler) failCompute(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrStudentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
	case errors.Is(err, repository.ErrSemesterNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSemesterNotFound)
	case errors.Is(err, service.ErrNoGradesFound):
		response.Fail(c, http.StatusNotFound, response.ErrNoGradesFound)
	case errors.Is(err, service.ErrIndicesNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrIndicesNotFound)
	case errors.Is(err, service.ErrInsufficientCredits):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInsufficientCredits)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func performanceParams(c *gin.Context) (rollNo, semNo, year int, ok bool) {
	rollNo, err := strconv.Atoi(c.Param("roll_no"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, 0, 0, false
	}
	semNo, err = strconv.Atoi(c.Query("sem_no"))
	if err != nil || semNo < 1 || semNo > 12 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return 0, 0, 0, false
	}
	year, err = strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return 0, 0, 0, false
	}
	return rollNo, semNo, year, true
}

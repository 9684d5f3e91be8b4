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

type GradeHandler struct {
	gradeService   *service.GradeService
	maxUploadBytes int64
}

func NewGradeHandler(gradeService *service.GradeService, maxUploadBytes int64) *GradeHandler {
	return &GradeHandler{
		gradeService:   gradeService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Record godoc
// POST /api/v1/grades
func (h *GradeHandler) Record(c *gin.Context) {
	var req model.RecordGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	entry, err := h.gradeService.RecordGrade(
		c.Request.Context(), req.RollNo, req.SubjectCode, req.SemNo, req.Year, req.Grade)
	if err != nil {
		var unknownGrade *model.ErrUnknownGrade
		switch {
		case errors.As(err, &unknownGrade), errors.Is(err, service.ErrGradeNotRecordable):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidGrade)
		case errors.Is(err, repository.ErrMissingReference):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"entry": entry})
}

// GetCurrent godoc
// GET /api/v1/grades/:roll_no/:code?sem_no=&year=
func (h *GradeHandler) GetCurrent(c *gin.Context) {
	rollNo, semNo, year, ok := gradeKeyParams(c)
	if !ok {
		return
	}

	grade, err := h.gradeService.CurrentGrade(c.Request.Context(), rollNo, c.Param("code"), semNo, year)
	if err != nil {
		if errors.Is(err, repository.ErrGradeNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNoGradesFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"grade": grade})
}

// GetStudentGrades godoc
// GET /api/v1/students/:roll_no/grades
func (h *GradeHandler) GetStudentGrades(c *gin.Context) {
	rollNo, err := strconv.Atoi(c.Param("roll_no"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	grades, err := h.gradeService.StudentGrades(c.Request.Context(), rollNo)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if grades == nil {
		grades = []model.GradeRecord{}
	}
	response.Success(c, http.StatusOK, gin.H{"grades": grades})
}

// GetHistory godoc
// GET /api/v1/students/:roll_no/grades/history
func (h *GradeHandler) GetHistory(c *gin.Context) {
	rollNo, err := strconv.Atoi(c.Param("roll_no"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	history, err := h.gradeService.FullHistory(c.Request.Context(), rollNo)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if history == nil {
		history = []model.GradeHistoryEntry{}
	}
	response.Success(c, http.StatusOK, gin.H{"history": history})
}

// GetKeyHistory godoc
// GET /api/v1/grades/:roll_no/:code/history?sem_no=&year=
func (h *GradeHandler) GetKeyHistory(c *gin.Context) {
	rollNo, semNo, year, ok := gradeKeyParams(c)
	if !ok {
		return
	}

	history, err := h.gradeService.KeyHistory(c.Request.Context(), rollNo, c.Param("code"), semNo, year)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if history == nil {
		history = []model.GradeHistoryEntry{}
	}
	response.Success(c, http.StatusOK, gin.H{"history": history})
}

// Upload godoc
// POST /api/v1/grades/upload
//
// Accepts a grade sheet named SUBJECTCODE_semN_YYYY.xlsx (or .csv).
// Responds 200 when every row lands and 206 when some rows were
// rejected; the body lists the processed grades and per-row errors
// either way.
func (h *GradeHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	subjectCode, semNo, year, err := service.ParseGradeFileName(header.Filename)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFileName)
		return
	}

	rows, err := service.ParseGradeSheet(file, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrEmptySheet):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		default:
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		}
		return
	}

	result, err := h.gradeService.ImportGrades(c.Request.Context(), subjectCode, semNo, year, rows)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSubjectNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSubjectNotFound)
		case errors.Is(err, repository.ErrSemesterNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrSemesterNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusPartialContent
	}
	response.Success(c, status, gin.H{"result": result})
}

func gradeKeyParams(c *gin.Context) (rollNo, semNo, year int, ok bool) {
	rollNo, err := strconv.Atoi(c.Param("roll_no"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, 0, 0, false
	}
	semNo, err = strconv.Atoi(c.Query("sem_no"))
	if err != nil {
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

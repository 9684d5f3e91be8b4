package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidID       ErrCode = "INVALID_ID"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrInvalidGrade    ErrCode = "INVALID_GRADE"
	ErrInvalidFileName ErrCode = "INVALID_FILE_NAME"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrStudentNotFound  ErrCode = "STUDENT_NOT_FOUND"
	ErrSubjectNotFound  ErrCode = "SUBJECT_NOT_FOUND"
	ErrSemesterNotFound ErrCode = "SEMESTER_NOT_FOUND"
	ErrConflict         ErrCode = "CONFLICT"
	ErrDuplicateEnroll  ErrCode = "DUPLICATE_ENROLLMENT"
	ErrDependencyExists ErrCode = "DEPENDENCY_EXISTS"

	// ─── Computation ───────────────────────────────────────────────────
	ErrNoGradesFound       ErrCode = "NO_GRADES_FOUND"
	ErrInsufficientCredits ErrCode = "INSUFFICIENT_CREDITS"
	ErrNoStudentsFound     ErrCode = "NO_STUDENTS_FOUND"
	ErrIndicesNotFound     ErrCode = "INDICES_NOT_FOUND"

	// ─── Enrollment ────────────────────────────────────────────────────
	ErrSemesterCompleted  ErrCode = "SEMESTER_COMPLETED"
	ErrDepartmentMismatch ErrCode = "DEPARTMENT_MISMATCH"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrPDFUnavailable  ErrCode = "PDF_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidGrade:
		return "Grade is not one of the recognized grade letters."
	case ErrInvalidFileName:
		return "File name must follow the SUBJECTCODE_semN_YYYY pattern."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrStudentNotFound:
		return "No student with this roll number."
	case ErrSubjectNotFound:
		return "No subject with this code."
	case ErrSemesterNotFound:
		return "Semester does not exist."
	case ErrConflict:
		return "Resource already exists."
	case ErrDuplicateEnroll:
		return "Student is already enrolled in this subject for this semester."
	case ErrDependencyExists:
		return "Cannot delete: other records still reference this resource."

	// ─── Computation ───────────────────────────────────────────────────
	case ErrNoGradesFound:
		return "No grades found for the given student and semester."
	case ErrInsufficientCredits:
		return "No valid credits found for index computation."
	case ErrNoStudentsFound:
		return "No students found for the given cohort year."
	case ErrIndicesNotFound:
		return "No SPI or CPI records found up to the given semester."

	// ─── Enrollment ────────────────────────────────────────────────────
	case ErrSemesterCompleted:
		return "Cannot enroll in a completed semester."
	case ErrDepartmentMismatch:
		return "Subject is not available for the student's department."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrPDFUnavailable:
		return "PDF rendering is not available on this deployment."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

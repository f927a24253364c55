package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidRole  ErrorCode = "INVALID_ROLE"

	// Allocation errors
	ErrCodeRoomNotFound            ErrorCode = "ROOM_NOT_FOUND"
	ErrCodeBedUnavailable          ErrorCode = "BED_UNAVAILABLE"
	ErrCodeCapacityExceeded        ErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeInvalidRequestState     ErrorCode = "INVALID_REQUEST_STATE"
	ErrCodeStudentAlreadyAllocated ErrorCode = "STUDENT_ALREADY_ALLOCATED"
	ErrCodeAccommodationNotFound   ErrorCode = "ACCOMMODATION_NOT_FOUND"
	ErrCodeAlreadyProcessed        ErrorCode = "ALREADY_PROCESSED"
	ErrCodeConcurrencyConflict     ErrorCode = "CONCURRENCY_CONFLICT"
	ErrCodePersistenceFailure      ErrorCode = "PERSISTENCE_FAILURE"

	// Inventory errors
	ErrCodeHostelNotFound  ErrorCode = "HOSTEL_NOT_FOUND"
	ErrCodeRequestNotFound ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeStudentNotFound ErrorCode = "STUDENT_NOT_FOUND"
	ErrCodeHostelInactive  ErrorCode = "HOSTEL_INACTIVE"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

var (
	// Allocation errors
	ErrRoomNotFound            = errors.New("room not found")
	ErrBedUnavailable          = errors.New("bed unavailable")
	ErrCapacityExceeded        = errors.New("room capacity exceeded")
	ErrInvalidRequestState     = errors.New("request is not pending")
	ErrStudentAlreadyAllocated = errors.New("student already has an active accommodation")
	ErrAccommodationNotFound   = errors.New("accommodation not found")
	ErrAlreadyProcessed        = errors.New("operation already processed")
	ErrConcurrencyConflict     = errors.New("concurrency conflict")
	ErrPersistenceFailure      = errors.New("persistence failure")

	// Inventory errors
	ErrHostelNotFound = errors.New("hostel not found")
	ErrHostelInactive = errors.New("hostel is inactive")
	ErrBedNotFound    = errors.New("bed not found")

	// Request errors
	ErrRequestNotFound = errors.New("request not found")
	ErrStudentNotFound = errors.New("student not found")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
	ErrInvalidFormat   = errors.New("invalid format")
)

// CodeFor ánh xạ sentinel error sang ErrorCode ổn định cho response
func CodeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return ErrCodeRoomNotFound
	case errors.Is(err, ErrBedUnavailable), errors.Is(err, ErrBedNotFound):
		return ErrCodeBedUnavailable
	case errors.Is(err, ErrCapacityExceeded):
		return ErrCodeCapacityExceeded
	case errors.Is(err, ErrInvalidRequestState):
		return ErrCodeInvalidRequestState
	case errors.Is(err, ErrStudentAlreadyAllocated):
		return ErrCodeStudentAlreadyAllocated
	case errors.Is(err, ErrAccommodationNotFound):
		return ErrCodeAccommodationNotFound
	case errors.Is(err, ErrAlreadyProcessed):
		return ErrCodeAlreadyProcessed
	case errors.Is(err, ErrConcurrencyConflict):
		return ErrCodeConcurrencyConflict
	case errors.Is(err, ErrHostelNotFound):
		return ErrCodeHostelNotFound
	case errors.Is(err, ErrHostelInactive):
		return ErrCodeHostelInactive
	case errors.Is(err, ErrRequestNotFound):
		return ErrCodeRequestNotFound
	case errors.Is(err, ErrStudentNotFound):
		return ErrCodeStudentNotFound
	default:
		return ErrCodePersistenceFailure
	}
}

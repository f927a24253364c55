package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hostelcore/errors"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	ErrorCode  string      `json:"errorCode,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Thành công",
		Data: data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Thành công",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Error trả về response lỗi kèm mã lỗi ổn định cho caller
func Error(c *gin.Context, status int, errorCode errors.ErrorCode, message string) {
	c.JSON(status, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: string(errorCode),
	})
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Code:      0,
		Mess:      "Lỗi server",
		ErrorCode: string(errors.ErrCodePersistenceFailure),
	})
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Response{
		Code:      0,
		Mess:      "Chưa xác thực",
		ErrorCode: string(errors.ErrCodeUnauthorized),
	})
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Response{
		Code:      0,
		Mess:      "Không có quyền truy cập",
		ErrorCode: string(errors.ErrCodeInvalidRole),
	})
}

// NotFound trả về response không tìm thấy
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:      0,
		Mess:      "Không tìm thấy",
		ErrorCode: string(errors.ErrCodeDBNotFound),
	})
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: string(errors.ErrCodeValidation),
	})
}

// Conflict trả về response conflict (409)
func Conflict(c *gin.Context, errorCode errors.ErrorCode, message string) {
	c.JSON(http.StatusConflict, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: string(errorCode),
	})
}

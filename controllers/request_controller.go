package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hostelcore/dto"
	"hostelcore/errors"
	"hostelcore/response"
	"hostelcore/services"
	"hostelcore/validator"
)

// RequestController là mặt ngoài HTTP của Request Model
type RequestController struct {
	requestService *services.RequestService
	rdb            *redis.Client
}

func NewRequestController(db *gorm.DB, rdb *redis.Client) *RequestController {
	return &RequestController{
		requestService: services.NewRequestService(services.RequestServiceOptions{DB: db}),
		rdb:            rdb,
	}
}

// CreateRequest xử lý POST /requests, booking flow bên ngoài chỉ ghi Pending
func (ctrl *RequestController) CreateRequest(c *gin.Context) {
	var input dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateRequestInput(&input); err != nil {
		response.BadRequest(c, errors.GetAppError(err).Message)
		return
	}

	request, err := ctrl.requestService.Create(input)
	if err != nil {
		handleCoreError(c, err)
		return
	}

	response.Success(c, request)
}

// GetRequests xử lý GET /requests có lọc trạng thái và nguyện vọng hostel
func (ctrl *RequestController) GetRequests(c *gin.Context) {
	page := 0
	limit := 10
	if pageStr := c.Query("page"); pageStr != "" {
		if parsedPage, err := strconv.Atoi(pageStr); err == nil && parsedPage >= 0 {
			page = parsedPage
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	var status *int
	if statusStr := c.Query("status"); statusStr != "" {
		parsed, err := strconv.Atoi(statusStr)
		if err != nil || parsed < 0 || parsed > 3 {
			response.BadRequest(c, "status không hợp lệ")
			return
		}
		status = &parsed
	}

	var hostelID *uint
	if hostelStr := c.Query("hostelId"); hostelStr != "" {
		parsed, err := strconv.ParseUint(hostelStr, 10, 64)
		if err != nil {
			response.BadRequest(c, "hostelId không hợp lệ")
			return
		}
		id := uint(parsed)
		hostelID = &id
	}

	requests, total, err := ctrl.requestService.List(status, hostelID, page, limit)
	if err != nil {
		handleCoreError(c, err)
		return
	}

	response.SuccessWithPagination(c, requests, page, limit, int(total))
}

// CancelRequest xử lý PUT /requests/:id/cancel. Chỉ hủy được request còn Pending,
// request đã cấp giường phải đi đường release.
func (ctrl *RequestController) CancelRequest(c *gin.Context) {
	requestID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.requestService.Cancel(requestID); err != nil {
		handleCoreError(c, err)
		return
	}

	response.Success(c, nil)
}

// RejectRequest xử lý PUT /requests/reject
func (ctrl *RequestController) RejectRequest(c *gin.Context) {
	var input dto.RejectRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := ctrl.requestService.Reject(input.RequestID, input.Notes); err != nil {
		handleCoreError(c, err)
		return
	}

	response.Success(c, nil)
}

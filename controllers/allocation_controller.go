package controllers

import (
	goerrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hostelcore/config"
	"hostelcore/dto"
	"hostelcore/errors"
	"hostelcore/models"
	"hostelcore/response"
	"hostelcore/services"
	"hostelcore/utils"
	"hostelcore/validator"
)

// AllocationController là mặt ngoài HTTP của Allocation Engine
type AllocationController struct {
	allocationService *services.AllocationService
	rdb               *redis.Client
}

func NewAllocationController(db *gorm.DB, rdb *redis.Client) *AllocationController {
	return &AllocationController{
		allocationService: services.NewAllocationService(services.AllocationServiceOptions{DB: db}),
		rdb:               rdb,
	}
}

// handleCoreError ánh xạ error kind của core sang HTTP, caller dịch ra thông điệp người dùng
func handleCoreError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)

	switch {
	case goerrors.Is(err, errors.ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, errors.ErrCodeRoomNotFound, "Không tìm thấy phòng")
	case goerrors.Is(err, errors.ErrHostelNotFound):
		response.Error(c, http.StatusNotFound, errors.ErrCodeHostelNotFound, "Không tìm thấy hostel")
	case goerrors.Is(err, errors.ErrRequestNotFound):
		response.Error(c, http.StatusNotFound, errors.ErrCodeRequestNotFound, "Không tìm thấy request")
	case goerrors.Is(err, errors.ErrStudentNotFound):
		response.Error(c, http.StatusNotFound, errors.ErrCodeStudentNotFound, "Không tìm thấy sinh viên")
	case goerrors.Is(err, errors.ErrAccommodationNotFound):
		response.Error(c, http.StatusNotFound, errors.ErrCodeAccommodationNotFound, "Không tìm thấy accommodation đang hoạt động")
	case goerrors.Is(err, errors.ErrBedUnavailable), goerrors.Is(err, errors.ErrBedNotFound):
		response.Conflict(c, errors.ErrCodeBedUnavailable, "Giường không có sẵn")
	case goerrors.Is(err, errors.ErrCapacityExceeded):
		response.Conflict(c, errors.ErrCodeCapacityExceeded, "Phòng đã đầy")
	case goerrors.Is(err, errors.ErrInvalidRequestState):
		response.Conflict(c, errors.ErrCodeInvalidRequestState, "Request không ở trạng thái chờ duyệt")
	case goerrors.Is(err, errors.ErrStudentAlreadyAllocated):
		response.Conflict(c, errors.ErrCodeStudentAlreadyAllocated, "Sinh viên đã được xếp chỗ")
	case goerrors.Is(err, errors.ErrAlreadyProcessed):
		response.Conflict(c, errors.ErrCodeAlreadyProcessed, "Thao tác đã được xử lý trước đó")
	case goerrors.Is(err, errors.ErrConcurrencyConflict):
		response.Conflict(c, errors.ErrCodeConcurrencyConflict, "Xung đột dữ liệu, vui lòng thử ứng viên khác")
	case goerrors.Is(err, errors.ErrHostelInactive):
		response.Conflict(c, errors.ErrCodeHostelInactive, "Hostel đã ngừng hoạt động")
	case appErr != nil && appErr.Code == errors.ErrCodeValidation:
		response.BadRequest(c, appErr.Message)
	default:
		utils.LogError("lỗi không phân loại được: %v", err)
		response.ServerError(c)
	}
}

// Allocate xử lý POST /allocate
func (ctrl *AllocationController) Allocate(c *gin.Context) {
	var input dto.AllocateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateAllocateInput(&input); err != nil {
		response.BadRequest(c, errors.GetAppError(err).Message)
		return
	}

	acc, err := ctrl.allocationService.Allocate(input)
	if err != nil {
		handleCoreError(c, err)
		return
	}

	// Snapshot tồn kho đã đổi, xóa cache
	invalidateInventoryCache(ctrl.rdb, input.HostelID)

	utils.LogInfo("allocate thành công: request %d -> accommodation %d", input.RequestID, acc.ID)
	response.Success(c, buildAllocationResult(acc, input.RoomNumber))
}

// Release xử lý POST /release
func (ctrl *AllocationController) Release(c *gin.Context) {
	var input dto.ReleaseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateReleaseInput(&input); err != nil {
		response.BadRequest(c, errors.GetAppError(err).Message)
		return
	}

	acc, err := ctrl.allocationService.Release(input.AccommodationID, input.Reason)
	if err != nil {
		handleCoreError(c, err)
		return
	}

	invalidateInventoryCache(ctrl.rdb, acc.HostelID)

	utils.LogInfo("release thành công: accommodation %d, giường %d", acc.ID, acc.BedID)
	response.Success(c, dto.ReleaseResult{
		AccommodationID: acc.ID,
		BedID:           acc.BedID,
		RoomID:          acc.RoomID,
		ReleaseDate:     *acc.ReleaseDate,
	})
}

// GetActiveAccommodation xử lý GET /accommodations/:studentId/active
func (ctrl *AllocationController) GetActiveAccommodation(c *gin.Context) {
	studentID, ok := parseUintParam(c, "studentId")
	if !ok {
		return
	}

	acc, err := ctrl.allocationService.ActiveAccommodation(studentID)
	if err != nil {
		handleCoreError(c, err)
		return
	}

	response.Success(c, acc)
}

// GetAccommodationHistory xử lý GET /accommodations/:studentId
func (ctrl *AllocationController) GetAccommodationHistory(c *gin.Context) {
	studentID, ok := parseUintParam(c, "studentId")
	if !ok {
		return
	}

	accs, err := ctrl.allocationService.AccommodationHistory(studentID)
	if err != nil {
		handleCoreError(c, err)
		return
	}

	response.Success(c, accs)
}

func buildAllocationResult(acc *models.Accommodation, roomNumber string) dto.AllocationResult {
	return dto.AllocationResult{
		AccommodationID: acc.ID,
		RequestID:       acc.RequestID,
		StudentID:       acc.StudentID,
		RoomID:          acc.RoomID,
		RoomNumber:      roomNumber,
		BedID:           acc.BedID,
		Semester:        acc.Semester,
		AcademicYear:    acc.AcademicYear,
		AllocationDate:  acc.AllocationDate,
	}
}

// invalidateInventoryCache xóa cache snapshot, hostelID = 0 thì chỉ xóa key chung
func invalidateInventoryCache(rdb *redis.Client, hostelID uint) {
	if rdb == nil {
		return
	}
	keys := []string{CacheKeyInventoryAll}
	if hostelID != 0 {
		keys = append(keys, cacheKeyInventoryHostel(hostelID))
	}
	if err := services.DeleteFromRedis(config.Ctx, rdb, keys...); err != nil {
		utils.LogError("lỗi khi xóa cache tồn kho: %v", err)
	}
}

package controllers

import (
	goerrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hostelcore/config"
	"hostelcore/constants"
	"hostelcore/dto"
	"hostelcore/errors"
	"hostelcore/models"
	"hostelcore/response"
	"hostelcore/services"
	"hostelcore/utils"
	"hostelcore/validator"
)

var CacheKeyInventoryAll = "inventory:all"

func cacheKeyInventoryHostel(hostelID uint) string {
	return fmt.Sprintf("inventory:hostel:%d", hostelID)
}

// InventoryController quản lý CRUD hostel/phòng/giường và snapshot tồn kho
type InventoryController struct {
	db               *gorm.DB
	rdb              *redis.Client
	inventoryService *services.InventoryService
	ledgerService    *services.LedgerService
}

func NewInventoryController(db *gorm.DB, rdb *redis.Client) *InventoryController {
	return &InventoryController{
		db:               db,
		rdb:              rdb,
		inventoryService: services.NewInventoryService(services.InventoryServiceOptions{DB: db}),
		ledgerService:    services.NewLedgerService(services.LedgerServiceOptions{DB: db}),
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		response.BadRequest(c, fmt.Sprintf("%s không hợp lệ", name))
		return 0, false
	}
	return uint(parsed), true
}

// CreateHostel xử lý POST /hostels
func (ctrl *InventoryController) CreateHostel(c *gin.Context) {
	var input dto.HostelRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateHostelInput(&input); err != nil {
		response.BadRequest(c, errors.GetAppError(err).Message)
		return
	}

	hostel := models.Hostel{
		Name:         input.Name,
		GenderPolicy: input.GenderPolicy,
		IsActive:     true,
	}
	for _, number := range input.Floors {
		hostel.Floors = append(hostel.Floors, models.Floor{
			Number: number,
			Name:   fmt.Sprintf("Tầng %d", number),
		})
	}

	if err := ctrl.db.Create(&hostel).Error; err != nil {
		response.ServerError(c)
		return
	}

	invalidateInventoryCache(ctrl.rdb, hostel.ID)
	response.Success(c, hostel)
}

// DeactivateHostel xử lý PUT /hostelStatus. Hostel còn người ở thì không được ngừng.
func (ctrl *InventoryController) DeactivateHostel(c *gin.Context) {
	var input struct {
		HostelID uint `json:"hostelId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	var occupied int64
	err := ctrl.db.Model(&models.Accommodation{}).
		Joins("JOIN rooms ON rooms.id = accommodations.room_id").
		Where("rooms.hostel_id = ? AND accommodations.is_active = ?", input.HostelID, true).
		Count(&occupied).Error
	if err != nil {
		response.ServerError(c)
		return
	}
	if occupied > 0 {
		response.Conflict(c, errors.ErrCodeInvalidStatus, "Hostel còn sinh viên đang ở, không thể ngừng hoạt động")
		return
	}

	res := ctrl.db.Model(&models.Hostel{}).Where("id = ?", input.HostelID).Update("is_active", false)
	if res.Error != nil {
		response.ServerError(c)
		return
	}
	if res.RowsAffected == 0 {
		response.NotFound(c)
		return
	}

	invalidateInventoryCache(ctrl.rdb, input.HostelID)
	response.Success(c, nil)
}

// CreateRoom xử lý POST /rooms, loại phòng cố định sức chứa và tự sinh giường "Bed 1..N"
func (ctrl *InventoryController) CreateRoom(c *gin.Context) {
	var input dto.RoomRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateRoomInput(&input); err != nil {
		response.BadRequest(c, errors.GetAppError(err).Message)
		return
	}

	var hostel models.Hostel
	if err := ctrl.db.First(&hostel, input.HostelID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, errors.ErrCodeHostelNotFound, "Không tìm thấy hostel")
			return
		}
		response.ServerError(c)
		return
	}

	var floor models.Floor
	if err := ctrl.db.Where("id = ? AND hostel_id = ?", input.FloorID, input.HostelID).First(&floor).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			response.BadRequest(c, "Tầng không thuộc hostel này")
			return
		}
		response.ServerError(c)
		return
	}

	capacity := models.NominalCapacity(input.Type)
	room := models.Room{
		HostelID:   input.HostelID,
		FloorID:    input.FloorID,
		RoomNumber: input.RoomNumber,
		Type:       input.Type,
		Capacity:   capacity,
	}
	for i := 1; i <= capacity; i++ {
		room.Beds = append(room.Beds, models.Bed{
			BedNumber: i,
			Name:      fmt.Sprintf("Bed %d", i),
			Status:    constants.BedStatusAvailable,
		})
	}

	err := ctrl.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		// Cập nhật tổng giường denormalized trên hostel
		return tx.Model(&models.Hostel{}).
			Where("id = ?", input.HostelID).
			UpdateColumn("total_beds", gorm.Expr("total_beds + ?", capacity)).Error
	})
	if err != nil {
		if goerrors.Is(err, gorm.ErrDuplicatedKey) {
			response.Conflict(c, errors.ErrCodeDBDuplicate, "Số phòng đã tồn tại trong hostel")
			return
		}
		response.ServerError(c)
		return
	}

	invalidateInventoryCache(ctrl.rdb, input.HostelID)
	response.Success(c, room)
}

// ChangeBedStatus xử lý PUT /bedStatus, đặt Maintenance/Reserved out-of-band.
// Không đụng giường đang Occupied, chiều đó phải đi qua release.
func (ctrl *InventoryController) ChangeBedStatus(c *gin.Context) {
	var input dto.BedStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateBedStatusInput(&input); err != nil {
		response.BadRequest(c, errors.GetAppError(err).Message)
		return
	}

	var bed models.Bed
	if err := ctrl.db.First(&bed, input.BedID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.ServerError(c)
		return
	}
	if bed.Status == constants.BedStatusOccupied {
		response.Conflict(c, errors.ErrCodeBedUnavailable, "Giường đang có người ở, hãy release trước")
		return
	}

	var room models.Room
	if err := ctrl.db.First(&room, bed.RoomID).Error; err != nil {
		response.ServerError(c)
		return
	}

	res := ctrl.db.Model(&models.Bed{}).
		Where("id = ? AND status != ?", input.BedID, constants.BedStatusOccupied).
		Update("status", input.Status)
	if res.Error != nil {
		response.ServerError(c)
		return
	}
	if res.RowsAffected == 0 {
		response.Conflict(c, errors.ErrCodeConcurrencyConflict, "Xung đột dữ liệu, vui lòng thử lại")
		return
	}

	invalidateInventoryCache(ctrl.rdb, room.HostelID)
	response.Success(c, nil)
}

// GetInventorySnapshot xử lý GET /inventory, projection read-only cho dashboard và matcher
func (ctrl *InventoryController) GetInventorySnapshot(c *gin.Context) {
	var hostelID uint
	if raw := c.Query("hostelId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "hostelId không hợp lệ")
			return
		}
		hostelID = uint(parsed)
	}

	cacheKey := CacheKeyInventoryAll
	if hostelID != 0 {
		cacheKey = cacheKeyInventoryHostel(hostelID)
	}

	// Thử lấy snapshot từ Redis
	var snapshots []dto.HostelSnapshot
	if ctrl.rdb != nil {
		if err := services.GetFromRedis(config.Ctx, ctrl.rdb, cacheKey, &snapshots); err == nil && len(snapshots) > 0 {
			response.Success(c, snapshots)
			return
		}
	}

	snapshots, err := ctrl.buildSnapshot(hostelID)
	if err != nil {
		utils.LogError("lỗi khi dựng snapshot tồn kho: %v", err)
		response.ServerError(c)
		return
	}
	if hostelID != 0 && len(snapshots) == 0 {
		response.Error(c, http.StatusNotFound, errors.ErrCodeHostelNotFound, "Không tìm thấy hostel")
		return
	}

	if ctrl.rdb != nil {
		if err := services.SetToRedis(config.Ctx, ctrl.rdb, cacheKey, snapshots, 10*time.Minute); err != nil {
			utils.LogError("lỗi khi lưu snapshot vào Redis: %v", err)
		}
	}

	response.Success(c, snapshots)
}

func (ctrl *InventoryController) buildSnapshot(hostelID uint) ([]dto.HostelSnapshot, error) {
	tx := ctrl.db.Model(&models.Hostel{}).Preload("Rooms").Preload("Rooms.Beds", func(db *gorm.DB) *gorm.DB {
		return db.Order("bed_number ASC")
	})
	if hostelID != 0 {
		tx = tx.Where("id = ?", hostelID)
	}

	var hostels []models.Hostel
	if err := tx.Find(&hostels).Error; err != nil {
		return nil, err
	}

	snapshots := make([]dto.HostelSnapshot, 0)
	for _, hostel := range hostels {
		snapshot := dto.HostelSnapshot{
			ID:           hostel.ID,
			Name:         hostel.Name,
			GenderPolicy: hostel.GenderPolicy,
			IsActive:     hostel.IsActive,
			TotalBeds:    hostel.TotalBeds,
		}
		for _, room := range hostel.Rooms {
			roomSnapshot := dto.RoomSnapshot{
				ID:               room.ID,
				RoomNumber:       room.RoomNumber,
				FloorID:          room.FloorID,
				Type:             room.Type,
				Capacity:         room.Capacity,
				CurrentOccupancy: room.CurrentOccupancy,
			}
			for _, bed := range room.Beds {
				roomSnapshot.Beds = append(roomSnapshot.Beds, dto.BedSnapshot{
					ID:        bed.ID,
					BedNumber: bed.BedNumber,
					Name:      bed.Name,
					Status:    bed.Status,
				})
				if bed.Status == constants.BedStatusOccupied {
					snapshot.OccupiedBeds++
				}
			}
			snapshot.Rooms = append(snapshot.Rooms, roomSnapshot)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// GetCandidateBeds xử lý GET /rooms/:id/candidates cho matcher
func (ctrl *InventoryController) GetCandidateBeds(c *gin.Context) {
	roomID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	beds, err := ctrl.inventoryService.ListCandidateBeds(roomID)
	if err != nil {
		handleCoreError(c, err)
		return
	}

	response.Success(c, beds)
}

// GetBedLedger xử lý GET /beds/:id/ledger cho audit
func (ctrl *InventoryController) GetBedLedger(c *gin.Context) {
	bedID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	entries, err := ctrl.ledgerService.EntriesForBed(bedID)
	if err != nil {
		handleCoreError(c, err)
		return
	}

	responses := make([]dto.LedgerEntryResponse, 0)
	for _, entry := range entries {
		responses = append(responses, dto.LedgerEntryResponse{
			ID:              entry.ID,
			Type:            entry.Type,
			RoomID:          entry.RoomID,
			BedID:           entry.BedID,
			StudentID:       entry.StudentID,
			RequestID:       entry.RequestID,
			AccommodationID: entry.AccommodationID,
			Note:            entry.Note,
			CreatedAt:       entry.CreatedAt,
		})
	}
	response.Success(c, responses)
}

// Reconcile xử lý GET /reconcile, đối chiếu sổ cái với bộ đếm
func (ctrl *InventoryController) Reconcile(c *gin.Context) {
	mismatches, err := ctrl.ledgerService.Reconcile()
	if err != nil {
		handleCoreError(c, err)
		return
	}

	response.Success(c, gin.H{
		"consistent": len(mismatches) == 0,
		"mismatches": mismatches,
	})
}

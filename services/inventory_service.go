package services

import (
	goerrors "errors"
	"sync"

	"gorm.io/gorm"

	"hostelcore/constants"
	"hostelcore/errors"
	"hostelcore/models"
	"hostelcore/services/logger"
)

// InventoryService tra cứu tồn kho giường và giữ chỗ sức chứa.
// Chỉ mutate bộ đếm phòng, không bao giờ đụng vào trạng thái request.
type InventoryService struct {
	db     *gorm.DB
	logger logger.Logger
}

type InventoryServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewInventoryService(opts InventoryServiceOptions) *InventoryService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &InventoryService{db: opts.DB, logger: l}
}

// GetRoom tra phòng theo hostel và số phòng, một lần tra duy nhất
func (s *InventoryService) GetRoom(hostelID uint, roomNumber string) (*models.Room, error) {
	var room models.Room
	err := s.db.Where("hostel_id = ? AND room_number = ?", hostelID, roomNumber).First(&room).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRoomNotFound
		}
		return nil, wrapDBError(err)
	}
	return &room, nil
}

// ListCandidateBeds trả danh sách giường Available theo thứ tự số giường tăng dần.
// Giường Maintenance và Reserved bị loại khỏi ứng viên nhưng vẫn tính vào sức chứa.
func (s *InventoryService) ListCandidateBeds(roomID uint) ([]models.Bed, error) {
	var beds []models.Bed
	err := s.db.Where("room_id = ? AND status = ?", roomID, constants.BedStatusAvailable).
		Order("bed_number ASC").
		Find(&beds).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return beds, nil
}

// CapacityPermit là một đơn vị sức chứa đã giữ trước khi chọn giường cụ thể.
// Release trả lại đơn vị nếu matcher bỏ dở giữa chừng.
type CapacityPermit struct {
	RoomID uint

	db       *gorm.DB
	mu       sync.Mutex
	released bool
}

// ReserveCapacity giữ một đơn vị sức chứa bằng increment có điều kiện,
// chặn race giữa kiểm tra sức chứa và gán giường khi matcher lập kế hoạch.
// Allocate tăng giảm bộ đếm trong transaction riêng của nó, nên caller phải
// Release permit khi kết thúc lượt ghép, kể cả khi đã allocate thành công.
func (s *InventoryService) ReserveCapacity(roomID uint) (*CapacityPermit, error) {
	res := s.db.Model(&models.Room{}).
		Where("id = ? AND current_occupancy < capacity", roomID).
		UpdateColumn("current_occupancy", gorm.Expr("current_occupancy + 1"))
	if res.Error != nil {
		return nil, wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		// Phòng không tồn tại hoặc đã đầy, phân biệt bằng một lần đọc
		var room models.Room
		if err := s.db.First(&room, roomID).Error; err != nil {
			if goerrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ErrRoomNotFound
			}
			return nil, wrapDBError(err)
		}
		return nil, errors.ErrCapacityExceeded
	}

	s.logger.Debug("đã giữ 1 đơn vị sức chứa cho phòng %d", roomID)
	return &CapacityPermit{RoomID: roomID, db: s.db}, nil
}

// Release trả lại đơn vị sức chứa đã giữ, gọi nhiều lần vô hại
func (p *CapacityPermit) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	res := p.db.Model(&models.Room{}).
		Where("id = ? AND current_occupancy > 0", p.RoomID).
		UpdateColumn("current_occupancy", gorm.Expr("current_occupancy - 1"))
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	p.released = true
	return nil
}

// OccupancySummary đếm nhanh tổng giường và giường đang ở của một hostel
func (s *InventoryService) OccupancySummary(hostelID uint) (total int64, occupied int64, err error) {
	if err = s.db.Model(&models.Bed{}).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Where("rooms.hostel_id = ?", hostelID).
		Count(&total).Error; err != nil {
		return 0, 0, wrapDBError(err)
	}
	if err = s.db.Model(&models.Bed{}).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Where("rooms.hostel_id = ? AND beds.status = ?", hostelID, constants.BedStatusOccupied).
		Count(&occupied).Error; err != nil {
		return 0, 0, wrapDBError(err)
	}
	return total, occupied, nil
}

// wrapDBError quy mọi lỗi storage về PersistenceFailure để caller phân loại ổn định
func wrapDBError(err error) error {
	return errors.NewAppError(errors.ErrCodePersistenceFailure, "Lỗi truy vấn cơ sở dữ liệu",
		goerrors.Join(errors.ErrPersistenceFailure, err))
}

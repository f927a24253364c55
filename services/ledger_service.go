package services

import (
	goerrors "errors"
	"fmt"

	"gorm.io/gorm"

	"hostelcore/constants"
	"hostelcore/dto"
	"hostelcore/errors"
	"hostelcore/models"
	"hostelcore/services/logger"
)

// LedgerService quản lý sổ cái chỉ ghi thêm. Không có Update, không có Delete.
// Occupancy luôn dựng lại được từ sổ cái độc lập với các bộ đếm mutable.
type LedgerService struct {
	db     *gorm.DB
	logger logger.Logger
}

type LedgerServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewLedgerService(opts LedgerServiceOptions) *LedgerService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &LedgerService{db: opts.DB, logger: l}
}

// Append ghi một dòng vào sổ cái trong transaction đang mở.
// Trùng idempotency key nghĩa là replay, trả AlreadyProcessed.
func (s *LedgerService) Append(tx *gorm.DB, entry *models.LedgerEntry) error {
	if err := tx.Create(entry).Error; err != nil {
		if goerrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrAlreadyProcessed
		}
		return wrapDBError(err)
	}
	return nil
}

// HasKey kiểm tra một idempotency key đã có trong sổ cái chưa
func (s *LedgerService) HasKey(tx *gorm.DB, key string) (bool, error) {
	var count int64
	if err := tx.Model(&models.LedgerEntry{}).Where("idempotency_key = ?", key).Count(&count).Error; err != nil {
		return false, wrapDBError(err)
	}
	return count > 0, nil
}

// EntriesForBed lịch sử allocate/release của một giường theo thứ tự thời gian
func (s *LedgerService) EntriesForBed(bedID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := s.db.Where("bed_id = ?", bedID).Order("id ASC").Find(&entries).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return entries, nil
}

// RebuildOccupancy dựng lại occupancy từng phòng bằng replay sổ cái:
// mỗi allocate +1, mỗi release -1 trên giường thuộc phòng đó
func (s *LedgerService) RebuildOccupancy() (map[uint]int, error) {
	var entries []models.LedgerEntry
	if err := s.db.Order("id ASC").Find(&entries).Error; err != nil {
		return nil, wrapDBError(err)
	}

	occupancy := make(map[uint]int)
	for _, entry := range entries {
		switch entry.Type {
		case constants.LedgerTypeAllocate:
			occupancy[entry.RoomID]++
		case constants.LedgerTypeRelease:
			occupancy[entry.RoomID]--
		}
	}
	return occupancy, nil
}

// Reconcile đối chiếu ba nguồn: bộ đếm current_occupancy, số giường Occupied
// thực tế, và occupancy dựng lại từ sổ cái. Trả về mọi sai lệch tìm thấy.
func (s *LedgerService) Reconcile() ([]dto.ReconcileMismatch, error) {
	ledgerOccupancy, err := s.RebuildOccupancy()
	if err != nil {
		return nil, err
	}

	var rooms []models.Room
	if err := s.db.Preload("Beds").Find(&rooms).Error; err != nil {
		return nil, wrapDBError(err)
	}

	var mismatches []dto.ReconcileMismatch
	for _, room := range rooms {
		occupiedBeds := 0
		for _, bed := range room.Beds {
			if bed.Status == constants.BedStatusOccupied {
				occupiedBeds++
			}
		}
		fromLedger := ledgerOccupancy[room.ID]

		if room.CurrentOccupancy != occupiedBeds || room.CurrentOccupancy != fromLedger {
			mismatch := dto.ReconcileMismatch{
				RoomID:          room.ID,
				RoomNumber:      room.RoomNumber,
				CounterValue:    room.CurrentOccupancy,
				OccupiedBeds:    occupiedBeds,
				LedgerOccupancy: fromLedger,
				Detail: fmt.Sprintf("counter=%d occupiedBeds=%d ledger=%d",
					room.CurrentOccupancy, occupiedBeds, fromLedger),
			}
			mismatches = append(mismatches, mismatch)
			s.logger.Error("sai lệch occupancy phòng %s: %s", room.RoomNumber, mismatch.Detail)
		}
	}
	return mismatches, nil
}

package services

import (
	goerrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hostelcore/constants"
	"hostelcore/dto"
	"hostelcore/errors"
	"hostelcore/models"
	"hostelcore/services/logger"
)

// Số lần retry nội bộ khi thua optimistic lock trên cùng một ứng viên
const maxConflictRetries = 3

// AllocationService là state-machine core: gắn một request Pending vào đúng một
// giường trong một transaction duy nhất. Năm hiệu ứng (giường Occupied, tăng bộ
// đếm phòng, tạo accommodation, request sang Approved, ghi sổ cái) commit cùng
// nhau hoặc không gì cả.
type AllocationService struct {
	db     *gorm.DB
	ledger *LedgerService
	logger logger.Logger
}

type AllocationServiceOptions struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Logger logger.Logger
}

func NewAllocationService(opts AllocationServiceOptions) *AllocationService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	ledger := opts.Ledger
	if ledger == nil {
		ledger = NewLedgerService(LedgerServiceOptions{DB: opts.DB, Logger: l})
	}
	return &AllocationService{db: opts.DB, ledger: ledger, logger: l}
}

func allocateKey(requestID uint) string {
	return fmt.Sprintf("allocate:%d", requestID)
}

func releaseKey(accommodationID uint) string {
	return fmt.Sprintf("release:%d", accommodationID)
}

// Allocate cấp phát một giường cho request. Retry nội bộ bounded khi mất
// optimistic lock trên cùng ứng viên; mọi lỗi khác trả thẳng cho caller.
func (s *AllocationService) Allocate(input dto.AllocateRequest) (*models.Accommodation, error) {
	var acc *models.Accommodation
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		acc, err = s.allocateOnce(input)
		if err != nil && goerrors.Is(err, errors.ErrConcurrencyConflict) {
			s.logger.Debug("mất optimistic lock, thử lại lần %d cho request %d", attempt+1, input.RequestID)
			continue
		}
		break
	}
	return acc, err
}

func (s *AllocationService) allocateOnce(input dto.AllocateRequest) (*models.Accommodation, error) {
	var created models.Accommodation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Idempotency: cùng requestId nộp lại thì trả AlreadyProcessed,
		// tuyệt đối không áp hiệu ứng lần hai
		exists, err := s.ledger.HasKey(tx, allocateKey(input.RequestID))
		if err != nil {
			return err
		}
		if exists {
			return errors.ErrAlreadyProcessed
		}

		// Request phải tồn tại và đang Pending
		var request models.AllocationRequest
		if err := tx.First(&request, input.RequestID).Error; err != nil {
			if goerrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrRequestNotFound
			}
			return wrapDBError(err)
		}
		if err := models.GetRequestState(request.Status).Approve(&request, input.Notes); err != nil {
			return errors.ErrInvalidRequestState
		}
		if request.StudentID != input.StudentID {
			return errors.NewAppError(errors.ErrCodeValidation, "Request không thuộc về sinh viên này", errors.ErrInvalidInput)
		}

		// Phòng phải tồn tại dưới đúng hostel
		var room models.Room
		if err := tx.Where("hostel_id = ? AND room_number = ?", input.HostelID, input.RoomNumber).First(&room).Error; err != nil {
			if goerrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrRoomNotFound
			}
			return wrapDBError(err)
		}
		// Giường chỉ định phải Available
		var bed models.Bed
		if err := tx.Where("room_id = ? AND bed_number = ?", room.ID, input.BedNumber).First(&bed).Error; err != nil {
			if goerrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrBedUnavailable
			}
			return wrapDBError(err)
		}
		if !bed.IsAllocatable() {
			return errors.ErrBedUnavailable
		}

		if !room.HasCapacity() {
			return errors.ErrCapacityExceeded
		}

		// Mỗi sinh viên tối đa một accommodation đang hoạt động trên toàn hệ thống
		var activeCount int64
		if err := tx.Model(&models.Accommodation{}).
			Where("student_id = ? AND is_active = ?", input.StudentID, true).
			Count(&activeCount).Error; err != nil {
			return wrapDBError(err)
		}
		if activeCount > 0 {
			return errors.ErrStudentAlreadyAllocated
		}

		// Check-and-set: chuyển Available -> Occupied chỉ thành công nếu
		// trạng thái đọc lúc nãy vẫn còn đúng khi commit
		res := tx.Model(&models.Bed{}).
			Where("id = ? AND status = ?", bed.ID, constants.BedStatusAvailable).
			Update("status", constants.BedStatusOccupied)
		if res.Error != nil {
			return wrapDBError(res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.ErrConcurrencyConflict
		}

		// Tăng bộ đếm trong cùng transaction, không bao giờ read-then-write ngoài biên
		res = tx.Model(&models.Room{}).
			Where("id = ? AND current_occupancy < capacity", room.ID).
			UpdateColumn("current_occupancy", gorm.Expr("current_occupancy + 1"))
		if res.Error != nil {
			return wrapDBError(res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.ErrCapacityExceeded
		}

		// Tạo accommodation đóng dấu học kỳ của request. Trùng partial unique
		// index nghĩa là một transaction khác vừa cấp chỗ cho sinh viên này.
		created = models.Accommodation{
			StudentID:      input.StudentID,
			HostelID:       input.HostelID,
			RoomID:         room.ID,
			BedID:          bed.ID,
			RequestID:      request.ID,
			Semester:       request.Semester,
			AcademicYear:   request.AcademicYear,
			AllocationDate: time.Now(),
			IsActive:       true,
		}
		if err := tx.Create(&created).Error; err != nil {
			if goerrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.ErrStudentAlreadyAllocated
			}
			return wrapDBError(err)
		}

		// Request sang Approved, cũng check-and-set để không ghi đè ai khác
		res = tx.Model(&models.AllocationRequest{}).
			Where("id = ? AND status = ?", request.ID, constants.RequestStatusPending).
			Updates(map[string]interface{}{
				"status": constants.RequestStatusApproved,
				"notes":  input.Notes,
			})
		if res.Error != nil {
			return wrapDBError(res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.ErrConcurrencyConflict
		}

		// Dòng sổ cái chốt idempotency key của cả thao tác
		entry := models.LedgerEntry{
			Type:            constants.LedgerTypeAllocate,
			HostelID:        input.HostelID,
			RoomID:          room.ID,
			BedID:           bed.ID,
			StudentID:       input.StudentID,
			RequestID:       request.ID,
			AccommodationID: created.ID,
			IdempotencyKey:  allocateKey(request.ID),
			Note:            input.Notes,
		}
		if err := s.ledger.Append(tx, &entry); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("đã cấp giường %d phòng %d cho sinh viên %d (request %d)",
		created.BedID, created.RoomID, created.StudentID, created.RequestID)
	return &created, nil
}

// Release trả giường: đảo ngược đối xứng của Allocate, cũng trong một transaction.
// Giường vừa trả đủ điều kiện cấp phát lại ngay, không cần cooldown.
func (s *AllocationService) Release(accommodationID uint, reason string) (*models.Accommodation, error) {
	var acc *models.Accommodation
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		acc, err = s.releaseOnce(accommodationID, reason)
		if err != nil && goerrors.Is(err, errors.ErrConcurrencyConflict) {
			continue
		}
		break
	}
	return acc, err
}

func (s *AllocationService) releaseOnce(accommodationID uint, reason string) (*models.Accommodation, error) {
	var released models.Accommodation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.ledger.HasKey(tx, releaseKey(accommodationID))
		if err != nil {
			return err
		}
		if exists {
			return errors.ErrAlreadyProcessed
		}

		var acc models.Accommodation
		if err := tx.First(&acc, accommodationID).Error; err != nil {
			if goerrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrAccommodationNotFound
			}
			return wrapDBError(err)
		}
		if !acc.IsActive {
			return errors.ErrAccommodationNotFound
		}

		// Giường Occupied -> Available, check-and-set như chiều cấp phát
		res := tx.Model(&models.Bed{}).
			Where("id = ? AND status = ?", acc.BedID, constants.BedStatusOccupied).
			Update("status", constants.BedStatusAvailable)
		if res.Error != nil {
			return wrapDBError(res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.ErrConcurrencyConflict
		}

		res = tx.Model(&models.Room{}).
			Where("id = ? AND current_occupancy > 0", acc.RoomID).
			UpdateColumn("current_occupancy", gorm.Expr("current_occupancy - 1"))
		if res.Error != nil {
			return wrapDBError(res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.ErrConcurrencyConflict
		}

		now := time.Now()
		res = tx.Model(&models.Accommodation{}).
			Where("id = ? AND is_active = ?", acc.ID, true).
			Updates(map[string]interface{}{
				"is_active":      false,
				"release_date":   now,
				"release_reason": reason,
			})
		if res.Error != nil {
			return wrapDBError(res.Error)
		}
		if res.RowsAffected == 0 {
			return errors.ErrConcurrencyConflict
		}

		entry := models.LedgerEntry{
			Type:            constants.LedgerTypeRelease,
			HostelID:        acc.HostelID,
			RoomID:          acc.RoomID,
			BedID:           acc.BedID,
			StudentID:       acc.StudentID,
			RequestID:       acc.RequestID,
			AccommodationID: acc.ID,
			IdempotencyKey:  releaseKey(acc.ID),
			Note:            reason,
		}
		if err := s.ledger.Append(tx, &entry); err != nil {
			return err
		}

		released = acc
		released.IsActive = false
		released.ReleaseDate = &now
		released.ReleaseReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("đã trả giường %d phòng %d của accommodation %d", released.BedID, released.RoomID, released.ID)
	return &released, nil
}

// ActiveAccommodation lấy accommodation đang hoạt động của một sinh viên
func (s *AllocationService) ActiveAccommodation(studentID uint) (*models.Accommodation, error) {
	var acc models.Accommodation
	err := s.db.Where("student_id = ? AND is_active = ?", studentID, true).First(&acc).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrAccommodationNotFound
		}
		return nil, wrapDBError(err)
	}
	return &acc, nil
}

// AccommodationHistory lịch sử cư trú của một sinh viên, mới nhất trước
func (s *AllocationService) AccommodationHistory(studentID uint) ([]models.Accommodation, error) {
	var accs []models.Accommodation
	err := s.db.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&accs).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return accs, nil
}

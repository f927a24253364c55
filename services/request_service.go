package services

import (
	goerrors "errors"

	"gorm.io/gorm"

	"hostelcore/constants"
	"hostelcore/dto"
	"hostelcore/errors"
	"hostelcore/models"
	"hostelcore/services/logger"
)

// RequestService quản lý vòng đời request ngoài đường cấp phát:
// tạo Pending, hủy, từ chối, và các projection read-only.
type RequestService struct {
	db     *gorm.DB
	logger logger.Logger
}

type RequestServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewRequestService(opts RequestServiceOptions) *RequestService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &RequestService{db: opts.DB, logger: l}
}

// Create ghi một request Pending từ booking flow bên ngoài
func (s *RequestService) Create(input dto.CreateAllocationRequest) (*models.AllocationRequest, error) {
	var student models.Student
	if err := s.db.First(&student, input.StudentID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrStudentNotFound
		}
		return nil, wrapDBError(err)
	}

	var hostel models.Hostel
	if err := s.db.First(&hostel, input.HostelID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrHostelNotFound
		}
		return nil, wrapDBError(err)
	}
	if !hostel.IsActive {
		return nil, errors.ErrHostelInactive
	}

	request := models.AllocationRequest{
		StudentID:    input.StudentID,
		HostelID:     input.HostelID,
		FloorID:      input.FloorID,
		RoomType:     input.RoomType,
		AcademicYear: input.AcademicYear,
		Semester:     input.Semester,
		Status:       constants.RequestStatusPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, wrapDBError(err)
	}

	s.logger.Info("sinh viên %d tạo request %d (hostel %d)", input.StudentID, request.ID, input.HostelID)
	return &request, nil
}

// Cancel hủy một request còn Pending. Request đã Approved phải đi đường release.
func (s *RequestService) Cancel(requestID uint) error {
	return s.transition(requestID, constants.RequestStatusCancelled, "")
}

// Reject từ chối một request còn Pending kèm ghi chú
func (s *RequestService) Reject(requestID uint, notes string) error {
	return s.transition(requestID, constants.RequestStatusRejected, notes)
}

func (s *RequestService) transition(requestID uint, target int, notes string) error {
	var request models.AllocationRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrRequestNotFound
		}
		return wrapDBError(err)
	}
	// Máy trạng thái quyết định transition hợp lệ
	state := models.GetRequestState(request.Status)
	var stateErr error
	if target == constants.RequestStatusRejected {
		stateErr = state.Reject(&request, notes)
	} else {
		stateErr = state.Cancel(&request)
	}
	if stateErr != nil {
		return errors.ErrInvalidRequestState
	}

	// Check-and-set: Pending có thể bị cấp phát đồng thời, không được ghi đè
	updates := map[string]interface{}{"status": target}
	if notes != "" {
		updates["notes"] = notes
	}
	res := s.db.Model(&models.AllocationRequest{}).
		Where("id = ? AND status = ?", requestID, constants.RequestStatusPending).
		Updates(updates)
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrInvalidRequestState
	}
	return nil
}

// List trả projection request có lọc trạng thái và nguyện vọng hostel, kèm sinh viên
func (s *RequestService) List(status *int, hostelID *uint, page, limit int) ([]dto.RequestResponse, int64, error) {
	tx := s.db.Model(&models.AllocationRequest{}).Preload("Student")
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	if hostelID != nil {
		tx = tx.Where("hostel_id = ?", *hostelID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	var requests []models.AllocationRequest
	if err := tx.Order("created_at ASC").Offset(page * limit).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, wrapDBError(err)
	}

	responses := make([]dto.RequestResponse, 0)
	for _, request := range requests {
		responses = append(responses, dto.RequestResponse{
			ID:           request.ID,
			Status:       request.Status,
			HostelID:     request.HostelID,
			FloorID:      request.FloorID,
			RoomType:     request.RoomType,
			AcademicYear: request.AcademicYear,
			Semester:     request.Semester,
			Notes:        request.Notes,
			CreatedAt:    request.CreatedAt,
			Student: dto.StudentInfo{
				ID:          request.Student.ID,
				StudentCode: request.Student.StudentCode,
				Name:        request.Student.Name,
				Gender:      request.Student.Gender,
			},
		})
	}
	return responses, total, nil
}

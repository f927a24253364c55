package validator

import (
	"regexp"

	"hostelcore/constants"
	"hostelcore/dto"
	"hostelcore/errors"
)

var academicYearRegex = regexp.MustCompile(`^[0-9]{4}-[0-9]{4}$`)

// ValidateAllocateInput validate input cấp phát
func ValidateAllocateInput(input *dto.AllocateRequest) error {
	if input.RequestID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID request không được để trống", nil)
	}

	if input.StudentID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID sinh viên không được để trống", nil)
	}

	if input.HostelID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID hostel không được để trống", nil)
	}

	if input.RoomNumber == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Số phòng không được để trống", nil)
	}

	if input.BedNumber <= 0 {
		return errors.NewAppError(errors.ErrCodeValidation, "Số giường phải lớn hơn 0", nil)
	}

	return nil
}

// ValidateReleaseInput validate input trả giường
func ValidateReleaseInput(input *dto.ReleaseRequest) error {
	if input.AccommodationID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID accommodation không được để trống", nil)
	}
	return nil
}

// ValidateRequestInput validate input tạo request xếp chỗ
func ValidateRequestInput(input *dto.CreateAllocationRequest) error {
	if input.StudentID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID sinh viên không được để trống", nil)
	}

	if input.HostelID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID hostel không được để trống", nil)
	}

	if input.RoomType < constants.RoomTypeSingle || input.RoomType > constants.RoomTypeQuadruple {
		return errors.NewAppError(errors.ErrCodeValidation, "Loại phòng phải từ 1 đến 4", nil)
	}

	if !academicYearRegex.MatchString(input.AcademicYear) {
		return errors.NewAppError(errors.ErrCodeInvalidFormat, "Năm học không hợp lệ, định dạng yyyy-yyyy", nil)
	}

	if input.Semester < 1 || input.Semester > 3 {
		return errors.NewAppError(errors.ErrCodeValidation, "Học kỳ phải từ 1 đến 3", nil)
	}

	return nil
}

// ValidateHostelInput validate input tạo hostel
func ValidateHostelInput(input *dto.HostelRequest) error {
	if input.Name == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Tên hostel không được để trống", nil)
	}

	if input.GenderPolicy < constants.GenderPolicyAny || input.GenderPolicy > constants.GenderPolicyFemale {
		return errors.NewAppError(errors.ErrCodeValidation, "Chính sách giới tính phải từ 0 đến 2", nil)
	}

	for _, floor := range input.Floors {
		if floor < 0 {
			return errors.NewAppError(errors.ErrCodeValidation, "Số tầng không được âm", nil)
		}
	}

	return nil
}

// ValidateRoomInput validate input tạo phòng
func ValidateRoomInput(input *dto.RoomRequest) error {
	if input.HostelID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID hostel không được để trống", nil)
	}

	if input.FloorID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID tầng không được để trống", nil)
	}

	if input.RoomNumber == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Số phòng không được để trống", nil)
	}

	if input.Type < constants.RoomTypeSingle || input.Type > constants.RoomTypeQuadruple {
		return errors.NewAppError(errors.ErrCodeValidation, "Loại phòng phải từ 1 đến 4", nil)
	}

	return nil
}

// ValidateBedStatusInput validate input đổi trạng thái giường out-of-band
func ValidateBedStatusInput(input *dto.BedStatusRequest) error {
	if input.BedID == 0 {
		return errors.NewAppError(errors.ErrCodeRequiredField, "ID giường không được để trống", nil)
	}

	// Occupied chỉ được đặt bởi Allocation Engine, không đặt tay
	if input.Status != constants.BedStatusAvailable &&
		input.Status != constants.BedStatusReserved &&
		input.Status != constants.BedStatusMaintenance {
		return errors.NewAppError(errors.ErrCodeInvalidStatus, "Trạng thái giường không hợp lệ", nil)
	}

	return nil
}

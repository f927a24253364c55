package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelcore/constants"
	"hostelcore/dto"
	"hostelcore/errors"
	"hostelcore/models"
)

func TestRequestCreate(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoom(t, db, "A101", 2, 1)
	svc := NewRequestService(RequestServiceOptions{DB: db})

	input := dto.CreateAllocationRequest{
		StudentID:    f.Students[0].ID,
		HostelID:     f.Hostel.ID,
		RoomType:     constants.RoomTypeDouble,
		AcademicYear: "2025-2026",
		Semester:     1,
	}
	request, err := svc.Create(input)
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusPending, request.Status)
	assert.NotZero(t, request.ID)

	t.Run("sinh viên không tồn tại", func(t *testing.T) {
		bad := input
		bad.StudentID = 9999
		_, err := svc.Create(bad)
		assert.ErrorIs(t, err, errors.ErrStudentNotFound)
	})

	t.Run("hostel không tồn tại", func(t *testing.T) {
		bad := input
		bad.HostelID = 9999
		_, err := svc.Create(bad)
		assert.ErrorIs(t, err, errors.ErrHostelNotFound)
	})

	t.Run("hostel ngừng hoạt động", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Hostel{}).
			Where("id = ?", f.Hostel.ID).
			Update("is_active", false).Error)
		_, err := svc.Create(input)
		assert.ErrorIs(t, err, errors.ErrHostelInactive)
	})
}

func TestRequestCancelAndReject(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoom(t, db, "B201", 2, 3)
	svc := NewRequestService(RequestServiceOptions{DB: db})

	require.NoError(t, svc.Cancel(f.Requests[0].ID))
	var request models.AllocationRequest
	require.NoError(t, db.First(&request, f.Requests[0].ID).Error)
	assert.Equal(t, constants.RequestStatusCancelled, request.Status)

	// Request đã hủy không hủy lại, không từ chối được
	assert.ErrorIs(t, svc.Cancel(f.Requests[0].ID), errors.ErrInvalidRequestState)
	assert.ErrorIs(t, svc.Reject(f.Requests[0].ID, "x"), errors.ErrInvalidRequestState)

	require.NoError(t, svc.Reject(f.Requests[1].ID, "hết chỗ nguyện vọng"))
	var rejected models.AllocationRequest
	require.NoError(t, db.First(&rejected, f.Requests[1].ID).Error)
	assert.Equal(t, constants.RequestStatusRejected, rejected.Status)
	assert.Equal(t, "hết chỗ nguyện vọng", rejected.Notes)

	assert.ErrorIs(t, svc.Cancel(9999), errors.ErrRequestNotFound)
}

// TestRequestCancelAfterApprove request đã cấp giường phải đi đường release
func TestRequestCancelAfterApprove(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoom(t, db, "C301", 2, 1)
	requests := NewRequestService(RequestServiceOptions{DB: db})
	allocation := NewAllocationService(AllocationServiceOptions{DB: db})

	_, err := allocation.Allocate(allocateInput(f, 0, 1, ""))
	require.NoError(t, err)

	assert.ErrorIs(t, requests.Cancel(f.Requests[0].ID), errors.ErrInvalidRequestState)
}

func TestRequestList(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoom(t, db, "D401", 2, 5)
	svc := NewRequestService(RequestServiceOptions{DB: db})

	require.NoError(t, svc.Cancel(f.Requests[4].ID))

	pending := constants.RequestStatusPending
	list, total, err := svc.List(&pending, nil, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, list, 4)
	assert.Equal(t, f.Students[0].StudentCode, list[0].Student.StudentCode)

	// Phân trang
	list, total, err = svc.List(&pending, nil, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, list, 1)

	// Lọc theo hostel không khớp
	otherHostel := f.Hostel.ID + 1
	list, total, err = svc.List(nil, &otherHostel, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, list)
}

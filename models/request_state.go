package models

import (
	"errors"

	"hostelcore/constants"
)

// RequestState định nghĩa interface cho các trạng thái request
type RequestState interface {
	Approve(request *AllocationRequest, notes string) error
	Reject(request *AllocationRequest, notes string) error
	Cancel(request *AllocationRequest) error
}

// PendingState trạng thái chờ duyệt
type PendingState struct{}

func (s *PendingState) Approve(request *AllocationRequest, notes string) error {
	request.Status = constants.RequestStatusApproved
	request.Notes = notes
	return nil
}

func (s *PendingState) Reject(request *AllocationRequest, notes string) error {
	request.Status = constants.RequestStatusRejected
	request.Notes = notes
	return nil
}

func (s *PendingState) Cancel(request *AllocationRequest) error {
	request.Status = constants.RequestStatusCancelled
	return nil
}

// ApprovedState trạng thái đã duyệt, bất biến trừ ghi chú quản trị
type ApprovedState struct{}

func (s *ApprovedState) Approve(request *AllocationRequest, notes string) error {
	return errors.New("request already approved")
}

func (s *ApprovedState) Reject(request *AllocationRequest, notes string) error {
	return errors.New("cannot reject approved request")
}

func (s *ApprovedState) Cancel(request *AllocationRequest) error {
	// Đã cấp giường thì phải đi đường release, không hủy request
	return errors.New("cannot cancel approved request, release the accommodation instead")
}

// RejectedState trạng thái đã từ chối
type RejectedState struct{}

func (s *RejectedState) Approve(request *AllocationRequest, notes string) error {
	return errors.New("cannot approve rejected request")
}

func (s *RejectedState) Reject(request *AllocationRequest, notes string) error {
	return errors.New("request already rejected")
}

func (s *RejectedState) Cancel(request *AllocationRequest) error {
	return errors.New("cannot cancel rejected request")
}

// CancelledState trạng thái đã hủy
type CancelledState struct{}

func (s *CancelledState) Approve(request *AllocationRequest, notes string) error {
	return errors.New("cannot approve cancelled request")
}

func (s *CancelledState) Reject(request *AllocationRequest, notes string) error {
	return errors.New("cannot reject cancelled request")
}

func (s *CancelledState) Cancel(request *AllocationRequest) error {
	return errors.New("request already cancelled")
}

// GetRequestState trả về state tương ứng với trạng thái request
func GetRequestState(status int) RequestState {
	switch status {
	case constants.RequestStatusPending:
		return &PendingState{}
	case constants.RequestStatusApproved:
		return &ApprovedState{}
	case constants.RequestStatusRejected:
		return &RejectedState{}
	case constants.RequestStatusCancelled:
		return &CancelledState{}
	default:
		return &PendingState{}
	}
}

package dto

import "time"

// AllocateRequest là input của POST /allocate
type AllocateRequest struct {
	RequestID  uint   `json:"requestId" binding:"required"`
	StudentID  uint   `json:"studentId" binding:"required"`
	HostelID   uint   `json:"hostelId" binding:"required"`
	RoomNumber string `json:"roomNumber" binding:"required"`
	BedNumber  int    `json:"bedNumber" binding:"required"`
	Notes      string `json:"notes"`
}

// ReleaseRequest là input của POST /release
type ReleaseRequest struct {
	AccommodationID uint   `json:"accommodationId" binding:"required"`
	Reason          string `json:"reason"`
}

// AllocationResult trả về cho caller sau khi cấp phát thành công
type AllocationResult struct {
	AccommodationID uint      `json:"accommodationId"`
	RequestID       uint      `json:"requestId"`
	StudentID       uint      `json:"studentId"`
	RoomID          uint      `json:"roomId"`
	RoomNumber      string    `json:"roomNumber"`
	BedID           uint      `json:"bedId"`
	BedName         string    `json:"bedName"`
	Semester        int       `json:"semester"`
	AcademicYear    string    `json:"academicYear"`
	AllocationDate  time.Time `json:"allocationDate"`
}

// ReleaseResult trả về cho caller sau khi trả giường thành công
type ReleaseResult struct {
	AccommodationID uint      `json:"accommodationId"`
	BedID           uint      `json:"bedId"`
	RoomID          uint      `json:"roomId"`
	ReleaseDate     time.Time `json:"releaseDate"`
}

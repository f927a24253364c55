package dto

import "time"

// CreateAllocationRequest là input của booking flow, chỉ ghi request Pending
type CreateAllocationRequest struct {
	StudentID    uint   `json:"studentId" binding:"required"`
	HostelID     uint   `json:"hostelId" binding:"required"`
	FloorID      *uint  `json:"floorId"`
	RoomType     int    `json:"roomType" binding:"required"`
	AcademicYear string `json:"academicYear" binding:"required"`
	Semester     int    `json:"semester" binding:"required"`
}

// RejectRequest là input từ chối một request
type RejectRequest struct {
	RequestID uint   `json:"requestId" binding:"required"`
	Notes     string `json:"notes"`
}

// RequestResponse là projection request kèm thông tin sinh viên
type RequestResponse struct {
	ID           uint      `json:"id"`
	Status       int       `json:"status"`
	HostelID     uint      `json:"hostelId"`
	FloorID      *uint     `json:"floorId,omitempty"`
	RoomType     int       `json:"roomType"`
	AcademicYear string    `json:"academicYear"`
	Semester     int       `json:"semester"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Student      StudentInfo `json:"student"`
}

// StudentInfo thông tin sinh viên join vào projection
type StudentInfo struct {
	ID          uint   `json:"id"`
	StudentCode string `json:"studentCode"`
	Name        string `json:"name"`
	Gender      int    `json:"gender"`
}

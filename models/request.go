package models

import (
	"time"
)

// AllocationRequest là yêu cầu xếp chỗ của sinh viên, tạo với trạng thái Pending
type AllocationRequest struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StudentID    uint      `json:"studentId" gorm:"index"`
	Student      Student   `json:"student" gorm:"foreignKey:StudentID"`
	HostelID     uint      `json:"hostelId"` // Nguyện vọng hostel
	FloorID      *uint     `json:"floorId,omitempty"` // Nguyện vọng tầng, không bắt buộc
	RoomType     int       `json:"roomType"`
	AcademicYear string    `json:"academicYear"` // Ví dụ "2025-2026"
	Semester     int       `json:"semester"`
	Status       int       `json:"status" gorm:"default:0;index"`
	Notes        string    `json:"notes"` // Ghi chú quản trị, chỉ Allocation Engine ghi
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

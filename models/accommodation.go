package models

import "time"

// Accommodation là bản ghi ràng buộc Student với Bed do cấp phát tạo ra.
// Release chỉ đặt IsActive = false và đóng dấu ReleaseDate, không xóa lịch sử.
// Partial unique index trên StudentID chặn hai accommodation đang hoạt động
// của cùng sinh viên ở tầng DB, không phụ thuộc check trong service.
type Accommodation struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	StudentID      uint       `json:"studentId" gorm:"index;uniqueIndex:uq_accommodations_active_student,where:is_active"`
	Student        Student    `json:"student" gorm:"foreignKey:StudentID"`
	HostelID       uint       `json:"hostelId" gorm:"index"`
	RoomID         uint       `json:"roomId" gorm:"index"`
	Room           Room       `json:"-" gorm:"foreignKey:RoomID"`
	BedID          uint       `json:"bedId" gorm:"index"`
	Bed            Bed        `json:"-" gorm:"foreignKey:BedID"`
	RequestID      uint       `json:"requestId" gorm:"index"`
	Semester       int        `json:"semester"`
	AcademicYear   string     `json:"academicYear"`
	AllocationDate time.Time  `json:"allocationDate"`
	ReleaseDate    *time.Time `json:"releaseDate,omitempty"`
	ReleaseReason  string     `json:"releaseReason,omitempty"`
	IsActive       bool       `json:"isActive" gorm:"index"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

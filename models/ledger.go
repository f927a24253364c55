package models

import "time"

// LedgerEntry là bản ghi sổ cái chỉ ghi thêm, không sửa không xóa.
// IdempotencyKey duy nhất để phát hiện replay cùng một thao tác.
type LedgerEntry struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Type            int       `json:"type" gorm:"index"` // 1: allocate, 2: release
	HostelID        uint      `json:"hostelId"`
	RoomID          uint      `json:"roomId" gorm:"index"`
	BedID           uint      `json:"bedId" gorm:"index"`
	StudentID       uint      `json:"studentId" gorm:"index"`
	RequestID       uint      `json:"requestId"`
	AccommodationID uint      `json:"accommodationId"`
	IdempotencyKey  string    `json:"idempotencyKey" gorm:"uniqueIndex;size:64"`
	Note            string    `json:"note"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

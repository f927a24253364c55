package models

import (
	"time"

	"hostelcore/constants"
)

type Bed struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RoomID    uint      `json:"roomId" gorm:"index:idx_beds_room_number,unique"`
	BedNumber int       `json:"bedNumber" gorm:"index:idx_beds_room_number,unique"`
	Name      string    `json:"name"` // Ví dụ "Bed 1"
	Status    int       `json:"status" gorm:"default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Room      Room      `json:"-" gorm:"foreignKey:RoomID"`
}

// IsAllocatable chỉ giường Available mới là ứng viên cấp phát
func (b *Bed) IsAllocatable() bool {
	return b.Status == constants.BedStatusAvailable
}

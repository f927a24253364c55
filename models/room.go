package models

import (
	"time"

	"hostelcore/constants"
)

type Room struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	HostelID         uint      `json:"hostelId" gorm:"index:idx_rooms_hostel_number,unique"`
	FloorID          uint      `json:"floorId" gorm:"index"`
	RoomNumber       string    `json:"roomNumber" gorm:"index:idx_rooms_hostel_number,unique"`
	Type             int       `json:"type"` // Loại phòng, cố định khi tạo
	Capacity         int       `json:"capacity"`
	CurrentOccupancy int       `json:"currentOccupancy" gorm:"default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Hostel           Hostel    `json:"-" gorm:"foreignKey:HostelID"`
	Floor            Floor     `json:"-" gorm:"foreignKey:FloorID"`
	Beds             []Bed     `json:"beds" gorm:"foreignKey:RoomID"`
}

// HasCapacity kiểm tra phòng còn chỗ trống hay không
func (r *Room) HasCapacity() bool {
	return r.CurrentOccupancy < r.Capacity
}

// NominalCapacity trả về sức chứa danh định theo loại phòng
func NominalCapacity(roomType int) int {
	switch roomType {
	case constants.RoomTypeSingle, constants.RoomTypeDouble, constants.RoomTypeTriple, constants.RoomTypeQuadruple:
		return roomType
	default:
		return 0
	}
}

package models

import (
	"time"
)

type Hostel struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	GenderPolicy int       `json:"genderPolicy"` // 0: mọi giới tính, 1: nam, 2: nữ
	IsActive     bool      `json:"isActive" gorm:"default:true"`
	TotalBeds    int       `json:"totalBeds"` // Tổng số giường, cập nhật khi tạo phòng
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Floors       []Floor   `json:"floors" gorm:"foreignKey:HostelID"`
	Rooms        []Room    `json:"rooms" gorm:"foreignKey:HostelID"`
}

type Floor struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	HostelID  uint      `json:"hostelId" gorm:"index"`
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Rooms     []Room    `json:"rooms" gorm:"foreignKey:FloorID"`
}

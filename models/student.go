package models

import "time"

// Student là dữ liệu hồ sơ read-only, được ghi bởi hệ thống bên ngoài
type Student struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	StudentCode string    `json:"studentCode" gorm:"uniqueIndex"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Gender      int       `json:"gender"` // 1: nam, 2: nữ
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

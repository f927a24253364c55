package dto

import "time"

// HostelRequest là input tạo hostel kèm danh sách tầng
type HostelRequest struct {
	Name         string `json:"name" binding:"required"`
	GenderPolicy int    `json:"genderPolicy"`
	Floors       []int  `json:"floors"` // Số tầng, ví dụ [1, 2, 3]
}

// RoomRequest là input tạo phòng, loại phòng quyết định sức chứa và số giường
type RoomRequest struct {
	HostelID   uint   `json:"hostelId" binding:"required"`
	FloorID    uint   `json:"floorId" binding:"required"`
	RoomNumber string `json:"roomNumber" binding:"required"`
	Type       int    `json:"type" binding:"required"`
}

// BedStatusRequest đổi trạng thái giường out-of-band (Maintenance, Reserved)
type BedStatusRequest struct {
	BedID  uint `json:"bedId" binding:"required"`
	Status int  `json:"status"`
}

// BedSnapshot trạng thái một giường trong snapshot
type BedSnapshot struct {
	ID        uint   `json:"id"`
	BedNumber int    `json:"bedNumber"`
	Name      string `json:"name"`
	Status    int    `json:"status"`
}

// RoomSnapshot trạng thái một phòng trong snapshot
type RoomSnapshot struct {
	ID               uint          `json:"id"`
	RoomNumber       string        `json:"roomNumber"`
	FloorID          uint          `json:"floorId"`
	Type             int           `json:"type"`
	Capacity         int           `json:"capacity"`
	CurrentOccupancy int           `json:"currentOccupancy"`
	Beds             []BedSnapshot `json:"beds"`
}

// HostelSnapshot là projection read-only cho dashboard và matcher
type HostelSnapshot struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	GenderPolicy int            `json:"genderPolicy"`
	IsActive     bool           `json:"isActive"`
	TotalBeds    int            `json:"totalBeds"`
	OccupiedBeds int            `json:"occupiedBeds"`
	Rooms        []RoomSnapshot `json:"rooms"`
}

// ReconcileMismatch mô tả một sai lệch giữa sổ cái và bộ đếm
type ReconcileMismatch struct {
	RoomID          uint   `json:"roomId"`
	RoomNumber      string `json:"roomNumber"`
	CounterValue    int    `json:"counterValue"`    // current_occupancy của phòng
	OccupiedBeds    int    `json:"occupiedBeds"`    // Số giường đang Occupied
	LedgerOccupancy int    `json:"ledgerOccupancy"` // Tính lại từ sổ cái
	Detail          string `json:"detail"`
}

// LedgerEntryResponse một dòng sổ cái cho audit
type LedgerEntryResponse struct {
	ID              uint      `json:"id"`
	Type            int       `json:"type"`
	RoomID          uint      `json:"roomId"`
	BedID           uint      `json:"bedId"`
	StudentID       uint      `json:"studentId"`
	RequestID       uint      `json:"requestId"`
	AccommodationID uint      `json:"accommodationId"`
	Note            string    `json:"note"`
	CreatedAt       time.Time `json:"createdAt"`
}

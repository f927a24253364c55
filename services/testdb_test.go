package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hostelcore/constants"
	"hostelcore/models"
)

var testDBCounter int64

// setupTestDB mở một sqlite in-memory riêng cho mỗi test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:alloc_test_%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite chỉ cho một writer, giới hạn pool để transaction tuần tự hóa
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Hostel{},
		&models.Floor{},
		&models.Room{},
		&models.Bed{},
		&models.Student{},
		&models.AllocationRequest{},
		&models.Accommodation{},
		&models.LedgerEntry{},
	))

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type fixture struct {
	Hostel   models.Hostel
	Floor    models.Floor
	Room     models.Room
	Beds     []models.Bed
	Students []models.Student
	Requests []models.AllocationRequest
}

// seedRoom tạo hostel một tầng với một phòng roomNumber sức chứa capacity,
// kèm capacity giường Available và numStudents sinh viên với request Pending
func seedRoom(t *testing.T, db *gorm.DB, roomNumber string, capacity, numStudents int) *fixture {
	t.Helper()

	f := &fixture{}

	f.Hostel = models.Hostel{Name: "KTX A", GenderPolicy: constants.GenderPolicyAny, IsActive: true}
	require.NoError(t, db.Create(&f.Hostel).Error)

	f.Floor = models.Floor{HostelID: f.Hostel.ID, Number: 1, Name: "Tầng 1"}
	require.NoError(t, db.Create(&f.Floor).Error)

	f.Room = models.Room{
		HostelID:   f.Hostel.ID,
		FloorID:    f.Floor.ID,
		RoomNumber: roomNumber,
		Type:       capacity,
		Capacity:   capacity,
	}
	require.NoError(t, db.Create(&f.Room).Error)

	for i := 1; i <= capacity; i++ {
		bed := models.Bed{
			RoomID:    f.Room.ID,
			BedNumber: i,
			Name:      fmt.Sprintf("Bed %d", i),
			Status:    constants.BedStatusAvailable,
		}
		require.NoError(t, db.Create(&bed).Error)
		f.Beds = append(f.Beds, bed)
	}

	for i := 1; i <= numStudents; i++ {
		student := models.Student{
			StudentCode: fmt.Sprintf("SV%03d-%s", i, roomNumber),
			Name:        fmt.Sprintf("Sinh viên %d", i),
			Gender:      1,
		}
		require.NoError(t, db.Create(&student).Error)
		f.Students = append(f.Students, student)

		request := models.AllocationRequest{
			StudentID:    student.ID,
			HostelID:     f.Hostel.ID,
			RoomType:     capacity,
			AcademicYear: "2025-2026",
			Semester:     1,
			Status:       constants.RequestStatusPending,
		}
		require.NoError(t, db.Create(&request).Error)
		f.Requests = append(f.Requests, request)
	}

	return f
}

func reloadRoom(t *testing.T, db *gorm.DB, roomID uint) models.Room {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, roomID).Error)
	return room
}

func reloadBed(t *testing.T, db *gorm.DB, bedID uint) models.Bed {
	t.Helper()
	var bed models.Bed
	require.NoError(t, db.First(&bed, bedID).Error)
	return bed
}

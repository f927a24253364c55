package routes

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hostelcore/constants"
	"hostelcore/errors"
	"hostelcore/models"
)

var routesTestDBCounter int64

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine

	hostel  models.Hostel
	floor   models.Floor
	room    models.Room
	student models.Student
	request models.AllocationRequest
}

// envelope khớp cấu trúc response chung
type envelope struct {
	Code      int             `json:"code"`
	Mess      string          `json:"mess"`
	ErrorCode string          `json:"errorCode"`
	Data      json.RawMessage `json:"data"`
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := atomic.AddInt64(&routesTestDBCounter, 1)
	dsn := fmt.Sprintf("file:routes_test_%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

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

	env := &testEnv{db: db}

	env.hostel = models.Hostel{Name: "KTX A", IsActive: true, TotalBeds: 2}
	require.NoError(t, db.Create(&env.hostel).Error)
	env.floor = models.Floor{HostelID: env.hostel.ID, Number: 1, Name: "Tầng 1"}
	require.NoError(t, db.Create(&env.floor).Error)
	env.room = models.Room{
		HostelID:   env.hostel.ID,
		FloorID:    env.floor.ID,
		RoomNumber: "A101",
		Type:       constants.RoomTypeDouble,
		Capacity:   2,
	}
	require.NoError(t, db.Create(&env.room).Error)
	for i := 1; i <= 2; i++ {
		require.NoError(t, db.Create(&models.Bed{
			RoomID:    env.room.ID,
			BedNumber: i,
			Name:      fmt.Sprintf("Bed %d", i),
			Status:    constants.BedStatusAvailable,
		}).Error)
	}
	env.student = models.Student{StudentCode: "SV001", Name: "Nguyễn Văn A", Gender: 1}
	require.NoError(t, db.Create(&env.student).Error)
	env.request = models.AllocationRequest{
		StudentID:    env.student.ID,
		HostelID:     env.hostel.ID,
		RoomType:     constants.RoomTypeDouble,
		AcademicYear: "2025-2026",
		Semester:     1,
		Status:       constants.RequestStatusPending,
	}
	require.NoError(t, db.Create(&env.request).Error)

	env.router = gin.New()
	SetupRoutes(env.router, db, nil)
	return env
}

// testToken dựng token chỉ cần payload giải mã được, chữ ký không được kiểm ở middleware
func testToken(role int) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"userinfo": map[string]interface{}{"userid": 1, "role": role},
	})
	return "h." + base64.RawURLEncoding.EncodeToString(payload) + ".s"
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func (env *testEnv) allocateBody(bedNumber int) gin.H {
	return gin.H{
		"requestId":  env.request.ID,
		"studentId":  env.student.ID,
		"hostelId":   env.hostel.ID,
		"roomNumber": env.room.RoomNumber,
		"bedNumber":  bedNumber,
	}
}

func TestAllocateEndpointAuth(t *testing.T) {
	env := setupEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/v1/allocate", env.allocateBody(1), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Staff không có quyền cấp phát
	w, _ = env.do(t, http.MethodPost, "/api/v1/allocate", env.allocateBody(1), testToken(constants.RoleStaff))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAllocateEndpoint(t *testing.T) {
	env := setupEnv(t)
	token := testToken(constants.RoleWarden)

	w, resp := env.do(t, http.MethodPost, "/api/v1/allocate", env.allocateBody(1), token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.Code)

	var result struct {
		AccommodationID uint   `json:"accommodationId"`
		RoomNumber      string `json:"roomNumber"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.NotZero(t, result.AccommodationID)
	assert.Equal(t, "A101", result.RoomNumber)

	// Replay cùng requestId
	w, resp = env.do(t, http.MethodPost, "/api/v1/allocate", env.allocateBody(1), token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(errors.ErrCodeAlreadyProcessed), resp.ErrorCode)

	// Body thiếu trường bắt buộc
	w, _ = env.do(t, http.MethodPost, "/api/v1/allocate", gin.H{"requestId": env.request.ID}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReleaseEndpoint(t *testing.T) {
	env := setupEnv(t)
	token := testToken(constants.RoleSuperAdmin)

	w, resp := env.do(t, http.MethodPost, "/api/v1/allocate", env.allocateBody(2), token)
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		AccommodationID uint `json:"accommodationId"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))

	activePath := fmt.Sprintf("/api/v1/accommodations/%d/active", env.student.ID)
	w, resp = env.do(t, http.MethodGet, activePath, nil, testToken(constants.RoleStaff))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.Code)

	w, resp = env.do(t, http.MethodPost, "/api/v1/release",
		gin.H{"accommodationId": result.AccommodationID, "reason": "checkout"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.Code)

	// Sau release sinh viên không còn chỗ đang hoạt động
	w, _ = env.do(t, http.MethodGet, activePath, nil, testToken(constants.RoleStaff))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Accommodation không tồn tại
	w, resp = env.do(t, http.MethodPost, "/api/v1/release", gin.H{"accommodationId": 9999}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(errors.ErrCodeAccommodationNotFound), resp.ErrorCode)
}

func TestInventorySnapshotEndpoint(t *testing.T) {
	env := setupEnv(t)

	// Snapshot công khai, không cần token
	w, resp := env.do(t, http.MethodGet, "/api/v1/inventory", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var snapshots []struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Rooms []struct {
			RoomNumber string `json:"roomNumber"`
			Beds       []struct {
				BedNumber int `json:"bedNumber"`
			} `json:"beds"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &snapshots))
	require.Len(t, snapshots, 1)
	require.Len(t, snapshots[0].Rooms, 1)
	assert.Len(t, snapshots[0].Rooms[0].Beds, 2)

	w, _ = env.do(t, http.MethodGet, "/api/v1/inventory?hostelId=9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRoomEndpoint(t *testing.T) {
	env := setupEnv(t)
	token := testToken(constants.RoleWarden)

	body := gin.H{
		"hostelId":   env.hostel.ID,
		"floorId":    env.floor.ID,
		"roomNumber": "A102",
		"type":       constants.RoomTypeTriple,
	}
	w, resp := env.do(t, http.MethodPost, "/api/v1/rooms", body, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.Code)

	// Loại phòng quyết định số giường sinh ra
	var beds int64
	require.NoError(t, env.db.Model(&models.Bed{}).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Where("rooms.room_number = ?", "A102").
		Count(&beds).Error)
	assert.Equal(t, int64(3), beds)

	// Trùng số phòng trong cùng hostel
	w, resp = env.do(t, http.MethodPost, "/api/v1/rooms", body, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(errors.ErrCodeDBDuplicate), resp.ErrorCode)
}

func TestRequestEndpoints(t *testing.T) {
	env := setupEnv(t)

	// Tạo request mới cho sinh viên khác
	student := models.Student{StudentCode: "SV002", Name: "Trần Thị B", Gender: 2}
	require.NoError(t, env.db.Create(&student).Error)

	body := gin.H{
		"studentId":    student.ID,
		"hostelId":     env.hostel.ID,
		"roomType":     constants.RoomTypeDouble,
		"academicYear": "2025-2026",
		"semester":     1,
	}
	w, resp := env.do(t, http.MethodPost, "/api/v1/requests", body, "")
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	require.NotZero(t, created.ID)

	// Danh sách request cần quyền staff
	w, _ = env.do(t, http.MethodGet, "/api/v1/requests", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp = env.do(t, http.MethodGet, "/api/v1/requests?status=0", nil, testToken(constants.RoleStaff))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, resp.Code)

	// Hủy request vừa tạo
	w, _ = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/requests/%d/cancel", created.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Hủy lần hai
	w, resp = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/requests/%d/cancel", created.ID), nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidRequestState), resp.ErrorCode)
}

func TestChangeBedStatusEndpoint(t *testing.T) {
	env := setupEnv(t)
	token := testToken(constants.RoleWarden)

	var bed models.Bed
	require.NoError(t, env.db.Where("room_id = ? AND bed_number = ?", env.room.ID, 2).First(&bed).Error)

	w, _ := env.do(t, http.MethodPut, "/api/v1/bedStatus",
		gin.H{"bedId": bed.ID, "status": constants.BedStatusMaintenance}, token)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, env.db.First(&bed, bed.ID).Error)
	assert.Equal(t, constants.BedStatusMaintenance, bed.Status)

	// Không đặt tay Occupied
	w, _ = env.do(t, http.MethodPut, "/api/v1/bedStatus",
		gin.H{"bedId": bed.ID, "status": constants.BedStatusOccupied}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Giường đang có người ở thì không đổi được
	w, resp := env.do(t, http.MethodPost, "/api/v1/allocate", env.allocateBody(1), token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, resp.Code)

	var occupied models.Bed
	require.NoError(t, env.db.Where("room_id = ? AND bed_number = ?", env.room.ID, 1).First(&occupied).Error)
	w, resp = env.do(t, http.MethodPut, "/api/v1/bedStatus",
		gin.H{"bedId": occupied.ID, "status": constants.BedStatusMaintenance}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(errors.ErrCodeBedUnavailable), resp.ErrorCode)
}

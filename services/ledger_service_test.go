package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostelcore/constants"
	"hostelcore/errors"
	"hostelcore/models"
)

func TestLedgerAppendDuplicateKey(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoom(t, db, "A101", 1, 1)
	ledger := NewLedgerService(LedgerServiceOptions{DB: db})

	entry := models.LedgerEntry{
		Type:           constants.LedgerTypeAllocate,
		HostelID:       f.Hostel.ID,
		RoomID:         f.Room.ID,
		BedID:          f.Beds[0].ID,
		StudentID:      f.Students[0].ID,
		RequestID:      f.Requests[0].ID,
		IdempotencyKey: "allocate:1",
	}
	require.NoError(t, ledger.Append(db, &entry))

	exists, err := ledger.HasKey(db, "allocate:1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = ledger.HasKey(db, "allocate:2")
	require.NoError(t, err)
	assert.False(t, exists)

	duplicate := models.LedgerEntry{
		Type:           constants.LedgerTypeAllocate,
		RoomID:         f.Room.ID,
		BedID:          f.Beds[0].ID,
		IdempotencyKey: "allocate:1",
	}
	err = ledger.Append(db, &duplicate)
	assert.ErrorIs(t, err, errors.ErrAlreadyProcessed)
}

// TestEntriesForBed lịch sử một giường trả về theo thứ tự ghi
func TestEntriesForBed(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoom(t, db, "B201", 1, 1)
	allocation := NewAllocationService(AllocationServiceOptions{DB: db})
	ledger := NewLedgerService(LedgerServiceOptions{DB: db})

	acc, err := allocation.Allocate(allocateInput(f, 0, 1, ""))
	require.NoError(t, err)
	_, err = allocation.Release(acc.ID, "checkout")
	require.NoError(t, err)

	entries, err := ledger.EntriesForBed(f.Beds[0].ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, constants.LedgerTypeAllocate, entries[0].Type)
	assert.Equal(t, constants.LedgerTypeRelease, entries[1].Type)
	assert.Equal(t, f.Students[0].ID, entries[0].StudentID)
}

// TestRebuildOccupancy occupancy dựng lại từ sổ cái khớp bộ đếm phòng
func TestRebuildOccupancy(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoom(t, db, "C301", 2, 2)
	allocation := NewAllocationService(AllocationServiceOptions{DB: db})
	ledger := NewLedgerService(LedgerServiceOptions{DB: db})

	acc1, err := allocation.Allocate(allocateInput(f, 0, 1, ""))
	require.NoError(t, err)
	_, err = allocation.Allocate(allocateInput(f, 1, 2, ""))
	require.NoError(t, err)
	_, err = allocation.Release(acc1.ID, "")
	require.NoError(t, err)

	occupancy, err := ledger.RebuildOccupancy()
	require.NoError(t, err)
	assert.Equal(t, 1, occupancy[f.Room.ID])
	assert.Equal(t, reloadRoom(t, db, f.Room.ID).CurrentOccupancy, occupancy[f.Room.ID])
}

func TestReconcile(t *testing.T) {
	db := setupTestDB(t)
	f := seedRoom(t, db, "D401", 2, 1)
	allocation := NewAllocationService(AllocationServiceOptions{DB: db})
	ledger := NewLedgerService(LedgerServiceOptions{DB: db})

	_, err := allocation.Allocate(allocateInput(f, 0, 1, ""))
	require.NoError(t, err)

	// Ba nguồn đang khớp nhau
	mismatches, err := ledger.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	// Làm hỏng bộ đếm bằng tay, reconcile phải bắt được
	require.NoError(t, db.Model(&models.Room{}).
		Where("id = ?", f.Room.ID).
		UpdateColumn("current_occupancy", 2).Error)

	mismatches, err = ledger.Reconcile()
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, f.Room.ID, mismatches[0].RoomID)
	assert.Equal(t, 2, mismatches[0].CounterValue)
	assert.Equal(t, 1, mismatches[0].OccupiedBeds)
	assert.Equal(t, 1, mismatches[0].LedgerOccupancy)
}

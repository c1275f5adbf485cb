// Package repository 房间仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EduRoDev/quantum-saas/internal/models"
)

func setupRoomTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Hotel{}, &models.Room{}, &models.Client{}, &models.Reservation{})
	require.NoError(t, err)

	return db
}

func createRoomTestHotel(t *testing.T, db *gorm.DB) *models.Hotel {
	hotel := &models.Hotel{
		Name: "测试酒店", Type: models.HotelTypeHotel,
		Country: "哥伦比亚", City: "麦德林", Address: "addr1",
	}
	require.NoError(t, db.Create(hotel).Error)
	return hotel
}

func TestRoomRepository_Create(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()
	hotel := createRoomTestHotel(t, db)

	room := &models.Room{
		HotelID:  hotel.ID,
		Name:     "101",
		Price:    150,
		Capacity: 2,
		Status:   models.RoomStatusFree,
	}

	err := repo.Create(ctx, room)
	require.NoError(t, err)
	assert.NotZero(t, room.ID)
}

func TestRoomRepository_GetByID(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()
	hotel := createRoomTestHotel(t, db)

	room := &models.Room{HotelID: hotel.ID, Name: "201", Price: 300, Capacity: 4, Status: models.RoomStatusFree}
	require.NoError(t, db.Create(room).Error)

	found, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "201", found.Name)

	_, err = repo.GetByID(ctx, 99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomRepository_GetByIDWithHotel(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()
	hotel := createRoomTestHotel(t, db)

	room := &models.Room{HotelID: hotel.ID, Name: "202", Price: 300, Capacity: 2, Status: models.RoomStatusFree}
	require.NoError(t, db.Create(room).Error)

	found, err := repo.GetByIDWithHotel(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Hotel)
	assert.Equal(t, hotel.Name, found.Hotel.Name)
}

func TestRoomRepository_UpdateStatus(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()
	hotel := createRoomTestHotel(t, db)

	room := &models.Room{HotelID: hotel.ID, Name: "301", Price: 180, Capacity: 2, Status: models.RoomStatusFree}
	require.NoError(t, db.Create(room).Error)

	err := repo.UpdateStatus(ctx, room.ID, models.RoomStatusBusy)
	require.NoError(t, err)

	found, err := repo.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusBusy, found.Status)
}

func TestRoomRepository_List(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()
	hotel := createRoomTestHotel(t, db)

	rooms := []*models.Room{
		{HotelID: hotel.ID, Name: "101", Price: 100, Capacity: 1, Status: models.RoomStatusFree},
		{HotelID: hotel.ID, Name: "102", Price: 200, Capacity: 2, Status: models.RoomStatusBooked},
		{HotelID: hotel.ID, Name: "103", Price: 300, Capacity: 4, Status: models.RoomStatusFree},
	}
	for _, room := range rooms {
		require.NoError(t, db.Create(room).Error)
	}

	t.Run("按酒店过滤", func(t *testing.T) {
		list, total, err := repo.List(ctx, 0, 10, map[string]interface{}{"hotel_id": hotel.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, list, 3)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		list, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"hotel_id": hotel.ID,
			"status":   models.RoomStatusFree,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)
	})

	t.Run("按价格过滤", func(t *testing.T) {
		_, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"hotel_id":  hotel.ID,
			"max_price": 250.0,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("按容量过滤", func(t *testing.T) {
		_, total, err := repo.List(ctx, 0, 10, map[string]interface{}{
			"hotel_id":     hotel.ID,
			"min_capacity": 2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestRoomRepository_HasReservations(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()
	hotel := createRoomTestHotel(t, db)

	room := &models.Room{HotelID: hotel.ID, Name: "401", Price: 120, Capacity: 2, Status: models.RoomStatusFree}
	require.NoError(t, db.Create(room).Error)

	has, err := repo.HasReservations(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, has)

	client := &models.Client{
		Name: "测试", LastName: "客户",
		DocumentType: models.DocumentTypeCC, DocumentNumber: "10002",
		Email: "room-test@example.com",
	}
	require.NoError(t, db.Create(client).Error)

	now := time.Now()
	checkIn := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	reservation := &models.Reservation{
		ReservationNo: "RS100",
		RoomID:        room.ID,
		ClientID:      client.ID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.Add(24 * time.Hour),
		Status:        models.ReservationStatusCanceled,
		CanceledAt:    &now,
	}
	require.NoError(t, db.Create(reservation).Error)

	// 已取消的预订同样阻止删除
	has, err = repo.HasReservations(ctx, room.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRoomRepository_Delete(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()
	hotel := createRoomTestHotel(t, db)

	room := &models.Room{HotelID: hotel.ID, Name: "501", Price: 100, Capacity: 1, Status: models.RoomStatusFree}
	require.NoError(t, db.Create(room).Error)

	err := repo.Delete(ctx, room.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, room.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

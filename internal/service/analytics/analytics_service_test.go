// Package analytics 预测分析服务单元测试
package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EduRoDev/quantum-saas/internal/common/config"
	apperrors "github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/models"
)

func setupAnalyticsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Hotel{}, &models.Room{}, &models.Client{}, &models.Reservation{}, &models.Payment{})
	require.NoError(t, err)

	return db
}

func createAnalyticsFixtures(t *testing.T, db *gorm.DB) (*models.Hotel, *models.Reservation) {
	hotel := &models.Hotel{
		Name: "测试酒店", Type: models.HotelTypeHotel,
		Country: "哥伦比亚", City: "波哥大", Address: "addr",
	}
	require.NoError(t, db.Create(hotel).Error)

	room := &models.Room{HotelID: hotel.ID, Name: "101", Price: 200, Capacity: 2, Status: models.RoomStatusBooked}
	require.NoError(t, db.Create(room).Error)

	client := &models.Client{
		Name: "测试", LastName: "客户",
		DocumentType: models.DocumentTypeCC, DocumentNumber: "50001",
		Email: "analytics@example.com",
	}
	require.NoError(t, db.Create(client).Error)

	checkIn := time.Now().Add(10 * 24 * time.Hour).Truncate(time.Hour)
	reservation := &models.Reservation{
		ReservationNo: "RS700",
		RoomID:        room.ID,
		ClientID:      client.ID,
		CheckIn:       checkIn,
		CheckOut:      checkIn.Add(72 * time.Hour),
		Status:        models.ReservationStatusConfirmed,
	}
	require.NoError(t, db.Create(reservation).Error)

	return hotel, reservation
}

func TestAnalyticsService_BuildSample(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	_, reservation := createAnalyticsFixtures(t, db)

	svc := NewAnalyticsService(db, &config.AnalyticsConfig{Enabled: true, Endpoint: "http://localhost:1", Timeout: 1})
	ctx := context.Background()

	sample, err := svc.BuildSample(ctx, reservation.ID)
	require.NoError(t, err)

	assert.Equal(t, reservation.ID, sample.ReservationID)
	assert.Equal(t, reservation.ClientID, sample.ClientID)
	assert.Equal(t, 3, sample.Nights)
	assert.Equal(t, 600.0, sample.TotalPrice)
	assert.GreaterOrEqual(t, sample.LeadTimeDays, 9)

	t.Run("预订不存在", func(t *testing.T) {
		_, err := svc.BuildSample(ctx, 99999)
		assert.ErrorIs(t, err, apperrors.ErrReservationNotFound)
	})
}

func TestAnalyticsService_Predict(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	_, reservation := createAnalyticsFixtures(t, db)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var sample ReservationSample
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sample))
		assert.Equal(t, reservation.ID, sample.ReservationID)

		json.NewEncoder(w).Encode(PredictionResult{
			ReservationID: sample.ReservationID,
			ClientID:      sample.ClientID,
			Prediction:    "no_show",
			Probabilities: map[string]float64{"no_show": 0.7, "show": 0.3},
		})
	}))
	defer server.Close()

	svc := NewAnalyticsService(db, &config.AnalyticsConfig{Enabled: true, Endpoint: server.URL, Timeout: 2})

	result, err := svc.Predict(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, "no_show", result.Prediction)
	assert.InDelta(t, 0.7, result.Probabilities["no_show"], 0.001)
}

func TestAnalyticsService_Predict_Errors(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	_, reservation := createAnalyticsFixtures(t, db)

	t.Run("服务未启用", func(t *testing.T) {
		svc := NewAnalyticsService(db, &config.AnalyticsConfig{Enabled: false})
		_, err := svc.Predict(context.Background(), reservation.ID)
		assert.ErrorIs(t, err, apperrors.ErrExternalService)
	})

	t.Run("服务端错误", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		svc := NewAnalyticsService(db, &config.AnalyticsConfig{Enabled: true, Endpoint: server.URL, Timeout: 2})
		_, err := svc.Predict(context.Background(), reservation.ID)
		assert.ErrorIs(t, err, apperrors.ErrExternalService)
	})
}

func TestAnalyticsService_PredictAsync(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	_, reservation := createAnalyticsFixtures(t, db)

	received := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(PredictionResult{Prediction: "show"})
		received <- struct{}{}
	}))
	defer server.Close()

	svc := NewAnalyticsService(db, &config.AnalyticsConfig{Enabled: true, Endpoint: server.URL, Timeout: 2})
	svc.PredictAsync(reservation.ID)

	select {
	case <-received:
	case <-time.After(3 * time.Second):
		t.Fatal("异步预测未触达预测服务")
	}

	t.Run("未启用时不发起请求", func(t *testing.T) {
		disabled := NewAnalyticsService(db, &config.AnalyticsConfig{Enabled: false, Endpoint: server.URL})
		disabled.PredictAsync(reservation.ID)

		select {
		case <-received:
			t.Fatal("未启用的服务不应发起请求")
		case <-time.After(100 * time.Millisecond):
		}
	})
}

func TestAnalyticsService_GetHotelStats(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	hotel, reservation := createAnalyticsFixtures(t, db)

	// 同房间补一条已取消预订
	now := time.Now()
	canceled := &models.Reservation{
		ReservationNo: "RS701",
		RoomID:        reservation.RoomID,
		ClientID:      reservation.ClientID,
		CheckIn:       reservation.CheckOut.Add(24 * time.Hour),
		CheckOut:      reservation.CheckOut.Add(72 * time.Hour),
		Status:        models.ReservationStatusCanceled,
		CanceledAt:    &now,
	}
	require.NoError(t, db.Create(canceled).Error)

	payment := &models.Payment{
		PaymentNo:     "PY700",
		ReservationID: reservation.ID,
		RoomID:        reservation.RoomID,
		ClientID:      reservation.ClientID,
		Amount:        600,
		Method:        models.PaymentMethodVisa,
		Status:        models.PaymentStatusConfirmed,
	}
	require.NoError(t, db.Create(payment).Error)

	svc := NewAnalyticsService(db, &config.AnalyticsConfig{Enabled: false})

	stats, err := svc.GetHotelStats(context.Background(), hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.RoomCount)
	assert.Equal(t, int64(2), stats.Reservations)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, int64(1), stats.Canceled)
	assert.InDelta(t, 0.5, stats.CancellationRate, 0.001)
	assert.InDelta(t, 1.0, stats.OccupancyRate, 0.001)
	assert.InDelta(t, 600.0, stats.AvgPaymentAmount, 0.001)

	t.Run("酒店不存在", func(t *testing.T) {
		_, err := svc.GetHotelStats(context.Background(), 99999)
		assert.ErrorIs(t, err, apperrors.ErrHotelNotFound)
	})
}

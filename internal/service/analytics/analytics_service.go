// Package analytics 对接外部预测分析服务
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/EduRoDev/quantum-saas/internal/common/config"
	"github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/common/logger"
	"github.com/EduRoDev/quantum-saas/internal/models"
	"github.com/EduRoDev/quantum-saas/internal/repository"
)

// AnalyticsService 预测分析服务。
// 聚合预订数据并提交外部模型服务，预测计算本身由外部服务完成。
type AnalyticsService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	endpoint        string
	enabled         bool
	httpClient      *http.Client
}

// NewAnalyticsService 创建预测分析服务
func NewAnalyticsService(db *gorm.DB, cfg *config.AnalyticsConfig) *AnalyticsService {
	timeout := 5 * time.Second
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}
	return &AnalyticsService{
		db:              db,
		reservationRepo: repository.NewReservationRepository(db),
		endpoint:        cfg.Endpoint,
		enabled:         cfg.Enabled,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

// ReservationSample 提交给模型服务的预订样本
type ReservationSample struct {
	ReservationID int64   `json:"reserva_id"`
	ClientID      int64   `json:"client_id"`
	RoomID        int64   `json:"room_id"`
	Nights        int     `json:"nights"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
	LeadTimeDays  int     `json:"lead_time_days"`
}

// PredictionResult 模型服务返回的预测结果
type PredictionResult struct {
	ReservationID int64              `json:"reserva_id"`
	ClientID      int64              `json:"client_id"`
	Prediction    string             `json:"prediction"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// HotelStats 酒店预订统计
type HotelStats struct {
	HotelID          int64   `json:"hotel_id"`
	RoomCount        int64   `json:"room_count"`
	Confirmed        int64   `json:"confirmed"`
	Canceled         int64   `json:"canceled"`
	Refunded         int64   `json:"refunded"`
	Reservations     int64   `json:"reservations"`
	CancellationRate float64 `json:"cancellation_rate"`
	OccupancyRate    float64 `json:"occupancy_rate"`
	AvgPaymentAmount float64 `json:"avg_payment_amount"`
}

// BuildSample 将预订转换为模型样本
func (s *AnalyticsService) BuildSample(ctx context.Context, reservationID int64) (*ReservationSample, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	nights := int(reservation.CheckOut.Sub(reservation.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	leadTime := int(reservation.CheckIn.Sub(reservation.CreatedAt).Hours() / 24)
	if leadTime < 0 {
		leadTime = 0
	}

	sample := &ReservationSample{
		ReservationID: reservation.ID,
		ClientID:      reservation.ClientID,
		RoomID:        reservation.RoomID,
		Nights:        nights,
		Status:        reservation.Status,
		LeadTimeDays:  leadTime,
	}
	if reservation.Room != nil {
		sample.TotalPrice = reservation.Room.Price * float64(nights)
	}
	return sample, nil
}

// Predict 提交预订样本并返回预测结果
func (s *AnalyticsService) Predict(ctx context.Context, reservationID int64) (*PredictionResult, error) {
	if !s.enabled {
		return nil, errors.ErrExternalService.WithMessage("预测分析服务未启用")
	}

	sample, err := s.BuildSample(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(sample)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.ErrExternalService.WithError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.ErrExternalService.WithError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var result PredictionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.ErrExternalService.WithError(err)
	}
	return &result, nil
}

// PredictAsync 后台提交预测请求，失败只记录日志
func (s *AnalyticsService) PredictAsync(reservationID int64) {
	if !s.enabled {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.httpClient.Timeout)
		defer cancel()

		result, err := s.Predict(ctx, reservationID)
		if err != nil {
			logger.Warn("预测请求失败",
				logger.Int64("reservation_id", reservationID),
				logger.Err(err))
			return
		}
		logger.Info("预测结果",
			logger.Int64("reservation_id", reservationID),
			logger.String("prediction", result.Prediction))
	}()
}

// GetHotelStats 聚合酒店维度的预订统计
func (s *AnalyticsService) GetHotelStats(ctx context.Context, hotelID int64) (*HotelStats, error) {
	var exists int64
	err := s.db.WithContext(ctx).Model(&models.Hotel{}).Where("id = ?", hotelID).Count(&exists).Error
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists == 0 {
		return nil, errors.ErrHotelNotFound
	}

	stats := &HotelStats{HotelID: hotelID}

	err = s.db.WithContext(ctx).Model(&models.Room{}).
		Where("hotel_id = ?", hotelID).
		Count(&stats.RoomCount).Error
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err = s.db.WithContext(ctx).Model(&models.Reservation{}).
		Select("reservations.status, count(*) as count").
		Joins("JOIN rooms ON rooms.id = reservations.room_id").
		Where("rooms.hotel_id = ?", hotelID).
		Group("reservations.status").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	for _, c := range counts {
		stats.Reservations += c.Count
		switch c.Status {
		case models.ReservationStatusConfirmed:
			stats.Confirmed = c.Count
		case models.ReservationStatusCanceled:
			stats.Canceled = c.Count
		case models.ReservationStatusRefunded:
			stats.Refunded = c.Count
		}
	}
	if stats.Reservations > 0 {
		stats.CancellationRate = float64(stats.Canceled) / float64(stats.Reservations)
	}

	var occupied int64
	err = s.db.WithContext(ctx).Model(&models.Room{}).
		Where("hotel_id = ?", hotelID).
		Where("status <> ?", models.RoomStatusFree).
		Count(&occupied).Error
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if stats.RoomCount > 0 {
		stats.OccupancyRate = float64(occupied) / float64(stats.RoomCount)
	}

	var avg *float64
	err = s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("avg(payments.amount)").
		Joins("JOIN reservations ON reservations.id = payments.reservation_id").
		Joins("JOIN rooms ON rooms.id = reservations.room_id").
		Where("rooms.hotel_id = ?", hotelID).
		Where("payments.status = ?", models.PaymentStatusConfirmed).
		Scan(&avg).Error
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if avg != nil {
		stats.AvgPaymentAmount = *avg
	}
	return stats, nil
}

package booking

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/EduRoDev/quantum-saas/internal/common/database"
	"github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/common/logger"
	"github.com/EduRoDev/quantum-saas/internal/common/metrics"
	"github.com/EduRoDev/quantum-saas/internal/common/utils"
	"github.com/EduRoDev/quantum-saas/internal/models"
	"github.com/EduRoDev/quantum-saas/internal/repository"
)

// BookingService 预订服务
type BookingService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	roomRepo        *repository.RoomRepository
	clientRepo      *repository.ClientRepository
	roomStatus      *RoomStatusService
	roomLock        *RoomLock
	maxTxRetries    int
}

// NewBookingService 创建预订服务
func NewBookingService(db *gorm.DB, roomLock *RoomLock) *BookingService {
	return &BookingService{
		db:              db,
		reservationRepo: repository.NewReservationRepository(db),
		roomRepo:        repository.NewRoomRepository(db),
		clientRepo:      repository.NewClientRepository(db),
		roomStatus:      NewRoomStatusService(),
		roomLock:        roomLock,
		maxTxRetries:    3,
	}
}

// CreateReservationRequest 创建预订请求
type CreateReservationRequest struct {
	RoomID   int64     `json:"room_id" binding:"required"`
	ClientID int64     `json:"client_id" binding:"required"`
	CheckIn  time.Time `json:"check_in" binding:"required"`
	CheckOut time.Time `json:"check_out" binding:"required"`
}

// UpdateReservationRequest 修改预订请求，room_id 省略时保持原房间
type UpdateReservationRequest struct {
	RoomID   *int64    `json:"room_id"`
	CheckIn  time.Time `json:"check_in" binding:"required"`
	CheckOut time.Time `json:"check_out" binding:"required"`
}

// ReservationInfo 预订信息
type ReservationInfo struct {
	ID            int64      `json:"id"`
	ReservationNo string     `json:"reservation_no"`
	RoomID        int64      `json:"room_id"`
	RoomName      string     `json:"room_name,omitempty"`
	HotelName     string     `json:"hotel_name,omitempty"`
	ClientID      int64      `json:"client_id"`
	ClientName    string     `json:"client_name,omitempty"`
	CheckIn       time.Time  `json:"check_in"`
	CheckOut      time.Time  `json:"check_out"`
	Nights        int        `json:"nights"`
	TotalPrice    float64    `json:"total_price"`
	Status        string     `json:"status"`
	StatusName    string     `json:"status_name"`
	CanceledAt    *time.Time `json:"canceled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AvailabilityInfo 房间可用性查询结果
type AvailabilityInfo struct {
	RoomID    int64     `json:"room_id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Available bool      `json:"available"`
}

// CheckAvailability 查询房间在指定时段是否可预订。
// 区间为半开区间 [check_in, check_out)，边界相接不算冲突。
func (s *BookingService) CheckAvailability(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (*AvailabilityInfo, error) {
	if !checkIn.Before(checkOut) {
		return nil, errors.ErrInvalidDateRange
	}

	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	count, err := s.reservationRepo.CountOverlapping(ctx, roomID, checkIn, checkOut, nil)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	return &AvailabilityInfo{
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Available: count == 0,
	}, nil
}

// CreateReservation 创建预订。
// 行锁串行化同一房间的并发写入，重叠检查与插入在同一事务内完成。
func (s *BookingService) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*ReservationInfo, error) {
	if !req.CheckIn.Before(req.CheckOut) {
		return nil, errors.ErrInvalidDateRange
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrClientNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	token, err := s.roomLock.Acquire(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	defer s.roomLock.Release(ctx, req.RoomID, token)

	var reservation *models.Reservation
	err = database.TransactionWithRetry(ctx, s.db, s.maxTxRetries, func(tx *gorm.DB) error {
		room, err := s.roomRepo.WithTx(tx).GetByIDForUpdate(ctx, req.RoomID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrRoomNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		count, err := s.reservationRepo.WithTx(tx).CountOverlapping(ctx, room.ID, req.CheckIn, req.CheckOut, nil)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if count > 0 {
			metrics.GetMetrics().RecordBookingConflict()
			return errors.ErrReservationConflict
		}

		reservation = &models.Reservation{
			ReservationNo: utils.GenerateReservationNo(),
			RoomID:        room.ID,
			ClientID:      req.ClientID,
			CheckIn:       req.CheckIn,
			CheckOut:      req.CheckOut,
			Status:        models.ReservationStatusConfirmed,
		}
		if err := s.reservationRepo.WithTx(tx).Create(ctx, reservation); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return s.roomStatus.Sync(tx, room.ID)
	})
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordReservation(models.ReservationStatusConfirmed)
	logger.Info("创建预订成功",
		logger.ReservationNo(reservation.ReservationNo),
		logger.RoomID(reservation.RoomID),
		logger.ClientID(reservation.ClientID))

	return s.GetReservation(ctx, reservation.ID)
}

// UpdateReservation 修改预订时段，可选换房。
// 重叠检查针对目标房间并排除预订自身，仅已确认的预订可修改。
func (s *BookingService) UpdateReservation(ctx context.Context, id int64, req *UpdateReservationRequest) (*ReservationInfo, error) {
	if !req.CheckIn.Before(req.CheckOut) {
		return nil, errors.ErrInvalidDateRange
	}

	err := database.TransactionWithRetry(ctx, s.db, s.maxTxRetries, func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrReservationNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if reservation.Status != models.ReservationStatusConfirmed {
			return errors.ErrReservationStatusError
		}

		targetRoomID := reservation.RoomID
		if req.RoomID != nil {
			targetRoomID = *req.RoomID
		}

		if _, err := s.roomRepo.WithTx(tx).GetByIDForUpdate(ctx, targetRoomID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrRoomNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		count, err := s.reservationRepo.WithTx(tx).CountOverlapping(ctx, targetRoomID, req.CheckIn, req.CheckOut, &reservation.ID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if count > 0 {
			metrics.GetMetrics().RecordBookingConflict()
			return errors.ErrReservationConflict
		}

		err = s.reservationRepo.WithTx(tx).UpdateFields(ctx, reservation.ID, map[string]interface{}{
			"room_id":   targetRoomID,
			"check_in":  req.CheckIn,
			"check_out": req.CheckOut,
		})
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		// 换房后新旧房间的状态都要重新派生
		if targetRoomID != reservation.RoomID {
			if err := s.roomStatus.Sync(tx, reservation.RoomID); err != nil {
				return err
			}
			return s.roomStatus.Sync(tx, targetRoomID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("修改预订时段成功", logger.Int64("reservation_id", id))
	return s.GetReservation(ctx, id)
}

// CancelReservation 取消预订。
// 仅已确认且未支付的预订可直接取消，已支付的预订走退款流程。
func (s *BookingService) CancelReservation(ctx context.Context, id int64) (*ReservationInfo, error) {
	err := database.TransactionWithRetry(ctx, s.db, s.maxTxRetries, func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrReservationNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		switch reservation.Status {
		case models.ReservationStatusConfirmed:
		case models.ReservationStatusCanceled:
			return errors.ErrReservationCanceled
		default:
			return errors.ErrReservationStatusError
		}

		var paidCount int64
		err = tx.Model(&models.Payment{}).
			Where("reservation_id = ? AND status = ?", reservation.ID, models.PaymentStatusConfirmed).
			Count(&paidCount).Error
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if paidCount > 0 {
			return errors.ErrReservationStatusError.WithMessage("预订已支付，请通过退款取消")
		}

		if _, err := s.roomRepo.WithTx(tx).GetByIDForUpdate(ctx, reservation.RoomID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := s.reservationRepo.WithTx(tx).Cancel(ctx, reservation.ID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return s.roomStatus.Sync(tx, reservation.RoomID)
	})
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordReservation(models.ReservationStatusCanceled)
	logger.Info("取消预订成功", logger.Int64("reservation_id", id))
	return s.GetReservation(ctx, id)
}

// GetReservation 获取预订详情
func (s *BookingService) GetReservation(ctx context.Context, id int64) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertReservationInfo(reservation), nil
}

// GetByReservationNo 按预订号获取预订详情
func (s *BookingService) GetByReservationNo(ctx context.Context, reservationNo string) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByReservationNo(ctx, reservationNo)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertReservationInfo(reservation), nil
}

// ListReservations 分页查询预订列表
func (s *BookingService) ListReservations(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*ReservationInfo, int64, error) {
	offset := (page - 1) * pageSize
	list, total, err := s.reservationRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*ReservationInfo, 0, len(list))
	for _, reservation := range list {
		infos = append(infos, s.convertReservationInfo(reservation))
	}
	return infos, total, nil
}

// ListByClient 查询客户的预订列表
func (s *BookingService) ListByClient(ctx context.Context, clientID int64, page, pageSize int, status *string) ([]*ReservationInfo, int64, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.ErrClientNotFound
		}
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	offset := (page - 1) * pageSize
	list, total, err := s.reservationRepo.ListByClient(ctx, clientID, offset, pageSize, status)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*ReservationInfo, 0, len(list))
	for _, reservation := range list {
		infos = append(infos, s.convertReservationInfo(reservation))
	}
	return infos, total, nil
}

// convertReservationInfo 转换为预订信息
func (s *BookingService) convertReservationInfo(reservation *models.Reservation) *ReservationInfo {
	info := &ReservationInfo{
		ID:            reservation.ID,
		ReservationNo: reservation.ReservationNo,
		RoomID:        reservation.RoomID,
		ClientID:      reservation.ClientID,
		CheckIn:       reservation.CheckIn,
		CheckOut:      reservation.CheckOut,
		Nights:        calcNights(reservation.CheckIn, reservation.CheckOut),
		Status:        reservation.Status,
		StatusName:    getReservationStatusName(reservation.Status),
		CanceledAt:    reservation.CanceledAt,
		CreatedAt:     reservation.CreatedAt,
	}

	if reservation.Room != nil {
		info.RoomName = reservation.Room.Name
		info.TotalPrice = reservation.Room.Price * float64(info.Nights)
		if reservation.Room.Hotel != nil {
			info.HotelName = reservation.Room.Hotel.Name
		}
	}
	if reservation.Client != nil {
		info.ClientName = reservation.Client.Name + " " + reservation.Client.LastName
	}
	return info
}

// calcNights 计算间夜数，不足一天按一天计
func calcNights(checkIn, checkOut time.Time) int {
	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}
	return nights
}

// getReservationStatusName 获取预订状态名称
func getReservationStatusName(status string) string {
	switch status {
	case models.ReservationStatusConfirmed:
		return "已确认"
	case models.ReservationStatusCanceled:
		return "已取消"
	case models.ReservationStatusRefunded:
		return "已退款"
	default:
		return "未知"
	}
}

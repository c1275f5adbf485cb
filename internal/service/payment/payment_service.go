package payment

import (
	"context"
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

// RoomStatusSyncer 房间状态同步器。
// 支付状态变更后在同一事务内重新派生房间状态。
type RoomStatusSyncer interface {
	Sync(tx *gorm.DB, roomID int64) error
}

// PaymentService 支付服务
type PaymentService struct {
	db              *gorm.DB
	paymentRepo     *repository.PaymentRepository
	reservationRepo *repository.ReservationRepository
	roomRepo        *repository.RoomRepository
	roomStatus      RoomStatusSyncer
	gateway         Gateway
	maxTxRetries    int
}

// NewPaymentService 创建支付服务。
// gateway 为 nil 时支付停留在 pending，等待外部确认。
func NewPaymentService(db *gorm.DB, roomStatus RoomStatusSyncer, gateway Gateway) *PaymentService {
	return &PaymentService{
		db:              db,
		paymentRepo:     repository.NewPaymentRepository(db),
		reservationRepo: repository.NewReservationRepository(db),
		roomRepo:        repository.NewRoomRepository(db),
		roomStatus:      roomStatus,
		gateway:         gateway,
		maxTxRetries:    3,
	}
}

// CreatePaymentRequest 创建支付请求
type CreatePaymentRequest struct {
	ReservationID int64   `json:"reservation_id" binding:"required"`
	RoomID        int64   `json:"room_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Method        string  `json:"method" binding:"required"`
}

// PaymentInfo 支付信息
type PaymentInfo struct {
	ID            int64      `json:"id"`
	PaymentNo     string     `json:"payment_no"`
	ReservationID int64      `json:"reservation_id"`
	ReservationNo string     `json:"reservation_no,omitempty"`
	RoomID        int64      `json:"room_id"`
	ClientID      int64      `json:"client_id"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	MethodName    string     `json:"method_name"`
	Status        string     `json:"status"`
	StatusName    string     `json:"status_name"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreatePayment 创建支付单并提交网关受理。
// 支付先落库为 pending，网关异步回调 ConfirmPayment 后才进入 confirmed。
func (s *PaymentService) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentInfo, error) {
	if req.Amount <= 0 {
		return nil, errors.ErrPaymentAmountError
	}
	if !models.ValidMethod(req.Method) {
		return nil, errors.ErrPaymentMethodError
	}

	reservation, err := s.reservationRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if reservation.Status != models.ReservationStatusConfirmed {
		return nil, errors.ErrReservationStatusError
	}
	if reservation.RoomID != req.RoomID {
		return nil, errors.ErrPaymentRoomMismatch
	}

	payment := &models.Payment{
		PaymentNo:     utils.GeneratePaymentNo(),
		ReservationID: reservation.ID,
		RoomID:        reservation.RoomID,
		ClientID:      reservation.ClientID,
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordPayment(payment.Method, models.PaymentStatusPending)
	logger.Info("创建支付单",
		logger.PaymentNo(payment.PaymentNo),
		logger.Int64("reservation_id", reservation.ID),
		logger.Float64("amount", payment.Amount))

	if s.gateway != nil {
		if err := s.gateway.Authorize(ctx, payment.PaymentNo, payment.Amount); err != nil {
			// 受理失败不回滚支付单，留待补扫或重新发起
			logger.Error("网关受理失败", logger.PaymentNo(payment.PaymentNo), logger.Err(err))
		}
	}

	return s.convertPaymentInfo(payment), nil
}

// ConfirmPayment 网关回调确认支付。
// 幂等：重复回调或支付已非 pending 时静默跳过。
// 预订在确认前被取消的，支付保持 pending，留待人工处理。
func (s *PaymentService) ConfirmPayment(ctx context.Context, paymentNo, transactionID string) error {
	err := database.TransactionWithRetry(ctx, s.db, s.maxTxRetries, func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.WithTx(tx).GetByPaymentNoForUpdate(ctx, paymentNo)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPaymentNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		if payment.Status != models.PaymentStatusPending {
			metrics.GetMetrics().RecordGatewayCallback("skipped")
			logger.Warn("支付已非待确认状态，跳过回调",
				logger.PaymentNo(paymentNo),
				logger.String("status", payment.Status))
			return nil
		}

		reservation, err := s.reservationRepo.WithTx(tx).GetByID(ctx, payment.ReservationID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if reservation.Status != models.ReservationStatusConfirmed {
			metrics.GetMetrics().RecordGatewayCallback("skipped")
			logger.Warn("预订已非确认状态，支付保持待确认",
				logger.PaymentNo(paymentNo),
				logger.ReservationNo(reservation.ReservationNo))
			return nil
		}

		if err := s.paymentRepo.WithTx(tx).Confirm(ctx, payment.ID, transactionID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return s.roomStatus.Sync(tx, payment.RoomID)
	})
	if err != nil {
		metrics.GetMetrics().RecordGatewayCallback("failed")
		return err
	}

	metrics.GetMetrics().RecordGatewayCallback("confirmed")
	logger.Info("支付确认成功",
		logger.PaymentNo(paymentNo),
		logger.String("transaction_id", transactionID))
	return nil
}

// CancelPayment 撤销已确认的支付。
// 级联变更：支付 confirmed 转 canceled，预订转 canceled，房间状态重新派生。
// 取消后的预订不再占用时段。
func (s *PaymentService) CancelPayment(ctx context.Context, id int64) (*PaymentInfo, error) {
	var method string
	err := database.TransactionWithRetry(ctx, s.db, s.maxTxRetries, func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPaymentNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if payment.Status != models.PaymentStatusConfirmed {
			return errors.ErrPaymentStatusError
		}
		method = payment.Method

		if _, err := s.roomRepo.WithTx(tx).GetByIDForUpdate(ctx, payment.RoomID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		if err := s.paymentRepo.WithTx(tx).UpdateStatus(ctx, payment.ID, models.PaymentStatusCanceled); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if err := s.reservationRepo.WithTx(tx).Cancel(ctx, payment.ReservationID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return s.roomStatus.Sync(tx, payment.RoomID)
	})
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordPayment(method, models.PaymentStatusCanceled)
	metrics.GetMetrics().RecordReservation(models.ReservationStatusCanceled)
	logger.Info("取消支付", logger.Int64("payment_id", id))
	return s.GetPayment(ctx, id)
}

// RefundPayment 退款。
// 级联变更：支付 confirmed 转 refunded，预订 confirmed 转 refunded，房间状态重新派生。
// 退款后的预订仍占用时段。
func (s *PaymentService) RefundPayment(ctx context.Context, id int64) (*PaymentInfo, error) {
	err := database.TransactionWithRetry(ctx, s.db, s.maxTxRetries, func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPaymentNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if payment.Status != models.PaymentStatusConfirmed {
			return errors.ErrPaymentStatusError
		}

		reservation, err := s.reservationRepo.WithTx(tx).GetByID(ctx, payment.ReservationID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if reservation.Status != models.ReservationStatusConfirmed {
			return errors.ErrRefundFailed.WithMessage("预订状态不允许退款")
		}

		room, err := s.roomRepo.WithTx(tx).GetByIDForUpdate(ctx, payment.RoomID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if room.Status != models.RoomStatusBusy {
			return errors.ErrRefundFailed.WithMessage("房间状态不允许退款")
		}

		if err := s.paymentRepo.WithTx(tx).MarkRefunded(ctx, payment.ID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if err := s.reservationRepo.WithTx(tx).MarkRefunded(ctx, reservation.ID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return s.roomStatus.Sync(tx, payment.RoomID)
	})
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordRefund()
	metrics.GetMetrics().RecordReservation(models.ReservationStatusRefunded)
	logger.Info("退款成功", logger.Int64("payment_id", id))
	return s.GetPayment(ctx, id)
}

// GetPayment 获取支付详情
func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*PaymentInfo, error) {
	payment, err := s.paymentRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertPaymentInfo(payment), nil
}

// GetByPaymentNo 按支付单号获取支付详情
func (s *PaymentService) GetByPaymentNo(ctx context.Context, paymentNo string) (*PaymentInfo, error) {
	payment, err := s.paymentRepo.GetByPaymentNo(ctx, paymentNo)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return s.convertPaymentInfo(payment), nil
}

// ListPayments 分页查询支付列表
func (s *PaymentService) ListPayments(ctx context.Context, page, pageSize int, filters map[string]interface{}) ([]*PaymentInfo, int64, error) {
	offset := (page - 1) * pageSize
	list, total, err := s.paymentRepo.List(ctx, offset, pageSize, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*PaymentInfo, 0, len(list))
	for _, payment := range list {
		infos = append(infos, s.convertPaymentInfo(payment))
	}
	return infos, total, nil
}

// ListByReservation 查询预订的全部支付记录
func (s *PaymentService) ListByReservation(ctx context.Context, reservationID int64) ([]*PaymentInfo, error) {
	list, err := s.paymentRepo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	infos := make([]*PaymentInfo, 0, len(list))
	for _, payment := range list {
		infos = append(infos, s.convertPaymentInfo(payment))
	}
	return infos, nil
}

// SweepStalePending 统计并记录滞留超时的待确认支付。
// 只告警不改状态，待确认支付的最终状态由网关回调或人工裁决。
func (s *PaymentService) SweepStalePending(ctx context.Context, staleAfter time.Duration) (int64, error) {
	threshold := time.Now().Add(-staleAfter)

	count, err := s.paymentRepo.CountStalePending(ctx, threshold)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	metrics.GetMetrics().SetStalePendingPayments(float64(count))

	if count > 0 {
		stale, err := s.paymentRepo.ListStalePending(ctx, threshold, 50)
		if err != nil {
			return count, errors.ErrDatabaseError.WithError(err)
		}
		for _, payment := range stale {
			logger.Warn("支付滞留超时",
				logger.PaymentNo(payment.PaymentNo),
				logger.Int64("reservation_id", payment.ReservationID),
				logger.Time("created_at", payment.CreatedAt))
		}
	}
	return count, nil
}

// convertPaymentInfo 转换为支付信息
func (s *PaymentService) convertPaymentInfo(payment *models.Payment) *PaymentInfo {
	info := &PaymentInfo{
		ID:            payment.ID,
		PaymentNo:     payment.PaymentNo,
		ReservationID: payment.ReservationID,
		RoomID:        payment.RoomID,
		ClientID:      payment.ClientID,
		Amount:        payment.Amount,
		Method:        payment.Method,
		MethodName:    getMethodName(payment.Method),
		Status:        payment.Status,
		StatusName:    getPaymentStatusName(payment.Status),
		TransactionID: payment.TransactionID,
		PaymentDate:   payment.PaymentDate,
		CreatedAt:     payment.CreatedAt,
	}
	if payment.Reservation != nil {
		info.ReservationNo = payment.Reservation.ReservationNo
	}
	return info
}

// getMethodName 获取支付方式名称
func getMethodName(method string) string {
	switch method {
	case models.PaymentMethodVisa:
		return "Visa"
	case models.PaymentMethodMastercard:
		return "Mastercard"
	case models.PaymentMethodPaypal:
		return "PayPal"
	case models.PaymentMethodOther:
		return "其他"
	default:
		return "未知"
	}
}

// getPaymentStatusName 获取支付状态名称
func getPaymentStatusName(status string) string {
	switch status {
	case models.PaymentStatusPending:
		return "待确认"
	case models.PaymentStatusConfirmed:
		return "已确认"
	case models.PaymentStatusCanceled:
		return "已取消"
	case models.PaymentStatusRefunded:
		return "已退款"
	default:
		return "未知"
	}
}

// Package payment 提供支付相关业务逻辑
package payment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EduRoDev/quantum-saas/internal/common/logger"
)

// ConfirmFunc 网关确认回调。
// paymentNo 为本系统支付单号，transactionID 为网关侧交易号。
type ConfirmFunc func(ctx context.Context, paymentNo, transactionID string) error

// Gateway 支付网关。Authorize 受理后异步回调确认结果。
type Gateway interface {
	Authorize(ctx context.Context, paymentNo string, amount float64) error
}

// SimulatedGateway 模拟网关。
// 受理后延迟固定时间回调确认，模拟真实网关的异步通知。
type SimulatedGateway struct {
	confirmDelay time.Duration
	onConfirm    ConfirmFunc

	mu     sync.Mutex
	timers []*time.Timer
}

// NewSimulatedGateway 创建模拟网关
func NewSimulatedGateway(confirmDelay time.Duration, onConfirm ConfirmFunc) *SimulatedGateway {
	if confirmDelay <= 0 {
		confirmDelay = 3 * time.Second
	}
	return &SimulatedGateway{
		confirmDelay: confirmDelay,
		onConfirm:    onConfirm,
	}
}

// Authorize 受理支付。确认结果由后台定时器回调送达，不阻塞当前请求。
func (g *SimulatedGateway) Authorize(ctx context.Context, paymentNo string, amount float64) error {
	transactionID := uuid.NewString()

	timer := time.AfterFunc(g.confirmDelay, func() {
		callbackCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := g.onConfirm(callbackCtx, paymentNo, transactionID); err != nil {
			logger.Error("网关确认回调处理失败",
				logger.PaymentNo(paymentNo),
				logger.String("transaction_id", transactionID),
				logger.Err(err))
		}
	})

	g.mu.Lock()
	g.timers = append(g.timers, timer)
	g.mu.Unlock()

	logger.Info("网关受理支付",
		logger.PaymentNo(paymentNo),
		logger.Float64("amount", amount),
		logger.String("transaction_id", transactionID))
	return nil
}

// Stop 停止所有未触发的回调定时器，用于服务关闭
func (g *SimulatedGateway) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, timer := range g.timers {
		timer.Stop()
	}
	g.timers = nil
}

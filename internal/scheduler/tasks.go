// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"time"

	paymentService "github.com/EduRoDev/quantum-saas/internal/service/payment"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	paymentService *paymentService.PaymentService
	staleAfter     time.Duration
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(paymentSvc *paymentService.PaymentService, staleAfter time.Duration) *TaskHandler {
	if staleAfter <= 0 {
		staleAfter = 30 * time.Minute
	}
	return &TaskHandler{
		paymentService: paymentSvc,
		staleAfter:     staleAfter,
	}
}

// SweepStalePendingPayments 巡检滞留超时的待确认支付。
// 只统计并告警，状态裁决留给网关回调或人工处理。
func (h *TaskHandler) SweepStalePendingPayments(ctx context.Context) error {
	_, err := h.paymentService.SweepStalePending(ctx, h.staleAfter)
	return err
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler, sweepInterval time.Duration) {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}

	scheduler.AddTask("SweepStalePendingPayments", sweepInterval, handler.SweepStalePendingPayments)
}

// Package main 是应用程序入口
package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/EduRoDev/quantum-saas/internal/common/config"
	"github.com/EduRoDev/quantum-saas/internal/common/jwt"
	"github.com/EduRoDev/quantum-saas/internal/common/metrics"
	analyticsHandler "github.com/EduRoDev/quantum-saas/internal/handler/analytics"
	bookingHandler "github.com/EduRoDev/quantum-saas/internal/handler/booking"
	clientHandler "github.com/EduRoDev/quantum-saas/internal/handler/client"
	hotelHandler "github.com/EduRoDev/quantum-saas/internal/handler/hotel"
	paymentHandler "github.com/EduRoDev/quantum-saas/internal/handler/payment"
	"github.com/EduRoDev/quantum-saas/internal/middleware"
	analyticsService "github.com/EduRoDev/quantum-saas/internal/service/analytics"
	bookingService "github.com/EduRoDev/quantum-saas/internal/service/booking"
	clientService "github.com/EduRoDev/quantum-saas/internal/service/client"
	hotelService "github.com/EduRoDev/quantum-saas/internal/service/hotel"
	paymentService "github.com/EduRoDev/quantum-saas/internal/service/payment"
)

// setupRouter 设置路由并装配服务依赖。
// 返回支付服务和模拟网关，供 main 启动清扫任务和优雅关闭。
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) (*paymentService.PaymentService, *paymentService.SimulatedGateway) {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化服务
	roomLock := bookingService.NewRoomLock(
		redisClient,
		time.Duration(cfg.Business.Booking.RoomLockTTL)*time.Second,
		time.Duration(cfg.Business.Booking.RoomLockWaitTimeout)*time.Second,
	)
	bookingSvc := bookingService.NewBookingService(db, roomLock)

	// 网关确认回调指向支付服务自身，回调只在 Authorize 之后异步触发，
	// 因此先声明再赋值不会产生空指针
	var paymentSvc *paymentService.PaymentService
	gateway := paymentService.NewSimulatedGateway(
		cfg.Gateway.ConfirmDelayDuration(),
		func(ctx context.Context, paymentNo, transactionID string) error {
			return paymentSvc.ConfirmPayment(ctx, paymentNo, transactionID)
		},
	)
	paymentSvc = paymentService.NewPaymentService(db, bookingService.NewRoomStatusService(), gateway)

	hotelSvc := hotelService.NewHotelService(db)
	roomSvc := hotelService.NewRoomService(db)
	clientSvc := clientService.NewClientService(db)
	analyticsSvc := analyticsService.NewAnalyticsService(db, &cfg.Analytics)

	// 初始化处理器
	bookingH := bookingHandler.NewBookingHandler(bookingSvc)
	paymentH := paymentHandler.NewPaymentHandler(paymentSvc)
	hotelH := hotelHandler.NewHotelHandler(hotelSvc)
	roomH := hotelHandler.NewRoomHandler(roomSvc)
	clientH := clientHandler.NewClientHandler(clientSvc)
	analyticsH := analyticsHandler.NewAnalyticsHandler(analyticsSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.CORS(corsConfig(&cfg.CORS)))
	r.Use(middleware.AccessLog(logger))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
	}
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(&middleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			SkipPaths:   []string{"/health", "/ping", "/ready", "/metrics"},
		}))
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(&middleware.RateLimitConfig{
			RedisClient: redisClient,
			Limit:       cfg.RateLimit.RequestsPerSecond,
			Window:      time.Second,
		}))
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 公开接口（无需认证）
		public := v1.Group("")
		{
			// 客户注册
			public.POST("/clients", clientH.CreateClient)
			public.GET("/clients", clientH.ListClients)
			public.GET("/clients/:id", clientH.GetClient)
			public.PUT("/clients/:id", clientH.UpdateClient)

			// 酒店目录
			public.POST("/hotels", hotelH.CreateHotel)
			public.GET("/hotels", hotelH.ListHotels)
			public.GET("/hotels/:id", hotelH.GetHotel)
			public.PUT("/hotels/:id", hotelH.UpdateHotel)
			public.DELETE("/hotels/:id", hotelH.DeleteHotel)
			public.GET("/hotels/:id/rooms/free", roomH.ListFreeRooms)
			public.GET("/hotels/:id/stats", analyticsH.GetHotelStats)

			// 房间目录
			public.POST("/rooms", roomH.CreateRoom)
			public.GET("/rooms", roomH.ListRooms)
			public.GET("/rooms/:id", roomH.GetRoom)
			public.PUT("/rooms/:id", roomH.UpdateRoom)
			public.DELETE("/rooms/:id", roomH.DeleteRoom)
			public.GET("/rooms/:id/availability", bookingH.CheckAvailability)

			// 预订查询
			public.GET("/reservations/:id", bookingH.GetReservation)
			public.GET("/reservations/no/:reservation_no", bookingH.GetByReservationNo)

			// 预测分析
			public.POST("/reservations/:id/predict", analyticsH.Predict)
		}

		// 支付网关回调（由网关验签，不需要认证）
		v1.POST("/payments/callback", paymentH.GatewayCallback)

		// 客户端接口（需要客户认证）
		authed := v1.Group("")
		authed.Use(middleware.ClientAuth(jwtManager))
		{
			authed.GET("/clients/me", clientH.GetMyProfile)

			// 预订
			authed.POST("/reservations", bookingH.CreateReservation)
			authed.GET("/reservations", bookingH.GetMyReservations)
			authed.PUT("/reservations/:id", bookingH.UpdateReservation)
			authed.POST("/reservations/:id/cancel", bookingH.CancelReservation)
			authed.GET("/reservations/:id/payments", paymentH.ListByReservation)

			// 支付
			authed.POST("/payments", paymentH.CreatePayment)
			authed.GET("/payments", paymentH.ListMyPayments)
			authed.GET("/payments/:id", paymentH.GetPayment)
			authed.GET("/payments/no/:payment_no", paymentH.GetByPaymentNo)
			authed.POST("/payments/:id/cancel", paymentH.CancelPayment)
			authed.POST("/payments/:id/refund", paymentH.RefundPayment)
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})

	return paymentSvc, gateway
}

// corsConfig 将配置文件的 CORS 配置转换为中间件配置，未配置时使用默认值
func corsConfig(cfg *config.CORSConfig) *middleware.CORSConfig {
	if cfg == nil || len(cfg.AllowedOrigins) == 0 {
		return nil
	}
	return &middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
}

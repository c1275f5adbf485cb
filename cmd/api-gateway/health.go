// Package main 是应用程序入口
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "quantum-saas-booking"

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp int64             `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// healthHandler 存活检查
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   serviceName,
		Timestamp: time.Now().Unix(),
	})
}

// pingHandler Ping 检查
func pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// readyHandler 就绪检查，探测数据库与 Redis。
// 任一依赖不可用时返回 503，供编排器摘除流量。
func readyHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{
			"database": "ok",
			"redis":    "ok",
		}
		ready := true

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["database"] = "error: " + err.Error()
			ready = false
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			checks["redis"] = "error: " + err.Error()
			ready = false
		}

		resp := HealthResponse{
			Status:    "ready",
			Service:   serviceName,
			Timestamp: time.Now().Unix(),
			Checks:    checks,
		}
		if !ready {
			resp.Status = "not ready"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

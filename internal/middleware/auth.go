// Package middleware 提供 HTTP 中间件
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EduRoDev/quantum-saas/internal/common/jwt"
	"github.com/EduRoDev/quantum-saas/internal/common/response"
)

// AuthConfig 认证配置
type AuthConfig struct {
	JWTManager  *jwt.Manager
	SubjectType string // 期望的主体类型
}

// 上下文键
const (
	ContextKeyClientID    = "client_id"
	ContextKeySubjectType = "subject_type"
	ContextKeyClaims      = "claims"
)

// Auth 认证中间件
func Auth(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		claims, err := config.JWTManager.ParseToken(token)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Unauthorized(c, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, "无效的令牌")
			}
			c.Abort()
			return
		}

		// 验证主体类型
		if config.SubjectType != "" && claims.Subject != config.SubjectType {
			response.Forbidden(c, "无权访问")
			c.Abort()
			return
		}

		// 设置上下文
		c.Set(ContextKeyClientID, claims.ClientID)
		c.Set(ContextKeySubjectType, claims.Subject)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			claims, err := jwtManager.ParseToken(token)
			if err == nil {
				c.Set(ContextKeyClientID, claims.ClientID)
				c.Set(ContextKeySubjectType, claims.Subject)
				c.Set(ContextKeyClaims, claims)
			}
		}
		c.Next()
	}
}

// ClientAuth 客户认证中间件
func ClientAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return Auth(&AuthConfig{
		JWTManager:  jwtManager,
		SubjectType: jwt.SubjectClient,
	})
}

// AdminAuth 管理员认证中间件
func AdminAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return Auth(&AuthConfig{
		JWTManager:  jwtManager,
		SubjectType: jwt.SubjectAdmin,
	})
}

// extractToken 从请求中提取令牌
func extractToken(c *gin.Context) string {
	// 优先从 Authorization 头获取
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// 其次从查询参数获取
	token := c.Query("token")
	if token != "" {
		return token
	}

	// 最后从 Cookie 获取
	token, _ = c.Cookie("token")
	return token
}

// GetClientID 从上下文获取客户 ID
func GetClientID(c *gin.Context) int64 {
	clientID, exists := c.Get(ContextKeyClientID)
	if !exists {
		return 0
	}
	return clientID.(int64)
}

// GetSubjectType 从上下文获取主体类型
func GetSubjectType(c *gin.Context) string {
	subjectType, exists := c.Get(ContextKeySubjectType)
	if !exists {
		return ""
	}
	return subjectType.(string)
}

// GetClaims 从上下文获取完整的 Claims
func GetClaims(c *gin.Context) *jwt.Claims {
	claims, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	return claims.(*jwt.Claims)
}

// IsLoggedIn 判断是否已登录
func IsLoggedIn(c *gin.Context) bool {
	_, exists := c.Get(ContextKeyClientID)
	return exists
}

// Package utils 提供通用工具函数
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// GenerateOrderNo 生成业务单号
// 格式: 前缀 + 年月日时分秒 + 6位随机数
func GenerateOrderNo(prefix string) string {
	now := time.Now()
	timestamp := now.Format("20060102150405")
	random := GenerateRandomNumber(6)
	return fmt.Sprintf("%s%s%s", prefix, timestamp, random)
}

// GenerateReservationNo 生成预订号
func GenerateReservationNo() string {
	return GenerateOrderNo("RS")
}

// GeneratePaymentNo 生成支付单号
func GeneratePaymentNo() string {
	return GenerateOrderNo("PY")
}

// GenerateRandomNumber 生成指定长度的随机数字字符串
func GenerateRandomNumber(length int) string {
	var result strings.Builder
	for i := 0; i < length; i++ {
		n, _ := rand.Int(rand.Reader, big.NewInt(10))
		result.WriteString(strconv.Itoa(int(n.Int64())))
	}
	return result.String()
}

// ValidateEmail 验证邮箱
func ValidateEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// StringPtr 返回字符串指针
func StringPtr(s string) *string {
	return &s
}

// IntPtr 返回整数指针
func IntPtr(i int) *int {
	return &i
}

// Int64Ptr 返回 int64 指针
func Int64Ptr(i int64) *int64 {
	return &i
}

// Float64Ptr 返回 float64 指针
func Float64Ptr(f float64) *float64 {
	return &f
}

// TimePtr 返回时间指针
func TimePtr(t time.Time) *time.Time {
	return &t
}

// SafeString 安全获取字符串指针的值
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SafeInt64 安全获取 int64 指针的值
func SafeInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

// Contains 判断切片是否包含元素
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// Pagination 分页参数
type Pagination struct {
	Page     int   `json:"page" form:"page"`
	PageSize int   `json:"page_size" form:"page_size"`
	Total    int64 `json:"total"`
}

// GetOffset 获取偏移量
func (p *Pagination) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// GetLimit 获取限制数
func (p *Pagination) GetLimit() int {
	return p.PageSize
}

// Normalize 规范化分页参数
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// GetTotalPages 获取总页数
func (p *Pagination) GetTotalPages() int {
	if p.Total == 0 {
		return 0
	}
	pages := int(p.Total) / p.PageSize
	if int(p.Total)%p.PageSize > 0 {
		pages++
	}
	return pages
}

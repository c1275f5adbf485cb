// Package database 提供数据库连接和管理功能
package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/EduRoDev/quantum-saas/internal/common/config"
	"github.com/EduRoDev/quantum-saas/internal/common/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var err error

	// 配置 GORM 日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(cfg.SlowThreshold) * time.Millisecond,
			LogLevel:                  getLogLevel(cfg.LogMode),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// 连接数据库
	db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		PrepareStmt:                              true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 获取底层 *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 配置连接池
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return db
}

// Close 关闭数据库连接
func Close() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// Transaction 执行事务
func Transaction(fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}

// WithContext 返回带 context 的数据库实例
func WithContext(ctx context.Context) *gorm.DB {
	return db.WithContext(ctx)
}

// TransactionWithRetry 执行事务，串行化冲突时有限重试。
// 重试次数耗尽后返回 ErrTxConflict，由调用方决定是否再次发起。
func TransactionWithRetry(ctx context.Context, gdb *gorm.DB, maxRetries int, fn func(tx *gorm.DB) error) error {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var err error
	for i := 0; i < maxRetries; i++ {
		err = gdb.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}

		// 退避后重试
		select {
		case <-ctx.Done():
			return errors.ErrTxConflict.WithError(ctx.Err())
		case <-time.After(time.Duration(i+1) * 20 * time.Millisecond):
		}
	}
	return errors.ErrTxConflict.WithError(err)
}

// isSerializationFailure 判断是否为可重试的并发冲突。
// 40001 串行化失败、40P01 死锁；sqlite 返回 busy/locked 文本。
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// getLogLevel 获取日志级别
func getLogLevel(logMode bool) logger.LogLevel {
	if logMode {
		return logger.Info
	}
	return logger.Silent
}

// Paginate GORM 分页作用域
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 {
			page = 1
		}
		if pageSize <= 0 {
			pageSize = 10
		}
		if pageSize > 100 {
			pageSize = 100
		}
		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}
}

// OrderByCreatedDesc 按创建时间降序
func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

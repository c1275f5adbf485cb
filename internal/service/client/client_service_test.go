// Package client 客户服务单元测试
package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/models"
)

func setupClientTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Client{}, &models.Reservation{})
	require.NoError(t, err)

	return db
}

func TestClientService_CreateClient(t *testing.T) {
	db := setupClientTestDB(t)
	svc := NewClientService(db)
	ctx := context.Background()

	info, err := svc.CreateClient(ctx, &CreateClientRequest{
		Name:           "Ana",
		LastName:       "García",
		DocumentType:   models.DocumentTypeCC,
		DocumentNumber: "1000001",
		Email:          "ana@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, info.ID)
	assert.Equal(t, "ana@example.com", info.Email)

	t.Run("邮箱重复被拒绝", func(t *testing.T) {
		_, err := svc.CreateClient(ctx, &CreateClientRequest{
			Name: "Luis", LastName: "Pérez",
			DocumentType: models.DocumentTypeCC, DocumentNumber: "1000002",
			Email: "ana@example.com",
		})
		assert.ErrorIs(t, err, apperrors.ErrClientExists)
	})

	t.Run("邮箱格式无效", func(t *testing.T) {
		_, err := svc.CreateClient(ctx, &CreateClientRequest{
			Name: "Luis", LastName: "Pérez",
			DocumentType: models.DocumentTypeCC, DocumentNumber: "1000003",
			Email: "not-an-email",
		})
		assert.ErrorIs(t, err, apperrors.ErrEmailInvalid)
	})

	t.Run("证件类型无效", func(t *testing.T) {
		_, err := svc.CreateClient(ctx, &CreateClientRequest{
			Name: "Luis", LastName: "Pérez",
			DocumentType: "DNI", DocumentNumber: "1000004",
			Email: "luis@example.com",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidParams)
	})
}

func TestClientService_GetClient(t *testing.T) {
	db := setupClientTestDB(t)
	svc := NewClientService(db)
	ctx := context.Background()

	created, err := svc.CreateClient(ctx, &CreateClientRequest{
		Name: "Ana", LastName: "García",
		DocumentType: models.DocumentTypePP, DocumentNumber: "AB123456",
		Email: "get@example.com",
	})
	require.NoError(t, err)

	found, err := svc.GetClient(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, found.Email)

	byEmail, err := svc.GetByEmail(ctx, "get@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	t.Run("客户不存在", func(t *testing.T) {
		_, err := svc.GetClient(ctx, 99999)
		assert.ErrorIs(t, err, apperrors.ErrClientNotFound)
	})
}

func TestClientService_UpdateClient(t *testing.T) {
	db := setupClientTestDB(t)
	svc := NewClientService(db)
	ctx := context.Background()

	created, err := svc.CreateClient(ctx, &CreateClientRequest{
		Name: "Ana", LastName: "García",
		DocumentType: models.DocumentTypeCC, DocumentNumber: "1000010",
		Email: "update@example.com",
	})
	require.NoError(t, err)

	phone := "3001234567"
	updated, err := svc.UpdateClient(ctx, created.ID, &UpdateClientRequest{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	t.Run("换用已占用邮箱被拒绝", func(t *testing.T) {
		other, err := svc.CreateClient(ctx, &CreateClientRequest{
			Name: "Luis", LastName: "Pérez",
			DocumentType: models.DocumentTypeCC, DocumentNumber: "1000011",
			Email: "other@example.com",
		})
		require.NoError(t, err)

		taken := "update@example.com"
		_, err = svc.UpdateClient(ctx, other.ID, &UpdateClientRequest{Email: &taken})
		assert.ErrorIs(t, err, apperrors.ErrClientExists)
	})
}

func TestClientService_ListClients(t *testing.T) {
	db := setupClientTestDB(t)
	svc := NewClientService(db)
	ctx := context.Background()

	for _, req := range []*CreateClientRequest{
		{Name: "Ana", LastName: "García", DocumentType: models.DocumentTypeCC, DocumentNumber: "1", Email: "a@example.com"},
		{Name: "Luis", LastName: "Pérez", DocumentType: models.DocumentTypePP, DocumentNumber: "2", Email: "b@example.com"},
	} {
		_, err := svc.CreateClient(ctx, req)
		require.NoError(t, err)
	}

	list, total, err := svc.ListClients(ctx, 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	_, total, err = svc.ListClients(ctx, 1, 10, map[string]interface{}{"document_type": models.DocumentTypePP})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

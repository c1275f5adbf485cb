// Package jwt JWT令牌管理单元测试
package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestManager 创建测试用的 JWT Manager
func setupTestManager() *Manager {
	config := &Config{
		Secret:            "test-secret-key-for-jwt-token-signing",
		AccessExpireTime:  15 * time.Minute,
		RefreshExpireTime: 7 * 24 * time.Hour,
		Issuer:            "test-issuer",
	}
	return NewManager(config)
}

// ==================== NewManager 测试 ====================

func TestNewManager(t *testing.T) {
	config := &Config{
		Secret:            "secret",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "test",
	}

	manager := NewManager(config)
	assert.NotNil(t, manager)
	assert.Equal(t, config, manager.config)
}

// ==================== GenerateTokenPair 测试 ====================

func TestManager_GenerateTokenPair_Success(t *testing.T) {
	manager := setupTestManager()

	tests := []struct {
		name        string
		clientID    int64
		subjectType string
	}{
		{"Client token", 12345, SubjectClient},
		{"Admin token", 99999, SubjectAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenPair, err := manager.GenerateTokenPair(tt.clientID, tt.subjectType)
			require.NoError(t, err)
			assert.NotNil(t, tokenPair)
			assert.NotEmpty(t, tokenPair.AccessToken)
			assert.NotEmpty(t, tokenPair.RefreshToken)
			assert.Greater(t, tokenPair.ExpiresAt, time.Now().Unix())

			// 验证 access token 和 refresh token 不同
			assert.NotEqual(t, tokenPair.AccessToken, tokenPair.RefreshToken)

			// 验证可以解析 access token
			claims, err := manager.ParseToken(tokenPair.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, tt.clientID, claims.ClientID)
			assert.Equal(t, tt.subjectType, claims.Subject)

			// 验证可以解析 refresh token
			refreshClaims, err := manager.ParseToken(tokenPair.RefreshToken)
			require.NoError(t, err)
			assert.Equal(t, tt.clientID, refreshClaims.ClientID)
		})
	}
}

func TestManager_GenerateTokenPair_ExpiryTime(t *testing.T) {
	manager := setupTestManager()

	tokenPair, err := manager.GenerateTokenPair(123, SubjectClient)
	require.NoError(t, err)

	// 验证 ExpiresAt 大约是 15 分钟后
	expectedExpireAt := time.Now().Add(15 * time.Minute).Unix()
	assert.InDelta(t, expectedExpireAt, tokenPair.ExpiresAt, 5) // 允许5秒误差
}

// ==================== GenerateAccessToken 测试 ====================

func TestManager_GenerateAccessToken_Success(t *testing.T) {
	manager := setupTestManager()

	clientID := int64(12345)

	token, expiresAt, err := manager.GenerateAccessToken(clientID, SubjectClient)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	// 验证可以解析token
	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, clientID, claims.ClientID)
	assert.Equal(t, SubjectClient, claims.Subject)
}

// ==================== ParseToken 测试 ====================

func TestManager_ParseToken_Success(t *testing.T) {
	manager := setupTestManager()

	clientID := int64(99999)

	token, _, err := manager.GenerateAccessToken(clientID, SubjectAdmin)
	require.NoError(t, err)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, clientID, claims.ClientID)
	assert.Equal(t, SubjectAdmin, claims.Subject)
	assert.Equal(t, manager.config.Issuer, claims.Issuer)
}

func TestManager_ParseToken_InvalidToken(t *testing.T) {
	manager := setupTestManager()

	tests := []struct {
		name  string
		token string
	}{
		{"Empty token", ""},
		{"Invalid format", "invalid.token.format"},
		{"Random string", "this-is-not-a-jwt-token"},
		{"Incomplete JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := manager.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), "token")
		})
	}
}

func TestManager_ParseToken_WrongSecret(t *testing.T) {
	// 用一个 secret 生成 token
	manager1 := NewManager(&Config{
		Secret:            "secret-1",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "test",
	})

	token, _, err := manager1.GenerateAccessToken(123, SubjectClient)
	require.NoError(t, err)

	// 用另一个 secret 解析 token
	manager2 := NewManager(&Config{
		Secret:            "secret-2",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "test",
	})

	claims, err := manager2.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestManager_ParseToken_ExpiredToken(t *testing.T) {
	// 创建一个过期时间很短的 manager
	manager := NewManager(&Config{
		Secret:            "test-secret",
		AccessExpireTime:  1 * time.Millisecond, // 1毫秒后过期
		RefreshExpireTime: 1 * time.Millisecond,
		Issuer:            "test",
	})

	token, _, err := manager.GenerateAccessToken(123, SubjectClient)
	require.NoError(t, err)

	// 等待 token 过期
	time.Sleep(10 * time.Millisecond)

	claims, err := manager.ParseToken(token)
	assert.Error(t, err)
	assert.Equal(t, ErrTokenExpired, err)
	assert.Nil(t, claims)
}

// ==================== RefreshToken 测试 ====================

func TestManager_RefreshToken_Success(t *testing.T) {
	manager := setupTestManager()

	clientID := int64(12345)

	// 生成初始 token pair
	originalPair, err := manager.GenerateTokenPair(clientID, SubjectClient)
	require.NoError(t, err)

	// 使用 refresh token 刷新
	newPair, err := manager.RefreshToken(originalPair.RefreshToken)
	require.NoError(t, err)
	assert.NotNil(t, newPair)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.NotEmpty(t, newPair.RefreshToken)

	// 验证新 token 的声明
	claims, err := manager.ParseToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, clientID, claims.ClientID)
	assert.Equal(t, SubjectClient, claims.Subject)
}

func TestManager_RefreshToken_InvalidToken(t *testing.T) {
	manager := setupTestManager()

	newPair, err := manager.RefreshToken("invalid-refresh-token")
	assert.Error(t, err)
	assert.Nil(t, newPair)
}

// ==================== ValidateToken 测试 ====================

func TestManager_ValidateToken_Success(t *testing.T) {
	manager := setupTestManager()

	token, _, err := manager.GenerateAccessToken(123, SubjectClient)
	require.NoError(t, err)

	valid, err := manager.ValidateToken(token)
	assert.NoError(t, err)
	assert.True(t, valid)
}

func TestManager_ValidateToken_Invalid(t *testing.T) {
	manager := setupTestManager()

	tests := []string{
		"invalid-token",
		"",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid",
	}

	for _, token := range tests {
		t.Run(token, func(t *testing.T) {
			valid, err := manager.ValidateToken(token)
			assert.Error(t, err)
			assert.False(t, valid)
		})
	}
}

// ==================== GetClientIDFromToken 测试 ====================

func TestManager_GetClientIDFromToken_Success(t *testing.T) {
	manager := setupTestManager()

	tests := []int64{1, 12345, 99999, 1000000}

	for _, expectedID := range tests {
		token, _, err := manager.GenerateAccessToken(expectedID, SubjectClient)
		require.NoError(t, err)

		clientID, err := manager.GetClientIDFromToken(token)
		assert.NoError(t, err)
		assert.Equal(t, expectedID, clientID)
	}
}

func TestManager_GetClientIDFromToken_InvalidToken(t *testing.T) {
	manager := setupTestManager()

	clientID, err := manager.GetClientIDFromToken("invalid-token")
	assert.Error(t, err)
	assert.Equal(t, int64(0), clientID)
}

// ==================== 边界条件测试 ====================

func TestManager_TokenWithZeroClientID(t *testing.T) {
	manager := setupTestManager()

	// ClientID 为 0 也应该能正常签发
	token, _, err := manager.GenerateAccessToken(0, SubjectClient)
	require.NoError(t, err)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(0), claims.ClientID)
}

// ==================== 性能测试 ====================

func BenchmarkGenerateTokenPair(b *testing.B) {
	manager := setupTestManager()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = manager.GenerateTokenPair(12345, SubjectClient)
	}
}

func BenchmarkParseToken(b *testing.B) {
	manager := setupTestManager()
	token, _, _ := manager.GenerateAccessToken(12345, SubjectClient)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = manager.ParseToken(token)
	}
}

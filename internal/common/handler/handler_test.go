package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EduRoDev/quantum-saas/internal/common/errors"
	"github.com/EduRoDev/quantum-saas/internal/common/response"
	"github.com/EduRoDev/quantum-saas/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 辅助函数：创建测试上下文
func createTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

// 辅助函数：创建带路径参数的测试上下文
func createTestContextWithParam(paramName, paramValue string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: paramName, Value: paramValue}}
	return c, w
}

// 辅助函数：创建带查询参数的测试上下文
func createTestContextWithQuery(query string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c, w
}

// 辅助函数：创建已登录的测试上下文
func createAuthenticatedContext(clientID int64) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := createTestContext()
	c.Set(middleware.ContextKeyClientID, clientID)
	return c, w
}

// 辅助函数：解析响应
func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ============================================================================
// 错误处理测试
// ============================================================================

func TestHandleError_NilError(t *testing.T) {
	c, _ := createTestContext()

	handled := HandleError(c, nil)

	assert.False(t, handled, "nil error should not be handled")
}

func TestHandleError_AppError(t *testing.T) {
	c, w := createTestContext()
	appErr := errors.New(1001, "参数错误")

	handled := HandleError(c, appErr)

	assert.True(t, handled, "AppError should be handled")
	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, 1001, resp.Code)
	assert.Equal(t, "参数错误", resp.Message)
}

func TestHandleError_GenericError(t *testing.T) {
	c, w := createTestContext()
	err := assert.AnError

	handled := HandleError(c, err)

	assert.True(t, handled, "generic error should be handled")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleErrorWithMessage_CustomMessage(t *testing.T) {
	c, w := createTestContext()
	err := assert.AnError

	handled := HandleErrorWithMessage(c, err, "操作失败")

	assert.True(t, handled)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, "操作失败", resp.Message)
}

func TestMustSucceed_Success(t *testing.T) {
	c, w := createTestContext()
	data := map[string]string{"key": "value"}

	MustSucceed(c, nil, data)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(w)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Message)
}

func TestMustSucceed_Error(t *testing.T) {
	c, w := createTestContext()
	appErr := errors.ErrReservationNotFound

	MustSucceed(c, appErr, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(w)
	assert.Equal(t, appErr.Code, resp.Code)
	assert.Equal(t, appErr.Message, resp.Message)
}

func TestMustSucceedPage_Success(t *testing.T) {
	c, w := createTestContext()
	list := []string{"item1", "item2"}

	MustSucceedPage(c, nil, list, 100, 1, 10)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(w)
	assert.Equal(t, 0, resp.Code)

	// 验证分页数据
	dataMap := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(100), dataMap["total"])
	assert.Equal(t, float64(1), dataMap["page"])
	assert.Equal(t, float64(10), dataMap["page_size"])
}

// ============================================================================
// 认证检查测试
// ============================================================================

func TestRequireClientID_Authenticated(t *testing.T) {
	c, _ := createAuthenticatedContext(12345)

	clientID, ok := RequireClientID(c)

	assert.True(t, ok)
	assert.Equal(t, int64(12345), clientID)
}

func TestRequireClientID_NotAuthenticated(t *testing.T) {
	c, w := createTestContext()

	clientID, ok := RequireClientID(c)

	assert.False(t, ok)
	assert.Equal(t, int64(0), clientID)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, "请先登录", resp.Message)
}

func TestGetOptionalClientID_Authenticated(t *testing.T) {
	c, _ := createAuthenticatedContext(12345)

	clientID := GetOptionalClientID(c)

	assert.Equal(t, int64(12345), clientID)
}

func TestGetOptionalClientID_NotAuthenticated(t *testing.T) {
	c, _ := createTestContext()

	clientID := GetOptionalClientID(c)

	assert.Equal(t, int64(0), clientID)
}

// ============================================================================
// ID 解析测试
// ============================================================================

func TestParseID_Valid(t *testing.T) {
	c, _ := createTestContextWithParam("id", "12345")

	id, ok := ParseID(c, "预订")

	assert.True(t, ok)
	assert.Equal(t, int64(12345), id)
}

func TestParseID_Invalid(t *testing.T) {
	c, w := createTestContextWithParam("id", "invalid")

	id, ok := ParseID(c, "预订")

	assert.False(t, ok)
	assert.Equal(t, int64(0), id)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, "无效的预订ID", resp.Message)
}

func TestParseParamID_Valid(t *testing.T) {
	c, _ := createTestContextWithParam("hotel_id", "999")

	id, ok := ParseParamID(c, "hotel_id", "酒店")

	assert.True(t, ok)
	assert.Equal(t, int64(999), id)
}

func TestParseQueryID_Empty(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	id, ok := ParseQueryID(c, "hotel_id", "酒店")

	assert.True(t, ok)
	assert.Nil(t, id)
}

func TestParseQueryID_Valid(t *testing.T) {
	c, _ := createTestContextWithQuery("hotel_id=123")

	id, ok := ParseQueryID(c, "hotel_id", "酒店")

	assert.True(t, ok)
	require.NotNil(t, id)
	assert.Equal(t, int64(123), *id)
}

func TestParseQueryID_Invalid(t *testing.T) {
	c, w := createTestContextWithQuery("hotel_id=abc")

	id, ok := ParseQueryID(c, "hotel_id", "酒店")

	assert.False(t, ok)
	assert.Nil(t, id)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseRequiredQueryID_Empty(t *testing.T) {
	c, w := createTestContextWithQuery("")

	id, ok := ParseRequiredQueryID(c, "room_id", "房间")

	assert.False(t, ok)
	assert.Equal(t, int64(0), id)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, "请提供房间ID", resp.Message)
}

func TestParseRequiredQueryID_Valid(t *testing.T) {
	c, _ := createTestContextWithQuery("room_id=456")

	id, ok := ParseRequiredQueryID(c, "room_id", "房间")

	assert.True(t, ok)
	assert.Equal(t, int64(456), id)
}

// ============================================================================
// 时间解析测试
// ============================================================================

func TestParseDate_Valid(t *testing.T) {
	date, err := ParseDate("2024-01-15")

	assert.NoError(t, err)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.January, date.Month())
	assert.Equal(t, 15, date.Day())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("invalid")

	assert.Error(t, err)
}

func TestParseDateTime_MultipleFormats(t *testing.T) {
	testCases := []struct {
		input string
		valid bool
	}{
		{"2024-01-15T10:30:00+08:00", true},
		{"2024-01-15 10:30:00", true},
		{"2024-01-15T10:30:00", true},
		{"2024-01-15 10:30", true},
		{"invalid", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := ParseDateTime(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseQueryDate_Empty(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	date, ok := ParseQueryDate(c, "date", "无效的日期")

	assert.True(t, ok)
	assert.Nil(t, date)
}

func TestParseQueryDate_Valid(t *testing.T) {
	c, _ := createTestContextWithQuery("date=2024-01-15")

	date, ok := ParseQueryDate(c, "date", "无效的日期")

	assert.True(t, ok)
	require.NotNil(t, date)
	assert.Equal(t, 2024, date.Year())
}

func TestParseQueryDate_Invalid(t *testing.T) {
	c, w := createTestContextWithQuery("date=invalid")

	date, ok := ParseQueryDate(c, "date", "无效的日期")

	assert.False(t, ok)
	assert.Nil(t, date)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseQueryDateRange_BothEmpty(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	start, end, ok := ParseQueryDateRange(c)

	assert.True(t, ok)
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestParseQueryDateRange_Valid(t *testing.T) {
	c, _ := createTestContextWithQuery("start_date=2024-01-01&end_date=2024-01-31")

	start, end, ok := ParseQueryDateRange(c)

	assert.True(t, ok)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, 2024, start.Year())
	assert.Equal(t, time.January, start.Month())
	assert.Equal(t, 1, start.Day())
	// 结束日期应该是当天结束时间
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
}

func TestParseQueryDateRange_InvalidStart(t *testing.T) {
	c, w := createTestContextWithQuery("start_date=invalid&end_date=2024-01-31")

	_, _, ok := ParseQueryDateRange(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseRequiredStayRange_BothEmpty(t *testing.T) {
	c, w := createTestContextWithQuery("")

	_, _, ok := ParseRequiredStayRange(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := parseResponse(w)
	assert.Equal(t, "请指定入住和退房时间", resp.Message)
}

func TestParseRequiredStayRange_DateOnly(t *testing.T) {
	c, _ := createTestContextWithQuery("check_in=2024-01-01&check_out=2024-01-05")

	checkIn, checkOut, ok := ParseRequiredStayRange(c)

	assert.True(t, ok)
	assert.Equal(t, 1, checkIn.Day())
	assert.Equal(t, 5, checkOut.Day())
}

func TestParseRequiredStayRange_DateTime(t *testing.T) {
	c, _ := createTestContextWithQuery("check_in=2024-01-01T14:00:00&check_out=2024-01-05T12:00:00")

	checkIn, checkOut, ok := ParseRequiredStayRange(c)

	assert.True(t, ok)
	assert.Equal(t, 14, checkIn.Hour())
	assert.Equal(t, 12, checkOut.Hour())
}

func TestParseRequiredStayRange_Invalid(t *testing.T) {
	c, w := createTestContextWithQuery("check_in=invalid&check_out=2024-01-05")

	_, _, ok := ParseRequiredStayRange(c)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ============================================================================
// 分页测试
// ============================================================================

func TestBindPagination_Defaults(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	p := BindPagination(c)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
}

func TestBindPagination_CustomValues(t *testing.T) {
	c, _ := createTestContextWithQuery("page=3&page_size=20")

	p := BindPagination(c)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PageSize)
}

func TestBindPagination_Normalize(t *testing.T) {
	c, _ := createTestContextWithQuery("page=-1&page_size=200")

	p := BindPagination(c)

	assert.Equal(t, 1, p.Page)       // 规范化为1
	assert.Equal(t, 100, p.PageSize) // 最大100
}

func TestBindPaginationWithDefaults(t *testing.T) {
	c, _ := createTestContextWithQuery("")

	p := BindPaginationWithDefaults(c, 1, 20)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
}

func TestBindPagination_GetOffsetAndLimit(t *testing.T) {
	c, _ := createTestContextWithQuery("page=3&page_size=10")

	p := BindPagination(c)

	assert.Equal(t, 20, p.GetOffset()) // (3-1)*10
	assert.Equal(t, 10, p.GetLimit())
}

// ============================================================================
// 组合函数测试
// ============================================================================

func TestRequireClientAndParseID_Success(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "123"}}
	c.Set(middleware.ContextKeyClientID, int64(456))

	clientID, resourceID, ok := RequireClientAndParseID(c, "预订")

	assert.True(t, ok)
	assert.Equal(t, int64(456), clientID)
	assert.Equal(t, int64(123), resourceID)
}

func TestRequireClientAndParseID_NotAuthenticated(t *testing.T) {
	c, w := createTestContextWithParam("id", "123")

	clientID, resourceID, ok := RequireClientAndParseID(c, "预订")

	assert.False(t, ok)
	assert.Equal(t, int64(0), clientID)
	assert.Equal(t, int64(0), resourceID)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireClientAndParseID_InvalidID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "invalid"}}
	c.Set(middleware.ContextKeyClientID, int64(456))

	clientID, resourceID, ok := RequireClientAndParseID(c, "预订")

	assert.False(t, ok)
	assert.Equal(t, int64(0), clientID)
	assert.Equal(t, int64(0), resourceID)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

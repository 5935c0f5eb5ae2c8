package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionHandler_Create_ReviewedUpdatesBalance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `buckets`").
		WillReturnRows(bucketRows().
			AddRow(1, "现金", "", 0, "cash", "#64748b", "wallet", true, time.Now(), time.Now(), nil))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	// 已核对交易立即结算到桶余额
	mock.ExpectExec("UPDATE `buckets` SET `balance`=balance \\+ \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"bucket_id":1,"name":"午餐","amount":-4500,"date":"2024-01-15","reviewed":true}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "创建成功", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_UnreviewedSkipsBalance(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `buckets`").
		WillReturnRows(bucketRows().
			AddRow(1, "现金", "", 0, "cash", "#64748b", "wallet", true, time.Now(), time.Now(), nil))

	// 未核对的交易不产生余额增量，只插入记录
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"bucket_id":1,"name":"午餐","amount":-4500,"date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionHandler_Create_BucketNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `buckets`").
		WillReturnRows(bucketRows())

	router := gin.New()
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"bucket_id":99,"name":"午餐","amount":-4500,"date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bucket not found", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParseTransactionDate_LocalTimezone(t *testing.T) {
	// 纯日期按本地时区解析，与数据库连接的 loc=Local 和缺省 time.Now() 对齐
	got, err := parseTransactionDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), got)

	got, err = parseTransactionDate("2024-01-15 12:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 30, 0, 0, time.Local), got)

	// 带时区标记的 RFC3339 保留其显式偏移
	got, err = parseTransactionDate("2024-01-15T08:00:00+08:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
}

func TestTransactionHandler_Create_BadDate(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/transactions", NewTransactionHandler().Create)

	body := `{"bucket_id":1,"name":"午餐","amount":-4500,"date":"15/01/2024"}`
	req := httptest.NewRequest("POST", "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

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

func bucketRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "balance", "type", "color", "icon",
		"is_default", "created_at", "updated_at", "deleted_at",
	})
}

func TestBucketHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `buckets`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/buckets", NewBucketHandler().Create)

	body := `{"name":"工资卡","type":"checking","color":"#3b82f6"}`
	req := httptest.NewRequest("POST", "/buckets", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "创建成功", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBucketHandler_Create_InvalidType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/buckets", NewBucketHandler().Create)

	body := `{"name":"工资卡","type":"not-a-type"}`
	req := httptest.NewRequest("POST", "/buckets", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestBucketHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `buckets`").
		WillReturnRows(bucketRows())

	router := gin.New()
	router.GET("/buckets/:id", NewBucketHandler().Get)

	req := httptest.NewRequest("GET", "/buckets/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bucket not found", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBucketHandler_Delete_RefusedWithTransactions(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `buckets`").
		WillReturnRows(bucketRows().
			AddRow(1, "现金", "", 5000, "cash", "#64748b", "wallet", true, time.Now(), time.Now(), nil))

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	router := gin.New()
	router.DELETE("/buckets/:id", NewBucketHandler().Delete)

	req := httptest.NewRequest("DELETE", "/buckets/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

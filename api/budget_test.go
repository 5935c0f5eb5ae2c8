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

func budgetRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "type", "amount",
		"created_at", "updated_at", "deleted_at",
	})
}

func transactionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "amount", "bucket_id", "import_id",
		"date", "original_row", "reviewed", "archived", "created_at", "updated_at",
	})
}

func tagRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "color", "created_at", "updated_at", "deleted_at",
	})
}

func TestBudgetHandler_Create_InvalidType(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/budgets", NewBudgetHandler().Create)

	body := `{"name":"餐饮预算","type":"daily","amount":10000}`
	req := httptest.NewRequest("POST", "/budgets", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestBudgetHandler_Status_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WillReturnRows(budgetRows())

	router := gin.New()
	router.GET("/budgets/:id/status", NewBudgetHandler().Status)

	req := httptest.NewRequest("GET", "/budgets/99/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetHandler_Status_Monthly(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()

	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WillReturnRows(budgetRows().
			AddRow(1, "餐饮月度预算", "", "monthly", 10000, now, now, nil))

	mock.ExpectQuery("SELECT .* FROM `budget_tags`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "budget_id", "tag_id", "created_at"}).
			AddRow(1, 1, 2, now))

	mock.ExpectQuery("SELECT .* FROM `tags`").
		WillReturnRows(tagRows().
			AddRow(2, "餐饮", "", "#ef4444", now, now, nil))

	// 标签圈定两笔交易：一笔在二月窗口内，一笔在窗口外
	mock.ExpectQuery("SELECT .* FROM `transactions`").
		WillReturnRows(transactionRows().
			AddRow(10, "午餐", "", -3000, 1, 0,
				time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "", true, false, now, now).
			AddRow(11, "大餐", "", -9999, 1, 0,
				time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "", true, false, now, now))

	// 每笔交易回查完整标签集合
	mock.ExpectQuery("SELECT .* FROM `tags`").
		WillReturnRows(tagRows().AddRow(2, "餐饮", "", "#ef4444", now, now, nil))
	mock.ExpectQuery("SELECT .* FROM `tags`").
		WillReturnRows(tagRows().AddRow(2, "餐饮", "", "#ef4444", now, now, nil))

	router := gin.New()
	router.GET("/budgets/:id/status", NewBudgetHandler().Status)

	req := httptest.NewRequest("GET", "/budgets/1/status?date=2024-02-15", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, -3000, resp.Data["total"])
	assert.EqualValues(t, 13000, resp.Data["left"])
	assert.EqualValues(t, -30, resp.Data["percent"])
	assert.EqualValues(t, 1, resp.Data["count"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetHandler_Status_ZeroAmount(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WillReturnRows(budgetRows().
			AddRow(1, "空预算", "", "monthly", 0, now, now, nil))

	router := gin.New()
	router.GET("/budgets/:id/status", NewBudgetHandler().Status)

	req := httptest.NewRequest("GET", "/budgets/1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

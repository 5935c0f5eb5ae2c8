package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"budget/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAdminTest(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	old := database.DB
	database.DB = gdb
	return mock, func() {
		database.DB = old
		sqlDB.Close()
	}
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "password", "email", "is_admin", "status",
		"created_at", "updated_at", "deleted_at",
	})
}

func adminTestRouter(userID uint) *gin.Engine {
	r := gin.New()
	if userID != 0 {
		r.Use(func(c *gin.Context) {
			c.Set("userID", userID)
			c.Next()
		})
	}
	r.Use(AdminRequired())
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func TestAdminRequired_NoLogin(t *testing.T) {
	_, cleanup := setupAdminTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	adminTestRouter(0).ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
	assert.Equal(t, 401, w.Code)
}

func TestAdminRequired_NotAdmin(t *testing.T) {
	mock, cleanup := setupAdminTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(2, "alice", "hash", "", false, "active", time.Now(), time.Now(), nil))

	w := httptest.NewRecorder()
	adminTestRouter(2).ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, 403, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRequired_Admin(t *testing.T) {
	mock, cleanup := setupAdminTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(userRows().
			AddRow(1, "admin", "hash", "", true, "active", time.Now(), time.Now(), nil))

	w := httptest.NewRecorder()
	adminTestRouter(1).ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

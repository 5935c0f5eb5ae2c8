package middleware

import (
	"net/http"

	"budget/database"
	"budget/models"

	"github.com/gin-gonic/gin"
)

// AdminRequired 管理员校验中间件
// 需在 JWTAuth 之后使用。CSV 导入、批量修改等写操作要求管理员身份，
// 核心逻辑只依赖这里给出的布尔结论，不关心权限来源。
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetCurrentUserID(c)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "请先登录"})
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "用户不存在"})
			c.Abort()
			return
		}

		if !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "权限不足"})
			c.Abort()
			return
		}

		c.Next()
	}
}

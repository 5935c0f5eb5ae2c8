package router

import (
	"time"

	"budget/api"
	"budget/config"
	_ "budget/docs"
	"budget/middleware"
	"budget/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var email *service.EmailService
	if cfg.Email.Enabled {
		email = service.NewEmailService(&cfg.Email, cfg.Report.Recipient)
	}

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			// 登录限流参数来自配置 login_limit 段
			auth.POST("/login", middleware.LoginRateLimit(
				cfg.LoginLimit.MaxAttempts,
				time.Duration(cfg.LoginLimit.WindowMinutes)*time.Minute,
			), authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 资金桶相关
			bucketHandler := api.NewBucketHandler()
			buckets := authorized.Group("/buckets")
			{
				buckets.POST("", bucketHandler.Create)
				buckets.GET("", bucketHandler.List)
				buckets.GET("/:id", bucketHandler.Get)
				buckets.PUT("/:id", bucketHandler.Update)
				buckets.DELETE("/:id", bucketHandler.Delete)
				buckets.GET("/:id/transactions", bucketHandler.Transactions)
			}

			// 交易记录相关
			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				// 手工记账和批量更新属于管理操作
				transactions.POST("", middleware.AdminRequired(), transactionHandler.Create)
				transactions.PUT("/bulk", middleware.AdminRequired(), transactionHandler.BulkUpdate)
				transactions.GET("", transactionHandler.List)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.POST("/:id/archive", transactionHandler.Archive)
				transactions.POST("/:id/restore", transactionHandler.Restore)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			// 交易凭证图片
			pictureHandler := api.NewPictureHandler()
			authorized.POST("/transactions/:id/pictures", pictureHandler.Create)
			authorized.GET("/transactions/:id/pictures", pictureHandler.List)
			authorized.DELETE("/pictures/:id", pictureHandler.Delete)

			// CSV 导入（管理操作）
			importHandler := api.NewImportHandler(email)
			imports := authorized.Group("/imports")
			imports.Use(middleware.AdminRequired())
			{
				imports.POST("", importHandler.Import)
				imports.GET("", importHandler.List)
				imports.POST("/:id/archive", importHandler.Archive)
				imports.POST("/:id/restore", importHandler.Restore)
				imports.DELETE("/:id", importHandler.Delete)
			}

			// 标签相关
			tagHandler := api.NewTagHandler()
			tags := authorized.Group("/tags")
			{
				tags.POST("", tagHandler.Create)
				tags.GET("", tagHandler.List)
				tags.PUT("/:id", tagHandler.Update)
				tags.DELETE("/:id", tagHandler.Delete)
				tags.GET("/:id/transactions", tagHandler.Transactions)
			}

			// 预算相关
			budgetHandler := api.NewBudgetHandler()
			budgets := authorized.Group("/budgets")
			{
				budgets.POST("", budgetHandler.Create)
				budgets.GET("", budgetHandler.List)
				budgets.PUT("/:id", budgetHandler.Update)
				budgets.DELETE("/:id", budgetHandler.Delete)
				budgets.GET("/:id/status", budgetHandler.Status)
			}

			// 统计相关
			authorized.GET("/statistics/summary", bucketHandler.GetSummary)

			// 导出相关
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

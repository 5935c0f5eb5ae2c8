package database

import (
	"fmt"
	"log"

	"budget/config"
	"budget/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Bucket{},
		&models.Transaction{},
		&models.CSVImport{},
		&models.Tag{},
		&models.TransactionTag{},
		&models.Budget{},
		&models.BudgetTag{},
		&models.TransactionPicture{},
	); err != nil {
		return err
	}

	// 初始化默认资金桶（仅当表为空时）
	var bucketCount int64
	DB.Model(&models.Bucket{}).Count(&bucketCount)
	if bucketCount == 0 {
		defaultBucket := models.Bucket{
			Name:        "现金",
			Description: "默认资金桶",
			Type:        models.BucketTypeCash,
			Color:       "#10b981",
			Icon:        "wallet",
			IsDefault:   true,
		}
		_ = DB.Create(&defaultBucket).Error
	}

	log.Println("数据库初始化成功")
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

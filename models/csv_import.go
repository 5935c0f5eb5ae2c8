package models

import (
	"time"
)

// CSVImport 状态常量
const (
	// ImportStatusPending 已创建，等待异步解析
	ImportStatusPending = "pending"
	// ImportStatusCompleted 解析并入库完成
	ImportStatusCompleted = "completed"
	// ImportStatusFailed 解析失败，未创建任何交易
	ImportStatusFailed = "failed"
)

// CSVImport CSV 导入批次模型
// 每次上传创建一条记录，保留原始 CSV 文本用于审计与重新解析。
// 批次的删除/归档/恢复会级联到其派生的全部交易。
type CSVImport struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:100;not null"`
	BucketID      uint      `json:"bucket_id" gorm:"index;not null"` // 目标桶，创建后不可变更
	ParserVersion string    `json:"parser_version" gorm:"size:20;not null"`
	Notes         string    `json:"notes" gorm:"size:255"`
	Contents      string    `json:"contents" gorm:"type:text;not null"` // 原始 CSV 文本
	ForceReview   bool      `json:"force_review" gorm:"default:false"`  // true 时导入的交易直接标记为已核对
	Status        string    `json:"status" gorm:"size:20;default:pending;index"`
	Error         string    `json:"error" gorm:"size:255"` // 失败原因
	Archived      bool      `json:"archived" gorm:"index;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 设置表名
func (CSVImport) TableName() string {
	return "csv_imports"
}

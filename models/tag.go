package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag 交易标签模型
// 删除标签会级联删除引用它的全部 TransactionTag / BudgetTag 关联。
type Tag struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Description string         `json:"description" gorm:"size:255"`
	Color       string         `json:"color" gorm:"size:20;default:#64748b"` // 颜色代码
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Tag) TableName() string {
	return "tags"
}

// TransactionTag 交易-标签关联
type TransactionTag struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TransactionID uint      `json:"transaction_id" gorm:"index:idx_tx_tag,unique;not null"`
	TagID         uint      `json:"tag_id" gorm:"index:idx_tx_tag,unique;index;not null"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName 设置表名
func (TransactionTag) TableName() string {
	return "transaction_tags"
}

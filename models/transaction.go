package models

import (
	"time"
)

// Transaction 交易记录模型
// 余额的事实来源。Reviewed=true 且 Archived=false 的交易才计入所属桶的余额。
// 归档为软删除（可恢复），Delete 为硬删除，两者都会经过 ledger 结算。
type Transaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:255"`
	Amount      int64     `json:"amount" gorm:"not null"` // 金额，最小货币单位（分），有符号
	BucketID    uint      `json:"bucket_id" gorm:"index;not null"`
	ImportID    uint      `json:"import_id" gorm:"index;default:0"` // 0 表示手工录入，未关联任何导入批次
	Date        time.Time `json:"date" gorm:"index;not null"`
	OriginalRow string    `json:"original_row" gorm:"type:text"` // 来源记录快照，用于溯源
	Reviewed    bool      `json:"reviewed" gorm:"index;default:false"`
	Archived    bool      `json:"archived" gorm:"index;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

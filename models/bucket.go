package models

import (
	"time"

	"gorm.io/gorm"
)

// BucketType 资金桶类型常量
const (
	BucketTypeCredit     = "credit"
	BucketTypeDebit      = "debit"
	BucketTypeSavings    = "savings"
	BucketTypeChecking   = "checking"
	BucketTypeInvestment = "investment"
	BucketTypeLoan       = "loan"
	BucketTypeCash       = "cash"
	BucketTypeOther      = "other"
)

// Bucket 资金桶（账户）模型
// Balance 为派生缓存：等于桶内所有未归档、已核对交易金额之和，
// 只能由 ledger 包通过原子增量更新，禁止业务代码直接写入。
type Bucket struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"size:255"`
	Balance     int64          `json:"balance" gorm:"not null;default:0"` // 余额，最小货币单位（分）
	Type        string         `json:"type" gorm:"size:20;not null"`
	Color       string         `json:"color" gorm:"size:20;default:#64748b"` // 颜色代码，如 #ef4444
	Icon        string         `json:"icon" gorm:"size:50;default:wallet"`
	IsDefault   bool           `json:"is_default" gorm:"default:false"` // 是否默认桶
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Bucket) TableName() string {
	return "buckets"
}

// GetBucketTypes 获取所有桶类型
func GetBucketTypes() []string {
	return []string{
		BucketTypeCredit,
		BucketTypeDebit,
		BucketTypeSavings,
		BucketTypeChecking,
		BucketTypeInvestment,
		BucketTypeLoan,
		BucketTypeCash,
		BucketTypeOther,
	}
}

// IsValidBucketType 校验桶类型是否合法
func IsValidBucketType(t string) bool {
	for _, v := range GetBucketTypes() {
		if v == t {
			return true
		}
	}
	return false
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Budget 周期类型常量
const (
	BudgetTypeWeekly  = "weekly"
	BudgetTypeMonthly = "monthly"
	BudgetTypeYearly  = "yearly"
)

// Budget 预算模型
// 按周期（周/月/年）对标签圈定的交易求和，与 Amount 上限比较。
// Type 在写入时校验，Amount 必须大于 0，保证百分比计算恒有定义。
type Budget struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"size:255"`
	Type        string         `json:"type" gorm:"size:20;not null"`   // weekly/monthly/yearly
	Amount      int64          `json:"amount" gorm:"not null"`         // 预算上限，最小货币单位（分）
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}

// BudgetTag 预算-标签关联，预算的统计范围是其全部关联标签圈定的交易并集
type BudgetTag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BudgetID  uint      `json:"budget_id" gorm:"index:idx_budget_tag,unique;not null"`
	TagID     uint      `json:"tag_id" gorm:"index:idx_budget_tag,unique;index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 设置表名
func (BudgetTag) TableName() string {
	return "budget_tags"
}

// GetBudgetTypes 获取所有预算周期类型
func GetBudgetTypes() []string {
	return []string{BudgetTypeWeekly, BudgetTypeMonthly, BudgetTypeYearly}
}

// IsValidBudgetType 校验预算周期类型是否合法
func IsValidBudgetType(t string) bool {
	for _, v := range GetBudgetTypes() {
		if v == t {
			return true
		}
	}
	return false
}

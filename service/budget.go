package service

import (
	"errors"
	"time"

	"budget/models"

	"gorm.io/gorm"
)

// BudgetService 预算评估服务：把预算的周期类型换算成日历窗口，
// 在窗口内汇总其标签圈定的交易。
type BudgetService struct {
	db   *gorm.DB
	tags *TagService
}

// NewBudgetService 创建预算服务
func NewBudgetService(db *gorm.DB) *BudgetService {
	return &BudgetService{db: db, tags: NewTagService(db)}
}

// PeriodFor 计算参考日期所在的预算周期窗口 [from, to]，均为当日零点，
// 窗口按自然日含头含尾。
//   - weekly:  周日到周六，from 为参考日期当周（或当天）的周日
//   - monthly: 当月一日到当月最后一天（取下月第 0 天）
//   - yearly:  当年 1 月 1 日到 12 月 31 日
//
// 其他取值直接报错。周期类型在写入时已校验，这里不做一日窗口之类的兜底。
func PeriodFor(budgetType string, ref time.Time) (from, to time.Time, err error) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	switch budgetType {
	case models.BudgetTypeWeekly:
		from = day.AddDate(0, 0, -int(day.Weekday()))
		to = from.AddDate(0, 0, 6)
	case models.BudgetTypeMonthly:
		from = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		// 下月第 0 天即本月最后一天
		to = time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location())
	case models.BudgetTypeYearly:
		from = time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		to = time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, day.Location())
	default:
		return time.Time{}, time.Time{}, ErrInvalidBudgetType
	}
	return from, to, nil
}

// BudgetStatus 预算在某个周期窗口内的执行情况
type BudgetStatus struct {
	Budget       models.Budget         `json:"budget"`
	Tags         []models.Tag          `json:"tags"`
	Transactions []TransactionWithTags `json:"transactions"`
	From         time.Time             `json:"from"`
	To           time.Time             `json:"to"`
	Total        int64                 `json:"total"`   // 窗口内交易金额之和（支出为负）
	Left         int64                 `json:"left"`    // amount - total
	Percent      float64               `json:"percent"` // total / amount * 100
	Count        int                   `json:"count"`
}

// Evaluate 评估预算在参考日期所在周期内的执行情况。
// 统计范围是预算全部关联标签圈定交易的并集（按交易 ID 去重），
// 已归档交易不计入。Amount 为 0 时报错，百分比永不为 NaN。
func (s *BudgetService) Evaluate(budgetID uint, ref time.Time) (*BudgetStatus, error) {
	var budget models.Budget
	if err := s.db.First(&budget, budgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	if budget.Amount == 0 {
		return nil, ErrZeroBudgetAmount
	}

	from, to, err := PeriodFor(budget.Type, ref)
	if err != nil {
		return nil, err
	}

	var links []models.BudgetTag
	if err := s.db.Where("budget_id = ?", budget.ID).Find(&links).Error; err != nil {
		return nil, err
	}

	status := &BudgetStatus{
		Budget: budget,
		Tags:   []models.Tag{},
		From:   from,
		To:     to,
	}

	// 各标签圈定交易的并集，按交易 ID 去重
	matched := make(map[uint]bool)
	windowEnd := to.AddDate(0, 0, 1) // to 当日整天计入
	for _, link := range links {
		var tag models.Tag
		if err := s.db.First(&tag, link.TagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		status.Tags = append(status.Tags, tag)

		withTags, err := s.tags.TransactionsForTag(tag.ID)
		if err != nil {
			return nil, err
		}
		for _, wt := range withTags {
			t := wt.Transaction
			if matched[t.ID] || t.Archived {
				continue
			}
			if t.Date.Before(from) || !t.Date.Before(windowEnd) {
				continue
			}
			matched[t.ID] = true
			status.Transactions = append(status.Transactions, wt)
			status.Total += t.Amount
		}
	}

	status.Count = len(status.Transactions)
	status.Left = budget.Amount - status.Total
	status.Percent = float64(status.Total) / float64(budget.Amount) * 100
	return status, nil
}

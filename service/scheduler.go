package service

import (
	"log"
	"time"

	"budget/config"
	"budget/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// ReportScheduler 定时预算报告调度器
type ReportScheduler struct {
	cfg     *config.ReportConfig
	budgets *BudgetService
	email   *EmailService
	db      *gorm.DB
	cron    *cron.Cron
}

// NewReportScheduler 创建报告调度器
func NewReportScheduler(db *gorm.DB, cfg *config.ReportConfig, email *EmailService) *ReportScheduler {
	return &ReportScheduler{
		cfg:     cfg,
		budgets: NewBudgetService(db),
		email:   email,
		db:      db,
		cron:    cron.New(),
	}
}

// Start 按配置的 cron 表达式启动定时任务，未启用时不做任何事
func (s *ReportScheduler) Start() error {
	if !s.cfg.Enabled {
		log.Println("预算报告未启用")
		return nil
	}
	if _, err := s.cron.AddFunc(s.cfg.Cron, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("预算报告已启动: %s", s.cfg.Cron)
	return nil
}

// Stop 停止调度器
func (s *ReportScheduler) Stop() {
	s.cron.Stop()
}

// runOnce 评估全部预算并发送汇总邮件
func (s *ReportScheduler) runOnce() {
	var budgets []models.Budget
	if err := s.db.Find(&budgets).Error; err != nil {
		log.Printf("加载预算列表失败: %v", err)
		return
	}

	now := time.Now()
	statuses := make([]*BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		st, err := s.budgets.Evaluate(b.ID, now)
		if err != nil {
			log.Printf("评估预算 %d 失败: %v", b.ID, err)
			continue
		}
		statuses = append(statuses, st)
	}
	if len(statuses) == 0 {
		return
	}

	if err := s.email.SendBudgetReportEmail(statuses); err != nil {
		log.Printf("发送预算周报失败: %v", err)
	}
}

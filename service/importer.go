package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"budget/ledger"
	"budget/models"

	"gorm.io/gorm"
)

// ImportService CSV 导入服务。
// 同步阶段只做结构校验和批次落库，解析与交易创建由调用方放到后台执行，
// 大文件不会阻塞其他请求。入库采用先积累后提交：整批解析、去重完成后在
// 单个数据库事务里创建全部交易，任何一行失败则整批回滚，不留半截导入。
type ImportService struct {
	db    *gorm.DB
	txSvc *TransactionService
	email *EmailService // 可为 nil，nil 时不发结果通知
}

// NewImportService 创建导入服务
func NewImportService(db *gorm.DB, email *EmailService) *ImportService {
	return &ImportService{
		db:    db,
		txSvc: NewTransactionService(db),
		email: email,
	}
}

// Begin 校验并创建导入批次，状态为 pending，等待 Process 异步处理
func (s *ImportService) Begin(name, contents string, bucketID uint, forceReview bool) (*models.CSVImport, error) {
	if !ValidateCSV(contents) {
		return nil, ErrInvalidCSV
	}

	var bucket models.Bucket
	if err := s.db.First(&bucket, bucketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBucketNotFound
		}
		return nil, err
	}

	imp := &models.CSVImport{
		Name:          name,
		BucketID:      bucketID,
		ParserVersion: CSVParserVersion,
		Notes:         "从 CSV 导入",
		Contents:      contents,
		ForceReview:   forceReview,
		Status:        models.ImportStatusPending,
	}
	if err := s.db.Create(imp).Error; err != nil {
		return nil, fmt.Errorf("创建导入批次失败: %w", err)
	}
	return imp, nil
}

// Process 解析批次内容并创建交易。
// 去重键为（日期时刻、描述、金额）三元组：与桶内已有交易完全一致的行跳过，
// 因此同一份 CSV 重复导入是幂等的。
func (s *ImportService) Process(importID uint) error {
	var imp models.CSVImport
	if err := s.db.First(&imp, importID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImportNotFound
		}
		return err
	}

	records, err := ParseCSV(imp.Contents)
	if err != nil {
		s.markFailed(&imp, err)
		return err
	}

	// 加载桶内全部已有交易，建三元组索引做精确去重
	var existing []models.Transaction
	if err := s.db.Where("bucket_id = ?", imp.BucketID).Find(&existing).Error; err != nil {
		s.markFailed(&imp, err)
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[dedupKey(t.Date.UnixMilli(), t.Description, t.Amount)] = true
	}

	var created, skipped int
	err = s.db.Transaction(func(dtx *gorm.DB) error {
		var total int64
		for _, r := range records {
			key := dedupKey(r.Date.UnixMilli(), r.Description, r.Amount)
			if seen[key] {
				skipped++
				continue
			}
			seen[key] = true

			raw, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("序列化源记录失败: %w", err)
			}
			tx := models.Transaction{
				Name:        "CSV 导入",
				Description: r.Description,
				Amount:      r.Amount,
				BucketID:    imp.BucketID,
				ImportID:    imp.ID,
				Date:        r.Date,
				OriginalRow: string(raw),
				Reviewed:    imp.ForceReview,
			}
			if err := dtx.Create(&tx).Error; err != nil {
				return fmt.Errorf("创建交易失败: %w", err)
			}
			created++
			if imp.ForceReview {
				total += r.Amount
			}
		}

		if total != 0 {
			if err := ledger.Apply(dtx, []ledger.Delta{{BucketID: imp.BucketID, Amount: total}}); err != nil {
				return err
			}
		}
		return dtx.Model(&imp).Updates(map[string]interface{}{
			"status": models.ImportStatusCompleted,
			"error":  "",
		}).Error
	})
	if err != nil {
		s.markFailed(&imp, err)
		return err
	}

	log.Printf("导入批次 %d 处理完成: 新建 %d 条，跳过重复 %d 条", imp.ID, created, skipped)
	s.notify(&imp, created, skipped)
	return nil
}

// DeleteImport 删除批次并级联硬删除其派生的全部交易，余额逐笔结算
func (s *ImportService) DeleteImport(id uint) error {
	var imp models.CSVImport
	if err := s.db.First(&imp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImportNotFound
		}
		return err
	}

	var children []models.Transaction
	if err := s.db.Where("import_id = ?", imp.ID).Find(&children).Error; err != nil {
		return err
	}
	for _, child := range children {
		if err := s.txSvc.Delete(child.ID); err != nil && !errors.Is(err, ErrTransactionNotFound) {
			return err
		}
	}

	return s.db.Delete(&models.CSVImport{}, imp.ID).Error
}

// SetImportArchived 归档/恢复批次并级联到其全部交易
func (s *ImportService) SetImportArchived(id uint, archived bool) error {
	var imp models.CSVImport
	if err := s.db.First(&imp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImportNotFound
		}
		return err
	}

	var children []models.Transaction
	if err := s.db.Where("import_id = ?", imp.ID).Find(&children).Error; err != nil {
		return err
	}
	for _, child := range children {
		if err := s.txSvc.SetArchived(child.ID, archived); err != nil && !errors.Is(err, ErrTransactionNotFound) {
			return err
		}
	}

	return s.db.Model(&models.CSVImport{}).Where("id = ?", imp.ID).
		Update("archived", archived).Error
}

// markFailed 标记批次失败，不创建任何交易
func (s *ImportService) markFailed(imp *models.CSVImport, cause error) {
	msg := truncateError(cause.Error())
	if err := s.db.Model(imp).Updates(map[string]interface{}{
		"status": models.ImportStatusFailed,
		"error":  msg,
	}).Error; err != nil {
		log.Printf("标记导入批次 %d 失败状态出错: %v", imp.ID, err)
	}
	s.notify(imp, 0, 0)
}

// notify 发送导入结果通知邮件，未配置邮件服务时跳过
func (s *ImportService) notify(imp *models.CSVImport, created, skipped int) {
	if s.email == nil {
		return
	}
	if err := s.email.SendImportResultEmail(imp, created, skipped); err != nil {
		log.Printf("发送导入结果邮件失败: %v", err)
	}
}

// dedupKey 桶内去重键：日期时刻 + 描述 + 金额
func dedupKey(unixMilli int64, description string, amount int64) string {
	return fmt.Sprintf("%d|%s|%d", unixMilli, description, amount)
}

// truncateError 把失败原因截断到 error 列宽以内。
// 错误信息多为中文，按字节截断会切坏多字节字符，这里回退到字符边界。
func truncateError(msg string) string {
	const limit = 250
	if len(msg) <= limit {
		return msg
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}

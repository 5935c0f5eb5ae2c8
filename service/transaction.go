package service

import (
	"errors"
	"fmt"
	"time"

	"budget/ledger"
	"budget/models"

	"gorm.io/gorm"
)

// TransactionService 交易生命周期服务。
// 所有会影响余额的变更（创建/修改/核对/归档/恢复/删除）都在同一个数据库
// 事务里完成行变更与余额结算，保证每次尝试的增量要么全部生效要么全部回滚。
type TransactionService struct {
	db *gorm.DB
}

// NewTransactionService 创建交易服务
func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{db: db}
}

// CreateTransactionInput 创建交易入参
type CreateTransactionInput struct {
	BucketID    uint
	Name        string
	Description string
	Amount      int64
	Date        time.Time
	Reviewed    bool
	TagIDs      []uint
	ImportID    uint   // 0 表示手工录入
	OriginalRow string // 来源快照，可为空
}

// Create 创建交易并结算余额，无法解析的标签 ID 静默跳过
func (s *TransactionService) Create(input CreateTransactionInput) (*models.Transaction, error) {
	var bucket models.Bucket
	if err := s.db.First(&bucket, input.BucketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBucketNotFound
		}
		return nil, err
	}

	tx := &models.Transaction{
		Name:        input.Name,
		Description: input.Description,
		Amount:      input.Amount,
		BucketID:    input.BucketID,
		ImportID:    input.ImportID,
		Date:        input.Date,
		OriginalRow: input.OriginalRow,
		Reviewed:    input.Reviewed,
	}

	err := s.db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Create(tx).Error; err != nil {
			return fmt.Errorf("创建交易失败: %w", err)
		}
		next := ledger.SnapshotOf(tx)
		if err := ledger.Apply(dtx, ledger.Deltas(nil, &next)); err != nil {
			return err
		}
		return attachTags(dtx, tx.ID, input.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// UpdateTransactionInput 修改交易入参，nil 字段保持不变
type UpdateTransactionInput struct {
	Name        *string
	Description *string
	Amount      *int64
	BucketID    *uint
	Date        *time.Time
	Reviewed    *bool
}

// Update 修改交易并按前后快照差额结算余额
func (s *TransactionService) Update(id uint, input UpdateTransactionInput) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	prev := ledger.SnapshotOf(&tx)

	if input.Name != nil {
		tx.Name = *input.Name
	}
	if input.Description != nil {
		tx.Description = *input.Description
	}
	if input.Amount != nil {
		tx.Amount = *input.Amount
	}
	if input.BucketID != nil && *input.BucketID != tx.BucketID {
		var bucket models.Bucket
		if err := s.db.First(&bucket, *input.BucketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBucketNotFound
			}
			return nil, err
		}
		tx.BucketID = *input.BucketID
	}
	if input.Date != nil {
		tx.Date = *input.Date
	}
	if input.Reviewed != nil {
		tx.Reviewed = *input.Reviewed
	}

	err := s.db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Save(&tx).Error; err != nil {
			return fmt.Errorf("更新交易失败: %w", err)
		}
		next := ledger.SnapshotOf(&tx)
		return ledger.Apply(dtx, ledger.Deltas(&prev, &next))
	})
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// SetArchived 归档或恢复交易：归档的已核对交易从余额中撤出，恢复时重新记入
func (s *TransactionService) SetArchived(id uint, archived bool) error {
	var tx models.Transaction
	if err := s.db.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}
	if tx.Archived == archived {
		return nil
	}

	prev := ledger.SnapshotOf(&tx)
	tx.Archived = archived

	return s.db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Model(&models.Transaction{}).Where("id = ?", tx.ID).
			Update("archived", archived).Error; err != nil {
			return fmt.Errorf("更新归档状态失败: %w", err)
		}
		next := ledger.SnapshotOf(&tx)
		return ledger.Apply(dtx, ledger.Deltas(&prev, &next))
	})
}

// Delete 硬删除交易，撤销其余额贡献并清理标签关联
func (s *TransactionService) Delete(id uint) error {
	var tx models.Transaction
	if err := s.db.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}

	prev := ledger.SnapshotOf(&tx)

	return s.db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Delete(&models.Transaction{}, tx.ID).Error; err != nil {
			return fmt.Errorf("删除交易失败: %w", err)
		}
		if err := dtx.Where("transaction_id = ?", tx.ID).
			Delete(&models.TransactionTag{}).Error; err != nil {
			return fmt.Errorf("清理标签关联失败: %w", err)
		}
		return ledger.Apply(dtx, ledger.Deltas(&prev, nil))
	})
}

// BulkUpdateInput 批量修改入参，nil 字段不生效
type BulkUpdateInput struct {
	Name     *string
	Reviewed *bool
	TagIDs   *[]uint // 非 nil 时整体替换标签集合
}

// BulkUpdate 对一批交易应用相同修改。
// 不存在的交易 ID 静默跳过；TagIDs 非 nil 时删除原有全部标签关联后重建，
// 无法解析的标签 ID 静默跳过。核对状态翻转照常经过 ledger 结算。
func (s *TransactionService) BulkUpdate(ids []uint, input BulkUpdateInput) error {
	for _, id := range ids {
		_, err := s.Update(id, UpdateTransactionInput{
			Name:     input.Name,
			Reviewed: input.Reviewed,
		})
		if errors.Is(err, ErrTransactionNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		if input.TagIDs != nil {
			if err := s.ReplaceTags(id, *input.TagIDs); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReplaceTags 整体替换交易的标签集合
func (s *TransactionService) ReplaceTags(id uint, tagIDs []uint) error {
	return s.db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Where("transaction_id = ?", id).
			Delete(&models.TransactionTag{}).Error; err != nil {
			return fmt.Errorf("清理标签关联失败: %w", err)
		}
		return attachTags(dtx, id, tagIDs)
	})
}

// attachTags 为交易挂接标签，不存在的标签静默跳过
func attachTags(dtx *gorm.DB, transactionID uint, tagIDs []uint) error {
	for _, tagID := range tagIDs {
		var tag models.Tag
		if err := dtx.First(&tag, tagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return err
		}
		link := models.TransactionTag{TransactionID: transactionID, TagID: tag.ID}
		if err := dtx.Create(&link).Error; err != nil {
			return fmt.Errorf("创建标签关联失败: %w", err)
		}
	}
	return nil
}

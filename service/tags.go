package service

import (
	"errors"
	"fmt"

	"budget/models"

	"gorm.io/gorm"
)

// TagService 标签聚合服务，解析交易↔标签、预算↔标签的多对多关系
type TagService struct {
	db *gorm.DB
}

// NewTagService 创建标签服务
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// TransactionWithTags 交易及其完整标签集合
type TransactionWithTags struct {
	Transaction models.Transaction `json:"transaction"`
	Tags        []models.Tag       `json:"tags"`
}

// TransactionsForTag 查询携带某标签的全部交易，每条交易附带其当前完整
// 标签集合（不止查询标签本身）
func (s *TagService) TransactionsForTag(tagID uint) ([]TransactionWithTags, error) {
	var transactions []models.Transaction
	err := s.db.Model(&models.Transaction{}).
		Joins("INNER JOIN transaction_tags ON transaction_tags.transaction_id = transactions.id").
		Where("transaction_tags.tag_id = ?", tagID).
		Order("transactions.date").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("按标签查询交易失败: %w", err)
	}

	result := make([]TransactionWithTags, 0, len(transactions))
	for _, t := range transactions {
		tags, err := s.TagsForTransaction(t.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, TransactionWithTags{Transaction: t, Tags: tags})
	}
	return result, nil
}

// TagsForTransaction 查询交易的全部标签
func (s *TagService) TagsForTransaction(transactionID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Model(&models.Tag{}).
		Joins("INNER JOIN transaction_tags ON transaction_tags.tag_id = tags.id").
		Where("transaction_tags.transaction_id = ?", transactionID).
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("查询交易标签失败: %w", err)
	}
	return tags, nil
}

// DeleteTag 删除标签并级联删除其全部交易/预算关联
func (s *TagService) DeleteTag(id uint) error {
	var tag models.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		return err
	}

	return s.db.Transaction(func(dtx *gorm.DB) error {
		if err := dtx.Where("tag_id = ?", tag.ID).Delete(&models.TransactionTag{}).Error; err != nil {
			return fmt.Errorf("清理交易标签关联失败: %w", err)
		}
		if err := dtx.Where("tag_id = ?", tag.ID).Delete(&models.BudgetTag{}).Error; err != nil {
			return fmt.Errorf("清理预算标签关联失败: %w", err)
		}
		return dtx.Delete(&models.Tag{}, tag.ID).Error
	})
}

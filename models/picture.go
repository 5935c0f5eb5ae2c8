package models

import (
	"time"
)

// TransactionPicture 交易凭证图片元数据（小票、回单等）
type TransactionPicture struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:100;not null"`
	Description   string    `json:"description" gorm:"size:255"`
	TransactionID uint      `json:"transaction_id" gorm:"index;not null"`
	Filename      string    `json:"filename" gorm:"size:255;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 设置表名
func (TransactionPicture) TableName() string {
	return "transaction_pictures"
}

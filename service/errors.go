package service

import "errors"

// 领域错误，API 层据此映射状态码与提示信息
var (
	ErrBucketNotFound      = errors.New("bucket not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrImportNotFound      = errors.New("import not found")
	ErrInvalidBudgetType   = errors.New("invalid budget type")
	ErrZeroBudgetAmount    = errors.New("budget amount is zero")
	ErrInvalidCSV          = errors.New("invalid csv")
)

package api

import (
	"errors"
	"strconv"
	"time"

	"budget/database"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易处理器
type TransactionHandler struct{}

// NewTransactionHandler 创建交易处理器
func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

// 交易日期支持的格式
var transactionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// 与数据库连接的 loc=Local 保持一致，避免窗口边界随时区漂移
func parseTransactionDate(s string) (time.Time, error) {
	for _, layout := range transactionDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("日期格式错误")
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	BucketID    uint   `json:"bucket_id" binding:"required" example:"1"`
	Name        string `json:"name" binding:"required,max=100" example:"午餐"`
	Amount      int64  `json:"amount" binding:"required" example:"-4500"` // 最小货币单位（分），支出为负
	Date        string `json:"date" binding:"required" example:"2024-01-15"`
	Tags        []uint `json:"tags"`
	Reviewed    bool   `json:"reviewed"`
	Description string `json:"description" example:"公司楼下"`
}

// UpdateTransactionRequest 更新交易请求，缺省字段保持不变
type UpdateTransactionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Amount      *int64  `json:"amount"`
	BucketID    *uint   `json:"bucket_id"`
	Date        *string `json:"date"`
	Reviewed    *bool   `json:"reviewed"`
	Tags        *[]uint `json:"tags"` // 非 null 时整体替换标签集合
}

// BulkUpdateRequest 批量更新请求
type BulkUpdateRequest struct {
	Transactions []uint  `json:"transactions" binding:"required"`
	Name         *string `json:"name"`
	Tags         *[]uint `json:"tags"`
	Reviewed     *bool   `json:"reviewed"`
}

// TransactionListRequest 交易列表请求
type TransactionListRequest struct {
	Page     int    `form:"page" example:"1"`
	PageSize int    `form:"page_size" example:"10"`
	BucketID uint   `form:"bucket_id"`
	Reviewed *bool  `form:"reviewed"`
	Archived *bool  `form:"archived"`
	StartDay string `form:"start_day" example:"2024-01-01"`
	EndDay   string `form:"end_day" example:"2024-12-31"`
}

// Create 创建交易
// @Summary 创建交易
// @Description 手工录入一笔交易；已核对的交易立即计入桶余额
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "资金桶不存在"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	date, err := parseTransactionDate(req.Date)
	if err != nil {
		BadRequest(c, "日期格式错误")
		return
	}

	svc := service.NewTransactionService(database.DB)
	tx, err := svc.Create(service.CreateTransactionInput{
		BucketID:    req.BucketID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Reviewed:    req.Reviewed,
		TagIDs:      req.Tags,
	})
	if err != nil {
		if errors.Is(err, service.ErrBucketNotFound) {
			NotFound(c, "Bucket not found")
			return
		}
		InternalError(c, SafeErrorMessage(err, "创建交易失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", tx)
}

// List 获取交易列表
// @Summary 获取交易列表
// @Description 支持分页、按桶、核对状态、归档状态和日期范围筛选
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param bucket_id query int false "桶筛选"
// @Param reviewed query bool false "核对状态筛选"
// @Param archived query bool false "归档状态筛选"
// @Param start_day query string false "开始日期 (2024-01-01)"
// @Param end_day query string false "结束日期 (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "获取成功"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{})
	if req.BucketID != 0 {
		query = query.Where("bucket_id = ?", req.BucketID)
	}
	if req.Reviewed != nil {
		query = query.Where("reviewed = ?", *req.Reviewed)
	}
	if req.Archived != nil {
		query = query.Where("archived = ?", *req.Archived)
	}
	if req.StartDay != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartDay, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if req.EndDay != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndDay, time.Local); err == nil {
			// 包含结束日期当天
			query = query.Where("date < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC").Offset(offset).Limit(req.PageSize).Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     transactions,
	})
}

// Update 更新交易
// @Summary 更新交易
// @Description 金额、所属桶或核对状态的变化会自动结算相关桶的余额
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Param request body UpdateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	input := service.UpdateTransactionInput{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		BucketID:    req.BucketID,
		Reviewed:    req.Reviewed,
	}
	if req.Date != nil {
		date, err := parseTransactionDate(*req.Date)
		if err != nil {
			BadRequest(c, "日期格式错误")
			return
		}
		input.Date = &date
	}

	svc := service.NewTransactionService(database.DB)
	tx, err := svc.Update(uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			NotFound(c, "交易不存在")
		case errors.Is(err, service.ErrBucketNotFound):
			NotFound(c, "Bucket not found")
		default:
			InternalError(c, SafeErrorMessage(err, "更新交易失败"))
		}
		return
	}

	if req.Tags != nil {
		if err := svc.ReplaceTags(tx.ID, *req.Tags); err != nil {
			InternalError(c, SafeErrorMessage(err, "更新标签失败"))
			return
		}
	}

	SuccessWithMessage(c, "更新成功", tx)
}

// BulkUpdate 批量更新交易
// @Summary 批量更新交易
// @Description 对一批交易统一修改名称、核对状态或整体替换标签。不存在的交易 ID 与标签 ID 静默跳过。
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkUpdateRequest true "批量更新内容"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/transactions/bulk [put]
func (h *TransactionHandler) BulkUpdate(c *gin.Context) {
	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	svc := service.NewTransactionService(database.DB)
	err := svc.BulkUpdate(req.Transactions, service.BulkUpdateInput{
		Name:     req.Name,
		Reviewed: req.Reviewed,
		TagIDs:   req.Tags,
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "批量更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", nil)
}

// Archive 归档交易
// @Summary 归档交易
// @Description 归档后交易不再计入桶余额，可随时恢复
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "归档成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id}/archive [post]
func (h *TransactionHandler) Archive(c *gin.Context) {
	h.setArchived(c, true, "归档成功")
}

// Restore 恢复交易
// @Summary 恢复已归档交易
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "恢复成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id}/restore [post]
func (h *TransactionHandler) Restore(c *gin.Context) {
	h.setArchived(c, false, "恢复成功")
}

func (h *TransactionHandler) setArchived(c *gin.Context, archived bool, okMsg string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	svc := service.NewTransactionService(database.DB)
	if err := svc.SetArchived(uint(id), archived); err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			NotFound(c, "交易不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "操作失败"))
		return
	}
	SuccessWithMessage(c, okMsg, nil)
}

// Delete 删除交易
// @Summary 删除交易
// @Description 硬删除，已核对交易的余额贡献会被撤销
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	svc := service.NewTransactionService(database.DB)
	if err := svc.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			NotFound(c, "交易不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

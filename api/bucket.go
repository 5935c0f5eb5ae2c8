package api

import (
	"strconv"

	"budget/database"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// BucketHandler 资金桶处理器
type BucketHandler struct{}

// NewBucketHandler 创建资金桶处理器
func NewBucketHandler() *BucketHandler {
	return &BucketHandler{}
}

// CreateBucketRequest 创建资金桶请求
// 不包含 balance：余额是派生缓存，只能由交易结算驱动
type CreateBucketRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"工资卡"`
	Description string `json:"description" example:"招行借记卡"`
	Type        string `json:"type" binding:"required" example:"checking"`
	Color       string `json:"color" example:"#3b82f6"`
	Icon        string `json:"icon" example:"wallet"`
	IsDefault   bool   `json:"is_default"`
}

// UpdateBucketRequest 更新资金桶请求
type UpdateBucketRequest struct {
	Name        string `json:"name" example:"工资卡"`
	Description string `json:"description"`
	Type        string `json:"type" example:"checking"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	IsDefault   *bool  `json:"is_default"`
}

// Create 创建资金桶
// @Summary 创建资金桶
// @Description 创建一个新的资金桶（账户），初始余额为 0
// @Tags 资金桶
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBucketRequest true "资金桶信息"
// @Success 200 {object} Response{data=models.Bucket} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/buckets [post]
func (h *BucketHandler) Create(c *gin.Context) {
	var req CreateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	if !models.IsValidBucketType(req.Type) {
		BadRequest(c, "无效的桶类型")
		return
	}

	bucket := models.Bucket{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Color:       req.Color,
		Icon:        req.Icon,
		IsDefault:   req.IsDefault,
	}

	if err := database.DB.Create(&bucket).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建资金桶失败"))
		return
	}

	SuccessWithMessage(c, "创建成功", bucket)
}

// List 获取资金桶列表
// @Summary 获取资金桶列表
// @Tags 资金桶
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Bucket} "获取成功"
// @Router /api/v1/buckets [get]
func (h *BucketHandler) List(c *gin.Context) {
	var buckets []models.Bucket
	if err := database.DB.Order("is_default DESC, id").Find(&buckets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, buckets)
}

// Get 获取资金桶详情
// @Summary 获取资金桶详情
// @Tags 资金桶
// @Produce json
// @Security BearerAuth
// @Param id path int true "资金桶ID"
// @Success 200 {object} Response{data=models.Bucket} "获取成功"
// @Failure 404 {object} Response "资金桶不存在"
// @Router /api/v1/buckets/{id} [get]
func (h *BucketHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var bucket models.Bucket
	if err := database.DB.First(&bucket, id).Error; err != nil {
		NotFound(c, "Bucket not found")
		return
	}
	Success(c, bucket)
}

// Update 更新资金桶
// @Summary 更新资金桶
// @Description 更新名称、描述、类型等显示属性，余额不可直接修改
// @Tags 资金桶
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "资金桶ID"
// @Param request body UpdateBucketRequest true "资金桶信息"
// @Success 200 {object} Response{data=models.Bucket} "更新成功"
// @Failure 404 {object} Response "资金桶不存在"
// @Router /api/v1/buckets/{id} [put]
func (h *BucketHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var req UpdateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var bucket models.Bucket
	if err := database.DB.First(&bucket, id).Error; err != nil {
		NotFound(c, "Bucket not found")
		return
	}

	if req.Name != "" {
		bucket.Name = req.Name
	}
	if req.Description != "" {
		bucket.Description = req.Description
	}
	if req.Type != "" {
		if !models.IsValidBucketType(req.Type) {
			BadRequest(c, "无效的桶类型")
			return
		}
		bucket.Type = req.Type
	}
	if req.Color != "" {
		bucket.Color = req.Color
	}
	if req.Icon != "" {
		bucket.Icon = req.Icon
	}
	if req.IsDefault != nil {
		bucket.IsDefault = *req.IsDefault
	}

	if err := database.DB.Save(&bucket).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", bucket)
}

// Delete 删除资金桶
// @Summary 删除资金桶
// @Description 桶内仍有交易时拒绝删除
// @Tags 资金桶
// @Produce json
// @Security BearerAuth
// @Param id path int true "资金桶ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "桶内仍有交易"
// @Failure 404 {object} Response "资金桶不存在"
// @Router /api/v1/buckets/{id} [delete]
func (h *BucketHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var bucket models.Bucket
	if err := database.DB.First(&bucket, id).Error; err != nil {
		NotFound(c, "Bucket not found")
		return
	}

	var txCount int64
	database.DB.Model(&models.Transaction{}).Where("bucket_id = ?", bucket.ID).Count(&txCount)
	if txCount > 0 {
		BadRequest(c, "桶内仍有交易，请先删除或迁移交易")
		return
	}

	if err := database.DB.Delete(&bucket).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// Transactions 获取桶内交易列表
// @Summary 获取桶内交易列表
// @Description 按日期排序返回桶内全部交易，每条交易附带其完整标签集合
// @Tags 资金桶
// @Produce json
// @Security BearerAuth
// @Param id path int true "资金桶ID"
// @Success 200 {object} Response{data=[]service.TransactionWithTags} "获取成功"
// @Failure 404 {object} Response "资金桶不存在"
// @Router /api/v1/buckets/{id}/transactions [get]
func (h *BucketHandler) Transactions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var bucket models.Bucket
	if err := database.DB.First(&bucket, id).Error; err != nil {
		NotFound(c, "Bucket not found")
		return
	}

	var transactions []models.Transaction
	if err := database.DB.Where("bucket_id = ?", bucket.ID).
		Order("date").Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	tagSvc := service.NewTagService(database.DB)
	result := make([]service.TransactionWithTags, 0, len(transactions))
	for _, t := range transactions {
		tags, err := tagSvc.TagsForTransaction(t.ID)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "查询标签失败"))
			return
		}
		result = append(result, service.TransactionWithTags{Transaction: t, Tags: tags})
	}

	Success(c, result)
}

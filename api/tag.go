package api

import (
	"errors"
	"strconv"

	"budget/database"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// TagHandler 标签处理器
type TagHandler struct{}

// NewTagHandler 创建标签处理器
func NewTagHandler() *TagHandler {
	return &TagHandler{}
}

// TagRequest 创建/更新标签请求
type TagRequest struct {
	Name        string `json:"name" binding:"required,max=50" example:"餐饮"`
	Description string `json:"description" example:"吃饭相关"`
	Color       string `json:"color" example:"#ef4444"`
}

// Create 创建标签
// @Summary 创建标签
// @Tags 标签
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TagRequest true "标签信息"
// @Success 200 {object} Response{data=models.Tag} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	tag := models.Tag{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if err := database.DB.Create(&tag).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建标签失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", tag)
}

// List 获取标签列表
// @Summary 获取标签列表
// @Tags 标签
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Tag} "获取成功"
// @Router /api/v1/tags [get]
func (h *TagHandler) List(c *gin.Context) {
	var tags []models.Tag
	if err := database.DB.Order("name").Find(&tags).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, tags)
}

// Update 更新标签
// @Summary 更新标签
// @Tags 标签
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "标签ID"
// @Param request body TagRequest true "标签信息"
// @Success 200 {object} Response{data=models.Tag} "更新成功"
// @Failure 404 {object} Response "标签不存在"
// @Router /api/v1/tags/{id} [put]
func (h *TagHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var tag models.Tag
	if err := database.DB.First(&tag, id).Error; err != nil {
		NotFound(c, "标签不存在")
		return
	}

	tag.Name = req.Name
	tag.Description = req.Description
	if req.Color != "" {
		tag.Color = req.Color
	}
	if err := database.DB.Save(&tag).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}
	SuccessWithMessage(c, "更新成功", tag)
}

// Delete 删除标签
// @Summary 删除标签
// @Description 级联删除该标签在交易和预算上的全部关联
// @Tags 标签
// @Produce json
// @Security BearerAuth
// @Param id path int true "标签ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "标签不存在"
// @Router /api/v1/tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	svc := service.NewTagService(database.DB)
	if err := svc.DeleteTag(uint(id)); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			NotFound(c, "标签不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Transactions 查询携带某标签的交易
// @Summary 查询携带某标签的交易
// @Description 每条交易附带其完整标签集合，不止查询标签本身
// @Tags 标签
// @Produce json
// @Security BearerAuth
// @Param id path int true "标签ID"
// @Success 200 {object} Response{data=[]service.TransactionWithTags} "获取成功"
// @Router /api/v1/tags/{id}/transactions [get]
func (h *TagHandler) Transactions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	svc := service.NewTagService(database.DB)
	result, err := svc.TransactionsForTag(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, result)
}

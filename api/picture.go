package api

import (
	"strconv"

	"budget/database"
	"budget/models"

	"github.com/gin-gonic/gin"
)

// PictureHandler 交易凭证图片处理器，只管理元数据，不负责文件存取
type PictureHandler struct{}

// NewPictureHandler 创建凭证图片处理器
func NewPictureHandler() *PictureHandler {
	return &PictureHandler{}
}

// PictureRequest 创建凭证图片请求
type PictureRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"小票"`
	Description string `json:"description"`
	Filename    string `json:"filename" binding:"required,max=255" example:"receipt-20240115.jpg"`
}

// Create 为交易添加凭证图片
// @Summary 为交易添加凭证图片
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Param request body PictureRequest true "图片信息"
// @Success 200 {object} Response{data=models.TransactionPicture} "创建成功"
// @Failure 404 {object} Response "交易不存在"
// @Router /api/v1/transactions/{id}/pictures [post]
func (h *PictureHandler) Create(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var req PictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var tx models.Transaction
	if err := database.DB.First(&tx, id).Error; err != nil {
		NotFound(c, "交易不存在")
		return
	}

	pic := models.TransactionPicture{
		Name:          req.Name,
		Description:   req.Description,
		TransactionID: tx.ID,
		Filename:      req.Filename,
	}
	if err := database.DB.Create(&pic).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建失败"))
		return
	}
	SuccessWithMessage(c, "创建成功", pic)
}

// List 获取交易的凭证图片列表
// @Summary 获取交易的凭证图片列表
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易ID"
// @Success 200 {object} Response{data=[]models.TransactionPicture} "获取成功"
// @Router /api/v1/transactions/{id}/pictures [get]
func (h *PictureHandler) List(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var pics []models.TransactionPicture
	if err := database.DB.Where("transaction_id = ?", id).Find(&pics).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, pics)
}

// Delete 删除凭证图片
// @Summary 删除凭证图片
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param id path int true "图片ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "图片不存在"
// @Router /api/v1/pictures/{id} [delete]
func (h *PictureHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	var pic models.TransactionPicture
	if err := database.DB.First(&pic, id).Error; err != nil {
		NotFound(c, "图片不存在")
		return
	}
	if err := database.DB.Delete(&pic).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

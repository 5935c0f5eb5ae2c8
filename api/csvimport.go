package api

import (
	"errors"
	"strconv"

	"budget/database"
	"budget/models"
	"budget/service"

	"github.com/gin-gonic/gin"
)

// ImportHandler CSV 导入处理器
type ImportHandler struct {
	email *service.EmailService // 可为 nil
}

// NewImportHandler 创建导入处理器
func NewImportHandler(email *service.EmailService) *ImportHandler {
	return &ImportHandler{email: email}
}

// CSVImportRequest CSV 导入请求
type CSVImportRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"一月流水"`
	Contents    string `json:"contents" binding:"required"`
	BucketID    uint   `json:"bucket_id" binding:"required" example:"1"`
	ForceReview bool   `json:"force_review"` // true 时导入的交易直接计入余额
}

// Import 导入 CSV 流水
// @Summary 导入 CSV 流水
// @Description 校验通过后创建导入批次并异步解析。解析采用整批提交：任何一行失败则整批不入库。仅管理员可用。
// @Tags 导入
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CSVImportRequest true "CSV 内容"
// @Success 200 {object} Response{data=models.CSVImport} "导入批次已创建"
// @Failure 400 {object} Response "Invalid CSV"
// @Failure 403 {object} Response "权限不足"
// @Failure 404 {object} Response "Bucket not found"
// @Router /api/v1/imports [post]
func (h *ImportHandler) Import(c *gin.Context) {
	var req CSVImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	svc := service.NewImportService(database.DB, h.email)
	imp, err := svc.Begin(req.Name, req.Contents, req.BucketID, req.ForceReview)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCSV):
			BadRequest(c, "Invalid CSV")
		case errors.Is(err, service.ErrBucketNotFound):
			NotFound(c, "Bucket not found")
		default:
			InternalError(c, SafeErrorMessage(err, "创建导入批次失败"))
		}
		return
	}

	// 解析放到后台执行，大文件不阻塞当前请求
	go func(importID uint) {
		_ = svc.Process(importID)
	}(imp.ID)

	SuccessWithMessage(c, "导入批次已创建", imp)
}

// List 获取导入批次列表
// @Summary 获取导入批次列表
// @Tags 导入
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.CSVImport} "获取成功"
// @Router /api/v1/imports [get]
func (h *ImportHandler) List(c *gin.Context) {
	var imports []models.CSVImport
	if err := database.DB.Order("id DESC").Find(&imports).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, imports)
}

// Delete 删除导入批次
// @Summary 删除导入批次
// @Description 级联硬删除批次派生的全部交易，余额逐笔撤销
// @Tags 导入
// @Produce json
// @Security BearerAuth
// @Param id path int true "批次ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "批次不存在"
// @Router /api/v1/imports/{id} [delete]
func (h *ImportHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	svc := service.NewImportService(database.DB, h.email)
	if err := svc.DeleteImport(uint(id)); err != nil {
		if errors.Is(err, service.ErrImportNotFound) {
			NotFound(c, "批次不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// Archive 归档导入批次
// @Summary 归档导入批次
// @Description 级联归档批次派生的全部交易
// @Tags 导入
// @Produce json
// @Security BearerAuth
// @Param id path int true "批次ID"
// @Success 200 {object} Response "归档成功"
// @Failure 404 {object} Response "批次不存在"
// @Router /api/v1/imports/{id}/archive [post]
func (h *ImportHandler) Archive(c *gin.Context) {
	h.setArchived(c, true, "归档成功")
}

// Restore 恢复导入批次
// @Summary 恢复已归档导入批次
// @Description 级联恢复批次派生的全部交易
// @Tags 导入
// @Produce json
// @Security BearerAuth
// @Param id path int true "批次ID"
// @Success 200 {object} Response "恢复成功"
// @Failure 404 {object} Response "批次不存在"
// @Router /api/v1/imports/{id}/restore [post]
func (h *ImportHandler) Restore(c *gin.Context) {
	h.setArchived(c, false, "恢复成功")
}

func (h *ImportHandler) setArchived(c *gin.Context, archived bool, okMsg string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "ID 格式错误")
		return
	}

	svc := service.NewImportService(database.DB, h.email)
	if err := svc.SetImportArchived(uint(id), archived); err != nil {
		if errors.Is(err, service.ErrImportNotFound) {
			NotFound(c, "批次不存在")
			return
		}
		InternalError(c, SafeErrorMessage(err, "操作失败"))
		return
	}
	SuccessWithMessage(c, okMsg, nil)
}
